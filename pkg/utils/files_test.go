package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"main.lx", "main.ll"},
		{"dir/prog.lx", "dir/prog.ll"},
		{"noext", "noext.ll"},
		{"a.b.lx", "a.b.ll"},
	}
	for _, tt := range tests {
		if got := OutputPath(tt.in, IRExt); got != tt.expected {
			t.Errorf("OutputPath(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}

func TestGetPathInfo(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "..", "x.lx")

	full, parent, err := GetPathInfo(path)
	if err != nil {
		t.Fatalf("GetPathInfo() error = %v", err)
	}
	if full != filepath.Join(dir, "x.lx") {
		t.Errorf("fullPath = %q", full)
	}
	if parent != dir {
		t.Errorf("parentDir = %q, want %q", parent, dir)
	}
}

func TestCreateFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "nested", "prog.ll")

	f, err := CreateFile(path)
	if err != nil {
		t.Fatalf("CreateFile() error = %v", err)
	}
	if _, err := f.WriteString("ok"); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "ok" {
		t.Errorf("file contents = %q, %v", data, err)
	}

	// A file in the way of a parent directory cannot be replaced.
	if _, err := CreateFile(filepath.Join(path, "child.ll")); err == nil {
		t.Error("CreateFile() under a regular file did not fail")
	}
}

func TestReadSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.lx")
	if err := os.WriteFile(path, []byte("func main() { return 1 }"), 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := ReadSource(path)
	if err != nil {
		t.Fatalf("ReadSource() error = %v", err)
	}
	if src != "func main() { return 1 }" {
		t.Errorf("ReadSource() = %q", src)
	}
	if _, err := ReadSource(filepath.Join(t.TempDir(), "missing.lx")); err == nil {
		t.Error("ReadSource(missing) did not fail")
	}
}

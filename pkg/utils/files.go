package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// SourceExt is the extension of LX source files.
const SourceExt = ".lx"

// IRExt is the extension given to emitted LLVM IR.
const IRExt = ".ll"

// GetPathInfo resolves relPath against the working directory. It returns the
// cleaned absolute path and the directory that holds it.
func GetPathInfo(relPath string) (fullPath string, parentDir string, err error) {
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}
	return fullPath, filepath.Dir(fullPath), nil
}

// CreateFile creates or truncates the file at path, creating any missing
// parent directories first.
func CreateFile(path string) (*os.File, error) {
	fullPath, parentDir, err := GetPathInfo(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(parentDir, 0o755); err != nil {
		return nil, err
	}
	return os.Create(fullPath)
}

// OutputPath swaps the extension of inPath for ext, or appends ext when
// inPath has none.
func OutputPath(inPath, ext string) string {
	old := filepath.Ext(inPath)
	if old == "" {
		return inPath + ext
	}
	return strings.TrimSuffix(inPath, old) + ext
}

// ReadSource reads a whole source file as text.
func ReadSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

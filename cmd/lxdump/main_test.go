package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestDumpAllStages(t *testing.T) {
	var buf bytes.Buffer
	show := stages{tokens: true, ast: true, scopes: true, ir: true}
	if err := dump(&buf, testSource, "builtin.lx", show); err != nil {
		t.Fatalf("dump() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Tokens (",
		"Function",
		"AST",
		"FunctionDefinition{",
		`Name: "add"`,
		"VariableAssignment{",
		"Symbol Tables",
		"func main:",
		"%x.addr",
		"Generated IR",
		"define internal i32 @add(i32 %a, i32 %b)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q", want)
		}
	}
	if strings.Contains(out, "Column:") {
		t.Errorf("AST dump includes token positions")
	}
}

func TestDumpSelectedStages(t *testing.T) {
	var buf bytes.Buffer
	if err := dump(&buf, testSource, "builtin.lx", stages{ir: true}); err != nil {
		t.Fatalf("dump() error = %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "Tokens (") || strings.Contains(out, "Symbol Tables") {
		t.Errorf("disabled stages were printed:\n%s", out)
	}
	if !strings.Contains(out, "define i32 @main()") {
		t.Errorf("IR missing:\n%s", out)
	}
}

func TestDumpStopsAtFirstError(t *testing.T) {
	var buf bytes.Buffer
	err := dump(&buf, "func main() { return y }", "bad.lx", stages{tokens: true, ast: true, ir: true})
	if err == nil {
		t.Fatal("dump() succeeded on an unbound name")
	}
	out := buf.String()
	if !strings.Contains(out, "codegen error:") {
		t.Errorf("missing codegen error line:\n%s", out)
	}
	if strings.Contains(out, "Generated IR") {
		t.Errorf("IR printed after a failure")
	}
}

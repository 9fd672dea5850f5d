package compiler

import (
	"fmt"
	"strings"
)

// LexErrorKind classifies a failed scan.
type LexErrorKind int

const (
	InvalidCharacter LexErrorKind = iota
	UnterminatedString
)

func (k LexErrorKind) String() string {
	switch k {
	case InvalidCharacter:
		return "invalid character"
	case UnterminatedString:
		return "unterminated string literal"
	}
	return fmt.Sprintf("LexErrorKind(%d)", int(k))
}

// LexError is returned by Lex. LineText is the full source line containing
// the offending character, captured at the point of failure.
type LexError struct {
	Kind     LexErrorKind
	Char     byte
	Line     int
	Column   int
	Index    int
	LineText string
}

func (e *LexError) Error() string {
	if e.Kind == InvalidCharacter {
		return fmt.Sprintf("line %d col %d: %s %q", e.Line, e.Column, e.Kind, e.Char)
	}
	return fmt.Sprintf("line %d col %d: %s", e.Line, e.Column, e.Kind)
}

// ParseErrorKind classifies a failed parse.
type ParseErrorKind int

const (
	UnexpectedToken ParseErrorKind = iota
	UnbalancedScope
)

func (k ParseErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "unexpected token"
	case UnbalancedScope:
		return "unbalanced scope"
	}
	return fmt.Sprintf("ParseErrorKind(%d)", int(k))
}

// ParseError is returned by Parse. When more than one token kind would be
// acceptable Expected is Undefined and Want describes what was expected.
type ParseError struct {
	Kind     ParseErrorKind
	Expected TokenKind
	Want     string
	Got      Token
	AtEOF    bool
	LineText string
}

// Expectation returns the human readable form of what the parser wanted.
func (e *ParseError) Expectation() string {
	if e.Expected == Undefined {
		return e.Want
	}
	return e.Expected.Pretty()
}

func (e *ParseError) Error() string {
	found := e.Got.Kind.Pretty()
	if e.AtEOF {
		found = "end of input"
	}
	if e.Kind == UnbalancedScope {
		return fmt.Sprintf("line %d: %s: found %s", e.Got.Line, e.Kind, found)
	}
	return fmt.Sprintf("line %d: %s: found %s, expected %s", e.Got.Line, e.Kind, found, e.Expectation())
}

// SemanticErrorKind classifies a name resolution failure.
type SemanticErrorKind int

const (
	VariableAlreadyExists SemanticErrorKind = iota
	VariableDoesntExist
)

func (k SemanticErrorKind) String() string {
	switch k {
	case VariableAlreadyExists:
		return "variable already exists"
	case VariableDoesntExist:
		return "variable doesn't exist"
	}
	return fmt.Sprintf("SemanticErrorKind(%d)", int(k))
}

// SemanticError reports a name that is bound twice or not bound at all in
// the function being lowered.
type SemanticError struct {
	Kind     SemanticErrorKind
	Function string
	Name     string
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("func %s: %s: %q", e.Function, e.Kind, e.Name)
}

// CodegenErrorKind classifies a lowering failure.
type CodegenErrorKind int

const (
	MalformedLiteral CodegenErrorKind = iota
	UnsupportedOperator
	UnknownFunction
	VoidReturnUnsupported
	UnexpectedMultiNode
	VerificationFailed
	DuplicateFunction
)

var codegenErrorNames = [...]string{
	MalformedLiteral:      "malformed literal",
	UnsupportedOperator:   "unsupported operator",
	UnknownFunction:       "unknown function",
	VoidReturnUnsupported: "void return unsupported",
	UnexpectedMultiNode:   "unexpected multi node",
	VerificationFailed:    "verification failed",
	DuplicateFunction:     "duplicate function",
}

func (k CodegenErrorKind) String() string {
	if int(k) >= 0 && int(k) < len(codegenErrorNames) {
		return codegenErrorNames[k]
	}
	return fmt.Sprintf("CodegenErrorKind(%d)", int(k))
}

// CodegenError is returned by Generate for anything that is not a name
// resolution failure.
type CodegenError struct {
	Kind     CodegenErrorKind
	Function string
	Detail   string
	Err      error
}

func (e *CodegenError) Error() string {
	msg := fmt.Sprintf("func %s: %s", e.Function, e.Kind)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CodegenError) Unwrap() error { return e.Err }

// lineAt returns the full line of src that contains byte offset index.
func lineAt(src string, index int) string {
	if index < 0 || index > len(src) {
		return ""
	}
	start := strings.LastIndexByte(src[:index], '\n') + 1
	end := strings.IndexByte(src[index:], '\n')
	if end < 0 {
		end = len(src)
	} else {
		end += index
	}
	return strings.TrimRight(src[start:end], "\r")
}

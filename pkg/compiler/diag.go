package compiler

import (
	"errors"
	"fmt"
	"strings"
)

// FormatDiagnostic renders err for a terminal. Lex and parse errors get the
// offending source line with a marker under the bad character or token:
//
//	Error: invalid character '@' in main.lx
//	Line: 3 | int x = @
//	                  ^
//
// Any other error is rendered on a single line.
func FormatDiagnostic(err error, file string) string {
	var lexErr *LexError
	if errors.As(err, &lexErr) {
		var head string
		if lexErr.Kind == InvalidCharacter {
			head = fmt.Sprintf("Error: %s %q in %s", lexErr.Kind, lexErr.Char, file)
		} else {
			head = fmt.Sprintf("Error: %s in %s", lexErr.Kind, file)
		}
		return head + "\n" + markLine(lexErr.Line, lexErr.LineText, lexErr.Column, 1, '^')
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		tok := parseErr.Got
		found := tok.Kind.Pretty()
		col, width := tok.Column, tok.Length
		if parseErr.AtEOF {
			found = "end of input"
			col += tok.Length
			width = 1
		}
		var head string
		if parseErr.Kind == UnbalancedScope {
			head = fmt.Sprintf("Error: unbalanced scope in %s, found %s", file, found)
		} else {
			head = fmt.Sprintf("Error: incorrect syntax in %s, found %s expected: %s", file, found, parseErr.Expectation())
		}
		return head + "\n" + markLine(tok.Line, parseErr.LineText, col, width, '~')
	}

	var semErr *SemanticError
	if errors.As(err, &semErr) {
		return fmt.Sprintf("Error: %s %q in function %s of %s", semErr.Kind, semErr.Name, semErr.Function, file)
	}

	var genErr *CodegenError
	if errors.As(err, &genErr) {
		return fmt.Sprintf("Error: %s in %s", genErr, file)
	}

	return fmt.Sprintf("Error: %v", err)
}

// markLine prints text prefixed with its line number and, below it, width
// copies of mark starting at the 1-based column. Tabs count as four
// columns in the lexer, so they are expanded to four spaces here.
func markLine(line int, text string, column, width int, mark byte) string {
	if width < 1 {
		width = 1
	}
	if column < 1 {
		column = 1
	}
	prefix := fmt.Sprintf("Line: %d | ", line)
	text = strings.ReplaceAll(text, "\t", "    ")
	return prefix + text + "\n" +
		strings.Repeat(" ", len(prefix)+column-1) +
		strings.Repeat(string(mark), width)
}

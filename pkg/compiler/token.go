package compiler

import (
	"fmt"
	"strings"
)

// TokenKind identifies the category of a lexed token.
type TokenKind int

const (
	Undefined TokenKind = iota // sentinel: never produced by a successful scan

	// Literals
	StringLiteral // "..."
	NumberLiteral // 42, 3.5, 2f
	Identifier    // variable / function name

	// Keywords
	Return   // "return"
	IntDec   // "int"
	For      // "for"
	While    // "while"
	If       // "if"
	Else     // "else"
	Elif     // "elif"
	Function // "func"

	// Paired delimiters
	OpenBracket  // {
	CloseBracket // }
	OpenBrace    // [
	CloseBrace   // ]
	OpenParen    // (
	CloseParen   // )

	// Punctuation
	Comma  // ,
	Assign // =

	// Arithmetic operators
	Add // +
	Sub // -
	Mul // *
	Div // /
)

var tokenNames = [...]string{
	Undefined:     "Undefined",
	StringLiteral: "StringLiteral",
	NumberLiteral: "NumberLiteral",
	Identifier:    "Identifier",
	Return:        "Return",
	IntDec:        "IntDec",
	For:           "For",
	While:         "While",
	If:            "If",
	Else:          "Else",
	Elif:          "Elif",
	Function:      "Function",
	OpenBracket:   "OpenBracket",
	CloseBracket:  "CloseBracket",
	OpenBrace:     "OpenBrace",
	CloseBrace:    "CloseBrace",
	OpenParen:     "OpenParen",
	CloseParen:    "CloseParen",
	Comma:         "Comma",
	Assign:        "Assign",
	Add:           "Add",
	Sub:           "Sub",
	Mul:           "Mul",
	Div:           "Div",
}

func (k TokenKind) String() string {
	if int(k) >= 0 && int(k) < len(tokenNames) {
		return tokenNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Pretty returns the lowercase, space separated form of the kind used in
// diagnostics, e.g. "open paren" for OpenParen.
func (k TokenKind) Pretty() string {
	name := k.String()
	var sb strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				sb.WriteByte(' ')
			}
			r += 'a' - 'A'
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// keywords maps source text to its keyword TokenKind.
var keywords = map[string]TokenKind{
	"for":    For,
	"while":  While,
	"if":     If,
	"else":   Else,
	"elif":   Elif,
	"func":   Function,
	"return": Return,
	"int":    IntDec,
}

// symbols maps single characters to their delimiter kinds.
var symbols = map[byte]TokenKind{
	'{': OpenBracket,
	'}': CloseBracket,
	'[': OpenBrace,
	']': CloseBrace,
	'(': OpenParen,
	')': CloseParen,
	',': Comma,
	'=': Assign,
}

// operators maps the single-character arithmetic operators.
var operators = map[byte]TokenKind{
	'+': Add,
	'-': Sub,
	'*': Mul,
	'/': Div,
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Kind   TokenKind
	Text   string // only set for literals and identifiers
	Line   int    // 1-based source line
	Column int    // 1-based source column, tabs count as 4
	Index  int    // byte offset of the first character
	Length int    // columns covered, including string quotes
}

// newToken is the only constructor the lexer uses. An Undefined kind means a
// table lookup went wrong and is never a valid token.
func newToken(kind TokenKind, text string, line, column, index, length int) Token {
	if kind == Undefined {
		panic(fmt.Sprintf("token at line %d column %d has undefined kind", line, column))
	}
	return Token{Kind: kind, Text: text, Line: line, Column: column, Index: index, Length: length}
}

func (t Token) String() string {
	return fmt.Sprintf("%-14s %-10q  line %d col %d", t.Kind, t.Text, t.Line, t.Column)
}

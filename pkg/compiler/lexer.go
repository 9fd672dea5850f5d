package compiler

import (
	"context"
	"log/slog"
)

// Lexer holds all mutable state for a single scanning pass over src.
//
// Runs (words, numbers) are closed by looking at the character after the
// current one: a run ends on the character whose successor cannot extend it.
type Lexer struct {
	src    string
	index  int // byte offset of the character being examined
	line   int // current 1-based source line
	column int // current 1-based source column

	inWord    bool
	inNumber  bool
	sawDot    bool // number run already holds a decimal point
	sawSuffix bool // number run already holds the float suffix
	runStart  int
	runLine   int
	runColumn int

	inString     bool
	stringStart  int
	stringLine   int
	stringColumn int

	inComment bool

	trace  bool
	tokens []Token
}

func newLexer(src string) *Lexer {
	return &Lexer{
		src:    src,
		line:   1,
		column: 1,
		trace:  logger.Enabled(context.Background(), slog.LevelDebug),
	}
}

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }

// peek returns the character after the current one, or 0 at end of input.
func (l *Lexer) peek() byte {
	if l.index+1 >= len(l.src) {
		return 0
	}
	return l.src[l.index+1]
}

// extendsWord reports whether next continues an identifier or keyword.
func extendsWord(next byte) bool {
	return isLetter(next) || isDigit(next)
}

// extendsNumber reports whether next continues the current number literal.
// One decimal point is allowed, and a single trailing 'f' closes the run.
func (l *Lexer) extendsNumber(next byte) bool {
	if l.sawSuffix {
		return false
	}
	switch {
	case isDigit(next):
		return true
	case next == '.':
		return !l.sawDot
	case next == 'f':
		return true
	}
	return false
}

func (l *Lexer) emit(kind TokenKind, text string, line, column, index, length int) {
	l.tokens = append(l.tokens, newToken(kind, text, line, column, index, length))
}

func (l *Lexer) startRun() {
	l.runStart = l.index
	l.runLine = l.line
	l.runColumn = l.column
}

func (l *Lexer) absorbNumber(c byte) {
	switch c {
	case '.':
		l.sawDot = true
	case 'f':
		l.sawSuffix = true
	}
	if l.extendsNumber(l.peek()) {
		return
	}
	text := l.src[l.runStart : l.index+1]
	l.emit(NumberLiteral, text, l.runLine, l.runColumn, l.runStart, len(text))
	l.inNumber = false
}

func (l *Lexer) absorbWord() {
	if extendsWord(l.peek()) {
		return
	}
	word := l.src[l.runStart : l.index+1]
	if kw, ok := keywords[word]; ok {
		l.emit(kw, "", l.runLine, l.runColumn, l.runStart, len(word))
	} else {
		l.emit(Identifier, word, l.runLine, l.runColumn, l.runStart, len(word))
	}
	l.inWord = false
}

func (l *Lexer) invalidChar(c byte) error {
	return &LexError{
		Kind:     InvalidCharacter,
		Char:     c,
		Line:     l.line,
		Column:   l.column,
		Index:    l.index,
		LineText: lineAt(l.src, l.index),
	}
}

// step classifies the character at l.index. Dispatch order matters: a quote
// is checked before anything else, so it opens a string even inside a
// comment, while a string swallows '#'.
func (l *Lexer) step() error {
	c := l.src[l.index]

	switch {
	case c == '"':
		if !l.inString {
			l.inString = true
			l.stringStart = l.index
			l.stringLine = l.line
			l.stringColumn = l.column
			break
		}
		text := l.src[l.stringStart+1 : l.index]
		l.emit(StringLiteral, text, l.stringLine, l.stringColumn, l.stringStart, len(text)+2)
		l.inString = false

	case l.inString:

	case c == '#':
		l.inComment = !l.inComment

	case l.inComment:

	case l.inNumber:
		l.absorbNumber(c)

	case l.inWord:
		l.absorbWord()

	case isDigit(c):
		l.inNumber = true
		l.sawDot = false
		l.sawSuffix = false
		l.startRun()
		l.absorbNumber(c)

	case isLetter(c):
		l.inWord = true
		l.startRun()
		l.absorbWord()

	default:
		if kind, ok := symbols[c]; ok {
			l.emit(kind, "", l.line, l.column, l.index, 1)
			break
		}
		if kind, ok := operators[c]; ok {
			l.emit(kind, "", l.line, l.column, l.index, 1)
			break
		}
		switch c {
		case ' ', '\r', '\t', '\n', ';':
		default:
			return l.invalidChar(c)
		}
	}

	if l.trace {
		logger.Debug("lex",
			"index", l.index,
			"line", l.line,
			"column", l.column,
			"char", string(c),
			"in_word", l.inWord,
			"in_number", l.inNumber,
			"in_string", l.inString,
			"in_comment", l.inComment,
		)
	}

	// Position bookkeeping runs for every character, including those
	// absorbed by strings and comments.
	switch c {
	case '\n':
		l.line++
		l.column = 1
	case '\t':
		l.column += 4
	default:
		l.column++
	}
	l.index++
	return nil
}

// Lex tokenises src in a single left-to-right pass.
// It returns a *LexError on the first invalid character or when the input
// ends inside a string literal. An unterminated comment runs to end of input.
func Lex(src string) ([]Token, error) {
	logger.Info("lexing", "bytes", len(src))

	l := newLexer(src)
	for l.index < len(l.src) {
		if err := l.step(); err != nil {
			return l.tokens, err
		}
	}

	if l.inString {
		return l.tokens, &LexError{
			Kind:     UnterminatedString,
			Char:     '"',
			Line:     l.stringLine,
			Column:   l.stringColumn,
			Index:    l.stringStart,
			LineText: lineAt(src, l.stringStart),
		}
	}

	if l.trace {
		for _, tok := range l.tokens {
			logger.Debug("token", "kind", tok.Kind.String(), "text", tok.Text,
				"line", tok.Line, "column", tok.Column, "index", tok.Index, "length", tok.Length)
		}
	}
	logger.Info("lexed", "tokens", len(l.tokens))
	return l.tokens, nil
}

package compiler

// Parser consumes the flat token slice produced by the Lexer and builds a
// FileAST. All state lives in the Parser value that every parse method
// receives, so each production can be driven on its own in tests.
//
// Grammar:
//
//	file        = function*
//	function    = "func" IDENT "(" [param ("," param)*] ")" "{" statement* "}"
//	param       = "int" IDENT
//	statement   = assignment | declaration | return | operation
//	assignment  = IDENT "=" operation
//	declaration = "int" IDENT ["=" operation]
//	return      = "return" [operation]
//	operation   = primary [("+" | "-" | "*" | "/") operation]
//	primary     = NUMBER | IDENT "(" [operation ("," operation)*] ")" | IDENT | "(" operation ")"
//
// operation is right-recursive, so every operator has the same priority and
// chains group to the right.
type Parser struct {
	tokens []Token
	index  int
	depth  int // open parentheses inside the current statement
	src    string
}

// NewParser returns a parser over tokens. src is only used to attach the
// offending source line to errors and may be empty.
func NewParser(tokens []Token, src string) *Parser {
	return &Parser{tokens: tokens, src: src}
}

// current returns the token under the cursor. At end of input it returns the
// last token (for positioning) and eof=true.
func (p *Parser) current() (tok Token, eof bool) {
	if p.index < len(p.tokens) {
		return p.tokens[p.index], false
	}
	if len(p.tokens) > 0 {
		return p.tokens[len(p.tokens)-1], true
	}
	return Token{Line: 1, Column: 1}, true
}

// check reports whether the current token has kind k.
func (p *Parser) check(k TokenKind) bool {
	return p.checkAt(0, k)
}

// checkAt reports whether the token offset positions ahead has kind k.
func (p *Parser) checkAt(offset int, k TokenKind) bool {
	i := p.index + offset
	return i < len(p.tokens) && p.tokens[i].Kind == k
}

// advance consumes and returns the current token.
func (p *Parser) advance() Token {
	tok, eof := p.current()
	if !eof {
		p.index++
	}
	return tok
}

func (p *Parser) lineText(tok Token) string {
	if p.src == "" {
		return ""
	}
	return lineAt(p.src, tok.Index)
}

func (p *Parser) unexpected(expected TokenKind, want string) error {
	tok, eof := p.current()
	return &ParseError{
		Kind:     UnexpectedToken,
		Expected: expected,
		Want:     want,
		Got:      tok,
		AtEOF:    eof,
		LineText: p.lineText(tok),
	}
}

func (p *Parser) unbalanced() error {
	tok, eof := p.current()
	return &ParseError{
		Kind:     UnbalancedScope,
		Got:      tok,
		AtEOF:    eof,
		LineText: p.lineText(tok),
	}
}

// missing is the error for a production that required a value and found
// none. Running out of tokens here always leaves a scope open.
func (p *Parser) missing(want string) error {
	if _, eof := p.current(); eof {
		return p.unbalanced()
	}
	return p.unexpected(Undefined, want)
}

// expect consumes the current token if it has kind k, otherwise returns an error.
func (p *Parser) expect(k TokenKind) (Token, error) {
	tok, eof := p.current()
	if eof || tok.Kind != k {
		return tok, p.unexpected(k, "")
	}
	p.index++
	return tok, nil
}

// expectInParens is expect for tokens inside an open "(": running out of
// input there leaves the scope unbalanced.
func (p *Parser) expectInParens(k TokenKind) (Token, error) {
	if _, eof := p.current(); eof {
		return Token{}, p.unbalanced()
	}
	return p.expect(k)
}

// closeParen consumes the ")" that balances an earlier "(".
func (p *Parser) closeParen(want string) error {
	tok, eof := p.current()
	if eof || tok.Kind == CloseBracket {
		return p.unbalanced()
	}
	if tok.Kind != CloseParen {
		return p.unexpected(Undefined, want)
	}
	p.index++
	p.depth--
	return nil
}

// parsePrimary returns nil without consuming anything when the current token
// cannot start a value; callers decide whether that is an error.
func (p *Parser) parsePrimary() (Node, error) {
	tok, eof := p.current()
	if eof {
		return nil, nil
	}

	switch tok.Kind {
	case NumberLiteral:
		p.index++
		return &NumberLit{Text: tok.Text}, nil

	case Identifier:
		if p.checkAt(1, OpenParen) {
			return p.parseCall()
		}
		p.index++
		return &VariableAccess{Name: tok.Text}, nil

	case OpenParen:
		p.index++
		p.depth++
		inner, err := p.parseOperation()
		if err != nil {
			return nil, err
		}
		if inner == nil {
			return nil, p.missing("value")
		}
		if err := p.closeParen("close paren"); err != nil {
			return nil, err
		}
		return inner, nil

	case CloseParen:
		if p.depth == 0 {
			return nil, p.unbalanced()
		}

	case CloseBracket:
		if p.depth > 0 {
			return nil, p.unbalanced()
		}
	}
	return nil, nil
}

// parseCall parses name(args). The identifier is at the cursor and the
// next token is known to be "(".
func (p *Parser) parseCall() (Node, error) {
	name := p.advance()
	p.advance() // (
	p.depth++

	call := &FunctionCall{Name: name.Text}
	if p.check(CloseParen) {
		p.index++
		p.depth--
		return call, nil
	}

	for {
		arg, err := p.parseOperation()
		if err != nil {
			return nil, err
		}
		if arg == nil {
			return nil, p.missing("argument")
		}
		call.Args = append(call.Args, arg)

		if p.check(Comma) {
			p.index++
			continue
		}
		if err := p.closeParen("comma or close paren"); err != nil {
			return nil, err
		}
		return call, nil
	}
}

// parseOperation parses primary [op operation].
func (p *Parser) parseOperation() (Node, error) {
	lhs, err := p.parsePrimary()
	if err != nil || lhs == nil {
		return lhs, err
	}

	tok, eof := p.current()
	if eof {
		return lhs, nil
	}
	op, ok := binaryOps[tok.Kind]
	if !ok {
		return lhs, nil
	}
	p.index++

	rhs, err := p.parseOperation()
	if err != nil {
		return nil, err
	}
	if rhs == nil {
		return nil, p.missing("value")
	}
	return &Operation{LHS: lhs, Op: op, RHS: rhs}, nil
}

// parseReturn handles return [operation]; a missing value is a void return.
func (p *Parser) parseReturn() (Node, error) {
	if !p.check(Return) {
		return p.parseOperation()
	}
	p.index++

	value, err := p.parseOperation()
	if err != nil {
		return nil, err
	}
	return &ReturnStatement{Value: value}, nil
}

// parseDeclaration handles int name [= operation]. An initializer desugars
// into a declaration followed by an assignment.
func (p *Parser) parseDeclaration() (Node, error) {
	if !p.check(IntDec) {
		return p.parseReturn()
	}
	p.index++

	name, err := p.expect(Identifier)
	if err != nil {
		return nil, err
	}
	decl := &VariableDeclaration{Name: name.Text}
	if !p.check(Assign) {
		return decl, nil
	}
	p.index++

	init, err := p.parseOperation()
	if err != nil {
		return nil, err
	}
	if init == nil {
		return nil, p.missing("value")
	}
	return &MultiNode{Children: []Node{
		decl,
		&VariableAssignment{Name: name.Text, Value: init},
	}}, nil
}

// parseAssignment handles name = operation.
func (p *Parser) parseAssignment() (Node, error) {
	if !p.check(Identifier) || !p.checkAt(1, Assign) {
		return p.parseDeclaration()
	}
	name := p.advance()
	p.advance() // =

	value, err := p.parseOperation()
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, p.missing("value")
	}
	return &VariableAssignment{Name: name.Text, Value: value}, nil
}

// parseStatement is the entry point of the statement chain.
func (p *Parser) parseStatement() (Node, error) {
	node, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, p.missing("statement")
	}
	return node, nil
}

// appendFlattened appends n to body, splicing in the children of a MultiNode.
func appendFlattened(body []Node, n Node) []Node {
	if m, ok := n.(*MultiNode); ok {
		for _, child := range m.Children {
			body = appendFlattened(body, child)
		}
		return body
	}
	return append(body, n)
}

// parseFunction parses one func definition, including its body.
func (p *Parser) parseFunction() (*FunctionDefinition, error) {
	if _, err := p.expect(Function); err != nil {
		return nil, err
	}
	name, err := p.expect(Identifier)
	if err != nil {
		return nil, err
	}
	fn := &FunctionDefinition{Name: name.Text, Token: name}

	if _, err := p.expect(OpenParen); err != nil {
		return nil, err
	}
	if p.check(CloseParen) {
		p.index++
	} else {
		for {
			if _, err := p.expectInParens(IntDec); err != nil {
				return nil, err
			}
			param, err := p.expectInParens(Identifier)
			if err != nil {
				return nil, err
			}
			fn.Params = append(fn.Params, param.Text)

			if p.check(Comma) {
				p.index++
				continue
			}
			if p.check(CloseParen) {
				p.index++
				break
			}
			return nil, p.missing("comma or close paren")
		}
	}

	if _, err := p.expect(OpenBracket); err != nil {
		return nil, err
	}

	for {
		tok, eof := p.current()
		if eof {
			return nil, p.unbalanced()
		}
		if tok.Kind == CloseBracket {
			if p.depth != 0 {
				return nil, p.unbalanced()
			}
			p.index++
			break
		}

		node, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		fn.Body = appendFlattened(fn.Body, node)
	}

	for _, n := range fn.Body {
		logger.Debug("node", "function", fn.Name, "node", n.String())
	}
	return fn, nil
}

// Parse builds the FileAST for tokens. It stops at the first error, which is
// a *ParseError carrying the offending token.
func Parse(tokens []Token, src string) (*FileAST, error) {
	logger.Info("parsing", "tokens", len(tokens))

	p := NewParser(tokens, src)
	file := &FileAST{}
	for p.index < len(p.tokens) {
		fn, err := p.parseFunction()
		if err != nil {
			return nil, err
		}
		file.Functions = append(file.Functions, fn)
	}

	logger.Info("parsed", "functions", len(file.Functions))
	return file, nil
}

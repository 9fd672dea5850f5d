package compiler

import (
	"fmt"
	"strings"
)

// Node is implemented by every AST variant. The set is closed: the marker
// method is unexported, so lowering can switch over the concrete types.
type Node interface {
	node()
	String() string
}

// BinaryOp is a two-sided arithmetic operator.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
)

func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	}
	return fmt.Sprintf("BinaryOp(%d)", int(op))
}

// binaryOps maps operator tokens to their AST operator.
var binaryOps = map[TokenKind]BinaryOp{
	Add: OpAdd,
	Sub: OpSub,
	Mul: OpMul,
	Div: OpDiv,
}

// NumberLit is a NumberLiteral token in the tree. It keeps the literal's
// source text, which is converted to an integer during lowering.
//
//	return 42
//	       ^^  NumberLit{Text: "42"}
type NumberLit struct {
	Text string
}

func (*NumberLit) node()            {}
func (n *NumberLit) String() string { return n.Text }

// Operation represents LHS Op RHS. Chains nest to the right:
//
//	1 - 2 - 3  =>  Operation{1, -, Operation{2, -, 3}}
type Operation struct {
	LHS Node
	Op  BinaryOp
	RHS Node
}

func (*Operation) node() {}
func (o *Operation) String() string {
	return fmt.Sprintf("(%s %s %s)", o.LHS, o.Op, o.RHS)
}

// ReturnStatement represents return [value]. Value is nil for a void return.
type ReturnStatement struct {
	Value Node
}

func (*ReturnStatement) node() {}
func (r *ReturnStatement) String() string {
	if r.Value == nil {
		return "ReturnStatement()"
	}
	return fmt.Sprintf("ReturnStatement(%s)", r.Value)
}

// VariableDeclaration represents int name
type VariableDeclaration struct {
	Name string
}

func (*VariableDeclaration) node() {}
func (d *VariableDeclaration) String() string {
	return fmt.Sprintf("VariableDeclaration(%s)", d.Name)
}

// VariableAssignment represents name = value
type VariableAssignment struct {
	Name  string
	Value Node
}

func (*VariableAssignment) node() {}
func (a *VariableAssignment) String() string {
	return fmt.Sprintf("VariableAssignment(%s = %s)", a.Name, a.Value)
}

// VariableAccess is a read of a named parameter or local.
type VariableAccess struct {
	Name string
}

func (*VariableAccess) node()            {}
func (v *VariableAccess) String() string { return v.Name }

// FunctionCall represents name(args)
type FunctionCall struct {
	Name string
	Args []Node
}

func (*FunctionCall) node() {}
func (c *FunctionCall) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("FunctionCall(%s, args=[%s])", c.Name, strings.Join(args, ", "))
}

// MultiNode groups the statements a single construct desugars into, e.g.
// int x = 5 becomes [VariableDeclaration(x), VariableAssignment(x = 5)].
// The parser flattens it into the function body; it never reaches lowering.
type MultiNode struct {
	Children []Node
}

func (*MultiNode) node() {}
func (m *MultiNode) String() string {
	return fmt.Sprintf("MultiNode(len=%d)", len(m.Children))
}

// FunctionDefinition represents func name(int a, int b) { body }
type FunctionDefinition struct {
	Name   string
	Params []string
	Body   []Node
	Token  Token // the name token, for diagnostics
}

func (f *FunctionDefinition) String() string {
	return fmt.Sprintf("FunctionDefinition(%s, params=%v, body=%d)", f.Name, f.Params, len(f.Body))
}

// FileAST is the parse result for one source file, functions in source order.
type FileAST struct {
	Functions []*FunctionDefinition
}

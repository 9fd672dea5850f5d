package compiler

import (
	"fmt"
	"strconv"

	"lxc/pkg/irgen"
)

// IRBuilder is the backend surface the code generator lowers into.
// *irgen.Builder is the production implementation.
type IRBuilder interface {
	DeclareFunction(name string, params []string, linkage irgen.Linkage) (*irgen.Function, error)
	Function(name string) (*irgen.Function, bool)
	Begin(fn *irgen.Function) []irgen.Value
	Terminated() bool

	ConstInt(n int64) irgen.Value
	Add(x, y irgen.Value) irgen.Value
	Sub(x, y irgen.Value) irgen.Value
	Mul(x, y irgen.Value) irgen.Value
	SDiv(x, y irgen.Value) irgen.Value

	Alloca(name string) irgen.Value
	Load(slot irgen.Value) irgen.Value
	Store(v, slot irgen.Value)

	Call(fn *irgen.Function, args []irgen.Value) irgen.Value
	Ret(v irgen.Value)

	Verify(fn *irgen.Function) error
}

// CodeGen walks a FileAST and issues IRBuilder calls.
type CodeGen struct {
	b      IRBuilder
	fn     *FunctionDefinition
	scope  *FunctionScope
	scopes []*FunctionScope
}

// NewCodeGen returns a generator that emits through b.
func NewCodeGen(b IRBuilder) *CodeGen {
	return &CodeGen{b: b}
}

// Scopes returns the symbol table of every function lowered so far.
func (cg *CodeGen) Scopes() []*FunctionScope {
	return cg.scopes
}

func (cg *CodeGen) errorf(kind CodegenErrorKind, err error, format string, args ...any) error {
	name := ""
	if cg.fn != nil {
		name = cg.fn.Name
	}
	return &CodegenError{Kind: kind, Function: name, Detail: fmt.Sprintf(format, args...), Err: err}
}

// linkageOf makes main the only externally visible function.
func linkageOf(name string) irgen.Linkage {
	if name == "main" {
		return irgen.External
	}
	return irgen.Internal
}

// Generate lowers every function of file. All headers are declared before
// any body is lowered, so calls may refer to functions defined later in
// the file. The first error aborts the whole file.
func (cg *CodeGen) Generate(file *FileAST) error {
	logger.Info("generating", "functions", len(file.Functions))

	for _, fn := range file.Functions {
		if _, err := cg.b.DeclareFunction(fn.Name, fn.Params, linkageOf(fn.Name)); err != nil {
			return &CodegenError{Kind: DuplicateFunction, Function: fn.Name, Err: err}
		}
	}

	for _, fn := range file.Functions {
		if err := cg.genFunction(fn); err != nil {
			return err
		}
	}
	return nil
}

func (cg *CodeGen) genFunction(fn *FunctionDefinition) error {
	cg.fn = fn
	f, ok := cg.b.Function(fn.Name)
	if !ok {
		return cg.errorf(UnknownFunction, nil, "%q was not declared", fn.Name)
	}

	args := cg.b.Begin(f)
	scope, err := NewFunctionScope(fn.Name, fn.Params, args)
	if err != nil {
		return err
	}
	cg.scope = scope
	cg.scopes = append(cg.scopes, scope)

	for _, n := range fn.Body {
		if _, err := cg.genNode(n); err != nil {
			return err
		}
	}

	// Falling off the end of a function returns success.
	if !cg.b.Terminated() {
		cg.b.Ret(cg.b.ConstInt(0))
	}

	if err := cg.b.Verify(f); err != nil {
		return cg.errorf(VerificationFailed, err, "")
	}
	logger.Debug("function generated", "function", fn.Name, "linkage", linkageOf(fn.Name).String())
	return nil
}

// genNode lowers n and returns the value it produces. Statements that
// produce nothing useful return the slot or stored value.
func (cg *CodeGen) genNode(n Node) (irgen.Value, error) {
	switch n := n.(type) {
	case *NumberLit:
		v, err := strconv.ParseInt(n.Text, 10, 32)
		if err != nil {
			return nil, cg.errorf(MalformedLiteral, nil, "%q", n.Text)
		}
		return cg.b.ConstInt(v), nil

	case *Operation:
		lhs, err := cg.genNode(n.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := cg.genNode(n.RHS)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case OpAdd:
			return cg.b.Add(lhs, rhs), nil
		case OpSub:
			return cg.b.Sub(lhs, rhs), nil
		case OpMul:
			return cg.b.Mul(lhs, rhs), nil
		case OpDiv:
			return cg.b.SDiv(lhs, rhs), nil
		}
		return nil, cg.errorf(UnsupportedOperator, nil, "%s", n.Op)

	case *VariableDeclaration:
		return cg.scope.Declare(n.Name, cg.b)

	case *VariableAssignment:
		slot, err := cg.scope.Slot(n.Name)
		if err != nil {
			return nil, err
		}
		v, err := cg.genNode(n.Value)
		if err != nil {
			return nil, err
		}
		cg.b.Store(v, slot)
		return v, nil

	case *VariableAccess:
		return cg.scope.Access(n.Name, cg.b)

	case *FunctionCall:
		args := make([]irgen.Value, 0, len(n.Args))
		for _, a := range n.Args {
			v, err := cg.genNode(a)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
		}
		callee, ok := cg.b.Function(n.Name)
		if !ok {
			return nil, cg.errorf(UnknownFunction, nil, "%q", n.Name)
		}
		return cg.b.Call(callee, args), nil

	case *ReturnStatement:
		if n.Value == nil {
			return nil, cg.errorf(VoidReturnUnsupported, nil, "")
		}
		v, err := cg.genNode(n.Value)
		if err != nil {
			return nil, err
		}
		cg.b.Ret(v)
		return v, nil

	case *MultiNode:
		return nil, cg.errorf(UnexpectedMultiNode, nil, "%d children", len(n.Children))
	}
	panic(fmt.Sprintf("genNode: unknown node type %T", n))
}

// Generate lowers file into b.
func Generate(file *FileAST, b IRBuilder) error {
	return NewCodeGen(b).Generate(file)
}

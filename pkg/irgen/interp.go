package irgen

import (
	"errors"
	"fmt"
	"math"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/value"
)

// MaxCallDepth bounds recursion in Run.
const MaxCallDepth = 1024

var (
	ErrDivideByZero = errors.New("integer divide by zero")
	ErrOverflow     = errors.New("integer division overflow")
	ErrCallDepth    = errors.New("call depth exceeded")
)

// Run executes the named function of m with args and returns its result.
// Only the instruction subset the code generator emits is supported. Slots
// that are loaded before being stored read as 0.
func Run(m *ir.Module, name string, args ...int64) (int64, error) {
	vm := &machine{funcs: make(map[string]*ir.Func)}
	for _, f := range m.Funcs {
		vm.funcs[f.Name()] = f
	}

	f, ok := vm.funcs[name]
	if !ok {
		return 0, fmt.Errorf("no function %q in module", name)
	}
	in := make([]int32, len(args))
	for i, a := range args {
		in[i] = int32(a)
	}
	out, err := vm.call(f, in)
	return int64(out), err
}

type machine struct {
	funcs map[string]*ir.Func
	depth int
}

// frame holds the values and stack slots of one activation.
type frame struct {
	values map[value.Value]int32
	slots  map[value.Value]int32
}

func (fr *frame) eval(v value.Value) (int32, error) {
	if c, ok := v.(*constant.Int); ok {
		return int32(c.X.Int64()), nil
	}
	x, ok := fr.values[v]
	if !ok {
		return 0, fmt.Errorf("use of undefined value %s", v.Ident())
	}
	return x, nil
}

func (fr *frame) operands(x, y value.Value) (int32, int32, error) {
	a, err := fr.eval(x)
	if err != nil {
		return 0, 0, err
	}
	b, err := fr.eval(y)
	return a, b, err
}

func (vm *machine) call(f *ir.Func, args []int32) (int32, error) {
	if vm.depth >= MaxCallDepth {
		return 0, ErrCallDepth
	}
	vm.depth++
	defer func() { vm.depth-- }()

	if len(f.Blocks) == 0 {
		return 0, fmt.Errorf("function %s has no body", f.Name())
	}
	if len(args) != len(f.Params) {
		return 0, fmt.Errorf("function %s takes %d argument(s), got %d", f.Name(), len(f.Params), len(args))
	}

	fr := &frame{
		values: make(map[value.Value]int32),
		slots:  make(map[value.Value]int32),
	}
	for i, p := range f.Params {
		fr.values[p] = args[i]
	}

	blk := f.Blocks[0]
	for _, inst := range blk.Insts {
		switch inst := inst.(type) {
		case *ir.InstAlloca:
			fr.slots[inst] = 0

		case *ir.InstLoad:
			v, ok := fr.slots[inst.Src]
			if !ok {
				return 0, fmt.Errorf("load from unknown slot %s", inst.Src.Ident())
			}
			fr.values[inst] = v

		case *ir.InstStore:
			v, err := fr.eval(inst.Src)
			if err != nil {
				return 0, err
			}
			if _, ok := fr.slots[inst.Dst]; !ok {
				return 0, fmt.Errorf("store to unknown slot %s", inst.Dst.Ident())
			}
			fr.slots[inst.Dst] = v

		case *ir.InstAdd:
			x, y, err := fr.operands(inst.X, inst.Y)
			if err != nil {
				return 0, err
			}
			fr.values[inst] = x + y

		case *ir.InstSub:
			x, y, err := fr.operands(inst.X, inst.Y)
			if err != nil {
				return 0, err
			}
			fr.values[inst] = x - y

		case *ir.InstMul:
			x, y, err := fr.operands(inst.X, inst.Y)
			if err != nil {
				return 0, err
			}
			fr.values[inst] = x * y

		case *ir.InstSDiv:
			x, y, err := fr.operands(inst.X, inst.Y)
			if err != nil {
				return 0, err
			}
			if y == 0 {
				return 0, ErrDivideByZero
			}
			if x == math.MinInt32 && y == -1 {
				return 0, ErrOverflow
			}
			fr.values[inst] = x / y

		case *ir.InstCall:
			callee, ok := inst.Callee.(*ir.Func)
			if !ok {
				return 0, fmt.Errorf("indirect call to %s", inst.Callee.Ident())
			}
			in := make([]int32, len(inst.Args))
			for i, a := range inst.Args {
				v, err := fr.eval(a)
				if err != nil {
					return 0, err
				}
				in[i] = v
			}
			out, err := vm.call(callee, in)
			if err != nil {
				return 0, err
			}
			fr.values[inst] = out

		default:
			return 0, fmt.Errorf("unsupported instruction %s", inst.LLString())
		}
	}

	ret, ok := blk.Term.(*ir.TermRet)
	if !ok || ret.X == nil {
		return 0, fmt.Errorf("function %s does not end in a value return", f.Name())
	}
	return fr.eval(ret.X)
}

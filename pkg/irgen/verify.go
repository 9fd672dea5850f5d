package irgen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/pkg/errors"
)

// VerifyError describes why a finished function is not valid IR.
type VerifyError struct {
	Function string
	Reason   string
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("invalid function %s: %s", e.Function, e.Reason)
}

// Verify checks the structural rules LLVM's verifier would reject:
// unterminated blocks, instructions after a terminator, mistyped returns,
// calls with the wrong number of arguments, and clashing local names.
func (b *Builder) Verify(fn *Function) error {
	name := fn.Name()
	fail := func(format string, args ...any) error {
		return &VerifyError{Function: name, Reason: fmt.Sprintf(format, args...)}
	}

	if len(fn.Blocks) == 0 {
		return fail("function has no body")
	}
	if n := b.stray[fn]; n > 0 {
		return fail("%d instruction(s) after block terminator", n)
	}

	locals := make(map[string]bool)
	define := func(local string) error {
		if local == "" {
			return nil
		}
		if locals[local] {
			return fail("local name %%%s defined more than once", local)
		}
		locals[local] = true
		return nil
	}
	for _, p := range fn.Params {
		if err := define(p.LocalName); err != nil {
			return err
		}
	}

	for _, blk := range fn.Blocks {
		if err := define(blk.LocalName); err != nil {
			return err
		}
		if blk.Term == nil {
			return fail("block %s has no terminator", blk.Name())
		}

		for _, inst := range blk.Insts {
			switch inst := inst.(type) {
			case *ir.InstAlloca:
				if err := define(inst.LocalName); err != nil {
					return err
				}
			case *ir.InstCall:
				callee, ok := inst.Callee.(*ir.Func)
				if !ok {
					return fail("indirect call to %s", inst.Callee.Ident())
				}
				if len(inst.Args) != len(callee.Params) {
					return fail("call to %s with %d argument(s), expected %d",
						callee.Name(), len(inst.Args), len(callee.Params))
				}
			}
		}

		if ret, ok := blk.Term.(*ir.TermRet); ok {
			if ret.X == nil || !types.Equal(ret.X.Type(), fn.Sig.RetType) {
				return fail("return does not produce %s", fn.Sig.RetType)
			}
		}
	}

	if err := fn.AssignIDs(); err != nil {
		return errors.Wrapf(err, "invalid function %s", name)
	}
	return nil
}

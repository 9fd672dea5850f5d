package compiler

import (
	"errors"
	"strings"
	"testing"

	"github.com/llir/llvm/ir"

	"lxc/pkg/irgen"
)

// newScope declares fn(params...) on a fresh builder and opens its body.
func newScope(t *testing.T, params ...string) (*FunctionScope, *irgen.Builder, []irgen.Value) {
	t.Helper()
	b := irgen.NewBuilder("scope_test")
	f, err := b.DeclareFunction("fn", params, irgen.Internal)
	if err != nil {
		t.Fatalf("DeclareFunction failed: %v", err)
	}
	args := b.Begin(f)
	s, err := NewFunctionScope("fn", params, args)
	if err != nil {
		t.Fatalf("NewFunctionScope failed: %v", err)
	}
	return s, b, args
}

func assertSemantic(t *testing.T, err error, kind SemanticErrorKind, name string) {
	t.Helper()
	var semErr *SemanticError
	if !errors.As(err, &semErr) {
		t.Fatalf("error = %v, want *SemanticError", err)
	}
	if semErr.Kind != kind || semErr.Name != name || semErr.Function != "fn" {
		t.Errorf("error = %+v, want %s %q in fn", *semErr, kind, name)
	}
}

func TestFunctionScope(t *testing.T) {
	t.Run("Params", func(t *testing.T) {
		s, b, args := newScope(t, "a", "b")
		if s.Lookup("a") != BoundParam || s.Lookup("b") != BoundParam {
			t.Errorf("params not bound: a=%s b=%s", s.Lookup("a"), s.Lookup("b"))
		}
		v, err := s.Access("b", b)
		if err != nil {
			t.Fatalf("Access(b) error = %v", err)
		}
		if v != args[1] {
			t.Errorf("Access(b) = %v, want the incoming argument", v)
		}
	})

	t.Run("DuplicateParam", func(t *testing.T) {
		b := irgen.NewBuilder("scope_test")
		f, _ := b.DeclareFunction("fn", []string{"a", "a"}, irgen.Internal)
		_, err := NewFunctionScope("fn", []string{"a", "a"}, b.Begin(f))
		assertSemantic(t, err, VariableAlreadyExists, "a")
	})

	t.Run("DeclareAndAccess", func(t *testing.T) {
		s, b, _ := newScope(t)
		slot, err := s.Declare("x", b)
		if err != nil {
			t.Fatalf("Declare(x) error = %v", err)
		}
		if s.Lookup("x") != BoundLocal {
			t.Errorf("Lookup(x) = %s, want local", s.Lookup("x"))
		}
		if _, ok := slot.(*ir.InstAlloca); !ok {
			t.Errorf("slot is %T, want *ir.InstAlloca", slot)
		}

		// Reading before any store is allowed: it is just a load of the slot.
		v, err := s.Access("x", b)
		if err != nil {
			t.Fatalf("Access(x) error = %v", err)
		}
		load, ok := v.(*ir.InstLoad)
		if !ok {
			t.Fatalf("Access(x) is %T, want *ir.InstLoad", v)
		}
		if load.Src != slot {
			t.Errorf("load reads %v, want the declared slot", load.Src)
		}
	})

	t.Run("RedeclareKeepsFirstSlot", func(t *testing.T) {
		s, b, _ := newScope(t)
		first, err := s.Declare("x", b)
		if err != nil {
			t.Fatalf("Declare(x) error = %v", err)
		}
		_, err = s.Declare("x", b)
		assertSemantic(t, err, VariableAlreadyExists, "x")

		slot, err := s.Slot("x")
		if err != nil {
			t.Fatalf("Slot(x) error = %v", err)
		}
		if slot != first {
			t.Errorf("second declaration replaced the first slot")
		}
	})

	t.Run("LocalShadowingParam", func(t *testing.T) {
		s, b, _ := newScope(t, "a")
		_, err := s.Declare("a", b)
		assertSemantic(t, err, VariableAlreadyExists, "a")
		if s.Lookup("a") != BoundParam {
			t.Errorf("Lookup(a) = %s, want param", s.Lookup("a"))
		}
	})

	t.Run("ParamsAreNotAssignable", func(t *testing.T) {
		s, _, _ := newScope(t, "a")
		_, err := s.Slot("a")
		assertSemantic(t, err, VariableDoesntExist, "a")
	})

	t.Run("Unbound", func(t *testing.T) {
		s, b, _ := newScope(t)
		if s.Lookup("y") != Unbound {
			t.Errorf("Lookup(y) = %s, want unbound", s.Lookup("y"))
		}
		_, err := s.Access("y", b)
		assertSemantic(t, err, VariableDoesntExist, "y")
		_, err = s.Slot("y")
		assertSemantic(t, err, VariableDoesntExist, "y")
	})

	t.Run("String", func(t *testing.T) {
		s, b, _ := newScope(t, "n")
		if _, err := s.Declare("total", b); err != nil {
			t.Fatalf("Declare failed: %v", err)
		}
		if _, err := s.Declare("acc", b); err != nil {
			t.Fatalf("Declare failed: %v", err)
		}
		dump := s.String()
		for _, want := range []string{"func fn:", "Params:", "%n", "Locals:", "%acc.addr", "%total.addr"} {
			if !strings.Contains(dump, want) {
				t.Errorf("dump missing %q:\n%s", want, dump)
			}
		}
		if strings.Index(dump, "acc") > strings.Index(dump, "total") {
			t.Errorf("locals not sorted:\n%s", dump)
		}
	})

	t.Run("EmptyString", func(t *testing.T) {
		s, _, _ := newScope(t)
		dump := s.String()
		if strings.Count(dump, "(empty)") != 2 {
			t.Errorf("expected two empty sections:\n%s", dump)
		}
	})
}

func TestNewFunctionScopeArityMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewFunctionScope with mismatched lengths did not panic")
		}
	}()
	NewFunctionScope("fn", []string{"a"}, nil)
}

package compiler

import (
	"fmt"
	"sort"
	"strings"

	"lxc/pkg/irgen"
)

// Binding says where a name lives in a FunctionScope.
type Binding int

const (
	Unbound Binding = iota
	BoundParam
	BoundLocal
)

func (b Binding) String() string {
	switch b {
	case BoundParam:
		return "param"
	case BoundLocal:
		return "local"
	}
	return "unbound"
}

// FunctionScope is the symbol table of one function. Parameters map to their
// incoming values and are read-only; locals map to stack slots. A name is in
// at most one of the two maps. There is no block scoping: every local is
// visible from its declaration to the end of the function.
type FunctionScope struct {
	function string
	params   map[string]irgen.Value
	locals   map[string]irgen.Value
}

// NewFunctionScope binds names to args in order. A repeated parameter name
// is a VariableAlreadyExists error.
func NewFunctionScope(function string, names []string, args []irgen.Value) (*FunctionScope, error) {
	if len(names) != len(args) {
		panic(fmt.Sprintf("function %s: %d parameter names for %d arguments", function, len(names), len(args)))
	}
	s := &FunctionScope{
		function: function,
		params:   make(map[string]irgen.Value, len(names)),
		locals:   make(map[string]irgen.Value),
	}
	for i, name := range names {
		if s.Lookup(name) != Unbound {
			return nil, s.errorf(VariableAlreadyExists, name)
		}
		s.params[name] = args[i]
	}
	return s, nil
}

func (s *FunctionScope) errorf(kind SemanticErrorKind, name string) error {
	return &SemanticError{Kind: kind, Function: s.function, Name: name}
}

// Lookup reports where name is bound.
func (s *FunctionScope) Lookup(name string) Binding {
	if _, ok := s.params[name]; ok {
		return BoundParam
	}
	if _, ok := s.locals[name]; ok {
		return BoundLocal
	}
	return Unbound
}

// Declare allocates a slot for a new local. The existing binding is left
// untouched if name is already a parameter or local.
func (s *FunctionScope) Declare(name string, b IRBuilder) (irgen.Value, error) {
	if s.Lookup(name) != Unbound {
		return nil, s.errorf(VariableAlreadyExists, name)
	}
	slot := b.Alloca(name)
	s.locals[name] = slot
	return slot, nil
}

// Slot returns the storage of a local. Parameters have no storage and are
// reported as not existing, which makes them unassignable.
func (s *FunctionScope) Slot(name string) (irgen.Value, error) {
	slot, ok := s.locals[name]
	if !ok {
		return nil, s.errorf(VariableDoesntExist, name)
	}
	return slot, nil
}

// Access returns the current value of name: a parameter directly, a local
// through a load of its slot.
func (s *FunctionScope) Access(name string, b IRBuilder) (irgen.Value, error) {
	if v, ok := s.params[name]; ok {
		return v, nil
	}
	if slot, ok := s.locals[name]; ok {
		return b.Load(slot), nil
	}
	return nil, s.errorf(VariableDoesntExist, name)
}

// String returns a deterministically ordered dump of the scope.
func (s *FunctionScope) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "func %s:\n", s.function)
	dump := func(title string, m map[string]irgen.Value) {
		if len(m) == 0 {
			fmt.Fprintf(&sb, "  %s: (empty)\n", title)
			return
		}
		fmt.Fprintf(&sb, "  %s:\n", title)
		names := make([]string, 0, len(m))
		for name := range m {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&sb, "    %-20s  %s\n", name, m[name].Ident())
		}
	}
	dump("Params", s.params)
	dump("Locals", s.locals)
	return sb.String()
}

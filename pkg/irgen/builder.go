// Package irgen builds LLVM IR for the compiler's code generator.
//
// A Builder owns one module. Functions are declared up front, then lowered
// one at a time: Begin opens the function's entry block as the insertion
// point and every instruction constructor appends to it. Verify checks a
// finished function before the next one starts.
package irgen

import (
	"fmt"
	"io"
	"sync"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Value is an SSA value: a constant, a parameter or an instruction result.
type Value = value.Value

// Function is a function in the module being built.
type Function = ir.Func

// Linkage controls whether a function is visible outside the module.
type Linkage int

const (
	External Linkage = iota
	Internal
)

func (l Linkage) String() string {
	if l == Internal {
		return "internal"
	}
	return "external"
}

// Builder emits instructions into a single module. The function table may
// be read from several goroutines; instruction emission may not.
type Builder struct {
	module *ir.Module

	mu    sync.RWMutex
	funcs map[string]*ir.Func

	fn    *ir.Func
	block *ir.Block

	// stray counts instructions emitted after a function's terminator.
	stray map[*ir.Func]int
}

// NewBuilder returns a builder for a module compiled from the named source.
func NewBuilder(sourceName string) *Builder {
	m := ir.NewModule()
	m.SourceFilename = sourceName
	return &Builder{
		module: m,
		funcs:  make(map[string]*ir.Func),
		stray:  make(map[*ir.Func]int),
	}
}

// DeclareFunction adds an i32 function taking one i32 per parameter name.
func (b *Builder) DeclareFunction(name string, params []string, linkage Linkage) (*Function, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.funcs[name]; ok {
		return nil, fmt.Errorf("function %q already declared", name)
	}

	ps := make([]*ir.Param, len(params))
	for i, p := range params {
		ps[i] = ir.NewParam(p, types.I32)
	}
	f := b.module.NewFunc(name, types.I32, ps...)
	if linkage == Internal {
		f.Linkage = enum.LinkageInternal
	}
	b.funcs[name] = f
	return f, nil
}

// Function looks up a declared function by name.
func (b *Builder) Function(name string) (*Function, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	f, ok := b.funcs[name]
	return f, ok
}

// Begin creates fn's entry block, makes it the insertion point and returns
// the formal parameter values in declaration order. The block is unnamed and
// numbered by AssignIDs, so no source identifier can collide with it.
func (b *Builder) Begin(fn *Function) []Value {
	b.fn = fn
	b.block = fn.NewBlock("")

	args := make([]Value, len(fn.Params))
	for i, p := range fn.Params {
		args[i] = p
	}
	return args
}

// Terminated reports whether the current block already ends in a terminator.
func (b *Builder) Terminated() bool {
	return b.block != nil && b.block.Term != nil
}

// emitting records instructions appended to an already terminated block so
// Verify can reject them.
func (b *Builder) emitting() {
	if b.block.Term != nil {
		b.stray[b.fn]++
	}
}

// ConstInt returns an i32 constant.
func (b *Builder) ConstInt(n int64) Value {
	return constant.NewInt(types.I32, n)
}

func (b *Builder) Add(x, y Value) Value {
	b.emitting()
	return b.block.NewAdd(x, y)
}

func (b *Builder) Sub(x, y Value) Value {
	b.emitting()
	return b.block.NewSub(x, y)
}

func (b *Builder) Mul(x, y Value) Value {
	b.emitting()
	return b.block.NewMul(x, y)
}

// SDiv is signed division.
func (b *Builder) SDiv(x, y Value) Value {
	b.emitting()
	return b.block.NewSDiv(x, y)
}

// Alloca reserves an i32 stack slot for the named local.
func (b *Builder) Alloca(name string) Value {
	b.emitting()
	slot := b.block.NewAlloca(types.I32)
	slot.SetName(name + ".addr")
	return slot
}

// Load reads an i32 from slot.
func (b *Builder) Load(slot Value) Value {
	b.emitting()
	return b.block.NewLoad(types.I32, slot)
}

// Store writes v into slot.
func (b *Builder) Store(v, slot Value) {
	b.emitting()
	b.block.NewStore(v, slot)
}

// Call emits a direct call to fn.
func (b *Builder) Call(fn *Function, args []Value) Value {
	b.emitting()
	return b.block.NewCall(fn, args...)
}

// Ret terminates the current block. A second terminator is counted as a
// stray instruction rather than replacing the first.
func (b *Builder) Ret(v Value) {
	if b.block.Term != nil {
		b.stray[b.fn]++
		return
	}
	b.block.NewRet(v)
}

// Module returns the underlying llir module.
func (b *Builder) Module() *ir.Module {
	return b.module
}

// String returns the module as LLVM assembly.
func (b *Builder) String() string {
	return b.module.String()
}

// WriteTo writes the module as LLVM assembly.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, b.module.String())
	return int64(n), err
}

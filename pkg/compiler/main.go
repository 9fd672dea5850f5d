// Package compiler provides the lexer, parser and code generator for LX, a
// small C-like language with i32 functions, locals and arithmetic.
//
// Pipeline: LX source → Lex → Parse → Generate → LLVM IR (via pkg/irgen)
package compiler

package compiler

import (
	"testing"

	"lxc/pkg/irgen"
)

// simpleSource is a minimal program used for benchmarking the fast path.
const simpleSource = `
func add(int a, int b) {
	return a + b
}

func main() {
	int x = add(3, 4)
	return x
}
`

// complexSource is a larger program with many locals, nested calls and
// long operator chains.
const complexSource = `
# helpers #
func square(int n) {
	return n * n
}

func sum3(int a, int b, int c) {
	int t = a + b
	t = t + c
	return t
}

func poly(int x) {
	int a = square(x) * 3
	int b = x * 5 - 2
	int c = (a - b) / 2
	return sum3(a, b, c)
}

func main() {
	int acc = 0
	acc = acc + poly(1)
	acc = acc + poly(2)
	acc = acc + poly(3)
	acc = acc + poly(4)
	acc = acc + sum3(square(2), square(3), square(4))
	int d = ((acc - 7) * 2) / 3
	return d + 1 + 2 + 3 + 4 + 5 + 6 + 7 + 8 + 9
}
`

// --- Lex benchmarks ---

func BenchmarkLex_Simple(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, err := Lex(simpleSource)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLex_Complex(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, err := Lex(complexSource)
		if err != nil {
			b.Fatal(err)
		}
	}
}

// --- Parse benchmarks ---
// Tokens are pre-computed outside the timed region.

func BenchmarkParse_Simple(b *testing.B) {
	tokens, err := Lex(simpleSource)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := Parse(tokens, simpleSource)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParse_Complex(b *testing.B) {
	tokens, err := Lex(complexSource)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := Parse(tokens, complexSource)
		if err != nil {
			b.Fatal(err)
		}
	}
}

// --- Generate benchmarks ---
// The AST is pre-computed; each iteration lowers into a fresh builder.

func BenchmarkGenerate_Simple(b *testing.B) {
	benchmarkGenerate(b, simpleSource)
}

func BenchmarkGenerate_Complex(b *testing.B) {
	benchmarkGenerate(b, complexSource)
}

func benchmarkGenerate(b *testing.B, src string) {
	tokens, err := Lex(src)
	if err != nil {
		b.Fatal(err)
	}
	file, err := Parse(tokens, src)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := Generate(file, irgen.NewBuilder("bench")); err != nil {
			b.Fatal(err)
		}
	}
}

// --- Full pipeline ---

func BenchmarkCompile_Complex(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Compile(complexSource, "bench"); err != nil {
			b.Fatal(err)
		}
	}
}

func TestBenchSourcesRun(t *testing.T) {
	if got := runCode(t, simpleSource); got != 7 {
		t.Errorf("simpleSource: expected 7, got %d", got)
	}
	runCode(t, complexSource)
}

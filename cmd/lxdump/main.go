// Command lxdump prints every intermediate stage of compiling an LX file:
// the token stream, the AST, the per-function symbol tables and the IR.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/sanity-io/litter"

	"lxc/pkg/compiler"
	"lxc/pkg/irgen"
	"lxc/pkg/utils"
)

const testSource = `func add(int a, int b) {
	return a + b
}

func main() {
	int x = 10
	int y = add(x, 20)
	return y
}
`

type stages struct {
	tokens bool
	ast    bool
	scopes bool
	ir     bool
}

// astDump drops source positions so the tree stays readable.
var astDump = litter.Options{
	StripPackageNames: true,
	HideZeroValues:    true,
	FieldExclusions:   regexp.MustCompile(`^Token$`),
}

func main() {
	var show stages
	flag.BoolVar(&show.tokens, "tokens", true, "print the token stream")
	flag.BoolVar(&show.ast, "ast", true, "print the AST")
	flag.BoolVar(&show.scopes, "scopes", true, "print each function's symbol table")
	flag.BoolVar(&show.ir, "ir", true, "print the generated LLVM IR")
	flag.Parse()

	src := testSource
	name := "<builtin>"
	if flag.NArg() > 0 {
		name = flag.Arg(0)
		data, err := utils.ReadSource(name)
		if err != nil {
			fmt.Fprintln(os.Stderr, "read error:", err)
			os.Exit(1)
		}
		src = data
	}

	if err := dump(os.Stdout, src, name, show); err != nil {
		fmt.Fprintln(os.Stderr, compiler.FormatDiagnostic(err, name))
		os.Exit(1)
	}
}

func dump(w io.Writer, src, name string, show stages) error {
	fmt.Fprintf(w, "Source:\n%s\n", src)

	// Lex
	tokens, err := compiler.Lex(src)
	if err != nil {
		fmt.Fprintln(w, "lex error:", err)
		return err
	}
	if show.tokens {
		fmt.Fprintf(w, "Tokens (%d)\n", len(tokens))
		for _, tok := range tokens {
			fmt.Fprintln(w, " ", tok)
		}
		fmt.Fprintln(w)
	}

	// Parse
	file, err := compiler.Parse(tokens, src)
	if err != nil {
		fmt.Fprintln(w, "parse error:", err)
		return err
	}
	if show.ast {
		fmt.Fprintln(w, "AST")
		fmt.Fprintln(w, astDump.Sdump(file))
		fmt.Fprintln(w)
	}

	// Code generation
	b := irgen.NewBuilder(name)
	cg := compiler.NewCodeGen(b)
	if err := cg.Generate(file); err != nil {
		fmt.Fprintln(w, "codegen error:", err)
		return err
	}
	if show.scopes {
		fmt.Fprintln(w, "Symbol Tables")
		for _, s := range cg.Scopes() {
			fmt.Fprint(w, s)
		}
		fmt.Fprintln(w)
	}
	if show.ir {
		fmt.Fprintln(w, "Generated IR")
		if _, err := b.WriteTo(w); err != nil {
			return err
		}
	}
	return nil
}

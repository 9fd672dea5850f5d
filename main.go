package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"lxc/pkg/compiler"
	"lxc/pkg/irgen"
	"lxc/pkg/utils"
)

type options struct {
	inputs  []string
	out     string
	run     bool
	logPath string
	verbose bool
}

// job is the outcome of compiling one input file.
type job struct {
	in     string
	out    string
	result int64
	ran    bool
	err    error
}

func main() {
	inPath := flag.String("in", "", "input LX source file path")
	outPath := flag.String("out", "", "output IR file path (default: input with .ll extension)")
	runProgram := flag.Bool("run", false, "run main of each compiled file in the IR interpreter")
	logPath := flag.String("log", "", "write a compiler trace log to this file")
	verbose := flag.Bool("v", false, "include per-character lexer state in the log")
	flag.Parse()

	opts := options{
		inputs:  flag.Args(),
		out:     *outPath,
		run:     *runProgram,
		logPath: *logPath,
		verbose: *verbose,
	}
	if *inPath != "" {
		opts.inputs = append([]string{*inPath}, opts.inputs...)
	}

	if len(opts.inputs) == 0 {
		fmt.Fprintln(os.Stderr, "nothing to do: provide -in <file.lx> or one or more source files")
		flag.Usage()
		os.Exit(2)
	}
	if opts.out != "" && len(opts.inputs) > 1 {
		fmt.Fprintln(os.Stderr, "-out can only be used with a single input file")
		os.Exit(2)
	}

	if opts.logPath != "" {
		f, err := utils.CreateFile(opts.logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create log file %q: %v\n", opts.logPath, err)
			os.Exit(1)
		}
		defer f.Close()
		compiler.SetLogger(newLogger(f, opts.verbose))
	}

	if !run(context.Background(), opts, os.Stdout, os.Stderr) {
		os.Exit(1)
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// run compiles every input concurrently, then reports the results in input
// order. It returns false if any file failed.
func run(ctx context.Context, opts options, stdout, stderr io.Writer) bool {
	jobs := make([]*job, len(opts.inputs))
	g, ctx := errgroup.WithContext(ctx)
	for i, in := range opts.inputs {
		j := &job{in: in, out: opts.out}
		if j.out == "" {
			j.out = utils.OutputPath(in, utils.IRExt)
		}
		jobs[i] = j
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				j.err = err
				return err
			}
			j.err = compileFile(j, opts.run)
			return j.err
		})
	}
	failed := g.Wait() != nil

	for _, j := range jobs {
		switch {
		case errors.Is(j.err, context.Canceled):
			fmt.Fprintf(stderr, "%s: skipped after an earlier failure\n", j.in)
		case j.err != nil:
			fmt.Fprintln(stderr, "compilation failed:", j.err)
			fmt.Fprintln(stderr, compiler.FormatDiagnostic(j.err, j.in))
		default:
			fmt.Fprintf(stdout, "compiled %s -> %s\n", absPath(j.in), absPath(j.out))
			if j.ran {
				fmt.Fprintf(stdout, "run complete (%s): main returned %d\n", j.in, j.result)
			}
		}
	}
	return !failed
}

func compileFile(j *job, runMain bool) error {
	src, err := utils.ReadSource(j.in)
	if err != nil {
		return fmt.Errorf("failed to read input file %q: %w", j.in, err)
	}

	b, err := compiler.Compile(src, j.in)
	if err != nil {
		return err
	}

	if err := writeIR(j.out, b); err != nil {
		return fmt.Errorf("failed to write IR file %q: %w", j.out, err)
	}

	if runMain {
		result, err := irgen.Run(b.Module(), "main")
		if err != nil {
			return fmt.Errorf("run failed for %q: %w", j.in, err)
		}
		j.result = result
		j.ran = true
	}
	return nil
}

func writeIR(path string, b *irgen.Builder) error {
	f, err := utils.CreateFile(path)
	if err != nil {
		return err
	}
	if _, err := b.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func absPath(path string) string {
	full, _, err := utils.GetPathInfo(path)
	if err != nil {
		return path
	}
	return full
}

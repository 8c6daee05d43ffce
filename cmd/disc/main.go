// Command disc is the compiler's CLI driver: one compiler.Run per input
// file, fanned out across files with a bounded worker pool since each
// file's compilation is fully independent.
package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dis-lang/disc/internal/ast"
	"github.com/dis-lang/disc/internal/compiler"
	"github.com/dis-lang/disc/internal/diag"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(2)
	}
}

func newRootCmd() *cobra.Command {
	var (
		tokensFlag   bool
		parseFlag    bool
		validateFlag bool
		llFlag       bool
		flipExit     bool
		noColor      bool
	)

	cmd := &cobra.Command{
		Use:           "disc <file>...",
		Short:         "Compile dis/fit source files through the type-checked IR",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stage, formatter := resolveRun(tokensFlag, parseFlag, validateFlag, llFlag, noColor || flipExit)
			results, err := runFiles(args, stage)
			if err != nil {
				return err
			}
			ok := printResults(cmd, results, stage, formatter)
			if flipExit {
				ok = !ok
			}
			if !ok {
				return errExitCode
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&tokensFlag, "tokens", false, "print lexer output then exit")
	cmd.Flags().BoolVar(&parseFlag, "parse", false, "print the parsed AST then exit")
	cmd.Flags().BoolVar(&validateFlag, "validate", false, "run the validator then exit")
	cmd.Flags().BoolVar(&llFlag, "ll", false, "print the lowered IR then exit")
	cmd.Flags().BoolVar(&flipExit, "flip-error-code", false, "invert the exit code, for negative tests")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable ANSI coloring in diagnostic output")

	return cmd
}

// errExitCode is a sentinel error: its message is already printed by
// printResults, so RunE returning it only needs to signal a non-zero
// exit without cobra printing anything more.
var errExitCode = fmt.Errorf("compilation failed")

func resolveRun(tokens, parse, validate, ll, noColor bool) (compiler.Stage, *diag.Formatter) {
	formatter := diag.NewFormatter()
	formatter.NoColor = noColor
	switch {
	case tokens:
		return compiler.StageLex, formatter
	case parse:
		return compiler.StageParse, formatter
	case validate:
		return compiler.StageValidate, formatter
	case ll:
		return compiler.StageLower, formatter
	default:
		return compiler.StageLower, formatter
	}
}

type fileResult struct {
	name string
	res  *compiler.Result
	err  error
}

// runFiles compiles every file through upTo, one goroutine per file
// bounded by GOMAXPROCS (each compilation is fully independent: one
// source, one pipeline, one pass at a time, per file).
func runFiles(paths []string, upTo compiler.Stage) ([]fileResult, error) {
	results := make([]fileResult, len(paths))
	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			text, err := os.ReadFile(path)
			if err != nil {
				results[i] = fileResult{name: path, err: err}
				return nil
			}
			results[i] = fileResult{name: path, res: compiler.Run(path, string(text), upTo)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// printResults prints whichever artifact upTo asked for (or the
// diagnostics, if a file failed) for every file, and reports whether
// every file compiled cleanly.
func printResults(cmd *cobra.Command, results []fileResult, upTo compiler.Stage, formatter *diag.Formatter) bool {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	ok := true
	for _, fr := range results {
		if fr.err != nil {
			fmt.Fprintf(errOut, "%s: %v\n", fr.name, fr.err)
			ok = false
			continue
		}
		if fr.res.Report.HasErrors() {
			fmt.Fprint(errOut, formatter.FormatReport(fr.res.Report))
			ok = false
			continue
		}
		printArtifact(out, fr.res, upTo)
	}
	return ok
}

func printArtifact(out io.Writer, res *compiler.Result, upTo compiler.Stage) {
	switch upTo {
	case compiler.StageLex:
		for _, tok := range res.Tokens {
			fmt.Fprintf(out, "%s %q\n", tok.Kind.String(), tok.Text)
		}
	case compiler.StageParse:
		fmt.Fprint(out, ast.Dump(res.Program))
	case compiler.StageValidate:
		fmt.Fprintln(out, "ok")
	case compiler.StageTypeCheck:
		fmt.Fprintln(out, "ok")
	case compiler.StageLower:
		fmt.Fprint(out, res.IR.PrettyPrint())
	}
}

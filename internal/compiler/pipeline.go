// Package compiler ties the lexer, parser, validator, type checker, and
// IR lowerer into the single sequential pass spec.md's data flow
// describes: Source -> Tokens -> AST(raw) -> AST(validated) ->
// AST(typed) -> IR. Each stage aborts the run at its own diagnostics
// rather than handing a half-checked tree to the next one.
package compiler

import (
	"github.com/dis-lang/disc/internal/ast"
	"github.com/dis-lang/disc/internal/diag"
	"github.com/dis-lang/disc/internal/lexer"
	"github.com/dis-lang/disc/internal/mir"
	"github.com/dis-lang/disc/internal/parser"
	"github.com/dis-lang/disc/internal/source"
	"github.com/dis-lang/disc/internal/types"
	"github.com/dis-lang/disc/internal/validator"
)

// Result is one file's full compilation: every intermediate artifact a
// caller might want (cmd/disc prints whichever one its flags ask for)
// plus the diagnostics from whichever stage stopped the run.
type Result struct {
	Tokens   []lexer.Token
	Program  *ast.Program
	Validate *validator.Result
	Check    *types.Result
	IR       *mir.Program
	Report   *diag.Report
}

// Stage bounds how far a Run goes, letting cmd/disc's --tokens/
// --parse/--validate flags stop early without lowering a program that
// was only asked to be lexed or parsed.
type Stage int

const (
	StageLex Stage = iota
	StageParse
	StageValidate
	StageTypeCheck
	StageLower
)

// Run executes one file's compilation through upTo, stopping early either
// because that stage was the last one requested or because a stage
// reported a diagnostic. Later fields of Result are left nil past
// wherever the run stopped.
func Run(name, text string, upTo Stage) *Result {
	src := source.New(name, text)
	report := &diag.Report{}
	res := &Result{Report: report}

	res.Tokens = lexer.Lex(src, report)
	if report.HasErrors() || upTo == StageLex {
		return res
	}

	program, parseReport := parser.Parse(res.Tokens)
	report.Merge(parseReport)
	res.Program = program
	if report.HasErrors() || upTo == StageParse {
		return res
	}

	valResult := validator.Validate(program)
	report.Merge(valResult.Report)
	res.Validate = valResult
	if report.HasErrors() || upTo == StageValidate {
		return res
	}

	checkResult := types.Check(program, valResult)
	report.Merge(checkResult.Report)
	res.Check = checkResult
	if report.HasErrors() || upTo == StageTypeCheck {
		return res
	}

	res.IR = mir.NewLowerer(checkResult).Lower(program)
	return res
}

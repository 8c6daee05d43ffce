package types

import (
	"github.com/dis-lang/disc/internal/ast"
	"github.com/dis-lang/disc/internal/diag"
	"github.com/dis-lang/disc/internal/validator"
)

// TypeTable attaches a Ty to every expression node the checker typed,
// keyed by ast.NodeID rather than mutated into the node itself — the AST
// stays immutable and reusable across passes.
type TypeTable struct {
	byNode map[ast.NodeID]Ty
}

func newTypeTable() *TypeTable { return &TypeTable{byNode: map[ast.NodeID]Ty{}} }

func (t *TypeTable) set(n ast.Node, ty Ty) { t.byNode[n.ID()] = ty }

// Get returns the type the checker attached to n, and whether one exists
// (expressions in the branches of a fit whose scrutinee is not a dis type,
// and in functions missing from the validated declaration table, get none).
func (t *TypeTable) Get(n ast.Node) (Ty, bool) {
	ty, ok := t.byNode[n.ID()]
	return ty, ok
}

// Checker walks a validated program, converting declared types, typing
// every expression, and checking subtyping/exhaustiveness obligations as
// it goes. It never aborts on the first error: like the validator, it
// threads an ErrorTy through any sub-derivation that already failed so
// one root cause doesn't cascade into unrelated diagnostics.
type Checker struct {
	ctx     *Context
	conv    *converter
	exhaust *exhaustivenessChecker
	report  *diag.Report
	types   *TypeTable
}

// Result is what Check hands back.
type Result struct {
	Report *diag.Report
	Ctx    *Context
	Types  *TypeTable
}

// Check type-checks program using the declaration tables validator.Validate
// already resolved (so duplicated/errored declarations never reach here).
func Check(program *ast.Program, valResult *validator.Result) *Result {
	c := &Checker{
		ctx:    NewContext(),
		report: &diag.Report{},
		types:  newTypeTable(),
	}
	c.conv = newConverter(c.report, c.ctx)
	c.exhaust = newExhaustivenessChecker(c.report, c.ctx)

	c.collectDisNodes(program)
	c.collectFunNodes(program)
	c.findDisDeclarations(valResult)
	c.findFunDeclarations(valResult)

	for _, item := range program.Items {
		c.checkItem(item)
	}

	return &Result{Report: c.report, Ctx: c.ctx, Types: c.types}
}

func (c *Checker) collectDisNodes(program *ast.Program) {
	for _, item := range program.Items {
		if d, ok := item.(*ast.Dis); ok {
			c.ctx.DisNodes[d.Name] = d
		}
	}
}

func (c *Checker) collectFunNodes(program *ast.Program) {
	for _, item := range program.Items {
		if f, ok := item.(*ast.Fun); ok {
			c.ctx.FunNodes[f.Name] = f
		}
	}
}

func (c *Checker) checkItem(item ast.Decl) {
	switch n := item.(type) {
	case *ast.Dis:
		// Already converted by findDisDeclarations; nothing further to type.
		_ = n
	case *ast.Fun:
		c.checkFun(n)
	case *ast.ExprItem:
		c.typeExpr(n.Value)
	}
}

package types

import "github.com/dis-lang/disc/internal/ast"

// checkStmt types one statement for its side effects (binding locals,
// checking returns); statements carry no Ty of their own.
func (c *Checker) checkStmt(stmt ast.Stmt) {
	switch n := stmt.(type) {
	case *ast.Block:
		c.checkBlock(n)
	case *ast.Let:
		ty := c.typeExpr(n.Value)
		c.ctx.AddLocalVar(n.Name, ty)
	case *ast.Ret:
		c.checkRet(n)
	case *ast.Write:
		// A literal write has no expression to type.
	case *ast.FitStatement:
		c.checkFitStatement(n)
	case *ast.ExprStmt:
		c.typeExpr(n.Value)
	}
}

func (c *Checker) checkBlock(block *ast.Block) {
	c.ctx.Push()
	for _, stmt := range block.Stmts {
		c.checkStmt(stmt)
	}
	c.ctx.Pop()
}

func (c *Checker) checkRet(ret *ast.Ret) {
	var retTy Ty = SimpleType{Name: "Void"}
	if ret.Value != nil {
		retTy = c.typeExpr(ret.Value)
	}
	if c.ctx.CurrentFunctionTy == nil || c.ctx.CurrentFunctionNode == nil {
		return
	}
	if _, isErr := retTy.(ErrorTy); isErr {
		return
	}
	resultTy := c.ctx.CurrentFunctionTy.ResultType
	if !IsSubtype(retTy, resultTy) {
		c.report.Error(returnTypeMismatch(ret.Span(), retTy, resultTy, c.ctx.CurrentFunctionNode))
	}
}

func (c *Checker) checkFitStatement(fit *ast.FitStatement) {
	exprTy := c.typeExpr(fit.Value)
	if _, isErr := exprTy.(ErrorTy); isErr {
		return
	}
	disTy, ok := exprTy.(DisTy)
	if !ok {
		c.report.Error(expectedDisType(fit.Value.Span(), exprTy))
		return
	}

	patterns := make([]ast.Pattern, len(fit.Branches))
	for i, b := range fit.Branches {
		patterns[i] = b.Pattern
	}
	c.exhaust.check(fit.Span(), disTy, patterns)

	for _, branch := range fit.Branches {
		c.checkFitStmtBranch(fit.Value, disTy, branch)
	}
}

func (c *Checker) checkFitStmtBranch(scrutinee ast.Expr, scrutineeTy DisTy, branch *ast.FitStmtBranch) {
	v, isVar := scrutinee.(*ast.Var)
	if !isVar {
		c.checkStmt(branch.Body)
		return
	}
	pat := c.conv.convertPattern(branch.Pattern)
	c.validatePatternValidForTy(branch.Pattern, scrutineeTy)
	c.ctx.Push()
	c.ctx.AddLocalVar(v.Name, DisTy{Name: scrutineeTy.Name, GenericTypes: scrutineeTy.GenericTypes, Pattern: pat})
	c.checkStmt(branch.Body)
	c.ctx.Pop()
}

package types

import "github.com/dis-lang/disc/internal/ast"

// typeExpr types expr, recording the result in the Checker's TypeTable
// before returning it.
func (c *Checker) typeExpr(expr ast.Expr) Ty {
	var ty Ty
	switch n := expr.(type) {
	case *ast.Value:
		ty = c.typeValue(n)
	case *ast.Var:
		ty = c.typeVar(n)
	case *ast.FunInst:
		ty = c.typeFunInst(n)
	case *ast.DisConstructor:
		ty = c.typeDisConstructor(n)
	case *ast.Call:
		ty = c.typeCall(n)
	case *ast.Member:
		ty = c.typeMember(n)
	case *ast.Assign:
		ty = c.typeAssign(n)
	case *ast.FitExpr:
		ty = c.typeFit(n)
	default:
		ty = ErrorTy{}
	}
	c.types.set(expr, ty)
	return ty
}

func (c *Checker) typeValue(v *ast.Value) Ty {
	if v.Kind == ast.ValueInt {
		return SimpleType{Name: "Int"}
	}
	return SimpleType{Name: "String"}
}

func (c *Checker) typeVar(v *ast.Var) Ty {
	if c.ctx.HasLocalVar(v.Name) {
		return c.ctx.GetLocalVarType(v.Name)
	}
	if c.ctx.HasFunction(v.Name) {
		decl := c.ctx.GetFunction(v.Name)
		if decl.GenericArgCount == 0 {
			return decl.Ty
		}
		funNode := c.ctx.FunNodes[v.Name]
		c.report.Error(funGenericArgumentsMismatch(v.Span(), funNode, decl.GenericArgCount, 0))
		return ErrorTy{}
	}
	c.report.Error(unknownVariable(v))
	return ErrorTy{}
}

func (c *Checker) typeFunInst(fi *ast.FunInst) Ty {
	if !c.ctx.HasFunction(fi.Name) {
		c.report.Error(unknownFunction(fi))
		c.convertGenerics(fi.Generics)
		return ErrorTy{}
	}
	decl := c.ctx.GetFunction(fi.Name)
	generics := c.convertGenerics(fi.Generics)
	for _, g := range generics {
		if _, isErr := g.(ErrorTy); isErr {
			return ErrorTy{}
		}
	}
	return c.instantiateFunction(fi, decl, generics)
}

func (c *Checker) convertGenerics(generics []ast.TypeExpr) []Ty {
	out := make([]Ty, len(generics))
	for i, g := range generics {
		out[i] = c.conv.convertType(g)
	}
	return out
}

func (c *Checker) instantiateFunction(fi *ast.FunInst, decl *FunctionDeclaration, args []Ty) Ty {
	if decl.GenericArgCount != len(args) {
		funNode := c.ctx.FunNodes[fi.Name]
		c.report.Error(funGenericArgumentsMismatch(fi.Span(), funNode, decl.GenericArgCount, len(args)))
		return ErrorTy{}
	}
	return Substitute(decl.Ty, args)
}

func (c *Checker) typeDisConstructor(dc *ast.DisConstructor) Ty {
	if !c.ctx.HasDis(dc.Name) {
		c.report.Error(disDoesNotExist(dc.Span(), dc.Name))
		return ErrorTy{}
	}
	decl := c.ctx.GetDis(dc.Name)

	if decl.GenericArgCount != len(dc.Generics) {
		disNode := c.ctx.DisNodes[dc.Name]
		c.report.Error(disGenericArgumentsMismatch(dc.Span(), disNode, decl.GenericArgCount, len(dc.Generics)))
		return ErrorTy{}
	}
	if !decl.HasVariant(dc.Variant) {
		c.report.Error(disHasNoVariant(dc.Span(), dc.Name, dc.Variant))
		return ErrorTy{}
	}

	generics := c.convertGenerics(dc.Generics)
	variant := decl.GetVariant(dc.Variant)
	variantTy := DisTy{Name: dc.Name, GenericTypes: generics, Pattern: TyPattern{Name: dc.Variant}}

	if len(variant.Args) == 0 {
		return variantTy
	}
	argTys := make([]Ty, len(variant.Args))
	for i, a := range variant.Args {
		argTys[i] = Substitute(a.Ty, generics)
	}
	return FunTy{ArgTypes: argTys, ResultType: variantTy}
}

func (c *Checker) typeCall(call *ast.Call) Ty {
	funTy := c.typeExpr(call.Fun)
	argTys := make([]Ty, len(call.Args))
	hasErr := isErrorTy(funTy)
	for i, a := range call.Args {
		argTys[i] = c.typeExpr(a)
		if isErrorTy(argTys[i]) {
			hasErr = true
		}
	}
	if hasErr {
		return ErrorTy{}
	}
	ft, ok := funTy.(FunTy)
	if !ok {
		c.report.Error(typeIsNotCallable(call.Fun.Span(), funTy))
		return ErrorTy{}
	}
	for _, a := range ft.ArgTypes {
		if isErrorTy(a) {
			return ErrorTy{}
		}
	}

	if len(ft.ArgTypes) != len(call.Args) {
		c.report.Error(functionArgumentCountMismatch(call.Span(), call.Fun.Span(), ft, len(ft.ArgTypes), len(call.Args)))
	}

	hasArgErr := false
	for i := 0; i < len(call.Args) && i < len(ft.ArgTypes); i++ {
		if !IsSubtype(argTys[i], ft.ArgTypes[i]) {
			c.report.Error(functionExpectsArgOfType(call.Args[i].Span(), ft.ArgTypes[i], argTys[i], call.Fun.Span(), ft))
			hasArgErr = true
		}
	}
	if hasArgErr {
		return ErrorTy{}
	}
	return ft.ResultType
}

func isErrorTy(ty Ty) bool {
	_, ok := ty.(ErrorTy)
	return ok
}

func (c *Checker) typeMember(m *ast.Member) Ty {
	exprTy := c.typeExpr(m.Value)
	if isErrorTy(exprTy) {
		return ErrorTy{}
	}
	disTy, ok := exprTy.(DisTy)
	if !ok {
		c.report.Error(cannotGetMemberOnNonDisType(m.Span(), m.Field, exprTy))
		return ErrorTy{}
	}
	pat, ok := disTy.Pattern.(TyPattern)
	if !ok {
		c.report.Error(cannotGetMemberOnNonVariantType(m.Span(), m.Field, exprTy, m.Value.Span()))
		return ErrorTy{}
	}
	decl := c.ctx.GetDis(disTy.Name)
	variant := decl.GetVariant(pat.Name)
	variantNode := c.disVariantNode(disTy.Name, pat.Name)
	if !variant.HasArg(m.Field) {
		c.report.Error(variantHasNoMember(m.Span(), m.Field, exprTy, variantNode))
		return ErrorTy{}
	}
	argTy := Substitute(variant.GetArg(m.Field).Ty, disTy.GenericTypes)
	idx := variant.ArgIndex(m.Field)
	if childDis, ok := argTy.(DisTy); ok && idx < len(pat.Children) {
		childDis.Pattern = pat.Children[idx]
		argTy = childDis
	}
	return argTy
}

func (c *Checker) disVariantNode(disName, variantName string) *ast.DisVariant {
	disNode := c.ctx.DisNodes[disName]
	for _, v := range disNode.Variants {
		if v.Name == variantName {
			return v
		}
	}
	return nil
}

func (c *Checker) typeAssign(a *ast.Assign) Ty {
	targetTy := c.typeExpr(a.Target)
	c.typeExpr(a.Value)
	// TODO: require a.Value's type to be a subtype of targetTy.
	return targetTy
}

func (c *Checker) typeFit(fit *ast.FitExpr) Ty {
	exprTy := c.typeExpr(fit.Value)
	if isErrorTy(exprTy) {
		return ErrorTy{}
	}
	disTy, ok := exprTy.(DisTy)
	if !ok {
		c.report.Error(expectedDisType(fit.Value.Span(), exprTy))
		return ErrorTy{}
	}

	patterns := make([]ast.Pattern, len(fit.Branches))
	for i, b := range fit.Branches {
		patterns[i] = b.Pattern
	}
	c.exhaust.check(fit.Span(), disTy, patterns)

	branchTys := make([]Ty, len(fit.Branches))
	var result Ty
	anyErr := false
	for i, branch := range fit.Branches {
		branchTys[i] = c.typeFitExprBranch(fit.Value, disTy, branch)
		if isErrorTy(branchTys[i]) {
			anyErr = true
		}
		if i == 0 {
			result = branchTys[i]
		} else {
			result = FindSupertype(result, branchTys[i])
		}
	}
	if isErrorTy(result) && !anyErr {
		c.report.Error(fitBranchesHaveNoCommonType(fit.Span(), branchTys))
	}
	return result
}

func (c *Checker) typeFitExprBranch(scrutinee ast.Expr, scrutineeTy DisTy, branch *ast.FitExprBranch) Ty {
	v, isVar := scrutinee.(*ast.Var)
	if !isVar {
		return c.typeExpr(branch.Body)
	}
	pat := c.conv.convertPattern(branch.Pattern)
	c.validatePatternValidForTy(branch.Pattern, scrutineeTy)
	c.ctx.Push()
	c.ctx.AddLocalVar(v.Name, DisTy{Name: scrutineeTy.Name, GenericTypes: scrutineeTy.GenericTypes, Pattern: pat})
	result := c.typeExpr(branch.Body)
	c.ctx.Pop()
	return result
}

// validatePatternValidForTy checks a fit-branch pattern names an actual
// variant of ty (recursively, for nested sub-patterns) without itself
// returning a usable value — narrowing uses the pattern regardless, so a
// mismatch here is reported but does not abort typing the branch.
func (c *Checker) validatePatternValidForTy(pat ast.Pattern, ty Ty) {
	vp, ok := pat.(*ast.VariantPattern)
	if !ok {
		return
	}
	disTy, ok := ty.(DisTy)
	if !ok {
		c.report.Error(cannotMatchPatternToNonDis(vp.Span(), vp.Name, ty))
		return
	}
	decl := c.ctx.GetDis(disTy.Name)
	if decl == nil || !decl.HasVariant(vp.Name) {
		c.report.Error(disHasNoVariant(vp.Span(), disTy.Name, vp.Name))
		return
	}
	variant := decl.GetVariant(vp.Name)
	disNode := c.ctx.DisNodes[disTy.Name]
	variantNode := c.disVariantNode(disTy.Name, vp.Name)
	// A bare mention of the variant (no args written at all) narrows the tag
	// without destructuring its fields; only an explicit, wrong arg count
	// is an error.
	if len(vp.Args) == 0 {
		return
	}
	if variant.ArgCount() != len(vp.Args) {
		c.report.Error(variantArgumentCountMismatch(vp.Span(), disNode, variantNode, len(vp.Args)))
		return
	}
	argTypes := variant.ArgTypes()
	for i, childPattern := range vp.Args {
		argTy := Substitute(argTypes[i], disTy.GenericTypes)
		c.validatePatternValidForTy(childPattern, argTy)
	}
}

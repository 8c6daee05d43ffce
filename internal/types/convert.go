package types

import (
	"github.com/dis-lang/disc/internal/ast"
	"github.com/dis-lang/disc/internal/diag"
)

// converter turns parsed type annotations and fit patterns into their
// semantic Ty/Pat counterparts, reporting a diagnostic and returning
// ErrorTy/nil in place of anything it cannot resolve.
type converter struct {
	report *diag.Report
	ctx    *Context
}

func newConverter(report *diag.Report, ctx *Context) *converter {
	return &converter{report: report, ctx: ctx}
}

func (c *converter) convertType(t ast.TypeExpr) Ty {
	switch n := t.(type) {
	case *ast.DisType:
		return c.convertDisType(n)
	case *ast.FunctionType:
		return c.convertFunctionType(n)
	case *ast.DisConstructorType:
		return c.convertDisConstructorType(n)
	case *ast.WildcardType:
		return WildcardTy{}
	case *ast.VoidType:
		return SimpleType{Name: "Void"}
	default:
		return ErrorTy{}
	}
}

func (c *converter) convertDisType(t *ast.DisType) Ty {
	name := t.Name
	if c.ctx.HasGeneric(name) {
		if len(t.Generics) > 0 {
			c.report.Error(typeVariableCannotBeGeneric(t.Span(), name))
			return ErrorTy{}
		}
		return TyVar{Index: c.ctx.GetGeneric(name), Name: name}
	}
	if disNode, ok := c.ctx.DisNodes[name]; ok {
		expected := 0
		if disNode.Generics != nil {
			expected = len(disNode.Generics.Names)
		}
		if expected != len(t.Generics) {
			c.report.Error(disGenericArgumentsMismatch(t.Span(), disNode, expected, len(t.Generics)))
			return ErrorTy{}
		}
		generics := make([]Ty, len(t.Generics))
		hasError := false
		for i, g := range t.Generics {
			generics[i] = c.convertType(g)
			if _, isErr := generics[i].(ErrorTy); isErr {
				hasError = true
			}
		}
		if hasError {
			return ErrorTy{}
		}
		return DisTy{Name: name, GenericTypes: generics, Pattern: CatchallPat{}}
	}
	if simple, ok := c.ctx.SimpleTypes[name]; ok {
		if len(t.Generics) > 0 {
			c.report.Error(typeIsNotGeneric(t.Span(), name))
			return ErrorTy{}
		}
		return simple
	}
	c.report.Error(typeIsNotDefined(t.Span(), name))
	return ErrorTy{}
}

func (c *converter) convertFunctionType(t *ast.FunctionType) Ty {
	args := make([]Ty, len(t.Args))
	hasError := false
	for i, a := range t.Args {
		args[i] = c.convertType(a)
		if _, isErr := args[i].(ErrorTy); isErr {
			hasError = true
		}
	}
	ret := c.convertType(t.Ret)
	if _, isErr := ret.(ErrorTy); isErr {
		hasError = true
	}
	if hasError {
		return ErrorTy{}
	}
	return FunTy{ArgTypes: args, ResultType: ret}
}

func (c *converter) convertDisConstructorType(t *ast.DisConstructorType) Ty {
	disNode, ok := c.ctx.DisNodes[t.Name]
	if !ok {
		c.report.Error(disDoesNotExist(t.Span(), t.Name))
		return ErrorTy{}
	}
	var variantNode *ast.DisVariant
	for _, v := range disNode.Variants {
		if v.Name == t.Variant {
			variantNode = v
			break
		}
	}
	if variantNode == nil {
		c.report.Error(disHasNoVariant(t.Span(), t.Name, t.Variant))
		return ErrorTy{}
	}
	generics := make([]Ty, len(t.Generics))
	for i, g := range t.Generics {
		generics[i] = c.convertType(g)
	}
	return DisTy{Name: t.Name, GenericTypes: generics, Pattern: TyPattern{Name: t.Variant}}
}

// convertPattern turns a parsed fit-branch pattern into its typed form,
// without yet checking it is valid for the scrutinee's dis — that check
// (validatePatternValidForTy) happens once the scrutinee's type is known.
func (c *converter) convertPattern(p ast.Pattern) Pat {
	switch n := p.(type) {
	case *ast.CatchallPattern:
		return CatchallPat{}
	case *ast.ValuePattern:
		return c.convertValuePattern(n)
	case *ast.VariantPattern:
		children := make([]Pat, len(n.Args))
		for i, a := range n.Args {
			children[i] = c.convertPattern(a)
		}
		return TyPattern{Name: n.Name, Children: children}
	default:
		return CatchallPat{}
	}
}

// valuePat wraps a literal value pattern (Int/String) as a Pat so it can
// flow through exhaustiveness checking the same way a variant pattern
// does, even though it never refines a DisTy.
type valuePat struct{ ty Ty }

func (v valuePat) String() string   { return v.ty.String() }
func (v valuePat) isCompound() bool { return false }
func (valuePat) isPat()             {}

func (c *converter) convertValuePattern(p *ast.ValuePattern) Pat {
	if p.Value.Kind == ast.ValueInt {
		return valuePat{ty: SimpleType{Name: "Int"}}
	}
	return valuePat{ty: SimpleType{Name: "String"}}
}

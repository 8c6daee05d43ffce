package validator

import (
	"fmt"

	"github.com/dis-lang/disc/internal/ast"
	"github.com/dis-lang/disc/internal/diag"
	"github.com/dis-lang/disc/internal/source"
)

func builtinDisCollision(dis *ast.Dis) diag.Diagnostic {
	return diag.New(diag.CategoryValidate, dis.Span(), fmt.Sprintf("dis name %s collides with a builtin", dis.Name))
}

func duplicatedArg(arg, firstDefined *ast.Arg) diag.Diagnostic {
	return diag.New(diag.CategoryValidate, arg.Span(), fmt.Sprintf("duplicated argument identifier: %s", arg.Name)).
		WithSecondary(firstDefined.Span(), "first defined here")
}

func duplicatedFunction(fun, firstDefined *ast.Fun) diag.Diagnostic {
	return diag.New(diag.CategoryValidate, fun.Span(), fmt.Sprintf("duplicated function: %s", fun.Name)).
		WithSecondary(firstDefined.Span(), "first defined here")
}

func duplicatedDis(dis, firstDefined *ast.Dis) diag.Diagnostic {
	return diag.New(diag.CategoryValidate, dis.Span(), fmt.Sprintf("duplicated dis: %s", dis.Name)).
		WithSecondary(firstDefined.Span(), "first defined here")
}

func duplicatedDisVariant(disName string, variant, firstDefined *ast.DisVariant) diag.Diagnostic {
	return diag.New(diag.CategoryValidate, variant.Span(), fmt.Sprintf("duplicated variant %s of dis %s", variant.Name, disName)).
		WithSecondary(firstDefined.Span(), "first defined here")
}

func duplicatedGenerics(loc source.Location, name string, firstDefined source.Location) diag.Diagnostic {
	return diag.New(diag.CategoryValidate, loc, fmt.Sprintf("duplicated generic parameter: %s", name)).
		WithSecondary(firstDefined, "first defined here")
}

func duplicatedVariable(let *ast.Let, firstDefined source.Location) diag.Diagnostic {
	return diag.New(diag.CategoryValidate, let.Span(), fmt.Sprintf("duplicated variable: %s", let.Name)).
		WithSecondary(firstDefined, "first defined here")
}

func assignOutsideStatement(loc source.Location) diag.Diagnostic {
	return diag.New(diag.CategoryValidate, loc, "assignment can only be used in statement position")
}

func assignToNonLvalue(loc source.Location) diag.Diagnostic {
	return diag.New(diag.CategoryValidate, loc, "can only assign to variables and members")
}

func disDoesNotExist(loc source.Location, name string) diag.Diagnostic {
	return diag.New(diag.CategoryValidate, loc, fmt.Sprintf("dis %s does not exist", name))
}

func disHasNoVariant(loc source.Location, disName, variantName string) diag.Diagnostic {
	return diag.New(diag.CategoryValidate, loc, fmt.Sprintf("dis %s has no variant %s", disName, variantName))
}

func disGenericArgumentsMismatch(loc source.Location, dis *ast.Dis, expected, actual int) diag.Diagnostic {
	return diag.New(diag.CategoryValidate, loc, fmt.Sprintf(
		"dis %s takes %d %s but %d %s provided", dis.Name, expected, pluralize(expected, "generic argument"), actual, pluralize2(actual))).
		WithSecondary(disNameSpan(dis), "defined here")
}

func funGenericArgumentsMismatch(loc source.Location, fun *ast.Fun, expected, actual int) diag.Diagnostic {
	return diag.New(diag.CategoryValidate, loc, fmt.Sprintf(
		"fun %s takes %d %s but %d %s provided", fun.Name, expected, pluralize(expected, "generic argument"), actual, pluralize2(actual))).
		WithSecondary(funNameSpan(fun), "defined here")
}

func unknownVariable(v *ast.Var) diag.Diagnostic {
	return diag.New(diag.CategoryValidate, v.Span(), fmt.Sprintf("unknown variable: %s", v.Name))
}

func unknownFunction(fi *ast.FunInst) diag.Diagnostic {
	return diag.New(diag.CategoryValidate, fi.Span(), fmt.Sprintf("unknown function: %s", fi.Name))
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return noun
	}
	return noun + "s"
}

func pluralize2(n int) string {
	if n == 1 {
		return "was"
	}
	return "were"
}

// disNameSpan covers a dis's name plus its generic-params list, the span
// a generic-argument-count "defined here" note should underline.
func disNameSpan(dis *ast.Dis) source.Location {
	if dis.Generics != nil {
		return source.Wrap(dis.Span(), dis.Generics.Span())
	}
	return dis.Span()
}

func funNameSpan(fun *ast.Fun) source.Location {
	if fun.Generics != nil {
		return source.Wrap(fun.Span(), fun.Generics.Span())
	}
	return fun.Span()
}

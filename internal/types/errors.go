package types

import (
	"fmt"

	"github.com/dis-lang/disc/internal/ast"
	"github.com/dis-lang/disc/internal/diag"
	"github.com/dis-lang/disc/internal/source"
)

func pluralize(n int, noun string) string {
	if n == 1 {
		return noun
	}
	return noun + "s"
}

func wasOrWere(n int) string {
	if n == 1 {
		return "was"
	}
	return "were"
}

func disNameAndGenericsSpan(dis *ast.Dis) source.Location {
	if dis.Generics != nil {
		return source.Wrap(dis.Span(), dis.Generics.Span())
	}
	return dis.Span()
}

func funNameAndGenericsSpan(fun *ast.Fun) source.Location {
	if fun.Generics != nil {
		return source.Wrap(fun.Span(), fun.Generics.Span())
	}
	return fun.Span()
}

func disDoesNotExist(loc source.Location, name string) diag.Diagnostic {
	return diag.New(diag.CategoryType, loc, fmt.Sprintf("dis %s does not exist", name))
}

func disHasNoVariant(loc source.Location, disName, variantName string) diag.Diagnostic {
	return diag.New(diag.CategoryType, loc, fmt.Sprintf("dis %s has no variant %s", disName, variantName))
}

func disGenericArgumentsMismatch(loc source.Location, dis *ast.Dis, expected, actual int) diag.Diagnostic {
	return diag.New(diag.CategoryType, loc, fmt.Sprintf(
		"dis %s takes %d %s but %d %s provided", dis.Name, expected, pluralize(expected, "generic argument"), actual, wasOrWere(actual))).
		WithSecondary(disNameAndGenericsSpan(dis), "defined here")
}

func funGenericArgumentsMismatch(loc source.Location, fun *ast.Fun, expected, actual int) diag.Diagnostic {
	return diag.New(diag.CategoryType, loc, fmt.Sprintf(
		"fun %s takes %d %s but %d %s provided", fun.Name, expected, pluralize(expected, "generic argument"), actual, wasOrWere(actual))).
		WithSecondary(funNameAndGenericsSpan(fun), "defined here")
}

func variantArgumentCountMismatch(loc source.Location, dis *ast.Dis, variant *ast.DisVariant, actual int) diag.Diagnostic {
	expected := len(variant.Args)
	return diag.New(diag.CategoryType, loc, fmt.Sprintf(
		"variant %s::%s takes %d %s but %d %s provided", dis.Name, variant.Name, expected, pluralize(expected, "argument"), actual, wasOrWere(actual))).
		WithSecondary(variant.Span(), "defined here")
}

func functionArgumentCountMismatch(loc, funLoc source.Location, funTy FunTy, expected, actual int) diag.Diagnostic {
	return diag.New(diag.CategoryType, loc, fmt.Sprintf(
		"function takes %d %s but %d %s provided", expected, pluralize(expected, "argument"), actual, wasOrWere(actual))).
		WithSecondary(funLoc, fmt.Sprintf("function has type %s", funTy.String()))
}

func cannotMatchPatternToNonDis(loc source.Location, patName string, ty Ty) diag.Diagnostic {
	return diag.New(diag.CategoryType, loc, fmt.Sprintf("cannot match pattern %s to non-dis type %s", patName, ty.String()))
}

func unknownVariable(v *ast.Var) diag.Diagnostic {
	return diag.New(diag.CategoryType, v.Span(), fmt.Sprintf("unknown variable: %s", v.Name))
}

func unknownFunction(fi *ast.FunInst) diag.Diagnostic {
	return diag.New(diag.CategoryType, fi.Span(), fmt.Sprintf("unknown function: %s", fi.Name))
}

func expectedDisType(loc source.Location, found Ty) diag.Diagnostic {
	return diag.New(diag.CategoryType, loc, fmt.Sprintf("expected dis type, got %s", found.String()))
}

func typeIsNotCallable(loc source.Location, ty Ty) diag.Diagnostic {
	return diag.New(diag.CategoryType, loc, fmt.Sprintf("type %s is not callable", ty.String()))
}

func functionExpectsArgOfType(loc source.Location, expected, actual Ty, funLoc source.Location, funTy FunTy) diag.Diagnostic {
	return diag.New(diag.CategoryType, loc, fmt.Sprintf(
		"function expects argument of type %s but %s was provided", expected.String(), actual.String())).
		WithSecondary(funLoc, fmt.Sprintf("function has type %s", funTy.String()))
}

func cannotGetMemberOnNonDisType(loc source.Location, memberName string, ty Ty) diag.Diagnostic {
	return diag.New(diag.CategoryType, loc, fmt.Sprintf("cannot get member %s on non-dis type %s", memberName, ty.String()))
}

func cannotGetMemberOnNonVariantType(loc source.Location, memberName string, ty Ty, exprLoc source.Location) diag.Diagnostic {
	return diag.New(diag.CategoryType, loc, fmt.Sprintf("cannot get member %s on non-variant type %s", memberName, ty.String())).
		WithSecondary(exprLoc, "help: consider applying fit to this expression")
}

func variantHasNoMember(loc source.Location, memberName string, ty Ty, variantNode *ast.DisVariant) diag.Diagnostic {
	return diag.New(diag.CategoryType, loc, fmt.Sprintf("variant %s has no member %s", ty.String(), memberName)).
		WithSecondary(variantNode.Span(), "variant defined here")
}

func returnTypeMismatch(loc source.Location, retTy, resultTy Ty, fun *ast.Fun) diag.Diagnostic {
	declLoc := fun.Span()
	if fun.Ret != nil {
		declLoc = fun.Ret.Span()
	}
	return diag.New(diag.CategoryType, loc, fmt.Sprintf(
		"return type %s does not match declared type %s", retTy.String(), resultTy.String())).
		WithSecondary(declLoc, "declared here")
}

func typeVariableCannotBeGeneric(loc source.Location, name string) diag.Diagnostic {
	return diag.New(diag.CategoryType, loc, fmt.Sprintf("type variable %s cannot be generic", name))
}

func typeIsNotGeneric(loc source.Location, name string) diag.Diagnostic {
	return diag.New(diag.CategoryType, loc, fmt.Sprintf("type %s is not generic", name))
}

func typeIsNotDefined(loc source.Location, name string) diag.Diagnostic {
	return diag.New(diag.CategoryType, loc, fmt.Sprintf("type %s is not defined", name))
}

func fitIsNotExhaustive(loc source.Location, missing Pat) diag.Diagnostic {
	return diag.New(diag.CategoryType, loc, fmt.Sprintf("fit is not exhaustive: missing pattern %s", missing.String()))
}

func fitBranchesHaveNoCommonType(loc source.Location, branchTys []Ty) diag.Diagnostic {
	parts := make([]string, len(branchTys))
	for i, t := range branchTys {
		parts[i] = t.String()
	}
	return diag.New(diag.CategoryType, loc, fmt.Sprintf("fit branches have no common type: %v", parts))
}

package types

import (
	"github.com/dis-lang/disc/internal/ast"
	"github.com/dis-lang/disc/internal/diag"
	"github.com/dis-lang/disc/internal/source"
)

// exhaustivenessStatus is whether a set of patterns covers every value a
// type can take, or is missing at least one (reported via a witness
// pattern pointing at what was not covered).
type exhaustivenessStatus int

const (
	exhaustAll exhaustivenessStatus = iota
	exhaustMissing
)

type exhaustivenessResult struct {
	status  exhaustivenessStatus
	missing Pat
}

func exhaustiveAll() exhaustivenessResult { return exhaustivenessResult{status: exhaustAll} }
func exhaustiveMissing(p Pat) exhaustivenessResult {
	return exhaustivenessResult{status: exhaustMissing, missing: p}
}

// exhaustivenessChecker partitions a fit's branch patterns by dis variant
// (and, inside a variant, by each argument position) to find a witness
// value no branch covers. A catchall anywhere at a given position always
// satisfies that position.
type exhaustivenessChecker struct {
	report *diag.Report
	ctx    *Context
	conv   *converter
}

func newExhaustivenessChecker(report *diag.Report, ctx *Context) *exhaustivenessChecker {
	return &exhaustivenessChecker{report: report, ctx: ctx, conv: newConverter(report, ctx)}
}

// check reports a diagnostic if patterns do not exhaust every value
// exprTy's dis can take, using loc as the fit's reported span.
func (e *exhaustivenessChecker) check(loc source.Location, exprTy DisTy, patterns []ast.Pattern) {
	converted := make([]Pat, len(patterns))
	for i, p := range patterns {
		converted[i] = e.conv.convertPattern(p)
	}
	decl := e.ctx.GetDis(exprTy.Name)
	if decl == nil {
		return
	}
	result := e.checkPatternsExhaustDis(decl, exprTy.GenericTypes, converted)
	if result.status == exhaustMissing {
		e.report.Error(fitIsNotExhaustive(loc, result.missing))
	}
}

func (e *exhaustivenessChecker) checkPatternsExhaustType(ty Ty, patterns []Pat) exhaustivenessResult {
	switch t := ty.(type) {
	case FunTy:
		if len(patterns) == 0 {
			return exhaustiveMissing(CatchallPat{})
		}
		return exhaustiveAll()
	case DisTy:
		decl := e.ctx.GetDis(t.Name)
		return e.checkPatternsExhaustDis(decl, t.GenericTypes, patterns)
	case SimpleType, TyVar:
		if patternsContainCatchall(patterns) {
			return exhaustiveAll()
		}
		return exhaustiveMissing(CatchallPat{})
	default:
		return exhaustiveAll()
	}
}

func patternsContainCatchall(patterns []Pat) bool {
	for _, p := range patterns {
		if isCatchall(p) {
			return true
		}
	}
	return false
}

func (e *exhaustivenessChecker) checkPatternsExhaustDis(decl *DisDeclaration, generics []Ty, patterns []Pat) exhaustivenessResult {
	if patternsContainCatchall(patterns) {
		return exhaustiveAll()
	}
	byVariant := make(map[string][]TyPattern, len(decl.Variants))
	for _, v := range decl.Variants {
		byVariant[v.Name] = nil
	}
	for _, p := range patterns {
		tp, ok := p.(TyPattern)
		if !ok {
			continue
		}
		byVariant[tp.Name] = append(byVariant[tp.Name], tp)
	}
	for _, v := range decl.Variants {
		result := e.checkPatternsExhaustVariant(v, generics, byVariant[v.Name])
		if result.status == exhaustMissing {
			return result
		}
	}
	return exhaustiveAll()
}

func (e *exhaustivenessChecker) checkPatternsExhaustVariant(variant VariantDeclaration, generics []Ty, patterns []TyPattern) exhaustivenessResult {
	if len(patterns) == 0 {
		children := make([]Pat, len(variant.Args))
		for i := range children {
			children[i] = CatchallPat{}
		}
		return exhaustiveMissing(TyPattern{Name: variant.Name, Children: children})
	}
	// A bare mention of the variant (no args written) narrows the tag only
	// and covers every possible field, as if it had spelled out a catchall
	// for each declared argument. A pattern with the wrong number of args
	// is treated the same way here; validatePatternValidForTy reports the
	// count mismatch.
	padded := make([]TyPattern, len(patterns))
	for i, p := range patterns {
		if len(p.Children) != len(variant.Args) {
			children := make([]Pat, len(variant.Args))
			for j := range children {
				children[j] = CatchallPat{}
			}
			padded[i] = TyPattern{Name: p.Name, Children: children}
		} else {
			padded[i] = p
		}
	}
	patterns = padded
	result := e.checkPatternsExhaustVariantArgs(variant.Args, generics, patterns, 0, nil)
	if result.status == exhaustAll {
		return result
	}
	missing, _ := result.missing.(TyPattern)
	return exhaustiveMissing(TyPattern{Name: variant.Name, Children: missing.Children})
}

func (e *exhaustivenessChecker) checkPatternsExhaustVariantArgs(args []Arg, generics []Ty, patterns []TyPattern, index int, current []Pat) exhaustivenessResult {
	if index >= len(args) {
		return exhaustiveAll()
	}
	if len(patterns) == 0 {
		missing := append(append([]Pat{}, current...), CatchallPat{})
		for i := index + 1; i < len(args); i++ {
			missing = append(missing, CatchallPat{})
		}
		return exhaustiveMissing(TyPattern{Children: missing})
	}

	argTy := Substitute(args[index].Ty, generics)
	argPats := make([]Pat, len(patterns))
	for i, p := range patterns {
		argPats[i] = p.Children[index]
	}

	argCov := e.checkPatternsExhaustType(argTy, excludeCatchall(argPats))

	if argCov.status == exhaustAll {
		var order []string
		keys := map[string]Pat{}
		grouped := map[string][]TyPattern{}
		var catchall []TyPattern
		for i, pat := range patterns {
			if isCatchall(argPats[i]) {
				catchall = append(catchall, pat)
				continue
			}
			key := argPats[i].String()
			if _, ok := grouped[key]; !ok {
				order = append(order, key)
				keys[key] = argPats[i]
			}
			grouped[key] = append(grouped[key], pat)
		}
		for _, key := range order {
			group := append(append([]TyPattern{}, grouped[key]...), catchall...)
			result := e.checkPatternsExhaustVariantArgs(args, generics, group, index+1, append(current, keys[key]))
			if result.status == exhaustMissing {
				return result
			}
		}
		return exhaustiveAll()
	}

	var withCatchall []TyPattern
	for i, pat := range patterns {
		if isCatchall(argPats[i]) {
			withCatchall = append(withCatchall, pat)
		}
	}
	if len(withCatchall) == 0 {
		missing := append(append([]Pat{}, current...), argCov.missing)
		for i := index + 1; i < len(args); i++ {
			missing = append(missing, CatchallPat{})
		}
		return exhaustiveMissing(TyPattern{Children: missing})
	}
	return e.checkPatternsExhaustVariantArgs(args, generics, withCatchall, index+1, append(current, CatchallPat{}))
}

func excludeCatchall(patterns []Pat) []Pat {
	out := make([]Pat, 0, len(patterns))
	for _, p := range patterns {
		if !isCatchall(p) {
			out = append(out, p)
		}
	}
	return out
}

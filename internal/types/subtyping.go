package types

// findSuperPattern computes the widest pattern both p1 and p2 refine to:
// a shared variant name keeps refining its children pairwise; anything
// else (including either side already being a catchall) widens to the
// catchall.
func findSuperPattern(p1, p2 Pat) Pat {
	if isCatchall(p1) || isCatchall(p2) {
		return CatchallPat{}
	}
	t1, ok1 := p1.(TyPattern)
	t2, ok2 := p2.(TyPattern)
	if !ok1 || !ok2 || t1.Name != t2.Name {
		return CatchallPat{}
	}
	if len(t1.Children) == 0 || len(t2.Children) == 0 {
		return TyPattern{Name: t1.Name}
	}
	children := make([]Pat, len(t1.Children))
	for i := range t1.Children {
		children[i] = findSuperPattern(t1.Children[i], t2.Children[i])
	}
	return TyPattern{Name: t1.Name, Children: children}
}

func isCatchall(p Pat) bool {
	_, ok := p.(CatchallPat)
	return ok
}

// isSubPattern reports whether sub refines at least as precisely as sup:
// sup being a catchall accepts anything; otherwise the variant names must
// agree and every child must itself be a sub-pattern.
func isSubPattern(sub, sup Pat) bool {
	if isCatchall(sup) {
		return true
	}
	if isCatchall(sub) {
		return false
	}
	ts, ok1 := sub.(TyPattern)
	tp, ok2 := sup.(TyPattern)
	if !ok1 || !ok2 || ts.Name != tp.Name {
		return false
	}
	if len(tp.Children) == 0 {
		return true
	}
	if len(ts.Children) == 0 {
		return false
	}
	for i := range ts.Children {
		if !isSubPattern(ts.Children[i], tp.Children[i]) {
			return false
		}
	}
	return true
}

// IsSubtype reports whether sub can be used wherever sup is expected.
// Function types are contravariant in their arguments and covariant in
// their result; dis types are invariant in their generics and covariant
// in how precisely their pattern is refined (a refined pattern is a
// subtype of a less-refined one, mirroring that a Nat::Succ value can
// always stand in for a plain Nat).
func IsSubtype(sub, sup Ty) bool {
	if tysEqual(sub, sup) {
		return true
	}
	if fsub, ok := sub.(FunTy); ok {
		if fsup, ok := sup.(FunTy); ok {
			if len(fsub.ArgTypes) != len(fsup.ArgTypes) {
				return false
			}
			if !IsSubtype(fsub.ResultType, fsup.ResultType) {
				return false
			}
			for i := range fsub.ArgTypes {
				if !IsSubtype(fsup.ArgTypes[i], fsub.ArgTypes[i]) {
					return false
				}
			}
			return true
		}
		return false
	}
	if dsub, ok := sub.(DisTy); ok {
		if dsup, ok := sup.(DisTy); ok {
			return dsub.Name == dsup.Name && genericsEqual(dsub.GenericTypes, dsup.GenericTypes) &&
				isSubPattern(dsub.Pattern, dsup.Pattern)
		}
		return false
	}
	return false
}

func genericsEqual(a, b []Ty) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !tysEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// tysEqual is structural equality, used as the reflexive base case for
// subtyping and as the "types are identical" check LUB needs.
func tysEqual(a, b Ty) bool {
	switch x := a.(type) {
	case SimpleType:
		y, ok := b.(SimpleType)
		return ok && x.Name == y.Name
	case WildcardTy:
		_, ok := b.(WildcardTy)
		return ok
	case TyVar:
		y, ok := b.(TyVar)
		return ok && x.Index == y.Index
	case ErrorTy:
		_, ok := b.(ErrorTy)
		return ok
	case FunTy:
		y, ok := b.(FunTy)
		if !ok || len(x.ArgTypes) != len(y.ArgTypes) || !tysEqual(x.ResultType, y.ResultType) {
			return false
		}
		for i := range x.ArgTypes {
			if !tysEqual(x.ArgTypes[i], y.ArgTypes[i]) {
				return false
			}
		}
		return true
	case DisTy:
		y, ok := b.(DisTy)
		return ok && x.Name == y.Name && genericsEqual(x.GenericTypes, y.GenericTypes) && patternsEqual(x.Pattern, y.Pattern)
	default:
		return false
	}
}

func patternsEqual(a, b Pat) bool {
	if isCatchall(a) && isCatchall(b) {
		return true
	}
	ta, ok1 := a.(TyPattern)
	tb, ok2 := b.(TyPattern)
	if !ok1 || !ok2 || ta.Name != tb.Name || len(ta.Children) != len(tb.Children) {
		return false
	}
	for i := range ta.Children {
		if !patternsEqual(ta.Children[i], tb.Children[i]) {
			return false
		}
	}
	return true
}

// FindSupertype computes the least upper bound T such that t1 <: T and
// t2 <: T, used to type a fit expression from its branches' result types.
// ErrorTy is absorbing: any LUB touching it is itself an ErrorTy.
func FindSupertype(t1, t2 Ty) Ty {
	if t1 == nil || t2 == nil {
		return ErrorTy{}
	}
	if _, ok := t1.(ErrorTy); ok {
		return ErrorTy{}
	}
	if _, ok := t2.(ErrorTy); ok {
		return ErrorTy{}
	}
	if tysEqual(t1, t2) {
		return t1
	}
	f1, ok1 := t1.(FunTy)
	f2, ok2 := t2.(FunTy)
	if ok1 && ok2 {
		if !argTypesEqual(f1.ArgTypes, f2.ArgTypes) {
			return ErrorTy{}
		}
		result := FindSupertype(f1.ResultType, f2.ResultType)
		if _, isErr := result.(ErrorTy); isErr {
			return ErrorTy{}
		}
		return FunTy{ArgTypes: f1.ArgTypes, ResultType: result}
	}
	if ok1 || ok2 {
		return ErrorTy{}
	}
	d1, ok1 := t1.(DisTy)
	d2, ok2 := t2.(DisTy)
	if ok1 && ok2 {
		if d1.Name == d2.Name && genericsEqual(d1.GenericTypes, d2.GenericTypes) {
			return DisTy{Name: d1.Name, GenericTypes: d1.GenericTypes, Pattern: findSuperPattern(d1.Pattern, d2.Pattern)}
		}
		return ErrorTy{}
	}
	return ErrorTy{}
}

func argTypesEqual(a, b []Ty) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !tysEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

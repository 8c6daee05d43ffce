// Package types implements the bidirectional type checker: type
// conversion, expression typing, subtyping, least-upper-bound, and
// exhaustiveness over the dis/fit sum-type system.
package types

import "strings"

// Ty is any of the semantic types a converted annotation or a typed
// expression can carry. Unlike the parsed ast.TypeExpr tree, a Ty never
// points back into the AST; declarations are looked up by name through a
// Context instead.
type Ty interface {
	String() string
	isTy()
}

// WildcardTy is the explicit '?' written in a generic position.
type WildcardTy struct{}

func (WildcardTy) String() string { return "?" }
func (WildcardTy) isTy()          {}

// TyVar is a bound generic parameter, referenced by its De Bruijn-like
// index into the substitution list a function or dis instantiation carries.
type TyVar struct {
	Index int
	Name  string
}

func (t TyVar) String() string { return t.Name }
func (TyVar) isTy()             {}

// SimpleType is a built-in scalar: Int, String, or Void.
type SimpleType struct {
	Name string
}

func (s SimpleType) String() string { return s.Name }
func (SimpleType) isTy()            {}

// ErrorTy propagates through a typing derivation to suppress cascading
// diagnostics once one part of it has already failed.
type ErrorTy struct{}

func (ErrorTy) String() string { return "<error>" }
func (ErrorTy) isTy()           {}

// FunTy is a function's type: a list of argument types and a result type.
type FunTy struct {
	ArgTypes   []Ty
	ResultType Ty
}

func (f FunTy) String() string {
	args := make([]string, len(f.ArgTypes))
	for i, a := range f.ArgTypes {
		args[i] = a.String()
	}
	res := "Void"
	if f.ResultType != nil {
		if _, ok := f.ResultType.(FunTy); ok {
			res = "(" + f.ResultType.String() + ")"
		} else {
			res = f.ResultType.String()
		}
	}
	return "(" + strings.Join(args, ", ") + ") -> " + res
}
func (FunTy) isTy() {}

// Pat is a typed pattern: either a refined TyPattern or the catchall.
// DisTy.Pattern always carries one of these two.
type Pat interface {
	String() string
	isCompound() bool
	isPat()
}

// TyPattern fixes one dis variant, optionally refining its fields with
// nested sub-patterns.
type TyPattern struct {
	Name     string
	Children []Pat // nil when the variant has no refined children
}

func (p TyPattern) String() string {
	if len(p.Children) == 0 {
		return p.Name
	}
	parts := make([]string, len(p.Children))
	for i, c := range p.Children {
		parts[i] = wrapChild(c)
	}
	return p.Name + " " + strings.Join(parts, " ")
}
func (p TyPattern) isCompound() bool { return len(p.Children) > 0 }
func (TyPattern) isPat()             {}

func wrapChild(c Pat) string {
	if c.isCompound() {
		return "(" + c.String() + ")"
	}
	return c.String()
}

// CatchallPat is the refined-pattern counterpart of ast.CatchallPattern:
// "this position could be any variant".
type CatchallPat struct{}

func (CatchallPat) String() string   { return "_" }
func (CatchallPat) isCompound() bool { return false }
func (CatchallPat) isPat()           {}

// DisTy names a dis by its declaration name, carries its converted generic
// arguments, and refines the variant set via Pattern. A DisTy whose
// Pattern is CatchallPat means "any variant of this dis"; this is what
// path-dependent narrowing replaces with a concrete TyPattern inside a fit
// branch bound to a Var.
type DisTy struct {
	Name         string
	GenericTypes []Ty
	Pattern      Pat
}

func (d DisTy) String() string {
	generics := ""
	if len(d.GenericTypes) > 0 {
		parts := make([]string, len(d.GenericTypes))
		for i, g := range d.GenericTypes {
			parts[i] = g.String()
		}
		generics = "[" + strings.Join(parts, ", ") + "]"
	}
	variant := ""
	if _, ok := d.Pattern.(CatchallPat); !ok && d.Pattern != nil {
		variant = "::" + d.Pattern.(TyPattern).Name
	}
	return d.Name + generics + variant
}
func (DisTy) isTy() {}

// Arg is one typed, named field of a variant.
type Arg struct {
	Name string
	Ty   Ty
}

// VariantDeclaration is one alternative of a resolved dis.
type VariantDeclaration struct {
	Name string
	Args []Arg
}

func (v VariantDeclaration) ArgCount() int { return len(v.Args) }

func (v VariantDeclaration) ArgTypes() []Ty {
	out := make([]Ty, len(v.Args))
	for i, a := range v.Args {
		out[i] = a.Ty
	}
	return out
}

func (v VariantDeclaration) HasArg(name string) bool {
	for _, a := range v.Args {
		if a.Name == name {
			return true
		}
	}
	return false
}

func (v VariantDeclaration) GetArg(name string) Arg {
	for _, a := range v.Args {
		if a.Name == name {
			return a
		}
	}
	panic("types: GetArg called with unknown field " + name)
}

func (v VariantDeclaration) ArgIndex(name string) int {
	for i, a := range v.Args {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// DisDeclaration is a fully resolved dis: its generic arity and its
// variants, in declaration order.
type DisDeclaration struct {
	GenericArgCount int
	Variants        []VariantDeclaration
}

func (d DisDeclaration) HasVariant(name string) bool {
	for _, v := range d.Variants {
		if v.Name == name {
			return true
		}
	}
	return false
}

func (d DisDeclaration) GetVariant(name string) VariantDeclaration {
	for _, v := range d.Variants {
		if v.Name == name {
			return v
		}
	}
	panic("types: GetVariant called with unknown variant " + name)
}

func (d DisDeclaration) GetVariantID(name string) int {
	for i, v := range d.Variants {
		if v.Name == name {
			return i
		}
	}
	return -1
}

// FunctionDeclaration is a fully resolved function: its generic arity and
// its (possibly TyVar-containing) type scheme.
type FunctionDeclaration struct {
	GenericArgCount int
	Ty              FunTy
}

// Substitute recursively replaces every TyVar in ty with subst[index],
// threading through FunTy argument/result lists and DisTy generic lists.
// A DisTy's own Pattern is never substituted — variant refinement is
// orthogonal to generic instantiation.
func Substitute(ty Ty, subst []Ty) Ty {
	switch t := ty.(type) {
	case FunTy:
		args := make([]Ty, len(t.ArgTypes))
		for i, a := range t.ArgTypes {
			args[i] = Substitute(a, subst)
		}
		return FunTy{ArgTypes: args, ResultType: Substitute(t.ResultType, subst)}
	case DisTy:
		generics := make([]Ty, len(t.GenericTypes))
		for i, g := range t.GenericTypes {
			generics[i] = Substitute(g, subst)
		}
		return DisTy{Name: t.Name, GenericTypes: generics, Pattern: t.Pattern}
	case TyVar:
		return subst[t.Index]
	default:
		return ty
	}
}

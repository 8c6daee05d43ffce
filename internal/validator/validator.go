// Package validator performs the pre-typechecking pass over a parsed
// program: name resolution, arity checks, and the lexical-scoping and
// uniqueness rules that narrow what the type checker has to consider.
// It never aborts on the first problem — every violation it finds is
// collected into a diag.Report and returned together.
package validator

import (
	"github.com/dis-lang/disc/internal/ast"
	"github.com/dis-lang/disc/internal/diag"
)

// builtinSimpleTypes are the primitive type names that collide with a dis
// declaration of the same name.
var builtinSimpleTypes = map[string]struct{}{
	"Int":    {},
	"String": {},
	"Void":   {},
}

// builtinOperators are the operator symbols the expression builder turns
// into a plain Call(Var(op), [l, r]); each is seeded into the function
// table as a non-generic, two-argument builtin so 'validateVar' resolves
// them exactly like a user-declared function.
var builtinOperators = []string{"+", "-", "*", "/", "%"}

// disInfo is what the validator remembers about a dis declaration once it
// has been collected: enough to check generic-arg counts and variant
// names against later uses, without re-walking the declaration.
type disInfo struct {
	genericCount int
	variantArity map[string]int
	decl         *ast.Dis
	errored      bool
}

// funInfo is the function-declaration counterpart of disInfo.
type funInfo struct {
	genericCount int
	argCount     int
	decl         *ast.Fun
	errored      bool
}

// frame is one lexical scope: the locals introduced by 'let' and function
// arguments, plus the generic parameters in scope at this nesting level.
// locals maps a name to the node (an *ast.Arg or *ast.Let) that first
// introduced it, so a duplicate-definition error can point back at it.
type frame struct {
	locals   map[string]ast.Node
	generics map[string]struct{}
}

func newFrame() *frame {
	return &frame{
		locals:   map[string]ast.Node{},
		generics: map[string]struct{}{},
	}
}

func (f *frame) addGenerics(g *ast.GenericParams) {
	if g == nil {
		return
	}
	for _, name := range g.Names {
		f.generics[name] = struct{}{}
	}
}

func (f *frame) addLocal(name string, node ast.Node) {
	f.locals[name] = node
}

// validator walks a parsed Program, accumulating diagnostics and the
// declaration tables later passes (the type checker) also need.
type validator struct {
	report *diag.Report
	dises  map[string]*disInfo
	funs   map[string]*funInfo
	stack  []*frame
}

// Result is what Validate hands back: the accumulated diagnostics plus the
// declaration tables the type checker reuses instead of re-scanning the
// program for dis/fun declarations.
type Result struct {
	Report *diag.Report
	Dises  map[string]*DisDeclaration
	Funs   map[string]*FunDeclaration
}

// DisDeclaration is the validator's resolved view of one dis: its
// generic arity and the arity of each of its variants.
type DisDeclaration struct {
	Node         *ast.Dis
	GenericCount int
	VariantArity map[string]int
}

// FunDeclaration is the validator's resolved view of one function: its
// generic and argument arity.
type FunDeclaration struct {
	Node         *ast.Fun
	GenericCount int
	ArgCount     int
}

// Validate runs name resolution, arity, and scoping checks over program,
// returning the collected diagnostics and the resolved declaration tables.
func Validate(program *ast.Program) *Result {
	v := &validator{
		report: &diag.Report{},
		dises:  map[string]*disInfo{},
		funs:   map[string]*funInfo{},
		stack:  []*frame{newFrame()},
	}
	for _, op := range builtinOperators {
		v.funs[op] = &funInfo{genericCount: 0, argCount: 2}
	}
	v.findDisDeclarations(program)
	v.findFunDeclarations(program)
	v.validateProgram(program)
	return v.toResult()
}

func (v *validator) toResult() *Result {
	dises := make(map[string]*DisDeclaration, len(v.dises))
	for name, d := range v.dises {
		if d.errored {
			continue
		}
		dises[name] = &DisDeclaration{Node: d.decl, GenericCount: d.genericCount, VariantArity: d.variantArity}
	}
	funs := make(map[string]*FunDeclaration, len(v.funs))
	for name, f := range v.funs {
		if f.errored || f.decl == nil {
			continue
		}
		funs[name] = &FunDeclaration{Node: f.decl, GenericCount: f.genericCount, ArgCount: f.argCount}
	}
	return &Result{Report: v.report, Dises: dises, Funs: funs}
}

func (v *validator) top() *frame { return v.stack[len(v.stack)-1] }

func (v *validator) push() { v.stack = append(v.stack, newFrame()) }

func (v *validator) pop() { v.stack = v.stack[:len(v.stack)-1] }

func (v *validator) hasLocalVar(name string) bool {
	for _, f := range v.stack {
		if _, ok := f.locals[name]; ok {
			return true
		}
	}
	return false
}

// --- Declaration collection --------------------------------------------

func (v *validator) findDisDeclarations(program *ast.Program) {
	previous := map[string]*ast.Dis{}
	for _, item := range program.Items {
		dis, ok := item.(*ast.Dis)
		if !ok {
			continue
		}
		errored := false
		if _, collides := builtinSimpleTypes[dis.Name]; collides {
			v.report.Error(builtinDisCollision(dis))
			errored = true
		}
		if first, dup := previous[dis.Name]; dup {
			v.report.Error(duplicatedDis(dis, first))
			errored = true
		} else {
			previous[dis.Name] = dis
		}

		genericCount := 0
		if dis.Generics != nil {
			genericCount = len(dis.Generics.Names)
		}
		arity := make(map[string]int, len(dis.Variants))
		for _, variant := range dis.Variants {
			arity[variant.Name] = len(variant.Args)
		}
		v.dises[dis.Name] = &disInfo{genericCount: genericCount, variantArity: arity, decl: dis, errored: errored}
	}
}

func (v *validator) findFunDeclarations(program *ast.Program) {
	previous := map[string]*ast.Fun{}
	for _, item := range program.Items {
		fun, ok := item.(*ast.Fun)
		if !ok {
			continue
		}
		errored := false
		if first, dup := previous[fun.Name]; dup {
			v.report.Error(duplicatedFunction(fun, first))
			errored = true
		} else {
			previous[fun.Name] = fun
		}

		genericCount := 0
		if fun.Generics != nil {
			genericCount = len(fun.Generics.Names)
		}
		v.funs[fun.Name] = &funInfo{genericCount: genericCount, argCount: len(fun.Args), decl: fun, errored: errored}
	}
}

// --- Top-level and declaration bodies -----------------------------------

func (v *validator) validateProgram(program *ast.Program) {
	for _, item := range program.Items {
		v.validateDecl(item)
	}
}

func (v *validator) validateDecl(item ast.Decl) {
	switch n := item.(type) {
	case *ast.Dis:
		v.validateDis(n)
	case *ast.Fun:
		v.validateFun(n)
	case *ast.ExprItem:
		v.validateExpr(n.Value, true)
	}
}

func (v *validator) validateDis(dis *ast.Dis) {
	v.push()
	if dis.Generics != nil {
		v.validateGenerics(dis.Generics)
	}
	v.top().addGenerics(dis.Generics)

	previous := map[string]*ast.DisVariant{}
	for _, variant := range dis.Variants {
		v.validateArgList(variant.Args)
		if first, dup := previous[variant.Name]; dup {
			v.report.Error(duplicatedDisVariant(dis.Name, variant, first))
		} else {
			previous[variant.Name] = variant
		}
	}
	v.pop()
}

func (v *validator) validateGenerics(g *ast.GenericParams) {
	// The parser does not keep a per-name location within GenericParams,
	// only the span of the whole '[...]' list, so both the error and its
	// "first defined here" note anchor on that shared span.
	seen := map[string]struct{}{}
	for _, name := range g.Names {
		if _, dup := seen[name]; dup {
			v.report.Error(duplicatedGenerics(g.Span(), name, g.Span()))
		} else {
			seen[name] = struct{}{}
		}
	}
}

func (v *validator) validateArgList(args []*ast.Arg) {
	previous := map[string]*ast.Arg{}
	for _, arg := range args {
		v.validateType(arg.Type)
		if first, dup := previous[arg.Name]; dup {
			v.report.Error(duplicatedArg(arg, first))
		} else {
			previous[arg.Name] = arg
		}
	}
}

func (v *validator) validateFun(fun *ast.Fun) {
	v.push()
	if fun.Generics != nil {
		v.validateGenerics(fun.Generics)
	}
	v.top().addGenerics(fun.Generics)

	v.validateArgList(fun.Args)
	for _, arg := range fun.Args {
		v.top().addLocal(arg.Name, arg)
	}

	v.validateType(fun.Ret)
	v.validateBlock(fun.Body)
	v.pop()
}

// --- Types ---------------------------------------------------------------

func (v *validator) validateType(t ast.TypeExpr) {
	switch n := t.(type) {
	case *ast.DisType:
		for _, g := range n.Generics {
			v.validateType(g)
		}
	case *ast.FunctionType:
		for _, a := range n.Args {
			v.validateType(a)
		}
		v.validateType(n.Ret)
	case *ast.DisConstructorType:
		for _, g := range n.Generics {
			v.validateType(g)
		}
	case *ast.WildcardType, *ast.VoidType:
		// nothing to check
	}
}

// --- Statements ------------------------------------------------------------

func (v *validator) validateStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Block:
		v.validateBlock(n)
	case *ast.Let:
		v.validateLet(n)
	case *ast.Ret:
		if n.Value != nil {
			v.validateExpr(n.Value, false)
		}
	case *ast.Write:
		// nothing to check
	case *ast.FitStatement:
		v.validateExpr(n.Value, false)
		for _, branch := range n.Branches {
			v.validatePattern(branch.Pattern)
			v.validateStmt(branch.Body)
		}
	case *ast.ExprStmt:
		v.validateExpr(n.Value, true)
	}
}

func (v *validator) validateBlock(b *ast.Block) {
	v.push()
	for _, stmt := range b.Stmts {
		v.validateStmt(stmt)
	}
	v.pop()
}

func (v *validator) validateLet(l *ast.Let) {
	v.validateExpr(l.Value, false)
	if existing, ok := v.top().locals[l.Name]; ok {
		v.report.Error(duplicatedVariable(l, existing.Span()))
		return
	}
	v.top().addLocal(l.Name, l)
}

// --- Expressions -------------------------------------------------------------

// isTopExpr tracks whether the expression being walked sits directly in
// statement position, the one place Assign is legal.
func (v *validator) validateExpr(e ast.Expr, isTopExpr bool) {
	switch n := e.(type) {
	case *ast.Value:
		// nothing to check
	case *ast.Var:
		v.validateVar(n)
	case *ast.FunInst:
		v.validateFunInst(n)
	case *ast.Call:
		v.validateExpr(n.Fun, false)
		for _, arg := range n.Args {
			v.validateExpr(arg, false)
		}
	case *ast.Member:
		v.validateExpr(n.Value, false)
	case *ast.Assign:
		if !isTopExpr {
			v.report.Error(assignOutsideStatement(n.Span()))
		}
		switch n.Target.(type) {
		case *ast.Var, *ast.Member:
		default:
			v.report.Error(assignToNonLvalue(n.Target.Span()))
		}
		v.validateExpr(n.Target, false)
		v.validateExpr(n.Value, false)
	case *ast.DisConstructor:
		v.validateDisConstructor(n)
	case *ast.FitExpr:
		v.validateExpr(n.Value, false)
		for _, branch := range n.Branches {
			v.validatePattern(branch.Pattern)
			v.validateExpr(branch.Body, true)
		}
	case *ast.TupleLike:
		for _, part := range n.Parts {
			v.validateExpr(part, false)
		}
	}
}

func (v *validator) validateVar(n *ast.Var) {
	if v.hasLocalVar(n.Name) {
		return
	}
	fun, ok := v.funs[n.Name]
	if ok {
		if !fun.errored && fun.genericCount != 0 {
			v.report.Error(funGenericArgumentsMismatch(n.Span(), fun.decl, fun.genericCount, 0))
		}
		return
	}
	v.report.Error(unknownVariable(n))
}

func (v *validator) validateFunInst(n *ast.FunInst) {
	for _, g := range n.Generics {
		v.validateType(g)
	}
	fun, ok := v.funs[n.Name]
	if !ok {
		v.report.Error(unknownFunction(n))
		return
	}
	if !fun.errored && len(n.Generics) != fun.genericCount {
		v.report.Error(funGenericArgumentsMismatch(n.Span(), fun.decl, fun.genericCount, len(n.Generics)))
	}
}

func (v *validator) validateDisConstructor(n *ast.DisConstructor) {
	for _, g := range n.Generics {
		v.validateType(g)
	}
	dis, ok := v.dises[n.Name]
	if !ok {
		v.report.Error(disDoesNotExist(n.Span(), n.Name))
		return
	}
	if dis.errored {
		return
	}
	if dis.genericCount != len(n.Generics) {
		v.report.Error(disGenericArgumentsMismatch(n.Span(), dis.decl, dis.genericCount, len(n.Generics)))
	}
	if _, hasVariant := dis.variantArity[n.Variant]; !hasVariant {
		v.report.Error(disHasNoVariant(n.Span(), n.Name, n.Variant))
	}
}

// --- Patterns --------------------------------------------------------------

func (v *validator) validatePattern(p ast.Pattern) {
	switch n := p.(type) {
	case *ast.VariantPattern:
		for _, arg := range n.Args {
			v.validatePattern(arg)
		}
	case *ast.CatchallPattern, *ast.ValuePattern:
		// nothing to check
	}
}

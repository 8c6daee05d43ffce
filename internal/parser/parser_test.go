package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dis-lang/disc/internal/ast"
	"github.com/dis-lang/disc/internal/diag"
	"github.com/dis-lang/disc/internal/lexer"
	"github.com/dis-lang/disc/internal/source"
)

func parseText(t *testing.T, text string) (*ast.Program, *diag.Report) {
	t.Helper()
	src := source.New("test.dis", text)
	lexReport := &diag.Report{}
	tokens := lexer.Lex(src, lexReport)
	if lexReport.HasErrors() {
		t.Fatalf("unexpected lex errors: %v", lexReport.Errors)
	}
	return Parse(tokens)
}

func mustParse(t *testing.T, text string) *ast.Program {
	t.Helper()
	prog, report := parseText(t, text)
	if report.HasErrors() {
		t.Fatalf("unexpected parse errors for %q: %v", text, report.Errors)
	}
	if prog == nil {
		t.Fatalf("expected a program for %q, got nil", text)
	}
	return prog
}

func TestParse_EmptyProgram(t *testing.T) {
	prog := mustParse(t, "")
	if len(prog.Items) != 0 {
		t.Fatalf("expected no items, got %d", len(prog.Items))
	}
}

func TestParse_DisDeclaration(t *testing.T) {
	prog := mustParse(t, "dis Bool { True, False }")
	if len(prog.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(prog.Items))
	}
	d, ok := prog.Items[0].(*ast.Dis)
	if !ok {
		t.Fatalf("expected *ast.Dis, got %T", prog.Items[0])
	}
	if d.Name != "Bool" {
		t.Fatalf("expected name Bool, got %s", d.Name)
	}
	if len(d.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(d.Variants))
	}
	if d.Variants[0].Name != "True" || d.Variants[1].Name != "False" {
		t.Fatalf("unexpected variant names: %+v", d.Variants)
	}
}

func TestParse_DisWithGenericsAndArgs(t *testing.T) {
	prog := mustParse(t, "dis Option[T] { Some(value: T), None }")
	d := prog.Items[0].(*ast.Dis)
	if d.Generics == nil || len(d.Generics.Names) != 1 || d.Generics.Names[0] != "T" {
		t.Fatalf("expected generic param T, got %+v", d.Generics)
	}
	some := d.Variants[0]
	if len(some.Args) != 1 || some.Args[0].Name != "value" {
		t.Fatalf("expected one arg named value, got %+v", some.Args)
	}
	if _, ok := some.Args[0].Type.(*ast.DisType); !ok {
		t.Fatalf("expected DisType for generic arg T, got %T", some.Args[0].Type)
	}
}

func TestParse_FunDeclaration(t *testing.T) {
	prog := mustParse(t, "fun add(a: Int, b: Int) -> Int { ret a + b; }")
	f, ok := prog.Items[0].(*ast.Fun)
	if !ok {
		t.Fatalf("expected *ast.Fun, got %T", prog.Items[0])
	}
	if f.Name != "add" {
		t.Fatalf("expected name add, got %s", f.Name)
	}
	if len(f.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(f.Args))
	}
	if _, ok := f.Ret.(*ast.DisType); !ok {
		t.Fatalf("expected DisType return, got %T", f.Ret)
	}
	if len(f.Body.Stmts) != 1 {
		t.Fatalf("expected 1 statement in body, got %d", len(f.Body.Stmts))
	}
	ret, ok := f.Body.Stmts[0].(*ast.Ret)
	if !ok {
		t.Fatalf("expected *ast.Ret, got %T", f.Body.Stmts[0])
	}
	call, ok := ret.Value.(*ast.Call)
	if !ok {
		t.Fatalf("expected Call for 'a + b', got %T", ret.Value)
	}
	fn, ok := call.Fun.(*ast.Var)
	if !ok || fn.Name != "+" {
		t.Fatalf("expected Var(+), got %+v", call.Fun)
	}
	if len(call.Args) != 2 {
		t.Fatalf("expected 2 call args, got %d", len(call.Args))
	}
}

func TestParse_FunWithVoidReturn(t *testing.T) {
	prog := mustParse(t, "fun noop() { }")
	f := prog.Items[0].(*ast.Fun)
	if _, ok := f.Ret.(*ast.VoidType); !ok {
		t.Fatalf("expected VoidType for no arrow, got %T", f.Ret)
	}
}

func TestParse_FunctionType(t *testing.T) {
	prog := mustParse(t, "fun apply(f: Int -> Int, x: Int) -> Int { ret f(x); }")
	f := prog.Items[0].(*ast.Fun)
	ft, ok := f.Args[0].Type.(*ast.FunctionType)
	if !ok {
		t.Fatalf("expected FunctionType, got %T", f.Args[0].Type)
	}
	if len(ft.Args) != 1 {
		t.Fatalf("expected 1 function-type arg, got %d", len(ft.Args))
	}
}

func TestParse_DisConstructorType(t *testing.T) {
	prog := mustParse(t, "fun isTrue(b: Bool::True) { }")
	f := prog.Items[0].(*ast.Fun)
	ct, ok := f.Args[0].Type.(*ast.DisConstructorType)
	if !ok {
		t.Fatalf("expected DisConstructorType, got %T", f.Args[0].Type)
	}
	if ct.Name != "Bool" || ct.Variant != "True" {
		t.Fatalf("expected Bool::True, got %s::%s", ct.Name, ct.Variant)
	}
}

func TestParse_GenericArgsWithWildcard(t *testing.T) {
	prog := mustParse(t, "fun f(x: Option[?]) { }")
	f := prog.Items[0].(*ast.Fun)
	dt := f.Args[0].Type.(*ast.DisType)
	if len(dt.Generics) != 1 {
		t.Fatalf("expected 1 generic, got %d", len(dt.Generics))
	}
	if _, ok := dt.Generics[0].(*ast.WildcardType); !ok {
		t.Fatalf("expected WildcardType, got %T", dt.Generics[0])
	}
}

func TestParse_LetAndWrite(t *testing.T) {
	prog := mustParse(t, `fun main() { let x = 1; wrt "hi"; }`)
	f := prog.Items[0].(*ast.Fun)
	let, ok := f.Body.Stmts[0].(*ast.Let)
	if !ok || let.Name != "x" {
		t.Fatalf("expected Let(x), got %+v", f.Body.Stmts[0])
	}
	wrt, ok := f.Body.Stmts[1].(*ast.Write)
	if !ok || wrt.Text != "hi" {
		t.Fatalf("expected Write(hi), got %+v", f.Body.Stmts[1])
	}
}

func TestParse_FitStatement(t *testing.T) {
	prog := mustParse(t, `
		fun describe(b: Bool) {
			fit b {
				True => wrt "yes",
				_ => wrt "no"
			};
		}
	`)
	f := prog.Items[0].(*ast.Fun)
	fs, ok := f.Body.Stmts[0].(*ast.FitStatement)
	if !ok {
		t.Fatalf("expected *ast.FitStatement, got %T", f.Body.Stmts[0])
	}
	if len(fs.Branches) != 2 {
		t.Fatalf("expected 2 branches, got %d", len(fs.Branches))
	}
	if _, ok := fs.Branches[1].Pattern.(*ast.CatchallPattern); !ok {
		t.Fatalf("expected catchall pattern, got %T", fs.Branches[1].Pattern)
	}
}

func TestParse_FitExpression(t *testing.T) {
	prog := mustParse(t, `fun f(x: Int) -> Int { ret fit x { 0 => 1, _ => x }; }`)
	f := prog.Items[0].(*ast.Fun)
	ret := f.Body.Stmts[0].(*ast.Ret)
	fe, ok := ret.Value.(*ast.FitExpr)
	if !ok {
		t.Fatalf("expected *ast.FitExpr, got %T", ret.Value)
	}
	if len(fe.Branches) != 2 {
		t.Fatalf("expected 2 branches, got %d", len(fe.Branches))
	}
	if _, ok := fe.Branches[0].Pattern.(*ast.ValuePattern); !ok {
		t.Fatalf("expected a value pattern, got %T", fe.Branches[0].Pattern)
	}
}

func TestParse_VariantPatternWithNestedArgs(t *testing.T) {
	// Patterns narrow the scrutinee's static type; they never bind new names,
	// so a nested arg is itself a pattern (here, a wildcard one field deep).
	prog := mustParse(t, `
		fun f(o: Option[Int]) -> Int {
			fit o {
				Some(_) => o.value,
				None => 0
			};
		}
	`)
	f := prog.Items[0].(*ast.Fun)
	fs, ok := f.Body.Stmts[0].(*ast.FitStatement)
	if !ok {
		t.Fatalf("expected *ast.FitStatement, got %T", f.Body.Stmts[0])
	}
	some, ok := fs.Branches[0].Pattern.(*ast.VariantPattern)
	if !ok || some.Name != "Some" || len(some.Args) != 1 {
		t.Fatalf("expected Some(_), got %+v", fs.Branches[0].Pattern)
	}
	if _, ok := some.Args[0].(*ast.CatchallPattern); !ok {
		t.Fatalf("expected the nested arg to be a catchall, got %T", some.Args[0])
	}
	body, ok := fs.Branches[0].Body.(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected branch body to be an ExprStmt-wrapped expr, got %T", fs.Branches[0].Body)
	}
	member, ok := body.Value.(*ast.Member)
	if !ok || member.Field != "value" {
		t.Fatalf("expected o.value via narrowing, got %+v", body.Value)
	}
}

func TestParse_MemberAndAssign(t *testing.T) {
	prog := mustParse(t, `fun f(p: Point) { p.x = 1; }`)
	f := prog.Items[0].(*ast.Fun)
	es, ok := f.Body.Stmts[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected *ast.ExprStmt, got %T", f.Body.Stmts[0])
	}
	assign, ok := es.Value.(*ast.Assign)
	if !ok {
		t.Fatalf("expected *ast.Assign, got %T", es.Value)
	}
	member, ok := assign.Target.(*ast.Member)
	if !ok || member.Field != "x" {
		t.Fatalf("expected Member(p, x), got %+v", assign.Target)
	}
}

func TestParse_CallChainFlattensArguments(t *testing.T) {
	prog := mustParse(t, `fun f(g: Int -> Int -> Int) -> Int { ret g(1)(2); }`)
	f := prog.Items[0].(*ast.Fun)
	ret := f.Body.Stmts[0].(*ast.Ret)
	outer, ok := ret.Value.(*ast.Call)
	if !ok {
		t.Fatalf("expected outer Call, got %T", ret.Value)
	}
	if len(outer.Args) != 1 {
		t.Fatalf("expected 1 arg on outer call, got %d", len(outer.Args))
	}
	if _, ok := outer.Fun.(*ast.Call); !ok {
		t.Fatalf("expected nested Call as callee, got %T", outer.Fun)
	}
}

func TestParse_BareParenUnwrapsSingleExpr(t *testing.T) {
	prog := mustParse(t, `fun f() -> Int { ret (1); }`)
	f := prog.Items[0].(*ast.Fun)
	ret := f.Body.Stmts[0].(*ast.Ret)
	if _, ok := ret.Value.(*ast.Value); !ok {
		t.Fatalf("expected bare paren to unwrap to Value, got %T", ret.Value)
	}
}

func TestParse_BareTupleOutsideCallIsError(t *testing.T) {
	_, report := parseText(t, `fun f() -> Int { ret (1, 2); }`)
	if !report.HasErrors() {
		t.Fatalf("expected an error for a non-call tuple-like expression")
	}
}

func TestParse_DisConstructorExpr(t *testing.T) {
	prog := mustParse(t, `fun f() -> Bool { ret Bool::True; }`)
	f := prog.Items[0].(*ast.Fun)
	ret := f.Body.Stmts[0].(*ast.Ret)
	ctor, ok := ret.Value.(*ast.DisConstructor)
	if !ok || ctor.Name != "Bool" || ctor.Variant != "True" {
		t.Fatalf("expected Bool::True constructor, got %+v", ret.Value)
	}
}

func TestParse_FunInstantiation(t *testing.T) {
	prog := mustParse(t, `fun f() -> Int { ret id[Int](1); }`)
	f := prog.Items[0].(*ast.Fun)
	ret := f.Body.Stmts[0].(*ast.Ret)
	call := ret.Value.(*ast.Call)
	inst, ok := call.Fun.(*ast.FunInst)
	if !ok || inst.Name != "id" || len(inst.Generics) != 1 {
		t.Fatalf("expected FunInst id[Int], got %+v", call.Fun)
	}
}

func TestParse_PrecedenceClimbing(t *testing.T) {
	prog := mustParse(t, `fun f() -> Int { ret 1 + 2 * 3; }`)
	f := prog.Items[0].(*ast.Fun)
	ret := f.Body.Stmts[0].(*ast.Ret)
	plus := ret.Value.(*ast.Call)
	if fn, ok := plus.Fun.(*ast.Var); !ok || fn.Name != "+" {
		t.Fatalf("expected top-level '+', got %+v", plus.Fun)
	}
	if _, ok := plus.Args[1].(*ast.Call); !ok {
		t.Fatalf("expected '2 * 3' grouped as the right operand, got %T", plus.Args[1])
	}
}

func TestParse_ExprCannotBeginWithOperator(t *testing.T) {
	_, report := parseText(t, `fun f() -> Int { ret * 1; }`)
	if !report.HasErrors() {
		t.Fatalf("expected an error for an expression beginning with an operator")
	}
}

func TestParse_TopLevelExprItem(t *testing.T) {
	prog := mustParse(t, "1")
	if _, ok := prog.Items[0].(*ast.ExprItem); !ok {
		t.Fatalf("expected *ast.ExprItem, got %T", prog.Items[0])
	}
}

// TestParse_IdempotentOnReparse checks idempotence on Ok: pretty-printing a
// parsed program back to surface syntax and reparsing that text reproduces
// an equivalent tree, and printing the reparsed tree again reproduces the
// exact same text.
func TestParse_IdempotentOnReparse(t *testing.T) {
	text := `
		dis Option[T] { Some(value: T), None }
		fun unwrapOr(o: Option[Int], default: Int) -> Int {
			ret fit o {
				Some(_) => o.value,
				None => default,
			};
		}
	`
	first := mustParse(t, text)
	printed := ast.Print(first)

	second := mustParse(t, printed)
	if diff := cmp.Diff(ast.Dump(first), ast.Dump(second)); diff != "" {
		t.Fatalf("pretty-print -> reparse produced a different tree (-first +second):\n%s", diff)
	}

	reprinted := ast.Print(second)
	if diff := cmp.Diff(printed, reprinted); diff != "" {
		t.Fatalf("Print is not idempotent on Ok (-first +second):\n%s", diff)
	}
}

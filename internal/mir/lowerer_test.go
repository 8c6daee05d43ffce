package mir

import (
	"strings"
	"testing"

	"github.com/dis-lang/disc/internal/diag"
	"github.com/dis-lang/disc/internal/lexer"
	"github.com/dis-lang/disc/internal/parser"
	"github.com/dis-lang/disc/internal/source"
	"github.com/dis-lang/disc/internal/types"
	"github.com/dis-lang/disc/internal/validator"
)

func lowerText(t *testing.T, text string) *Program {
	t.Helper()
	src := source.New("test.dis", text)
	lexReport := &diag.Report{}
	tokens := lexer.Lex(src, lexReport)
	if lexReport.HasErrors() {
		t.Fatalf("unexpected lex errors: %v", lexReport.Errors)
	}
	prog, parseReport := parser.Parse(tokens)
	if parseReport.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", parseReport.Errors)
	}
	valResult := validator.Validate(prog)
	if valResult.Report.HasErrors() {
		t.Fatalf("unexpected validation errors: %v", valResult.Report.Errors)
	}
	checkResult := types.Check(prog, valResult)
	if checkResult.Report.HasErrors() {
		t.Fatalf("unexpected type errors: %v", checkResult.Report.Errors)
	}
	return NewLowerer(checkResult).Lower(prog)
}

func funByName(t *testing.T, p *Program, name string) *Fun {
	t.Helper()
	for _, f := range p.Funs {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("no lowered function named %s, have: %v", name, funNames(p))
	return nil
}

func funNames(p *Program) []string {
	names := make([]string, len(p.Funs))
	for i, f := range p.Funs {
		names[i] = f.Name
	}
	return names
}

func TestLower_NullaryConstructorLowersDirectlyToCreate(t *testing.T) {
	prog := lowerText(t, `
		dis Bool { True, False }
		fun f() -> Bool { ret Bool::True; }
	`)
	f := funByName(t, prog, "f")
	ret, ok := f.Body[0].(*Ret)
	if !ok {
		t.Fatalf("expected a Ret statement, got %T", f.Body[0])
	}
	create, ok := ret.Value.(*Create)
	if !ok {
		t.Fatalf("expected Create, got %T", ret.Value)
	}
	if create.VariantID != 0 {
		t.Fatalf("expected True to be variant 0, got %d", create.VariantID)
	}
}

func TestLower_NonNullaryVariantGeneratesConstructorFunction(t *testing.T) {
	prog := lowerText(t, `
		dis Nat { Zero, Succ(p: Nat) }
		fun f() -> Nat { ret Nat::Succ(Nat::Zero); }
	`)
	ctor := funByName(t, prog, "__Nat__1")
	if ctor.ArgCount != 1 {
		t.Fatalf("expected the Succ constructor to take 1 argument, got %d", ctor.ArgCount)
	}
	ret, ok := ctor.Body[0].(*Ret)
	if !ok {
		t.Fatalf("expected constructor body to be a single Ret, got %T", ctor.Body[0])
	}
	create, ok := ret.Value.(*Create)
	if !ok || create.VariantID != 1 {
		t.Fatalf("expected constructor to create variant 1, got %#v", ret.Value)
	}

	f := funByName(t, prog, "f")
	outerRet := f.Body[0].(*Ret)
	call, ok := outerRet.Value.(*Call)
	if !ok {
		t.Fatalf("expected the call to Succ's constructor, got %T", outerRet.Value)
	}
	if name, ok := call.Fun.(*FunNameRef); !ok || name.Name != "__Nat__1" {
		t.Fatalf("expected call to __Nat__1, got %#v", call.Fun)
	}
}

func TestLower_LetAssignsDistinctFrameSlotsInOrder(t *testing.T) {
	prog := lowerText(t, `
		fun f() -> Int {
			let a = 1;
			let b = 2;
			ret a + b;
		}
	`)
	f := funByName(t, prog, "f")
	if f.LocalCount != 2 {
		t.Fatalf("expected 2 locals, got %d", f.LocalCount)
	}
	letA := f.Body[0].(*Let)
	letB := f.Body[1].(*Let)
	if letA.Slot != 0 || letB.Slot != 1 {
		t.Fatalf("expected slots 0 and 1 in declaration order, got %d and %d", letA.Slot, letB.Slot)
	}
}

func TestLower_ArgumentsOccupySlotsZeroToN(t *testing.T) {
	prog := lowerText(t, `fun add(a: Int, b: Int) -> Int { ret a + b; }`)
	f := funByName(t, prog, "add")
	if f.ArgCount != 2 {
		t.Fatalf("expected 2 arguments, got %d", f.ArgCount)
	}
	ret := f.Body[0].(*Ret)
	call := ret.Value.(*Call)
	if len(call.Args) != 2 {
		t.Fatalf("expected 2 call args, got %d", len(call.Args))
	}
	left, ok := call.Args[0].(*ArgRef)
	if !ok || left.Slot != 0 {
		t.Fatalf("expected first arg to be a0, got %#v", call.Args[0])
	}
	right, ok := call.Args[1].(*ArgRef)
	if !ok || right.Slot != 1 {
		t.Fatalf("expected second arg to be a1, got %#v", call.Args[1])
	}
}

func TestLower_FitBranchCountIsPreserved(t *testing.T) {
	prog := lowerText(t, `
		dis Nat { Zero, Succ(p: Nat) }
		fun add(a: Nat, b: Nat) -> Nat {
			ret fit b {
				Zero => a,
				Succ(_) => Nat::Succ(add(a, b.p)),
			};
		}
	`)
	f := funByName(t, prog, "add")
	ret := f.Body[0].(*Ret)
	fit := ret.Value.(*FitExprIR)
	if len(fit.Branches) != 2 {
		t.Fatalf("expected 2 fit branches preserved, got %d", len(fit.Branches))
	}
}

func TestLower_BareVariantMentionPatternHasNilChildren(t *testing.T) {
	prog := lowerText(t, `
		dis Nat { Zero, Succ(p: Nat) }
		fun pred(n: Nat) -> Nat {
			ret fit n {
				Zero => Nat::Zero,
				Succ => n.p,
			};
		}
	`)
	f := funByName(t, prog, "pred")
	ret := f.Body[0].(*Ret)
	fit := ret.Value.(*FitExprIR)
	succBranch := fit.Branches[1]
	if succBranch.Pattern.VariantID != 1 {
		t.Fatalf("expected Succ's pattern to carry variant id 1, got %d", succBranch.Pattern.VariantID)
	}
	if succBranch.Pattern.Children[0] != nil {
		t.Fatalf("expected a bare mention's child position to be nil (not inspected)")
	}
}

func TestLower_MemberProjectionResolvesFieldIndex(t *testing.T) {
	prog := lowerText(t, `
		dis Pair { Both(l: Int, r: Int) }
		fun second(p: Pair) -> Int {
			ret fit p {
				Both _ _ => p.r,
			};
		}
	`)
	f := funByName(t, prog, "second")
	ret := f.Body[0].(*Ret)
	fit := ret.Value.(*FitExprIR)
	member := fit.Branches[0].Body.(*Member)
	if member.FieldIndex != 1 {
		t.Fatalf("expected field r to resolve to index 1, got %d", member.FieldIndex)
	}
}

func TestLower_PrettyPrintProducesNonEmptyOutput(t *testing.T) {
	prog := lowerText(t, `fun f() -> Int { ret 1 + 2; }`)
	out := prog.PrettyPrint()
	if !strings.Contains(out, "fun f(") {
		t.Fatalf("expected pretty-printed output to mention fun f, got: %s", out)
	}
}

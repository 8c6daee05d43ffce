package validator

import (
	"testing"

	"github.com/dis-lang/disc/internal/diag"
	"github.com/dis-lang/disc/internal/lexer"
	"github.com/dis-lang/disc/internal/parser"
	"github.com/dis-lang/disc/internal/source"
)

func validateText(t *testing.T, text string) *Result {
	t.Helper()
	src := source.New("test.dis", text)
	lexReport := &diag.Report{}
	tokens := lexer.Lex(src, lexReport)
	if lexReport.HasErrors() {
		t.Fatalf("unexpected lex errors: %v", lexReport.Errors)
	}
	prog, parseReport := parser.Parse(tokens)
	if parseReport.HasErrors() {
		t.Fatalf("unexpected parse errors for %q: %v", text, parseReport.Errors)
	}
	return Validate(prog)
}

func requireNoErrors(t *testing.T, result *Result) {
	t.Helper()
	if result.Report.HasErrors() {
		t.Fatalf("expected no validation errors, got: %v", result.Report.Errors)
	}
}

func requireOneError(t *testing.T, result *Result, substr string) {
	t.Helper()
	if len(result.Report.Errors) != 1 {
		t.Fatalf("expected exactly 1 validation error, got %d: %v", len(result.Report.Errors), result.Report.Errors)
	}
	if got := result.Report.Errors[0].Message; !contains(got, substr) {
		t.Fatalf("expected error message to contain %q, got %q", substr, got)
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && indexOf(s, substr) >= 0
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}

func TestValidate_CleanProgramHasNoErrors(t *testing.T) {
	result := validateText(t, `
		dis Nat { Zero, Succ(p: Nat) }
		fun add(a: Nat, b: Nat) -> Nat {
			ret fit b {
				Zero => a,
				Succ(_) => Nat::Succ
			};
		}
	`)
	requireNoErrors(t, result)
}

func TestValidate_DuplicatedDis(t *testing.T) {
	result := validateText(t, `
		dis Bool { True, False }
		dis Bool { A, B }
	`)
	requireOneError(t, result, "duplicated dis: Bool")
}

func TestValidate_DisCollidesWithBuiltin(t *testing.T) {
	result := validateText(t, `dis Int { A }`)
	requireOneError(t, result, "collides with a builtin")
}

func TestValidate_DuplicatedDisVariant(t *testing.T) {
	result := validateText(t, `dis Bool { True, True }`)
	requireOneError(t, result, "duplicated variant True of dis Bool")
}

func TestValidate_DuplicatedGenericParam(t *testing.T) {
	result := validateText(t, `dis Pair[T, T] { Both(l: T, r: T) }`)
	requireOneError(t, result, "duplicated generic parameter: T")
}

func TestValidate_DuplicatedArg(t *testing.T) {
	result := validateText(t, `fun f(a: Int, a: Int) -> Int { ret a; }`)
	requireOneError(t, result, "duplicated argument identifier: a")
}

func TestValidate_DuplicatedFunction(t *testing.T) {
	result := validateText(t, `
		fun f() -> Int { ret 1; }
		fun f() -> Int { ret 2; }
	`)
	requireOneError(t, result, "duplicated function: f")
}

func TestValidate_DuplicatedLocal(t *testing.T) {
	result := validateText(t, `
		fun f() -> Int {
			let x = 1;
			let x = 2;
			ret x;
		}
	`)
	requireOneError(t, result, "duplicated variable: x")
}

func TestValidate_UnknownVariable(t *testing.T) {
	result := validateText(t, `fun f() -> Int { ret y; }`)
	requireOneError(t, result, "unknown variable: y")
}

func TestValidate_UnknownFunction(t *testing.T) {
	result := validateText(t, `fun f() -> Int { ret g[Int](); }`)
	requireOneError(t, result, "unknown function: g")
}

func TestValidate_FunGenericArgumentsMismatch(t *testing.T) {
	result := validateText(t, `
		fun id[T](x: T) -> T { ret x; }
		fun f() -> Int { ret id(); }
	`)
	requireOneError(t, result, "fun id takes 1 generic argument but 0 were provided")
}

func TestValidate_BareGenericFunctionReferenceIsAnError(t *testing.T) {
	result := validateText(t, `
		fun id[T](x: T) -> T { ret x; }
		fun f[T](x: T) -> T { ret id; }
	`)
	requireOneError(t, result, "fun id takes 1 generic argument but 0 were provided")
}

func TestValidate_DisDoesNotExist(t *testing.T) {
	result := validateText(t, `fun f() -> Int { ret Ghost::Spirit; }`)
	requireOneError(t, result, "dis Ghost does not exist")
}

func TestValidate_DisHasNoVariant(t *testing.T) {
	result := validateText(t, `
		dis Bool { True, False }
		fun f() -> Bool { ret Bool::Maybe; }
	`)
	requireOneError(t, result, "dis Bool has no variant Maybe")
}

func TestValidate_DisGenericArgumentsMismatch(t *testing.T) {
	result := validateText(t, `
		dis Box[T] { Full(v: T) }
		fun f() -> Int { ret Box[Int, Int]::Full; }
	`)
	requireOneError(t, result, "dis Box takes 1 generic argument but 2 were provided")
}

func TestValidate_AssignOutsideStatementPositionIsAnError(t *testing.T) {
	result := validateText(t, `
		fun f() -> Int {
			let x = 1;
			ret (x = 2);
		}
	`)
	requireOneError(t, result, "assignment can only be used in statement position")
}

func TestValidate_AssignAtStatementPositionIsFine(t *testing.T) {
	result := validateText(t, `
		fun f() -> Int {
			let x = 1;
			x = 2;
			ret x;
		}
	`)
	requireNoErrors(t, result)
}

func TestValidate_ArgsBecomeLocalsInTheBody(t *testing.T) {
	result := validateText(t, `fun f(a: Int) -> Int { ret a; }`)
	requireNoErrors(t, result)
}

func TestValidate_GenericParamInScopeAsAType(t *testing.T) {
	result := validateText(t, `fun id[T](x: T) -> T { ret x; }`)
	requireNoErrors(t, result)
}

func TestValidate_BlockIntroducesAFreshFrame(t *testing.T) {
	result := validateText(t, `
		fun f() -> Int {
			let x = 1;
			{
				let x = 2;
				ret x;
			};
			ret x;
		}
	`)
	requireNoErrors(t, result)
}

func TestValidate_ErrorsDoNotAbortTraversal(t *testing.T) {
	result := validateText(t, `
		dis Bool { True, True }
		fun f() -> Int { ret unknown_one; }
		fun g() -> Int { ret unknown_two; }
	`)
	if len(result.Report.Errors) != 3 {
		t.Fatalf("expected 3 collected errors, got %d: %v", len(result.Report.Errors), result.Report.Errors)
	}
}

func TestValidate_BuiltinOperatorsResolve(t *testing.T) {
	result := validateText(t, `fun f() -> Int { ret 1 + 2 * 3; }`)
	requireNoErrors(t, result)
}

func TestValidate_ResultCarriesResolvedDeclarationTables(t *testing.T) {
	result := validateText(t, `
		dis Nat { Zero, Succ(p: Nat) }
		fun addOne(n: Nat) -> Nat { ret Nat::Succ(n); }
	`)
	requireNoErrors(t, result)
	if _, ok := result.Dises["Nat"]; !ok {
		t.Fatalf("expected Nat in resolved dis table")
	}
	if result.Dises["Nat"].VariantArity["Succ"] != 1 {
		t.Fatalf("expected Succ to have arity 1")
	}
	if _, ok := result.Funs["addOne"]; !ok {
		t.Fatalf("expected addOne in resolved fun table")
	}
}

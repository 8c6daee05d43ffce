package types

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dis-lang/disc/internal/diag"
	"github.com/dis-lang/disc/internal/lexer"
	"github.com/dis-lang/disc/internal/parser"
	"github.com/dis-lang/disc/internal/source"
	"github.com/dis-lang/disc/internal/validator"
)

func checkText(t *testing.T, text string) *Result {
	t.Helper()
	src := source.New("test.dis", text)
	lexReport := &diag.Report{}
	tokens := lexer.Lex(src, lexReport)
	require.Falsef(t, lexReport.HasErrors(), "unexpected lex errors: %v", lexReport.Errors)
	prog, parseReport := parser.Parse(tokens)
	require.Falsef(t, parseReport.HasErrors(), "unexpected parse errors for %q: %v", text, parseReport.Errors)
	valResult := validator.Validate(prog)
	require.Falsef(t, valResult.Report.HasErrors(), "unexpected validation errors for %q: %v", text, valResult.Report.Errors)
	return Check(prog, valResult)
}

// checkTextPastValidation runs the checker even when the validator has
// already reported errors, so the checker's own copy of a diagnostic the
// validator also produces can be exercised.
func checkTextPastValidation(t *testing.T, text string) *Result {
	t.Helper()
	src := source.New("test.dis", text)
	lexReport := &diag.Report{}
	tokens := lexer.Lex(src, lexReport)
	require.Falsef(t, lexReport.HasErrors(), "unexpected lex errors: %v", lexReport.Errors)
	prog, parseReport := parser.Parse(tokens)
	require.Falsef(t, parseReport.HasErrors(), "unexpected parse errors for %q: %v", text, parseReport.Errors)
	return Check(prog, validator.Validate(prog))
}

func requireNoTypeErrors(t *testing.T, result *Result) {
	t.Helper()
	require.Falsef(t, result.Report.HasErrors(), "expected no type errors, got: %v", result.Report.Errors)
}

func requireOneTypeError(t *testing.T, result *Result, substr string) {
	t.Helper()
	require.Len(t, result.Report.Errors, 1)
	require.Contains(t, result.Report.Errors[0].Message, substr)
}

func TestCheck_CleanProgramHasNoErrors(t *testing.T) {
	result := checkText(t, `
		dis Nat { Zero, Succ(p: Nat) }
		fun add(a: Nat, b: Nat) -> Nat {
			ret fit b {
				Zero => a,
				Succ(_) => Nat::Succ(add(a, b.p)),
			};
		}
	`)
	requireNoTypeErrors(t, result)
}

func TestCheck_BareVariantPatternNarrowsWithoutDestructuring(t *testing.T) {
	result := checkText(t, `
		dis Nat { Zero, Succ(p: Nat) }
		fun add(a: Nat, b: Nat) -> Nat {
			ret fit b {
				Zero => a,
				Succ => Nat::Succ(add(a, b.p)),
			};
		}
	`)
	requireNoTypeErrors(t, result)
}

func TestCheck_ArithmeticOperatorsResolve(t *testing.T) {
	result := checkText(t, `fun f() -> Int { ret 1 + 2 * 3 - 4 / 2 % 2; }`)
	requireNoTypeErrors(t, result)
}

func TestCheck_RetTypeMismatch(t *testing.T) {
	result := checkText(t, `fun f() -> Int { ret "oops"; }`)
	requireOneTypeError(t, result, "does not match")
}

func TestCheck_FitNotExhaustiveMissingVariant(t *testing.T) {
	result := checkText(t, `
		dis Bool { True, False }
		fun f(b: Bool) -> Int {
			ret fit b {
				True => 1,
			};
		}
	`)
	requireOneTypeError(t, result, "not exhaustive")
}

func TestCheck_FitNotExhaustiveMissingNestedVariant(t *testing.T) {
	result := checkText(t, `
		dis Nat { Zero, Succ(p: Nat) }
		fun f(n: Nat) -> Int {
			ret fit n {
				Zero => 0,
				Succ(Zero) => 1,
			};
		}
	`)
	requireOneTypeError(t, result, "not exhaustive")
}

func TestCheck_FitExhaustiveWithCatchall(t *testing.T) {
	result := checkText(t, `
		dis Bool { True, False }
		fun f(b: Bool) -> Int {
			ret fit b {
				True => 1,
				_ => 0,
			};
		}
	`)
	requireNoTypeErrors(t, result)
}

func TestCheck_FitExhaustiveNestedVariants(t *testing.T) {
	result := checkText(t, `
		dis Nat { Zero, Succ(p: Nat) }
		fun f(n: Nat) -> Int {
			ret fit n {
				Zero => 0,
				Succ(Zero) => 1,
				Succ(Succ(_)) => 2,
			};
		}
	`)
	requireNoTypeErrors(t, result)
}

func TestCheck_MemberProjectionNarrowsThroughFitBranch(t *testing.T) {
	result := checkText(t, `
		dis Nat { Zero, Succ(p: Nat) }
		fun pred(n: Nat) -> Nat {
			ret fit n {
				Zero => Nat::Zero,
				Succ(_) => n.p,
			};
		}
	`)
	requireNoTypeErrors(t, result)
}

func TestCheck_CallArgumentCountMismatch(t *testing.T) {
	result := checkText(t, `
		fun f(a: Int, b: Int) -> Int { ret a + b; }
		fun g() -> Int { ret f(1); }
	`)
	requireOneTypeError(t, result, "takes")
}

func TestCheck_CallArgumentTypeMismatch(t *testing.T) {
	result := checkText(t, `
		fun f(a: Int) -> Int { ret a; }
		fun g() -> Int { ret f("oops"); }
	`)
	requireOneTypeError(t, result, "expects")
}

func TestCheck_GenericFunctionInstantiation(t *testing.T) {
	result := checkText(t, `
		fun id[T](x: T) -> T { ret x; }
		fun f() -> Int { ret id[Int](1); }
	`)
	requireNoTypeErrors(t, result)
}

func TestCheck_GenericFunctionInstantiationWrongArity(t *testing.T) {
	result := checkTextPastValidation(t, `
		fun id[T](x: T) -> T { ret x; }
		fun f() -> Int { ret id[Int, Int](1); }
	`)
	requireOneTypeError(t, result, "generic argument")
}

func TestCheck_GenericDisInstantiation(t *testing.T) {
	result := checkText(t, `
		dis Box[T] { Full(v: T), Empty }
		fun unwrap(b: Box[Int]) -> Int {
			ret fit b {
				Full(_) => b.v,
				Empty => 0,
			};
		}
	`)
	requireNoTypeErrors(t, result)
}

func TestCheck_ExpectedDisTypeForFitScrutinee(t *testing.T) {
	result := checkText(t, `
		fun f(n: Int) -> Int {
			ret fit n {
				_ => 0,
			};
		}
	`)
	requireOneTypeError(t, result, "dis")
}

func TestCheck_LubOfMismatchedBranchTypesIsAnError(t *testing.T) {
	result := checkText(t, `
		dis Bool { True, False }
		fun f(b: Bool) -> Int {
			ret fit b {
				True => 1,
				False => "oops",
			};
		}
	`)
	if !result.Report.HasErrors() {
		t.Fatalf("expected a type error from mismatched fit branches")
	}
}

func TestCheck_TypeTableRecordsExpressionTypes(t *testing.T) {
	src := source.New("test.dis", `fun f() -> Int { ret 1 + 2; }`)
	lexReport := &diag.Report{}
	tokens := lexer.Lex(src, lexReport)
	prog, _ := parser.Parse(tokens)
	valResult := validator.Validate(prog)
	result := Check(prog, valResult)
	requireNoTypeErrors(t, result)

	if len(result.Types.byNode) == 0 {
		t.Fatalf("expected the type table to have recorded at least one expression type")
	}
}

func TestCheck_UnknownVariableIsAnError(t *testing.T) {
	result := checkTextPastValidation(t, `fun f() -> Int { ret y; }`)
	requireOneTypeError(t, result, "unknown variable")
}

func TestCheck_CallOnNonFunctionIsAnError(t *testing.T) {
	result := checkText(t, `
		fun f() -> Int {
			let x = 1;
			ret x();
		}
	`)
	requireOneTypeError(t, result, "not callable")
}

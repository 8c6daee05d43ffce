package compiler

import "testing"

func TestRun_StopsAtRequestedStage(t *testing.T) {
	res := Run("test.dis", `fun f() -> Int { ret 1 + 2; }`, StageParse)
	if res.Program == nil {
		t.Fatalf("expected a parsed program")
	}
	if res.Validate != nil {
		t.Fatalf("expected validation to be skipped when upTo is StageParse")
	}
}

func TestRun_FullPipelineProducesIR(t *testing.T) {
	res := Run("test.dis", `
		dis Nat { Zero, Succ(p: Nat) }
		fun add(a: Nat, b: Nat) -> Nat {
			ret fit b {
				Zero => a,
				Succ(_) => Nat::Succ(add(a, b.p)),
			};
		}
	`, StageLower)
	if res.Report.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Report.Errors)
	}
	if res.IR == nil || len(res.IR.Funs) == 0 {
		t.Fatalf("expected a lowered IR program with at least one function")
	}
}

func TestRun_LexErrorAbortsBeforeParsing(t *testing.T) {
	res := Run("test.dis", `fun f() -> Int { ret "unterminated; }`, StageLower)
	if !res.Report.HasErrors() {
		t.Fatalf("expected a lex error for the unterminated string")
	}
	if res.Program != nil {
		t.Fatalf("expected parsing to be skipped after a lex error")
	}
}

func TestRun_TypeErrorAbortsBeforeLowering(t *testing.T) {
	res := Run("test.dis", `fun f() -> Int { ret "oops"; }`, StageLower)
	if !res.Report.HasErrors() {
		t.Fatalf("expected a type error")
	}
	if res.IR != nil {
		t.Fatalf("expected lowering to be skipped after a type error")
	}
}

package align

import (
	"math"
	"math/rand"
	"strings"
	"testing"
)

func TestAlign_Identical(t *testing.T) {
	r := Align("kitten", "kitten")

	if r.Ratio() != 1.0 {
		t.Errorf("expected ratio 1.0, got %f", r.Ratio())
	}
	ops := r.Ops()
	if len(ops) != 1 {
		t.Fatalf("expected 1 op, got %d: %v", len(ops), ops)
	}
	if ops[0].Tag() != TagEqual {
		t.Errorf("expected equal op, got %s", ops[0].Tag())
	}
	if ops[0].AStart() != 0 || ops[0].AEnd() != 6 || ops[0].BStart() != 0 || ops[0].BEnd() != 6 {
		t.Errorf("expected full-length equal op, got %v", ops[0])
	}
}

func TestAlign_BothEmpty(t *testing.T) {
	r := Align("", "")

	if r.Ratio() != 1.0 {
		t.Errorf("expected ratio 1.0 for empty/empty, got %f", r.Ratio())
	}
	if len(r.Ops()) != 0 {
		t.Errorf("expected no ops for empty/empty, got %v", r.Ops())
	}
}

func TestAlign_DeleteAll(t *testing.T) {
	r := Align("abc", "")

	if r.Ratio() != 0.0 {
		t.Errorf("expected ratio 0.0, got %f", r.Ratio())
	}
	ops := r.Ops()
	if len(ops) != 1 {
		t.Fatalf("expected 1 op, got %d: %v", len(ops), ops)
	}
	op := ops[0]
	if op.Tag() != TagDelete || op.AStart() != 0 || op.AEnd() != 3 || op.BStart() != 0 || op.BEnd() != 0 {
		t.Errorf("expected delete spanning all of A, got %v", op)
	}
}

func TestAlign_InsertAll(t *testing.T) {
	r := Align("", "abc")

	if r.Ratio() != 0.0 {
		t.Errorf("expected ratio 0.0, got %f", r.Ratio())
	}
	ops := r.Ops()
	if len(ops) != 1 {
		t.Fatalf("expected 1 op, got %d: %v", len(ops), ops)
	}
	if ops[0].Tag() != TagInsert {
		t.Errorf("expected insert op, got %s", ops[0].Tag())
	}
}

func TestAlign_KittenSitting(t *testing.T) {
	r := Align("kitten", "sitting")

	if got := r.RoundedRatio(2); got != 0.62 {
		t.Errorf("expected rounded ratio 0.62, got %g (exact %f)", got, r.Ratio())
	}

	var hasReplace, hasInsert bool
	for _, op := range r.Ops() {
		switch op.Tag() {
		case TagReplace:
			hasReplace = true
		case TagInsert:
			hasInsert = true
		}
	}
	if !hasReplace {
		t.Error("expected at least one replace op")
	}
	if !hasInsert {
		t.Error("expected at least one insert op")
	}
}

func TestAlign_NoCommonCharacters(t *testing.T) {
	r := Align("abc", "xyz")

	if r.Ratio() != 0.0 {
		t.Errorf("expected ratio 0.0, got %f", r.Ratio())
	}
	ops := r.Ops()
	if len(ops) != 1 || ops[0].Tag() != TagReplace {
		t.Errorf("expected single replace op, got %v", ops)
	}
}

// Ties for longest block resolve to the match starting earliest in A, then
// earliest in B, so repeated runs always produce the same ops.
func TestAlign_TieBreakDeterministic(t *testing.T) {
	// "ab" occurs twice in each input; the alignment must anchor on the
	// first occurrence on both sides.
	first := Align("ab_ab", "ab-ab")
	for i := 0; i < 50; i++ {
		r := Align("ab_ab", "ab-ab")
		if len(r.Ops()) != len(first.Ops()) {
			t.Fatalf("run %d: op count changed: %v vs %v", i, r.Ops(), first.Ops())
		}
		for k, op := range r.Ops() {
			if op != first.Ops()[k] {
				t.Fatalf("run %d: op %d changed: %v vs %v", i, k, op, first.Ops()[k])
			}
		}
	}

	ops := first.Ops()
	if ops[0].Tag() != TagEqual || ops[0].AStart() != 0 {
		t.Errorf("expected leading equal block anchored at A start, got %v", ops)
	}
}

func TestAlign_RatioSymmetric(t *testing.T) {
	cases := [][2]string{
		{"kitten", "sitting"},
		{"", "abc"},
		{"same", "same"},
		{"abcdef", "fedcba"},
		{"héllo", "hello"},
	}
	for _, c := range cases {
		ab := Align(c[0], c[1]).Ratio()
		ba := Align(c[1], c[0]).Ratio()
		if math.Abs(ab-ba) > 1e-12 {
			t.Errorf("ratio(%q, %q)=%f but ratio(%q, %q)=%f", c[0], c[1], ab, c[1], c[0], ba)
		}
	}
}

func TestAlign_RunesNotBytes(t *testing.T) {
	// Offsets must count runes, not bytes, or multi-byte text would produce
	// out-of-range spans downstream.
	r := Align("héllo", "hèllo")

	ops := r.Ops()
	last := ops[len(ops)-1]
	if last.AEnd() != 5 || last.BEnd() != 5 {
		t.Errorf("expected rune-based end offsets (5, 5), got %v", last)
	}
	if r.Ratio() != 2.0*4.0/10.0 {
		t.Errorf("expected ratio 0.8, got %f", r.Ratio())
	}
}

func TestAlign_OpsCoverBothSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := "abcx"

	randText := func() string {
		n := rng.Intn(12)
		var sb strings.Builder
		for i := 0; i < n; i++ {
			sb.WriteByte(alphabet[rng.Intn(len(alphabet))])
		}
		return sb.String()
	}

	for i := 0; i < 500; i++ {
		a, b := randText(), randText()
		r := Align(a, b)
		verifyCoverage(t, a, b, r)
		if t.Failed() {
			t.Fatalf("inputs a=%q b=%q", a, b)
		}
	}
}

// verifyCoverage checks the structural invariants: ops are contiguous, cover
// both sequences exactly once, equal ops pair identical substrings, and the
// matched total equals the sum of equal span lengths.
func verifyCoverage(t *testing.T, a, b string, r Result) {
	t.Helper()

	ar, br := []rune(a), []rune(b)
	ai, bj := 0, 0
	matched := 0
	for _, op := range r.Ops() {
		if op.AStart() != ai || op.BStart() != bj {
			t.Errorf("op %v does not start at (%d, %d)", op, ai, bj)
			return
		}
		if op.AEnd() < op.AStart() || op.BEnd() < op.BStart() {
			t.Errorf("op %v has negative span", op)
			return
		}
		if op.Tag() == TagEqual {
			if op.AEnd()-op.AStart() != op.BEnd()-op.BStart() {
				t.Errorf("equal op %v has mismatched span lengths", op)
				return
			}
			if string(ar[op.AStart():op.AEnd()]) != string(br[op.BStart():op.BEnd()]) {
				t.Errorf("equal op %v pairs different substrings", op)
				return
			}
			matched += op.AEnd() - op.AStart()
		}
		ai, bj = op.AEnd(), op.BEnd()
	}
	if ai != len(ar) || bj != len(br) {
		t.Errorf("ops end at (%d, %d), want (%d, %d)", ai, bj, len(ar), len(br))
	}
	if matched != r.Matched() {
		t.Errorf("matched total %d does not equal sum of equal spans %d", r.Matched(), matched)
	}
}

func TestRoundedRatio(t *testing.T) {
	r := Align("kitten", "sitting")
	if got := r.RoundedRatio(2); got != 0.62 {
		t.Errorf("expected 0.62, got %g", got)
	}
	if got := r.RoundedRatio(1); got != 0.6 {
		t.Errorf("expected 0.6, got %g", got)
	}
	if exact := r.Ratio(); exact == r.RoundedRatio(2) {
		t.Errorf("exact ratio %f should differ from its rounding", exact)
	}
}

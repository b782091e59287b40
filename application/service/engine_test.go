package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/helixml/textdiff/domain/compare"
)

func TestEngine_Run(t *testing.T) {
	pairs := []compare.Pair{
		compare.NewPair("0", "same", "same"),
		compare.NewPair("1", "kitten", "sitting"),
	}

	result, err := NewEngine(pairs).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", result.Len())
	}

	same, ok := result.Record("0")
	if !ok {
		t.Fatal("record 0 missing")
	}
	if same.Ratio() != 1.0 {
		t.Errorf("expected ratio 1.0, got %f", same.Ratio())
	}
	if same.TextA() != "same" || same.TextB() != "same" {
		t.Errorf("identical pair must not be marked: %q, %q", same.TextA(), same.TextB())
	}

	kitten, _ := result.Record("1")
	if kitten.RoundedRatio() != 0.62 {
		t.Errorf("expected rounded ratio 0.62, got %g", kitten.RoundedRatio())
	}
	if !strings.Contains(kitten.TextA(), "<span class='chg'>") {
		t.Errorf("expected replace markup in %q", kitten.TextA())
	}
}

func TestEngine_HighlightThreshold(t *testing.T) {
	// kitten/sitting is ≈ 0.615; with the threshold at 0.9 the texts pass
	// through unmarked, while an identical pair (1.0) is above it.
	pairs := []compare.Pair{
		compare.NewPair("low", "kitten", "sitting"),
		compare.NewPair("high", "abcdefghij", "abcdefghiX"),
	}

	result, err := NewEngine(pairs, WithMinRatio(0.9)).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	low, _ := result.Record("low")
	if low.TextA() != "kitten" || low.TextB() != "sitting" {
		t.Errorf("below-threshold pair must pass through unmarked: %q, %q", low.TextA(), low.TextB())
	}

	high, _ := result.Record("high")
	if !strings.Contains(high.TextB(), "<span class='chg'>X</span>") {
		t.Errorf("above-threshold pair must be marked: %q", high.TextB())
	}
}

func TestEngine_ThresholdIsInclusive(t *testing.T) {
	// ratio("ab", "ax") = 2*1/4 = 0.5 exactly; >= means the pair at the
	// threshold is highlighted.
	pairs := []compare.Pair{compare.NewPair("0", "ab", "ax")}

	result, err := NewEngine(pairs, WithMinRatio(0.5)).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec, _ := result.Record("0")
	if !strings.Contains(rec.TextA(), "<span") {
		t.Errorf("pair exactly at threshold must be highlighted: %q", rec.TextA())
	}
}

func TestEngine_OneShot(t *testing.T) {
	e := NewEngine([]compare.Pair{compare.NewPair("0", "a", "b")})

	first, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := e.Run(context.Background()); !errors.Is(err, ErrAlreadyRun) {
		t.Fatalf("expected ErrAlreadyRun, got %v", err)
	}

	captured, err := e.Result()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.Len() != first.Len() {
		t.Errorf("captured result differs from returned result")
	}
}

func TestEngine_ResultBeforeRun(t *testing.T) {
	e := NewEngine(nil)
	if _, err := e.Result(); !errors.Is(err, ErrNotRun) {
		t.Errorf("expected ErrNotRun, got %v", err)
	}
}

func TestEngine_ConcurrentRunSingleWinner(t *testing.T) {
	e := NewEngine([]compare.Pair{compare.NewPair("0", "a", "a")})

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := 0; i < 8; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = e.Run(context.Background())
		}()
	}
	wg.Wait()

	var winners int
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, ErrAlreadyRun):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if winners != 1 {
		t.Errorf("expected exactly one successful run, got %d", winners)
	}
}

func TestEngine_RowErrors(t *testing.T) {
	pairs := []compare.Pair{
		compare.NewPair("0", "ok", "ok"),
		compare.NewPartialPair("1", "", false, "present", true),
		compare.NewPartialPair("2", "present", true, "", false),
	}

	result, err := NewEngine(pairs, WithColumnNames("before", "after")).Run(context.Background())
	if err != nil {
		t.Fatalf("a missing cell must not abort the batch: %v", err)
	}
	if result.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", result.Len())
	}

	ok, _ := result.Record("0")
	if ok.Failed() {
		t.Error("record 0 should succeed")
	}

	failedA, _ := result.Record("1")
	if !failedA.Failed() || failedA.Err().Column() != "before" {
		t.Errorf("record 1 should fail on column before: %+v", failedA.Err())
	}

	failedB, _ := result.Record("2")
	if !failedB.Failed() || failedB.Err().Column() != "after" {
		t.Errorf("record 2 should fail on column after: %+v", failedB.Err())
	}

	if len(result.FailedRows()) != 2 {
		t.Errorf("expected 2 failed rows, got %d", len(result.FailedRows()))
	}
}

func TestEngine_ParallelMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	alphabet := "abcde "
	randText := func() string {
		n := rng.Intn(30)
		var sb strings.Builder
		for i := 0; i < n; i++ {
			sb.WriteByte(alphabet[rng.Intn(len(alphabet))])
		}
		return sb.String()
	}

	var pairs []compare.Pair
	for i := 0; i < 60; i++ {
		pairs = append(pairs, compare.NewPair(compare.Key(fmt.Sprintf("%d", i)), randText(), randText()))
	}

	seq, err := NewEngine(pairs).Run(context.Background())
	if err != nil {
		t.Fatalf("sequential run failed: %v", err)
	}
	par, err := NewEngine(pairs, WithParallelism(8)).Run(context.Background())
	if err != nil {
		t.Fatalf("parallel run failed: %v", err)
	}

	seqRecords, parRecords := seq.Records(), par.Records()
	for i := range seqRecords {
		if seqRecords[i].Key() != parRecords[i].Key() {
			t.Fatalf("row %d: output order diverged: %s vs %s", i, seqRecords[i].Key(), parRecords[i].Key())
		}
		if seqRecords[i].TextA() != parRecords[i].TextA() ||
			seqRecords[i].TextB() != parRecords[i].TextB() ||
			seqRecords[i].Ratio() != parRecords[i].Ratio() {
			t.Fatalf("row %d: parallel result differs from sequential", i)
		}
	}
}

func TestEngine_PermutationIndependence(t *testing.T) {
	pairs := []compare.Pair{
		compare.NewPair("a", "alpha", "alpya"),
		compare.NewPair("b", "beta", "betta"),
		compare.NewPair("c", "gamma", "gamma"),
	}
	permuted := []compare.Pair{pairs[2], pairs[0], pairs[1]}

	orig, err := NewEngine(pairs).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	perm, err := NewEngine(permuted).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, key := range []compare.Key{"a", "b", "c"} {
		o, _ := orig.Record(key)
		p, _ := perm.Record(key)
		if o.Ratio() != p.Ratio() || o.TextA() != p.TextA() || o.TextB() != p.TextB() {
			t.Errorf("record %s differs across input permutations", key)
		}
	}

	// Output order follows input order.
	if perm.Records()[0].Key() != "c" {
		t.Errorf("expected first record c, got %s", perm.Records()[0].Key())
	}
}

func TestEngine_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewEngine([]compare.Pair{compare.NewPair("0", "a", "b")})
	if _, err := e.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	// A cancelled run releases the one-shot gate.
	if _, err := e.Run(context.Background()); err != nil {
		t.Errorf("retry after cancellation should succeed, got %v", err)
	}
}

type recordingSink struct {
	mu        sync.Mutex
	total     int
	updates   int
	completed bool
}

func (s *recordingSink) SetTotal(_ context.Context, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total = total
}

func (s *recordingSink) SetCurrent(_ context.Context, _ int, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates++
}

func (s *recordingSink) Fail(_ context.Context, _ string) {}

func (s *recordingSink) Complete(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed = true
}

func TestEngine_ReportsProgress(t *testing.T) {
	pairs := []compare.Pair{
		compare.NewPair("0", "a", "b"),
		compare.NewPair("1", "c", "d"),
	}
	sink := &recordingSink{}

	if _, err := NewEngine(pairs, WithProgress(sink)).Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sink.total != 2 {
		t.Errorf("expected total 2, got %d", sink.total)
	}
	if sink.updates != 2 {
		t.Errorf("expected 2 progress updates, got %d", sink.updates)
	}
	if !sink.completed {
		t.Error("expected completion notification")
	}
}

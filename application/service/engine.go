// Package service orchestrates comparison batches over the domain packages.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/helixml/textdiff/domain/align"
	"github.com/helixml/textdiff/domain/compare"
	"github.com/helixml/textdiff/domain/highlight"
)

// RatioPrecision is the number of decimal digits kept on display ratios.
const RatioPrecision = 2

// ProgressSink receives batch progress updates. Implementations must be safe
// for concurrent use when the engine runs in parallel.
type ProgressSink interface {
	SetTotal(ctx context.Context, total int)
	SetCurrent(ctx context.Context, current int, message string)
	Fail(ctx context.Context, errMsg string)
	Complete(ctx context.Context)
}

// Engine runs one comparison batch: per pair it aligns the two texts,
// derives the similarity ratio, and highlights the differing spans when the
// exact ratio meets the highlight threshold.
//
// An Engine is one-shot. After the first Run the source pairs are released;
// a second Run returns ErrAlreadyRun and the captured result stays available
// via Result.
type Engine struct {
	pairs       []compare.Pair
	minRatio    float64
	styles      highlight.StyleMap
	columnA     string
	columnB     string
	parallelism int
	sink        ProgressSink
	logger      *slog.Logger

	mu     sync.Mutex
	ran    bool
	done   bool
	result compare.RunResult
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithMinRatio sets the minimum exact ratio at which highlighting is
// applied. Pairs below the threshold pass through unmarked; a pair exactly
// at the threshold is highlighted. Defaults to 0 (highlight everything).
func WithMinRatio(minRatio float64) EngineOption {
	return func(e *Engine) {
		e.minRatio = minRatio
	}
}

// WithStyles sets the markup style map. Defaults to highlight span classes
// matching the HTML presenter's stylesheet.
func WithStyles(styles highlight.StyleMap) EngineOption {
	return func(e *Engine) {
		e.styles = styles
	}
}

// WithColumnNames sets the source column names reported in row errors.
// Defaults to "text_a" and "text_b".
func WithColumnNames(columnA, columnB string) EngineOption {
	return func(e *Engine) {
		e.columnA = columnA
		e.columnB = columnB
	}
}

// WithParallelism sets how many pairs are compared concurrently. Per-pair
// work is a pure function of the two texts, so execution order never affects
// results. Defaults to 1 (sequential). Values <= 0 are ignored.
func WithParallelism(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.parallelism = n
		}
	}
}

// WithProgress sets the progress sink notified as the batch advances.
func WithProgress(sink ProgressSink) EngineOption {
	return func(e *Engine) {
		e.sink = sink
	}
}

// WithEngineLogger sets a custom logger.
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an Engine over the given pairs. Pair keys must be unique
// within the batch.
func NewEngine(pairs []compare.Pair, opts ...EngineOption) *Engine {
	ps := make([]compare.Pair, len(pairs))
	copy(ps, pairs)

	e := &Engine{
		pairs:       ps,
		styles:      highlight.DefaultStyleMap(),
		columnA:     "text_a",
		columnB:     "text_b",
		parallelism: 1,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the batch and returns one record per pair, in input order.
// Rows with a missing text fail individually and never abort the batch.
// A second call returns ErrAlreadyRun. A cancelled run releases the gate so
// the batch can be retried.
func (e *Engine) Run(ctx context.Context) (compare.RunResult, error) {
	e.mu.Lock()
	if e.ran {
		e.mu.Unlock()
		return compare.RunResult{}, ErrAlreadyRun
	}
	e.ran = true
	pairs := e.pairs
	e.mu.Unlock()

	if e.sink != nil {
		e.sink.SetTotal(ctx, len(pairs))
	}

	records, err := e.execute(ctx, pairs)
	if err != nil {
		if e.sink != nil {
			e.sink.Fail(ctx, err.Error())
		}
		e.mu.Lock()
		e.ran = false
		e.mu.Unlock()
		return compare.RunResult{}, err
	}

	result := compare.NewRunResult(records)

	e.mu.Lock()
	e.result = result
	e.done = true
	e.pairs = nil // source texts can be large; free them once compared
	e.mu.Unlock()

	if e.sink != nil {
		e.sink.Complete(ctx)
	}

	if failed := result.FailedRows(); len(failed) > 0 {
		e.logger.Warn("comparison finished with row errors",
			slog.Int("rows", result.Len()),
			slog.Int("failed", len(failed)),
		)
	} else {
		e.logger.Debug("comparison finished", slog.Int("rows", result.Len()))
	}

	return result, nil
}

// Result returns the captured result of a completed run.
func (e *Engine) Result() (compare.RunResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.done {
		return compare.RunResult{}, ErrNotRun
	}
	return e.result, nil
}

// execute dispatches the batch with the configured strategy. Records are
// re-associated with their input position, so output order equals input
// order regardless of completion order.
func (e *Engine) execute(ctx context.Context, pairs []compare.Pair) ([]compare.Record, error) {
	records := make([]compare.Record, len(pairs))

	if e.parallelism <= 1 {
		for i, pair := range pairs {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("comparison cancelled at row %d: %w", i, err)
			}
			records[i] = e.comparePair(pair)
			if e.sink != nil {
				e.sink.SetCurrent(ctx, i+1, "")
			}
		}
		return records, nil
	}

	var completed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)
	for i, pair := range pairs {
		i, pair := i, pair
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records[i] = e.comparePair(pair)
			if e.sink != nil {
				e.sink.SetCurrent(gctx, int(completed.Add(1)), "")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("comparison cancelled: %w", err)
	}
	return records, nil
}

// comparePair compares one pair. Pure: no shared state is touched, which is
// what makes the parallel strategy safe.
func (e *Engine) comparePair(pair compare.Pair) compare.Record {
	if !pair.HasTextA() {
		return compare.NewFailedRecord(pair.Key(), compare.NewRowError(pair.Key(), e.columnA))
	}
	if !pair.HasTextB() {
		return compare.NewFailedRecord(pair.Key(), compare.NewRowError(pair.Key(), e.columnB))
	}

	textA, textB := pair.TextA(), pair.TextB()
	r := align.Align(textA, textB)

	// Threshold against the exact ratio; rounding is display-only and must
	// never flip a borderline highlight decision.
	if r.Ratio() >= e.minRatio {
		textA, textB = highlight.Texts(textA, textB, r.Ops(), e.styles)
	}

	return compare.NewRecord(pair.Key(), r.Ratio(), r.RoundedRatio(RatioPrecision), textA, textB)
}

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/helixml/textdiff/domain/compare"
	"github.com/helixml/textdiff/domain/highlight"
	"github.com/helixml/textdiff/domain/store"
)

// CompareParams configures one comparison batch executed through Runs.
type CompareParams struct {
	// Source labels the batch (file name, upload name).
	Source string

	// ColumnA and ColumnB name the text columns, for row error messages
	// and run metadata.
	ColumnA string
	ColumnB string

	// MinRatio is the exact-ratio threshold at or above which differing
	// spans get highlight markup.
	MinRatio float64

	// Parallelism is the number of concurrent comparison workers.
	Parallelism int

	// Styles overrides the highlight markup. Zero value uses the defaults.
	Styles highlight.StyleMap

	// Sink receives progress updates. Optional.
	Sink ProgressSink
}

// Runs executes comparison batches and persists their results.
type Runs struct {
	store  compare.RunStore
	logger *slog.Logger
}

// NewRuns creates a Runs service.
func NewRuns(runStore compare.RunStore, logger *slog.Logger) *Runs {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runs{store: runStore, logger: logger}
}

// Compare runs a batch over the given pairs and persists the run with its
// records. Returns the saved run and the in-memory result.
func (s *Runs) Compare(ctx context.Context, pairs []compare.Pair, params CompareParams) (compare.Run, compare.RunResult, error) {
	opts := []EngineOption{
		WithMinRatio(params.MinRatio),
		WithEngineLogger(s.logger),
	}
	if params.ColumnA != "" || params.ColumnB != "" {
		opts = append(opts, WithColumnNames(params.ColumnA, params.ColumnB))
	}
	if params.Parallelism > 0 {
		opts = append(opts, WithParallelism(params.Parallelism))
	}
	if (params.Styles != highlight.StyleMap{}) {
		opts = append(opts, WithStyles(params.Styles))
	}
	if params.Sink != nil {
		opts = append(opts, WithProgress(params.Sink))
	}

	engine := NewEngine(pairs, opts...)
	result, err := engine.Run(ctx)
	if err != nil {
		return compare.Run{}, compare.RunResult{}, fmt.Errorf("run comparison: %w", err)
	}

	run := compare.NewRun(params.Source, params.ColumnA, params.ColumnB, params.MinRatio, result.Len())
	saved, err := s.store.Save(ctx, run, result.Records())
	if err != nil {
		return compare.Run{}, compare.RunResult{}, fmt.Errorf("persist run: %w", err)
	}

	s.logger.Info("comparison run saved",
		slog.Int64("run_id", saved.ID()),
		slog.String("source", saved.Source()),
		slog.Int("rows", saved.RowCount()),
	)
	return saved, result, nil
}

// List returns persisted runs matching the options.
func (s *Runs) List(ctx context.Context, options ...store.Option) ([]compare.Run, error) {
	return s.store.Find(ctx, options...)
}

// Count returns the number of persisted runs matching the options.
func (s *Runs) Count(ctx context.Context, options ...store.Option) (int64, error) {
	return s.store.Count(ctx, options...)
}

// Get returns a persisted run and its result reassembled in batch order.
func (s *Runs) Get(ctx context.Context, id int64) (compare.Run, compare.RunResult, error) {
	run, records, err := s.store.Get(ctx, id)
	if err != nil {
		return compare.Run{}, compare.RunResult{}, err
	}
	return run, compare.NewRunResult(records), nil
}

// Delete removes a persisted run and its records.
func (s *Runs) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

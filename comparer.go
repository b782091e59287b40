package textdiff

import (
	"context"

	"github.com/helixml/textdiff/application/service"
	"github.com/helixml/textdiff/domain/compare"
	"github.com/helixml/textdiff/infrastructure/render"
	"github.com/helixml/textdiff/infrastructure/tabular"
)

// Comparer runs one comparison batch over a table and renders its report.
// Like the engine beneath it, a Comparer is one-shot: Run executes the batch
// once and subsequent calls fail with the engine's already-run error.
type Comparer struct {
	client   *Client
	table    tabular.Table
	source   string
	columnA  string
	columnB  string
	minRatio float64

	run    compare.Run
	result compare.RunResult
	done   bool
}

// ComparerOption configures a Comparer.
type ComparerOption func(*Comparer)

// WithSource labels the batch in run metadata and progress logs.
func WithSource(source string) ComparerOption {
	return func(c *Comparer) {
		c.source = source
	}
}

// WithComparerColumns overrides the client's default text column names for
// this batch.
func WithComparerColumns(columnA, columnB string) ComparerOption {
	return func(c *Comparer) {
		c.columnA = columnA
		c.columnB = columnB
	}
}

// WithComparerMinRatio overrides the client's default highlight threshold
// for this batch. Values outside (0, 1] are ignored.
func WithComparerMinRatio(ratio float64) ComparerOption {
	return func(c *Comparer) {
		if ratio > 0 && ratio <= 1 {
			c.minRatio = ratio
		}
	}
}

// NewComparer creates a Comparer over the given table. The table must have
// both text columns.
func (c *Client) NewComparer(table tabular.Table, opts ...ComparerOption) (*Comparer, error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}

	cm := &Comparer{
		client:   c,
		table:    table,
		source:   "table",
		columnA:  c.columnA,
		columnB:  c.columnB,
		minRatio: c.minRatio,
	}
	for _, opt := range opts {
		opt(cm)
	}

	if !table.HasColumn(cm.columnA) {
		return nil, tabular.NewUnknownColumnError(cm.columnA)
	}
	if !table.HasColumn(cm.columnB) {
		return nil, tabular.NewUnknownColumnError(cm.columnB)
	}

	return cm, nil
}

// Run executes the batch and persists the run. One-shot.
func (cm *Comparer) Run(ctx context.Context) error {
	if cm.done {
		return service.ErrAlreadyRun
	}

	pairs, err := cm.table.Pairs(cm.columnA, cm.columnB)
	if err != nil {
		return err
	}

	run, result, err := cm.client.Runs.Compare(ctx, pairs, service.CompareParams{
		Source:      cm.source,
		ColumnA:     cm.columnA,
		ColumnB:     cm.columnB,
		MinRatio:    cm.minRatio,
		Parallelism: cm.client.parallelism,
		Styles:      cm.client.styles,
		Sink:        cm.client.tracker(cm.source),
	})
	if err != nil {
		return err
	}

	cm.run = run
	cm.result = result
	cm.done = true
	return nil
}

// Result returns the comparison result. It fails with ErrNotRun before Run.
func (cm *Comparer) Result() (compare.RunResult, error) {
	if !cm.done {
		return compare.RunResult{}, service.ErrNotRun
	}
	return cm.result, nil
}

// SavedRun returns the persisted run metadata. It fails with ErrNotRun
// before Run.
func (cm *Comparer) SavedRun() (compare.Run, error) {
	if !cm.done {
		return compare.Run{}, service.ErrNotRun
	}
	return cm.run, nil
}

// HTML renders the batch as an HTML document. The table's remaining columns
// (everything except the two text columns) join the report as extra cells.
func (cm *Comparer) HTML(cfg compare.Presentation) (string, error) {
	if !cm.done {
		return "", service.ErrNotRun
	}

	presenter := render.NewPresenter(cm.columnA, cm.columnB)
	projection := cm.table.Projection(cm.columnA, cm.columnB)
	return presenter.Present(cm.result, projection, cfg)
}

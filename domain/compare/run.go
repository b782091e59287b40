package compare

import (
	"context"
	"time"

	"github.com/helixml/textdiff/domain/store"
)

// Run is the persisted metadata of a completed comparison run.
type Run struct {
	id        int64
	source    string
	columnA   string
	columnB   string
	minRatio  float64
	rowCount  int
	createdAt time.Time
}

// NewRun creates a Run for a freshly completed batch (id 0 until saved).
func NewRun(source, columnA, columnB string, minRatio float64, rowCount int) Run {
	return Run{
		source:    source,
		columnA:   columnA,
		columnB:   columnB,
		minRatio:  minRatio,
		rowCount:  rowCount,
		createdAt: time.Now().UTC(),
	}
}

// NewRunFull creates a Run with all fields (used by stores).
func NewRunFull(id int64, source, columnA, columnB string, minRatio float64, rowCount int, createdAt time.Time) Run {
	return Run{
		id:        id,
		source:    source,
		columnA:   columnA,
		columnB:   columnB,
		minRatio:  minRatio,
		rowCount:  rowCount,
		createdAt: createdAt,
	}
}

// ID returns the run's database identity (0 when unsaved).
func (r Run) ID() int64 { return r.id }

// Source returns the source label (file name, upload name).
func (r Run) Source() string { return r.source }

// ColumnA returns the original-text column name.
func (r Run) ColumnA() string { return r.columnA }

// ColumnB returns the modified-text column name.
func (r Run) ColumnB() string { return r.columnB }

// MinRatio returns the highlight threshold used for the run.
func (r Run) MinRatio() float64 { return r.minRatio }

// RowCount returns the number of compared rows.
func (r Run) RowCount() int { return r.rowCount }

// CreatedAt returns when the run was completed.
func (r Run) CreatedAt() time.Time { return r.createdAt }

// RunStore persists comparison runs and their records.
type RunStore interface {
	// Save persists a run and its records, returning the run with identity.
	Save(ctx context.Context, run Run, records []Record) (Run, error)

	// Find returns runs matching the options.
	Find(ctx context.Context, options ...store.Option) ([]Run, error)

	// Count returns the number of runs matching the options.
	Count(ctx context.Context, options ...store.Option) (int64, error)

	// Get returns a run and its records in batch order.
	Get(ctx context.Context, id int64) (Run, []Record, error)

	// Delete removes a run and its records.
	Delete(ctx context.Context, id int64) error
}

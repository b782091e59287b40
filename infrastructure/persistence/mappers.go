package persistence

import (
	"github.com/helixml/textdiff/domain/compare"
)

// RunMapper maps between domain Run and persistence RunModel.
type RunMapper struct{}

// ToDomain converts a RunModel to a domain Run.
func (m RunMapper) ToDomain(e RunModel) compare.Run {
	return compare.NewRunFull(
		e.ID,
		e.Source,
		e.ColumnA,
		e.ColumnB,
		e.MinRatio,
		e.RowCount,
		e.CreatedAt,
	)
}

// ToModel converts a domain Run to a RunModel.
func (m RunMapper) ToModel(r compare.Run) RunModel {
	return RunModel{
		ID:        r.ID(),
		Source:    r.Source(),
		ColumnA:   r.ColumnA(),
		ColumnB:   r.ColumnB(),
		MinRatio:  r.MinRatio(),
		RowCount:  r.RowCount(),
		CreatedAt: r.CreatedAt(),
	}
}

// RecordMapper maps between domain Record and persistence RecordModel.
// Position is assigned by the store, not the mapper.
type RecordMapper struct{}

// ToDomain converts a RecordModel to a domain Record.
func (m RecordMapper) ToDomain(e RecordModel) compare.Record {
	key := compare.Key(e.RowKey)
	if e.Failed {
		return compare.NewFailedRecord(key, compare.NewRowError(key, e.BadColumn))
	}
	return compare.NewRecord(key, e.Ratio, e.Rounded, e.TextA, e.TextB)
}

// ToModel converts a domain Record to a RecordModel.
func (m RecordMapper) ToModel(r compare.Record) RecordModel {
	model := RecordModel{
		RowKey:  string(r.Key()),
		Ratio:   r.Ratio(),
		Rounded: r.RoundedRatio(),
		TextA:   r.TextA(),
		TextB:   r.TextB(),
	}
	if err := r.Err(); err != nil {
		model.Failed = true
		model.BadColumn = err.Column()
	}
	return model
}

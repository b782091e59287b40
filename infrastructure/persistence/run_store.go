package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/helixml/textdiff/domain/compare"
	"github.com/helixml/textdiff/domain/store"
	"github.com/helixml/textdiff/internal/database"
	"gorm.io/gorm"
)

// ErrRunNotFound indicates the requested run does not exist.
var ErrRunNotFound = errors.New("comparison run not found")

// Compile-time interface check.
var _ compare.RunStore = RunStore{}

// RunStore implements compare.RunStore using GORM.
type RunStore struct {
	runs    database.Repository[compare.Run, RunModel]
	records database.Repository[compare.Record, RecordModel]
	db      database.Database
}

// NewRunStore creates a new RunStore.
func NewRunStore(db database.Database) RunStore {
	return RunStore{
		runs:    database.NewRepository[compare.Run, RunModel](db, RunMapper{}, "run"),
		records: database.NewRepository[compare.Record, RecordModel](db, RecordMapper{}, "record"),
		db:      db,
	}
}

// Save persists a run and its records in one transaction, returning the run
// with its database identity.
func (s RunStore) Save(ctx context.Context, run compare.Run, records []compare.Record) (compare.Run, error) {
	model := s.runs.Mapper().ToModel(run)

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if result := tx.Save(&model); result.Error != nil {
			return fmt.Errorf("save run: %w", result.Error)
		}

		if len(records) == 0 {
			return nil
		}

		models := make([]RecordModel, len(records))
		for i, rec := range records {
			models[i] = s.records.Mapper().ToModel(rec)
			models[i].RunID = model.ID
			models[i].Position = i
		}
		if result := tx.Create(&models); result.Error != nil {
			return fmt.Errorf("save records: %w", result.Error)
		}
		return nil
	})
	if err != nil {
		return compare.Run{}, err
	}

	return s.runs.Mapper().ToDomain(model), nil
}

// Find returns runs matching the options.
func (s RunStore) Find(ctx context.Context, options ...store.Option) ([]compare.Run, error) {
	return s.runs.Find(ctx, options...)
}

// Count returns the number of runs matching the options.
func (s RunStore) Count(ctx context.Context, options ...store.Option) (int64, error) {
	return s.runs.Count(ctx, options...)
}

// Get returns a run and its records in batch order.
func (s RunStore) Get(ctx context.Context, id int64) (compare.Run, []compare.Record, error) {
	run, err := s.runs.FindOne(ctx, store.WithID(id))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return compare.Run{}, nil, fmt.Errorf("%w: id %d", ErrRunNotFound, id)
		}
		return compare.Run{}, nil, err
	}

	records, err := s.records.Find(ctx, store.WithRunID(id), store.WithOrderAsc("position"))
	if err != nil {
		return compare.Run{}, nil, err
	}

	return run, records, nil
}

// Delete removes a run and its records.
func (s RunStore) Delete(ctx context.Context, id int64) error {
	exists, err := s.runs.Exists(ctx, store.WithID(id))
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: id %d", ErrRunNotFound, id)
	}

	return database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if result := tx.Where("run_id = ?", id).Delete(&RecordModel{}); result.Error != nil {
			return fmt.Errorf("delete records: %w", result.Error)
		}
		if result := tx.Where("id = ?", id).Delete(&RunModel{}); result.Error != nil {
			return fmt.Errorf("delete run: %w", result.Error)
		}
		return nil
	})
}

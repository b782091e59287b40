package persistence

import "time"

// RunModel represents a comparison run in the database.
type RunModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Source    string    `gorm:"column:source;index;size:1024"`
	ColumnA   string    `gorm:"column:column_a;size:255"`
	ColumnB   string    `gorm:"column:column_b;size:255"`
	MinRatio  float64   `gorm:"column:min_ratio"`
	RowCount  int       `gorm:"column:row_count;default:0"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName returns the table name.
func (RunModel) TableName() string {
	return "comparison_runs"
}

// RecordModel represents one compared row of a run in the database.
type RecordModel struct {
	ID        int64   `gorm:"primaryKey;autoIncrement"`
	RunID     int64   `gorm:"column:run_id;index"`
	Position  int     `gorm:"column:position;index"`
	RowKey    string  `gorm:"column:row_key;size:255"`
	Ratio     float64 `gorm:"column:ratio"`
	Rounded   float64 `gorm:"column:rounded"`
	TextA     string  `gorm:"column:text_a;type:text"`
	TextB     string  `gorm:"column:text_b;type:text"`
	Failed    bool    `gorm:"column:failed;default:false"`
	BadColumn string  `gorm:"column:bad_column;size:255"`
}

// TableName returns the table name.
func (RecordModel) TableName() string {
	return "comparison_records"
}

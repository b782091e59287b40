// Package dto holds the request and response body shapes for the v1 API.
package dto

import "github.com/helixml/textdiff/infrastructure/api/jsonapi"

// RunAttributes is the attribute payload of a run resource.
type RunAttributes struct {
	Source    string           `json:"source"`
	ColumnA   string           `json:"column_a"`
	ColumnB   string           `json:"column_b"`
	MinRatio  float64          `json:"min_ratio"`
	RowCount  int              `json:"row_count"`
	CreatedAt jsonapi.DateTime `json:"created_at"`
}

// RecordAttributes is one compared row inside a run detail response.
type RecordAttributes struct {
	Key          string  `json:"key"`
	Ratio        float64 `json:"ratio"`
	RoundedRatio float64 `json:"rounded_ratio"`
	TextA        string  `json:"text_a"`
	TextB        string  `json:"text_b"`
	Failed       bool    `json:"failed"`
	BadColumn    string  `json:"bad_column,omitempty"`
}

// RunDetailAttributes is the attribute payload of a run detail resource,
// carrying the run metadata plus its records in batch order.
type RunDetailAttributes struct {
	RunAttributes
	Records []RecordAttributes `json:"records"`
}

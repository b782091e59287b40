package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// ErrEmptyInput is returned when a CSV stream contains no header row.
var ErrEmptyInput = errors.New("csv input is empty")

// ReadCSV parses a CSV stream into a Table. The first record is the header.
func ReadCSV(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	// Short records are rows with absent trailing cells; NewTable still
	// rejects records longer than the header.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return Table{}, ErrEmptyInput
	}
	if err != nil {
		return Table{}, fmt.Errorf("failed to read csv header: %w", err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("failed to read csv record: %w", err)
		}
		rows = append(rows, record)
	}

	return NewTable(header, rows)
}

// Package tabular supplies ordered, column-addressable tables as comparison
// input and as presentation projections.
package tabular

import (
	"fmt"
	"strconv"

	"github.com/helixml/textdiff/domain/compare"
)

// UnknownColumnError reports a column name absent from a table.
type UnknownColumnError struct {
	column string
}

// NewUnknownColumnError creates an UnknownColumnError for the named column.
func NewUnknownColumnError(column string) UnknownColumnError {
	return UnknownColumnError{column: column}
}

// Column returns the missing column name.
func (e UnknownColumnError) Column() string { return e.column }

func (e UnknownColumnError) Error() string {
	return fmt.Sprintf("table has no column %q", e.column)
}

// Table is an ordered table with named columns and stable row keys. Row keys
// are the 0-based row positions, rendered as decimal strings.
type Table struct {
	columns  []string
	colIndex map[string]int
	rows     [][]string
	keys     []compare.Key
}

// NewTable creates a Table. A row may have fewer cells than columns; the
// missing trailing cells are absent values. Rows with more cells than columns
// are rejected.
func NewTable(columns []string, rows [][]string) (Table, error) {
	colIndex := make(map[string]int, len(columns))
	for i, col := range columns {
		if _, dup := colIndex[col]; dup {
			return Table{}, fmt.Errorf("duplicate column %q", col)
		}
		colIndex[col] = i
	}

	for i, row := range rows {
		if len(row) > len(columns) {
			return Table{}, fmt.Errorf("row %d has %d cells, want at most %d", i, len(row), len(columns))
		}
	}

	keys := make([]compare.Key, len(rows))
	for i := range rows {
		keys[i] = compare.Key(strconv.Itoa(i))
	}

	cols := make([]string, len(columns))
	copy(cols, columns)
	return Table{columns: cols, colIndex: colIndex, rows: rows, keys: keys}, nil
}

// Columns returns the column names in order.
func (t Table) Columns() []string {
	cols := make([]string, len(t.columns))
	copy(cols, t.columns)
	return cols
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.rows) }

// HasColumn reports whether the table has the named column.
func (t Table) HasColumn(name string) bool {
	_, ok := t.colIndex[name]
	return ok
}

// Keys returns the row keys in table order.
func (t Table) Keys() []compare.Key {
	keys := make([]compare.Key, len(t.keys))
	copy(keys, t.keys)
	return keys
}

// Value returns the cell at (key, column). Absent cells report ok=false.
func (t Table) Value(key compare.Key, column string) (string, bool) {
	ci, ok := t.colIndex[column]
	if !ok {
		return "", false
	}
	ri, err := strconv.Atoi(string(key))
	if err != nil || ri < 0 || ri >= len(t.rows) {
		return "", false
	}
	if ci >= len(t.rows[ri]) {
		return "", false
	}
	return t.rows[ri][ci], true
}

// Pairs extracts the comparison input from two named columns, one pair per
// row in table order. Rows with an absent cell in either column become
// partial pairs, which the engine fails individually.
func (t Table) Pairs(columnA, columnB string) ([]compare.Pair, error) {
	ai, ok := t.colIndex[columnA]
	if !ok {
		return nil, UnknownColumnError{column: columnA}
	}
	bi, ok := t.colIndex[columnB]
	if !ok {
		return nil, UnknownColumnError{column: columnB}
	}

	pairs := make([]compare.Pair, len(t.rows))
	for i, row := range t.rows {
		a, okA := cell(row, ai)
		b, okB := cell(row, bi)
		if okA && okB {
			pairs[i] = compare.NewPair(t.keys[i], a, b)
			continue
		}
		pairs[i] = compare.NewPartialPair(t.keys[i], a, okA, b, okB)
	}
	return pairs, nil
}

func cell(row []string, i int) (string, bool) {
	if i >= len(row) {
		return "", false
	}
	return row[i], true
}

// Projection returns the table as a presentation projection, excluding the
// named columns (typically the two text columns, which the comparison result
// already renders).
func (t Table) Projection(exclude ...string) compare.Projection {
	excluded := make(map[string]bool, len(exclude))
	for _, col := range exclude {
		excluded[col] = true
	}

	var columns []string
	for _, col := range t.columns {
		if !excluded[col] {
			columns = append(columns, col)
		}
	}
	return tableProjection{table: t, columns: columns}
}

// tableProjection adapts a Table to compare.Projection with a column subset.
type tableProjection struct {
	table   Table
	columns []string
}

func (p tableProjection) Keys() []compare.Key { return p.table.Keys() }

func (p tableProjection) Columns() []string {
	cols := make([]string, len(p.columns))
	copy(cols, p.columns)
	return cols
}

func (p tableProjection) Value(key compare.Key, column string) (string, bool) {
	return p.table.Value(key, column)
}

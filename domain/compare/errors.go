package compare

import "fmt"

// RowError reports a pair that could not be compared: one of its texts is
// missing from the source row. Row-scoped — it never aborts the batch.
type RowError struct {
	key    Key
	column string
}

// NewRowError creates a RowError for the given row and column.
func NewRowError(key Key, column string) RowError {
	return RowError{key: key, column: column}
}

// Key returns the failing row's key.
func (e RowError) Key() Key { return e.key }

// Column returns the name of the missing column.
func (e RowError) Column() string { return e.column }

func (e RowError) Error() string {
	return fmt.Sprintf("row %s: missing text in column %q", e.key, e.column)
}

// UnknownRowKeyError reports a projection row key with no matching
// comparison record. A join-integrity violation: it fails the whole
// presentation call rather than rendering a partial table.
type UnknownRowKeyError struct {
	key Key
}

// NewUnknownRowKeyError creates an UnknownRowKeyError.
func NewUnknownRowKeyError(key Key) UnknownRowKeyError {
	return UnknownRowKeyError{key: key}
}

// Key returns the unmatched key.
func (e UnknownRowKeyError) Key() Key { return e.key }

func (e UnknownRowKeyError) Error() string {
	return fmt.Sprintf("projection row key %s not present in comparison result", e.key)
}

// MalformedProjectionError reports a projection column whose name collides
// with a reserved output column.
type MalformedProjectionError struct {
	column string
}

// NewMalformedProjectionError creates a MalformedProjectionError.
func NewMalformedProjectionError(column string) MalformedProjectionError {
	return MalformedProjectionError{column: column}
}

// Column returns the colliding column name.
func (e MalformedProjectionError) Column() string { return e.column }

func (e MalformedProjectionError) Error() string {
	return fmt.Sprintf("projection column %q collides with a reserved output column", e.column)
}

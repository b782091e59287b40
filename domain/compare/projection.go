package compare

// Projection is an external row source that constrains and augments a
// presented result: its keys act as a row filter and, when no explicit sort
// is requested, as the row order; its columns are joined by row key and
// rendered alongside the ratio and text columns.
type Projection interface {
	// Keys returns the row keys to render, in projection order.
	Keys() []Key

	// Columns returns the names of the extra columns, in display order.
	Columns() []string

	// Value returns the cell value for the given key and column. The second
	// return is false when the projection has no value for that cell.
	Value(key Key, column string) (string, bool)
}

// MapProjection is a simple in-memory Projection backed by ordered keys and
// per-row column maps.
type MapProjection struct {
	keys    []Key
	columns []string
	rows    map[Key]map[string]string
}

// NewMapProjection creates a MapProjection. rows maps each key to its column
// values; keys and columns fix the ordering.
func NewMapProjection(keys []Key, columns []string, rows map[Key]map[string]string) MapProjection {
	ks := make([]Key, len(keys))
	copy(ks, keys)
	cols := make([]string, len(columns))
	copy(cols, columns)
	return MapProjection{keys: ks, columns: cols, rows: rows}
}

// Keys returns the projection's row keys in order.
func (p MapProjection) Keys() []Key {
	keys := make([]Key, len(p.keys))
	copy(keys, p.keys)
	return keys
}

// Columns returns the extra column names in order.
func (p MapProjection) Columns() []string {
	cols := make([]string, len(p.columns))
	copy(cols, p.columns)
	return cols
}

// Value returns the cell value for the key and column.
func (p MapProjection) Value(key Key, column string) (string, bool) {
	row, ok := p.rows[key]
	if !ok {
		return "", false
	}
	v, ok := row[column]
	return v, ok
}

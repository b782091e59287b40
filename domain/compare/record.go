package compare

// Record is one row of comparison output. Immutable once produced.
type Record struct {
	key     Key
	ratio   float64
	rounded float64
	textA   string
	textB   string
	err     *RowError
}

// NewRecord creates a successful Record.
func NewRecord(key Key, ratio, rounded float64, textA, textB string) Record {
	return Record{key: key, ratio: ratio, rounded: rounded, textA: textA, textB: textB}
}

// NewFailedRecord creates a Record for a row that could not be compared.
func NewFailedRecord(key Key, err RowError) Record {
	return Record{key: key, err: &err}
}

// Key returns the row key.
func (r Record) Key() Key { return r.key }

// Ratio returns the exact similarity ratio.
func (r Record) Ratio() float64 { return r.ratio }

// RoundedRatio returns the display ratio, rounded at engine precision.
func (r Record) RoundedRatio() float64 { return r.rounded }

// TextA returns the rendered original text (with highlight markup when the
// pair met the highlight threshold).
func (r Record) TextA() string { return r.textA }

// TextB returns the rendered modified text.
func (r Record) TextB() string { return r.textB }

// Failed reports whether this row failed.
func (r Record) Failed() bool { return r.err != nil }

// Err returns the row error, or nil for a successful row.
func (r Record) Err() *RowError {
	if r.err == nil {
		return nil
	}
	e := *r.err
	return &e
}

// RunResult is the durable artifact of a comparison run: one Record per
// input pair, in input order.
type RunResult struct {
	records []Record
	byKey   map[Key]int
}

// NewRunResult creates a RunResult from records in batch order.
func NewRunResult(records []Record) RunResult {
	rs := make([]Record, len(records))
	copy(rs, records)
	byKey := make(map[Key]int, len(rs))
	for i, r := range rs {
		byKey[r.Key()] = i
	}
	return RunResult{records: rs, byKey: byKey}
}

// Records returns all records in input order.
func (r RunResult) Records() []Record {
	records := make([]Record, len(r.records))
	copy(records, r.records)
	return records
}

// Record returns the record for the given key.
func (r RunResult) Record(key Key) (Record, bool) {
	i, ok := r.byKey[key]
	if !ok {
		return Record{}, false
	}
	return r.records[i], true
}

// Len returns the number of records.
func (r RunResult) Len() int { return len(r.records) }

// FailedRows returns the errors of all failed rows, in input order.
func (r RunResult) FailedRows() []RowError {
	var errs []RowError
	for _, rec := range r.records {
		if e := rec.Err(); e != nil {
			errs = append(errs, *e)
		}
	}
	return errs
}

package compare

// SortOrder controls row ordering in a presented table.
type SortOrder string

// SortOrder values. SortNone keeps insertion order (or the projection's
// order when a projection is supplied).
const (
	SortNone SortOrder = ""
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Valid reports whether the sort order is one of the defined values.
func (s SortOrder) Valid() bool {
	return s == SortNone || s == SortAsc || s == SortDesc
}

// Presentation holds the caller-chosen rendering parameters for one
// presentation request. Constructed once, never mutated.
type Presentation struct {
	sort      SortOrder
	maxRows   int
	showIndex bool
}

// NewPresentation creates a Presentation with defaults: insertion order,
// unlimited rows, no index column.
func NewPresentation() Presentation {
	return Presentation{}
}

// Sort returns the requested sort order.
func (p Presentation) Sort() SortOrder { return p.sort }

// MaxRows returns the row limit; 0 means unlimited.
func (p Presentation) MaxRows() int { return p.maxRows }

// ShowIndex reports whether a leading row-index column is rendered.
func (p Presentation) ShowIndex() bool { return p.showIndex }

// WithSort returns a copy sorting by ratio in the given order.
func (p Presentation) WithSort(order SortOrder) Presentation {
	p.sort = order
	return p
}

// WithMaxRows returns a copy limiting output to at most n rows, taken from
// the front of the (possibly sorted) sequence. n <= 0 means unlimited.
func (p Presentation) WithMaxRows(n int) Presentation {
	if n < 0 {
		n = 0
	}
	p.maxRows = n
	return p
}

// WithIndex returns a copy that renders a leading row-index column.
func (p Presentation) WithIndex(show bool) Presentation {
	p.showIndex = show
	return p
}

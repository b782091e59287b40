// Package render produces the HTML view of a comparison result.
package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/helixml/textdiff/domain/compare"
)

// Stylesheet defines the three highlight classes the marked texts reference.
// Class names and colors are a compatibility contract with consumers that
// embed the table in a larger page; do not rename them.
const Stylesheet = `
.add {background-color:#aaffaa}
.chg {background-color:#ffff77}
.sub {background-color:#ffaaaa}
`

// indexHeader is the header of the optional row-index column.
const indexHeader = "#"

// ratioHeader is the header of the similarity ratio column.
const ratioHeader = "ratio"

// Presenter renders comparison records as a self-contained HTML fragment:
// an inline style block followed by a table.
type Presenter struct {
	columnA string
	columnB string
}

// NewPresenter creates a Presenter. columnA and columnB are the headers of
// the two text columns.
func NewPresenter(columnA, columnB string) Presenter {
	return Presenter{columnA: columnA, columnB: columnB}
}

// Present renders the records. A non-nil projection filters the rows to its
// keys, supplies the row order (when no sort is requested), and contributes
// extra columns joined by row key; a projection key absent from the result
// fails the whole call. Failed rows are omitted from the output.
func (p Presenter) Present(result compare.RunResult, projection compare.Projection, cfg compare.Presentation) (string, error) {
	rows, columns, err := p.join(result, projection)
	if err != nil {
		return "", err
	}

	// Explicit sort overrides projection order. Stable: ties keep their
	// pre-sort relative order.
	switch cfg.Sort() {
	case compare.SortAsc:
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].record.Ratio() < rows[j].record.Ratio()
		})
	case compare.SortDesc:
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].record.Ratio() > rows[j].record.Ratio()
		})
	}

	if max := cfg.MaxRows(); max > 0 && len(rows) > max {
		rows = rows[:max]
	}

	return p.renderDocument(rows, columns, cfg), nil
}

// row pairs a record with its projection cells in column order.
type row struct {
	record compare.Record
	extra  []string
}

// join applies the projection filter/order and resolves the extra columns.
func (p Presenter) join(result compare.RunResult, projection compare.Projection) ([]row, []string, error) {
	if projection == nil {
		var rows []row
		for _, rec := range result.Records() {
			if rec.Failed() {
				continue
			}
			rows = append(rows, row{record: rec})
		}
		return rows, nil, nil
	}

	columns := projection.Columns()
	for _, col := range columns {
		if p.reserved(col) {
			return nil, nil, compare.NewMalformedProjectionError(col)
		}
	}

	var rows []row
	for _, key := range projection.Keys() {
		rec, ok := result.Record(key)
		if !ok {
			return nil, nil, compare.NewUnknownRowKeyError(key)
		}
		if rec.Failed() {
			continue
		}
		extra := make([]string, len(columns))
		for i, col := range columns {
			v, _ := projection.Value(key, col)
			extra[i] = v
		}
		rows = append(rows, row{record: rec, extra: extra})
	}
	return rows, columns, nil
}

// reserved reports whether a projection column name collides with an output
// column.
func (p Presenter) reserved(column string) bool {
	return column == ratioHeader || column == indexHeader ||
		column == p.columnA || column == p.columnB
}

// renderDocument assembles the style block and table. Cell text is written
// verbatim: the text columns carry the highlight markup, and the surrounding
// tag structure is a drop-in match for the consumers of the legacy output.
func (p Presenter) renderDocument(rows []row, columns []string, cfg compare.Presentation) string {
	var sb strings.Builder

	sb.WriteString("<style type='text/css'>")
	sb.WriteString(Stylesheet)
	sb.WriteString("</style>\n")

	sb.WriteString("<table>")

	sb.WriteString("<thead>")
	if cfg.ShowIndex() {
		writeCell(&sb, "th", indexHeader)
	}
	for _, col := range columns {
		writeCell(&sb, "th", col)
	}
	writeCell(&sb, "th", ratioHeader)
	writeCell(&sb, "th", p.columnA)
	writeCell(&sb, "th", p.columnB)
	sb.WriteString("</thead>")

	sb.WriteString("<tbody>")
	for _, r := range rows {
		sb.WriteString("<tr>")
		if cfg.ShowIndex() {
			writeCell(&sb, "td", string(r.record.Key()))
		}
		for _, v := range r.extra {
			writeCell(&sb, "td", v)
		}
		writeCell(&sb, "td", formatRatio(r.record.RoundedRatio()))
		writeCell(&sb, "td", r.record.TextA())
		writeCell(&sb, "td", r.record.TextB())
		sb.WriteString("</tr>")
	}
	sb.WriteString("</tbody>")

	sb.WriteString("</table>")
	return sb.String()
}

// writeCell writes one space-padded cell, matching the legacy cell shape
// "<td> value </td>".
func writeCell(sb *strings.Builder, tag, value string) {
	fmt.Fprintf(sb, "<%s> %s </%s>", tag, value, tag)
}

// formatRatio renders a display ratio with two decimals.
func formatRatio(ratio float64) string {
	return strconv.FormatFloat(ratio, 'f', 2, 64)
}

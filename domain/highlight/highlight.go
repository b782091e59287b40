// Package highlight overlays markup onto aligned texts without corrupting
// the alignment offsets.
package highlight

import (
	"slices"

	"github.com/helixml/textdiff/domain/align"
)

// Texts wraps every non-equal span of a and b in the markup registered for
// the span's tag. Equal spans pass through untouched.
//
// Edits are applied from the highest offset to the lowest: ops in reverse
// order, and within one op the close tag before the open tag. Inserting at
// position P shifts everything after P, so materializing the later insertion
// point first keeps all remaining offsets valid. Ops are contiguous and
// non-overlapping by construction, which also guarantees tags from different
// ops never interleave.
func Texts(a, b string, ops []align.Op, styles StyleMap) (string, string) {
	ar := []rune(a)
	br := []rune(b)

	for i := len(ops) - 1; i >= 0; i-- {
		op := ops[i]
		style, ok := styles.Style(op.Tag())
		if !ok {
			continue
		}
		ar = wrap(ar, op.AStart(), op.AEnd(), style)
		br = wrap(br, op.BStart(), op.BEnd(), style)
	}

	return string(ar), string(br)
}

// wrap inserts the close tag at end, then the open tag at start. A
// zero-length span yields an adjacent open+close pair, balanced but empty.
func wrap(text []rune, start, end int, style Style) []rune {
	text = slices.Insert(text, end, []rune(style.Close())...)
	return slices.Insert(text, start, []rune(style.Open())...)
}

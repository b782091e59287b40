// Package compare defines the value objects of a comparison run: input
// pairs, output records, presentation parameters, and the row-scoped errors.
package compare

// Key identifies a row within a batch. Keys are caller-supplied, opaque,
// unique within a batch, and round-trip unchanged through the engine.
type Key string

// Pair is one row of comparison input: an original and a modified version of
// the same logical record.
type Pair struct {
	key    Key
	textA  string
	textB  string
	validA bool
	validB bool
}

// NewPair creates a Pair with both texts present.
func NewPair(key Key, textA, textB string) Pair {
	return Pair{key: key, textA: textA, textB: textB, validA: true, validB: true}
}

// NewPartialPair creates a Pair where either text may be missing (a null
// cell in the source table). The engine fails such rows individually instead
// of aborting the batch.
func NewPartialPair(key Key, textA string, validA bool, textB string, validB bool) Pair {
	return Pair{key: key, textA: textA, textB: textB, validA: validA, validB: validB}
}

// Key returns the row key.
func (p Pair) Key() Key { return p.key }

// TextA returns the original text.
func (p Pair) TextA() string { return p.textA }

// TextB returns the modified text.
func (p Pair) TextB() string { return p.textB }

// HasTextA reports whether the original text is present.
func (p Pair) HasTextA() bool { return p.validA }

// HasTextB reports whether the modified text is present.
func (p Pair) HasTextB() bool { return p.validB }

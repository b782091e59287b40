package align

import "fmt"

// Tag classifies how a span of sequence A relates to a span of sequence B.
type Tag string

// Tag values.
const (
	TagEqual   Tag = "equal"
	TagReplace Tag = "replace"
	TagDelete  Tag = "delete"
	TagInsert  Tag = "insert"
)

// Op is a single alignment operation: a contiguous region of A paired with a
// contiguous region of B. Offsets are 0-based rune offsets, end-exclusive.
// Ops produced by Align are contiguous and cover both sequences exactly once:
// each op starts where the previous one ended, the first starts at (0, 0) and
// the last ends at (len(A), len(B)).
type Op struct {
	tag    Tag
	aStart int
	aEnd   int
	bStart int
	bEnd   int
}

// NewOp creates a new Op.
func NewOp(tag Tag, aStart, aEnd, bStart, bEnd int) Op {
	return Op{
		tag:    tag,
		aStart: aStart,
		aEnd:   aEnd,
		bStart: bStart,
		bEnd:   bEnd,
	}
}

// Tag returns the operation tag.
func (o Op) Tag() Tag { return o.tag }

// AStart returns the start offset in A.
func (o Op) AStart() int { return o.aStart }

// AEnd returns the end offset in A (exclusive).
func (o Op) AEnd() int { return o.aEnd }

// BStart returns the start offset in B.
func (o Op) BStart() int { return o.bStart }

// BEnd returns the end offset in B (exclusive).
func (o Op) BEnd() int { return o.bEnd }

// String returns a readable representation, useful in test failures.
func (o Op) String() string {
	return fmt.Sprintf("%s a[%d:%d] b[%d:%d]", o.tag, o.aStart, o.aEnd, o.bStart, o.bEnd)
}

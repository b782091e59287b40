// Package align computes character-level alignments between two texts.
//
// The algorithm repeatedly finds the longest contiguous block of characters
// common to both texts, then recurses on the unmatched regions before and
// after the block. Every character is eligible to match regardless of how
// frequently it occurs, so results are deterministic and independent of input
// statistics. Ties for longest block are broken by earliest start in A, then
// earliest start in B.
package align

import (
	"math"
	"sort"
)

// Result holds the alignment between two texts: the ordered operation list
// and the matched-character total the similarity ratio derives from.
type Result struct {
	ops     []Op
	matched int
	lenA    int
	lenB    int
}

// Ops returns the ordered alignment operations.
func (r Result) Ops() []Op {
	ops := make([]Op, len(r.ops))
	copy(ops, r.ops)
	return ops
}

// Matched returns the total number of matched characters.
func (r Result) Matched() int { return r.matched }

// LenA returns the rune length of sequence A.
func (r Result) LenA() int { return r.lenA }

// LenB returns the rune length of sequence B.
func (r Result) LenB() int { return r.lenB }

// Ratio returns the exact similarity ratio 2*M/T, where M is the matched
// character count and T the combined length of both sequences. Two empty
// sequences are defined as identical, ratio 1.0. Threshold comparisons must
// use this value, not the rounded one, so that rounding can never flip a
// borderline decision.
func (r Result) Ratio() float64 {
	total := r.lenA + r.lenB
	if total == 0 {
		return 1.0
	}
	return 2.0 * float64(r.matched) / float64(total)
}

// RoundedRatio returns the ratio rounded half-away-from-zero to the given
// number of decimal digits, for display stability.
func (r Result) RoundedRatio(precision int) float64 {
	pow := math.Pow(10, float64(precision))
	return math.Round(r.Ratio()*pow) / pow
}

// Align computes the alignment between two texts. Offsets in the returned
// ops are rune offsets.
//
// Worst case runtime is quadratic in the sequence length per call, which is
// acceptable for record-level text fields but not for document-sized inputs.
func Align(a, b string) Result {
	ar := []rune(a)
	br := []rune(b)

	// Fast path for the common unchanged-row case. Identical inputs need no
	// block search: one full-length equal op (or none when both are empty).
	if a == b {
		r := Result{matched: len(ar), lenA: len(ar), lenB: len(br)}
		if len(ar) > 0 {
			r.ops = []Op{NewOp(TagEqual, 0, len(ar), 0, len(br))}
		}
		return r
	}

	blocks := matchingBlocks(ar, br)

	matched := 0
	ops := make([]Op, 0, 2*len(blocks))
	ai, bj := 0, 0
	for _, blk := range blocks {
		var tag Tag
		switch {
		case ai < blk.a && bj < blk.b:
			tag = TagReplace
		case ai < blk.a:
			tag = TagDelete
		case bj < blk.b:
			tag = TagInsert
		}
		if tag != "" {
			ops = append(ops, NewOp(tag, ai, blk.a, bj, blk.b))
		}
		ai, bj = blk.a+blk.size, blk.b+blk.size
		if blk.size > 0 {
			ops = append(ops, NewOp(TagEqual, blk.a, ai, blk.b, bj))
			matched += blk.size
		}
	}

	return Result{ops: ops, matched: matched, lenA: len(ar), lenB: len(br)}
}

// block is a maximal run of identical characters: a[a:a+size] == b[b:b+size].
type block struct {
	a    int
	b    int
	size int
}

// span is a pending sub-problem on the work list.
type span struct {
	aLo, aHi, bLo, bHi int
}

// matchingBlocks finds all matching blocks between ar and br, ordered by
// position, terminated by a zero-size sentinel at (len(ar), len(br)). An
// explicit work list replaces recursion so pathological inputs cannot
// overflow the call stack.
func matchingBlocks(ar, br []rune) []block {
	// Index of every position of each character in B, ascending.
	b2j := make(map[rune][]int, len(br))
	for j, c := range br {
		b2j[c] = append(b2j[c], j)
	}

	queue := []span{{0, len(ar), 0, len(br)}}
	var blocks []block
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		blk := longestMatch(ar, b2j, s)
		if blk.size == 0 {
			continue
		}
		blocks = append(blocks, blk)
		if s.aLo < blk.a && s.bLo < blk.b {
			queue = append(queue, span{s.aLo, blk.a, s.bLo, blk.b})
		}
		if blk.a+blk.size < s.aHi && blk.b+blk.size < s.bHi {
			queue = append(queue, span{blk.a + blk.size, s.aHi, blk.b + blk.size, s.bHi})
		}
	}

	// Blocks from the work list never overlap; A-then-B order keeps the op
	// emission loop trivial.
	sort.Slice(blocks, func(i, j int) bool {
		if blocks[i].a != blocks[j].a {
			return blocks[i].a < blocks[j].a
		}
		return blocks[i].b < blocks[j].b
	})

	// Merge blocks adjacent in both sequences, then add the sentinel.
	merged := blocks[:0]
	for _, blk := range blocks {
		if n := len(merged); n > 0 &&
			merged[n-1].a+merged[n-1].size == blk.a &&
			merged[n-1].b+merged[n-1].size == blk.b {
			merged[n-1].size += blk.size
			continue
		}
		merged = append(merged, blk)
	}
	return append(merged, block{len(ar), len(br), 0})
}

// longestMatch finds the longest block of characters common to
// ar[s.aLo:s.aHi] and br[s.bLo:s.bHi]. Among blocks of maximal length it
// returns the one starting earliest in A, then earliest in B: the outer loop
// scans A ascending, b2j positions are ascending, and only strictly longer
// matches displace the best so far.
func longestMatch(ar []rune, b2j map[rune][]int, s span) block {
	bestA, bestB, bestSize := s.aLo, s.bLo, 0

	// j2len[j] is the length of the match ending at (i-1, j).
	j2len := make(map[int]int)
	for i := s.aLo; i < s.aHi; i++ {
		next := make(map[int]int)
		for _, j := range b2j[ar[i]] {
			if j < s.bLo {
				continue
			}
			if j >= s.bHi {
				break
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > bestSize {
				bestA, bestB, bestSize = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}

	return block{bestA, bestB, bestSize}
}


// Package changeset builds and consumes the recursive common/differing
// decomposition of two token sequences described in spec §4.2–§4.3: a
// binary tree whose internal nodes are shared substrings (found via
// modules/automaton) and whose leaves are the regions between them.
package changeset

import "github.com/mawicks/gaspra/modules/automaton"

// Span is a half-open [Start, Stop) range into a token sequence.
type Span struct {
	Start int
	Stop  int
}

func (s Span) Len() int { return s.Stop - s.Start }

// Node is the sealed changeset tree type: every concrete node is
// either a Leaf or an Internal. Matching is exhaustive on concrete
// type rather than via a subtype hierarchy, per the tagged-sum-type
// convention used throughout this module.
type Node[T comparable] interface {
	isNode()
}

// Leaf holds two regions of the original and modified sequences that
// share no common substring (as found by the LCS-substring search).
// Either side may be empty.
type Leaf[T comparable] struct {
	Original []T
	Modified []T

	OriginalSlice Span
	ModifiedSlice Span
}

func (Leaf[T]) isNode() {}

// Empty reports whether both sides of the leaf are empty; such leaves
// are artifacts of the recursive construction and are dropped from
// every output stream.
func (l Leaf[T]) Empty() bool { return len(l.Original) == 0 && len(l.Modified) == 0 }

// Internal holds the common region found at this recursion step
// (equal-length slices into the original and modified sequences) and
// the two subtrees covering what comes before and after it.
type Internal[T comparable] struct {
	CommonOriginal Span
	CommonModified Span

	Prefix Node[T]
	Suffix Node[T]
}

func (Internal[T]) isNode() {}

// FindChangeset decomposes original and modified into a changeset tree
// covering their full extent.
func FindChangeset[T comparable](original, modified []T) Node[T] {
	return findChangeset(original, modified, Span{0, len(original)}, Span{0, len(modified)})
}

func findChangeset[T comparable](original, modified []T, originalSlice, modifiedSlice Span) Node[T] {
	sourceOriginal := original[originalSlice.Start:originalSlice.Stop]
	sourceModified := modified[modifiedSlice.Start:modifiedSlice.Stop]

	a := automaton.Build(sourceOriginal)
	commonOffsetOriginal, commonOffsetModified, commonLength := a.FindLCS(sourceModified)

	if commonLength == 0 {
		return Leaf[T]{
			Original:      sourceOriginal,
			Modified:      sourceModified,
			OriginalSlice: originalSlice,
			ModifiedSlice: modifiedSlice,
		}
	}

	commonOriginal := Span{
		Start: originalSlice.Start + commonOffsetOriginal,
		Stop:  originalSlice.Start + commonOffsetOriginal + commonLength,
	}
	commonModified := Span{
		Start: modifiedSlice.Start + commonOffsetModified,
		Stop:  modifiedSlice.Start + commonOffsetModified + commonLength,
	}

	prefix := findChangeset(
		original, modified,
		Span{originalSlice.Start, commonOriginal.Start},
		Span{modifiedSlice.Start, commonModified.Start},
	)
	suffix := findChangeset(
		original, modified,
		Span{commonOriginal.Stop, originalSlice.Stop},
		Span{commonModified.Stop, modifiedSlice.Stop},
	)

	return Internal[T]{
		CommonOriginal: commonOriginal,
		CommonModified: commonModified,
		Prefix:         prefix,
		Suffix:         suffix,
	}
}

// ApplyForward reconstructs modified by walking the tree and emitting,
// in order, each leaf's modified region and each internal node's
// common region read from original.
func ApplyForward[T comparable](node Node[T], original []T) []T {
	var out []T
	appendForward(node, original, &out)
	return out
}

func appendForward[T comparable](node Node[T], original []T, out *[]T) {
	switch n := node.(type) {
	case Leaf[T]:
		*out = append(*out, n.Modified...)
	case Internal[T]:
		appendForward(n.Prefix, original, out)
		*out = append(*out, original[n.CommonOriginal.Start:n.CommonOriginal.Stop]...)
		appendForward(n.Suffix, original, out)
	}
}

// ApplyReverse reconstructs original by walking the tree and emitting
// each leaf's original region and each internal node's common region
// read from modified.
func ApplyReverse[T comparable](node Node[T], modified []T) []T {
	var out []T
	appendReverse(node, modified, &out)
	return out
}

func appendReverse[T comparable](node Node[T], modified []T, out *[]T) {
	switch n := node.(type) {
	case Leaf[T]:
		*out = append(*out, n.Original...)
	case Internal[T]:
		appendReverse(n.Prefix, modified, out)
		*out = append(*out, modified[n.CommonModified.Start:n.CommonModified.Stop]...)
		appendReverse(n.Suffix, modified, out)
	}
}

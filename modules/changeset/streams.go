package changeset

// Fragment is the sealed linearised-changeset item type described in
// spec §3 "Fragment stream": Copy, Change, or (only ever produced by
// modules/merge) Conflict.
type Fragment[T comparable] interface {
	isFragment()
}

// CopyFragment is an unchanged region, carried verbatim.
type CopyFragment[T comparable] struct {
	Content []T
	Length  int
}

func (CopyFragment[T]) isFragment() {}

// ChangeFragment is a non-empty leaf: Insert is the modified-side
// content, Delete is the original-side content it replaces.
type ChangeFragment[T comparable] struct {
	Insert []T
	Delete []T
	Length int
}

func (ChangeFragment[T]) isFragment() {}

// ConflictFragment is produced only by modules/merge, never by
// Fragments/DiffStream directly; it lives here because it shares the
// Fragment tag with Copy and Change.
type ConflictFragment[T comparable] struct {
	Version1 []T
	Version2 []T
}

func (ConflictFragment[T]) isFragment() {}

// Fragments linearises node in order: each internal common region
// becomes a CopyFragment, each non-empty leaf becomes a ChangeFragment,
// and empty leaves (artifacts of construction) are dropped. This is
// the form consumed by modules/merge.
func Fragments[T comparable](node Node[T], original []T) []Fragment[T] {
	var out []Fragment[T]
	appendFragments(node, original, &out)
	return out
}

func appendFragments[T comparable](node Node[T], original []T, out *[]Fragment[T]) {
	switch n := node.(type) {
	case Leaf[T]:
		if n.Empty() {
			return
		}
		*out = append(*out, ChangeFragment[T]{
			Insert: n.Modified,
			Delete: n.Original,
			Length: len(n.Original),
		})
	case Internal[T]:
		appendFragments(n.Prefix, original, out)
		content := original[n.CommonOriginal.Start:n.CommonOriginal.Stop]
		*out = append(*out, CopyFragment[T]{Content: content, Length: len(content)})
		appendFragments(n.Suffix, original, out)
	}
}

// DiffStream is Fragments under the name the external diff API uses:
// unchanged token runs and non-empty leaves as Change(modified,
// original). Structurally identical to Fragments; kept as a separate
// entry point because callers of the diff API and callers of the
// merger think about the same stream in different vocabularies.
func DiffStream[T comparable](node Node[T], original []T) []Fragment[T] {
	return Fragments(node, original)
}

// ReducedItem is the sealed type of ReducedStream: unchanged regions
// carried as slice positions (not materialized tokens) and changes
// carried as their actual content.
type ReducedItem[T comparable] interface {
	isReduced()
}

// CommonSliceItem is an unchanged region, referenced by position into
// both the original and modified sequences.
type CommonSliceItem[T comparable] struct {
	OriginalSlice Span
	ModifiedSlice Span
}

func (CommonSliceItem[T]) isReduced() {}

// ChangeItem is a non-empty leaf, carried as actual content since it
// has no single base sequence to slice into.
type ChangeItem[T comparable] struct {
	Insert []T
	Delete []T
}

func (ChangeItem[T]) isReduced() {}

// ReducedStream linearises node in order, keeping unchanged regions as
// slice positions rather than materialized tokens. This is what gets
// persisted (after StripForward/StripReverse and serialization).
func ReducedStream[T comparable](node Node[T]) []ReducedItem[T] {
	var out []ReducedItem[T]
	appendReduced(node, &out)
	return out
}

func appendReduced[T comparable](node Node[T], out *[]ReducedItem[T]) {
	switch n := node.(type) {
	case Leaf[T]:
		if n.Empty() {
			return
		}
		*out = append(*out, ChangeItem[T]{Insert: n.Modified, Delete: n.Original})
	case Internal[T]:
		appendReduced(n.Prefix, out)
		*out = append(*out, CommonSliceItem[T]{OriginalSlice: n.CommonOriginal, ModifiedSlice: n.CommonModified})
		appendReduced(n.Suffix, out)
	}
}

// PatchItem is the sealed type of a stripped patch (spec §3): a
// one-directional projection of a ReducedStream, each item either a
// position into a known base sequence or a materialized token run.
type PatchItem[T comparable] interface {
	isPatch()
}

// SliceItem references [Start, Stop) of the base sequence the patch
// will be applied to.
type SliceItem struct {
	Start int
	Stop  int
}

func (SliceItem) isPatch() {}

// RunItem is materialized content with no corresponding region in the
// base sequence (an insertion or a replacement's new content).
type RunItem[T comparable] struct {
	Tokens []T
}

func (RunItem[T]) isPatch() {}

// StripForward projects a ReducedStream into a patch that reconstructs
// the modified sequence from the original: common regions keep their
// original-side position, changes keep their inserted content.
func StripForward[T comparable](reduced []ReducedItem[T]) []PatchItem[T] {
	out := make([]PatchItem[T], 0, len(reduced))
	for _, item := range reduced {
		switch r := item.(type) {
		case CommonSliceItem[T]:
			out = append(out, SliceItem{Start: r.OriginalSlice.Start, Stop: r.OriginalSlice.Stop})
		case ChangeItem[T]:
			out = append(out, RunItem[T]{Tokens: r.Insert})
		}
	}
	return out
}

// StripReverse projects a ReducedStream into a patch that reconstructs
// the original sequence from the modified: common regions keep their
// modified-side position, changes keep their deleted content.
func StripReverse[T comparable](reduced []ReducedItem[T]) []PatchItem[T] {
	out := make([]PatchItem[T], 0, len(reduced))
	for _, item := range reduced {
		switch r := item.(type) {
		case CommonSliceItem[T]:
			out = append(out, SliceItem{Start: r.ModifiedSlice.Start, Stop: r.ModifiedSlice.Stop})
		case ChangeItem[T]:
			out = append(out, RunItem[T]{Tokens: r.Delete})
		}
	}
	return out
}

// Apply consumes a stripped patch against base and produces the
// target sequence: every SliceItem emits base[Start:Stop], every
// RunItem emits its tokens directly, concatenated in order.
func Apply[T comparable](patch []PatchItem[T], base []T) []T {
	var out []T
	for _, item := range patch {
		switch p := item.(type) {
		case SliceItem:
			out = append(out, base[p.Start:p.Stop]...)
		case RunItem[T]:
			out = append(out, p.Tokens...)
		}
	}
	return out
}

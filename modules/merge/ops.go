// Package merge implements the three-way merge over two changesets
// against a shared parent (spec §4.4): interleaving the parent→branch0
// and parent→branch1 fragment streams, detecting conflicts, and
// consolidating the result into a compact conflict-annotated stream.
package merge

import "github.com/mawicks/gaspra/modules/changeset"

func fragmentLength[T comparable](f changeset.Fragment[T]) int {
	switch v := f.(type) {
	case changeset.CopyFragment[T]:
		return v.Length
	case changeset.ChangeFragment[T]:
		return v.Length
	default:
		panic("merge: unexpected fragment kind")
	}
}

func fragmentInsert[T comparable](f changeset.Fragment[T]) []T {
	switch v := f.(type) {
	case changeset.CopyFragment[T]:
		return v.Content
	case changeset.ChangeFragment[T]:
		return v.Insert
	default:
		panic("merge: unexpected fragment kind")
	}
}

func commonPrefixLength[T comparable](a, b []T) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

func sliceEqual[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func splitCopyFragment[T comparable](f changeset.CopyFragment[T], length int) (head, tail changeset.Fragment[T]) {
	if length > 0 {
		head = changeset.CopyFragment[T]{Content: f.Content[:length], Length: length}
	}
	if length < f.Length {
		tail = changeset.CopyFragment[T]{Content: f.Content[length:], Length: f.Length - length}
	}
	return
}

func splitChangeFragment[T comparable](f changeset.ChangeFragment[T], insertLength, length int) (head, tail changeset.Fragment[T]) {
	if length > 0 || insertLength > 0 {
		head = changeset.ChangeFragment[T]{
			Insert: f.Insert[:insertLength],
			Delete: f.Delete[:length],
			Length: length,
		}
	}
	if length < f.Length || insertLength < len(f.Insert) {
		tail = changeset.ChangeFragment[T]{
			Insert: f.Insert[insertLength:],
			Delete: f.Delete[length:],
			Length: f.Length - length,
		}
	}
	return
}

// splitFragmentAt splits a Copy or Change fragment at the given
// length, used by the within_conflict continuation rule (§4.4 step
// 2(d)), which may have to split either kind. For a Change fragment,
// the entire Insert is attributed to the head (there is no natural
// correspondence between insert and delete positions), matching
// copy_change's treatment of an over-long change.
func splitFragmentAt[T comparable](f changeset.Fragment[T], length int) (head, tail changeset.Fragment[T]) {
	switch v := f.(type) {
	case changeset.CopyFragment[T]:
		return splitCopyFragment(v, length)
	case changeset.ChangeFragment[T]:
		return splitChangeFragment(v, len(v.Insert), length)
	default:
		panic("merge: unexpected fragment kind")
	}
}

// copyCopy implements §4.4(a): emit the shorter region, push the
// longer one's remainder back as a tail.
func copyCopy[T comparable](f0, f1 changeset.CopyFragment[T]) (output, tail0, tail1 changeset.Fragment[T]) {
	if f0.Length < f1.Length {
		shorter, longer := f0, f1
		var tail changeset.Fragment[T]
		if shorter.Length != longer.Length {
			_, tail = splitCopyFragment(longer, shorter.Length)
		}
		return shorter, nil, tail
	}
	shorter, longer := f1, f0
	var tail changeset.Fragment[T]
	if shorter.Length != longer.Length {
		_, tail = splitCopyFragment(longer, shorter.Length)
	}
	return shorter, tail, nil
}

// copyChange implements §4.4(c). copyTail/changeTail are remainders
// belonging to whichever input was the copy/change fragment; the
// caller reattaches them to the correct branch stack.
func copyChange[T comparable](copyFrag changeset.CopyFragment[T], changeFrag changeset.ChangeFragment[T]) (output, copyTail, changeTail changeset.Fragment[T]) {
	smaller := copyFrag.Length
	if changeFrag.Length < smaller {
		smaller = changeFrag.Length
	}

	if changeFrag.Length == smaller {
		output = changeFrag
		if copyFrag.Length > smaller {
			_, copyTail = splitCopyFragment(copyFrag, smaller)
		}
		return
	}

	head0, head1 := splitChangeFragment(changeFrag, len(changeFrag.Insert), smaller)
	if head0 != nil {
		h := head0.(changeset.ChangeFragment[T])
		output = changeset.ConflictFragment[T]{Version1: h.Insert, Version2: copyFrag.Content}
	}
	if head1 != nil {
		changeTail = head1
	}
	return
}

// changeChangeResult additionally reports whether this call produced
// an ordinary conflict, which the caller uses to set within_conflict.
type changeChangeResult[T comparable] struct {
	output     changeset.Fragment[T]
	tail0      changeset.Fragment[T]
	tail1      changeset.Fragment[T]
	isConflict bool
}

// changeChange implements §4.4.1. Beyond the spec's three named cases
// it also keeps the original implementation's common-prefix factoring
// step (merge.py's change_change, third branch): when the two changes
// share a non-trivial common insert/delete prefix that is a proper
// prefix of both, that prefix is emitted as a plain (non-conflicting)
// change and only the differing remainders are pushed back — this
// shrinks spurious conflicts the same way the two-pass consolidation
// does, and is a supplemented behavior, not a spec deviation.
func changeChange[T comparable](f0, f1 changeset.ChangeFragment[T]) changeChangeResult[T] {
	// Composable pure-insert / pure-delete pair.
	if f0.Length == 0 && len(f1.Insert) == 0 {
		return changeChangeResult[T]{
			tail1: changeset.ChangeFragment[T]{Insert: f0.Insert, Delete: f1.Delete, Length: f1.Length},
		}
	}
	if len(f0.Insert) == 0 && f1.Length == 0 {
		return changeChangeResult[T]{
			tail0: changeset.ChangeFragment[T]{Insert: f1.Insert, Delete: f0.Delete, Length: f0.Length},
		}
	}

	// Identical change.
	if f0.Length == f1.Length && sliceEqual(f0.Insert, f1.Insert) && sliceEqual(f0.Delete, f1.Delete) {
		return changeChangeResult[T]{output: f0}
	}

	insertLength := commonPrefixLength(f0.Insert, f1.Insert)
	deleteLength := commonPrefixLength(f0.Delete, f1.Delete)

	if (insertLength > 0 || deleteLength > 0) &&
		insertLength < len(f0.Insert) && insertLength < len(f1.Insert) {
		output, tail0 := splitChangeFragment(f0, insertLength, deleteLength)
		_, tail1 := splitChangeFragment(f1, insertLength, deleteLength)
		return changeChangeResult[T]{output: output, tail0: tail0, tail1: tail1}
	}

	length := f0.Length
	if f1.Length < length {
		length = f1.Length
	}
	head0, tail0 := splitChangeFragment(f0, len(f0.Insert), length)
	head1, tail1 := splitChangeFragment(f1, len(f1.Insert), length)

	result := changeChangeResult[T]{tail0: tail0, tail1: tail1}
	if head0 != nil && head1 != nil {
		h0 := head0.(changeset.ChangeFragment[T])
		h1 := head1.(changeset.ChangeFragment[T])
		result.output = changeset.ConflictFragment[T]{Version1: h0.Insert, Version2: h1.Insert}
		result.isConflict = true
	}
	return result
}

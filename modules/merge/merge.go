package merge

import "github.com/mawicks/gaspra/modules/changeset"

// Merge performs the three-way merge of branch0 and branch1 against
// their shared parent (spec §4.4) and returns the fully consolidated
// result: a sequence of plain token-run items (changeset.CopyFragment)
// interleaved with conflict markers (changeset.ConflictFragment)
// wherever the branches disagree.
func Merge[T comparable](parent, branch0, branch1 []T) []changeset.Fragment[T] {
	changeset0 := changeset.FindChangeset(parent, branch0)
	changeset1 := changeset.FindChangeset(parent, branch1)

	stack0 := reversedStack(changeset.Fragments(changeset0, parent))
	stack1 := reversedStack(changeset.Fragments(changeset1, parent))

	raw := interleave(stack0, stack1)
	return consolidate(raw)
}

// reversedStack returns items in reverse order so pop() (removing the
// last element) yields them in their original order.
func reversedStack[T comparable](items []changeset.Fragment[T]) []changeset.Fragment[T] {
	out := make([]changeset.Fragment[T], len(items))
	for i, item := range items {
		out[len(items)-1-i] = item
	}
	return out
}

func pop[T comparable](stack *[]changeset.Fragment[T]) changeset.Fragment[T] {
	n := len(*stack)
	top := (*stack)[n-1]
	*stack = (*stack)[:n-1]
	return top
}

func push[T comparable](stack *[]changeset.Fragment[T], item changeset.Fragment[T]) {
	if item != nil {
		*stack = append(*stack, item)
	}
}

// interleave runs the step-2 core loop and the step-3 flush described
// in spec §4.4, returning the raw (pre-consolidation) merged stream.
func interleave[T comparable](stack0, stack1 []changeset.Fragment[T]) []changeset.Fragment[T] {
	var out []changeset.Fragment[T]
	withinConflict := false

	for len(stack0) > 0 && len(stack1) > 0 {
		f0 := pop(&stack0)
		f1 := pop(&stack1)

		copy0, isCopy0 := f0.(changeset.CopyFragment[T])
		copy1, isCopy1 := f1.(changeset.CopyFragment[T])

		var output, tail0, tail1 changeset.Fragment[T]

		switch {
		case isCopy0 && isCopy1:
			output, tail0, tail1 = copyCopy(copy0, copy1)
			withinConflict = false

		case withinConflict:
			length := fragmentLength(f0)
			if other := fragmentLength(f1); other < length {
				length = other
			}
			var head0, head1 changeset.Fragment[T]
			head0, tail0 = splitFragmentAt(f0, length)
			head1, tail1 = splitFragmentAt(f1, length)
			if head0 != nil && head1 != nil {
				output = changeset.ConflictFragment[T]{
					Version1: fragmentInsert(head0),
					Version2: fragmentInsert(head1),
				}
			}

		case isCopy0 && !isCopy1:
			change1 := f1.(changeset.ChangeFragment[T])
			var ct changeset.Fragment[T]
			output, tail0, ct = copyChange(copy0, change1)
			tail1 = ct

		case !isCopy0 && isCopy1:
			change0 := f0.(changeset.ChangeFragment[T])
			var ct changeset.Fragment[T]
			output, tail1, ct = copyChange(copy1, change0)
			tail0 = ct

		default:
			change0 := f0.(changeset.ChangeFragment[T])
			change1 := f1.(changeset.ChangeFragment[T])
			result := changeChange(change0, change1)
			output, tail0, tail1 = result.output, result.tail0, result.tail1
			withinConflict = result.isConflict
		}

		push(&stack0, tail0)
		push(&stack1, tail1)
		if output != nil {
			out = append(out, output)
		}
	}

	remaining, fromBranch0 := stack0, true
	if len(remaining) == 0 {
		remaining, fromBranch0 = stack1, false
	}
	for i := len(remaining) - 1; i >= 0; i-- {
		item := remaining[i]
		if withinConflict {
			if change, ok := item.(changeset.ChangeFragment[T]); ok {
				out = append(out, oneSidedConflict[T](change, fromBranch0))
				continue
			}
		}
		out = append(out, item)
	}

	return out
}

// oneSidedConflict wraps a leftover fragment as a one-sided conflict
// (spec §4.4 step 3): Conflict(insert, nil) if it came from branch0's
// stack, Conflict(nil, insert) if it came from branch1's.
func oneSidedConflict[T comparable](f changeset.ChangeFragment[T], fromBranch0 bool) changeset.Fragment[T] {
	if fromBranch0 {
		return changeset.ConflictFragment[T]{Version1: f.Insert, Version2: nil}
	}
	return changeset.ConflictFragment[T]{Version1: nil, Version2: f.Insert}
}

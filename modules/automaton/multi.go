package automaton

import (
	"github.com/emirpasic/gods/stack/arraystack"
)

// Separator is a sentinel token distinct from every Token value, used
// to delimit the concatenation of several sequences before building a
// single automaton over all of them (spec §4.1 "Multi-sequence LCS").
// Index identifies which original sequence this separator closed.
type Separator struct {
	Index int
}

// unit is the token type of the concatenated, separator-delimited
// automaton: either a caller token or a Separator. Because both
// fields are comparable and isSep distinguishes the zero value of T
// from an actual separator, unit itself is comparable and can be used
// directly as a map key in Automaton's transition tables.
type unit[T comparable] struct {
	value T
	sep   Separator
	isSep bool
}

func tokenUnit[T comparable](v T) unit[T]       { return unit[T]{value: v} }
func separatorUnit[T comparable](i int) unit[T] { return unit[T]{isSep: true, sep: Separator{Index: i}} }

// MultiLCS returns the starting position of the longest substring
// common to every sequence in seqs, one position per sequence, along
// with its length. If seqs is empty, length is 0 and positions is
// nil. If no non-empty common substring exists, length is 0.
func MultiLCS[T comparable](seqs [][]T) (positions []int, length int) {
	if len(seqs) == 0 {
		return nil, 0
	}

	concat, offsets := concatenateWithSeparators(seqs)
	a := Build(concat)

	bestID, bestLen := findDeepestFullyShared(a, len(seqs))
	if bestID < 0 {
		return make([]int, len(seqs)), 0
	}

	node := a.NodeAt(bestID)
	rawPositions := a.collectEndpos(bestID)
	for i := range rawPositions {
		rawPositions[i] -= node.Length
	}
	sortedRaw := dedupSorted(rawPositions)

	return mapPositionsToSequences(sortedRaw, offsets, len(seqs)), node.Length
}

func concatenateWithSeparators[T comparable](seqs [][]T) ([]unit[T], []int) {
	total := 0
	for _, s := range seqs {
		total += len(s) + 1
	}
	concat := make([]unit[T], 0, total)
	offsets := make([]int, len(seqs))
	for i, s := range seqs {
		offsets[i] = len(concat)
		for _, tok := range s {
			concat = append(concat, tokenUnit[T](tok))
		}
		concat = append(concat, separatorUnit[T](i))
	}
	return concat, offsets
}

// mapPositionsToSequences converts raw concatenated-string positions
// into one position per input sequence: the first raw position that
// falls within each sequence's offset window, adjusted back to that
// sequence's own coordinate space. This mirrors get_string_offsets in
// the Python reference implementation.
func mapPositionsToSequences(rawPositions, offsets []int, n int) []int {
	out := make([]int, n)
	for i := 0; i < n; i++ {
		lo := offsets[i]
		hi := 1 << 62
		if i+1 < n {
			hi = offsets[i+1]
		}
		for _, p := range rawPositions {
			if p >= lo && p < hi {
				out[i] = p - lo
				break
			}
		}
	}
	return out
}

// findDeepestFullyShared performs the explicit-stack DFS described in
// spec §4.1: a state is finalized once every transition target is
// finalized, and its membership set is the union of the membership
// sets of the targets of its non-separator transitions plus {i} for
// each outgoing Separator(i) transition. The deepest fully-shared
// state (membership == every input index) is the multi-sequence LCS
// anchor. Returns (-1, 0) if no state other than the root is shared by
// every sequence, i.e. the sequences have no non-empty common
// substring.
//
// The stack is explicit, backed by gods' arraystack (matching
// hugescm's own preference for the emirpasic/gods collection types
// over ad hoc slices-as-stacks), because natural inputs can produce
// transition paths far deeper than a goroutine's default stack
// comfortably recurses through (spec §5).
func findDeepestFullyShared[T comparable](a *Automaton[unit[T]], nSeqs int) (int, int) {
	shared := make(map[int]map[int]struct{})
	stack := arraystack.New()
	stack.Push(a.Root())

	bestID, bestLen := -1, 0

	for !stack.Empty() {
		topVal, _ := stack.Peek()
		id := topVal.(int)

		if _, done := shared[id]; done {
			stack.Pop()
			continue
		}

		node := a.NodeAt(id)
		allChildrenDone := true
		for _, childID := range node.Transitions {
			if _, ok := shared[childID]; !ok {
				allChildrenDone = false
				stack.Push(childID)
			}
		}
		if !allChildrenDone {
			continue
		}

		set := make(map[int]struct{})
		for tok, childID := range node.Transitions {
			if tok.isSep {
				set[tok.sep.Index] = struct{}{}
				continue
			}
			for idx := range shared[childID] {
				set[idx] = struct{}{}
			}
		}
		shared[id] = set

		if len(set) == nSeqs && node.Length > bestLen {
			bestID, bestLen = id, node.Length
		}
		stack.Pop()
	}

	return bestID, bestLen
}

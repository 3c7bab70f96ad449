package changeset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runes(s string) []rune { return []rune(s) }

func TestFindChangesetRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		original string
		modified string
	}{
		{"simple insert", "abcabcabc", "abxybcabcx"},
		{"identical", "hello world", "hello world"},
		{"disjoint", "abc", "xyz"},
		{"empty original", "", "abc"},
		{"empty modified", "abc", ""},
		{"both empty", "", ""},
		{"scenario S1", "abcabcabc", "abxybcabcx"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			original, modified := runes(tc.original), runes(tc.modified)
			tree := FindChangeset(original, modified)

			gotModified := ApplyForward(tree, original)
			assert.Equal(t, tc.modified, string(gotModified))

			gotOriginal := ApplyReverse(tree, modified)
			assert.Equal(t, tc.original, string(gotOriginal))
		})
	}
}

func TestFragmentsSkipsEmptyLeaves(t *testing.T) {
	tree := FindChangeset(runes("abc"), runes("abc"))
	fragments := Fragments(tree, runes("abc"))
	require.Len(t, fragments, 1)
	cp, ok := fragments[0].(CopyFragment[rune])
	require.True(t, ok)
	assert.Equal(t, "abc", string(cp.Content))
}

func TestFragmentsDisjointIsSingleChange(t *testing.T) {
	original, modified := runes("abc"), runes("xyz")
	tree := FindChangeset(original, modified)
	fragments := Fragments(tree, original)
	require.Len(t, fragments, 1)
	ch, ok := fragments[0].(ChangeFragment[rune])
	require.True(t, ok)
	assert.Equal(t, "xyz", string(ch.Insert))
	assert.Equal(t, "abc", string(ch.Delete))
	assert.Equal(t, 3, ch.Length)
}

func TestReducedAndPatchRoundTrip(t *testing.T) {
	original, modified := runes("abcabcabc"), runes("abxybcabcx")
	tree := FindChangeset(original, modified)
	reduced := ReducedStream(tree)

	forward := StripForward(reduced)
	gotModified := Apply(forward, original)
	assert.Equal(t, string(modified), string(gotModified))

	reverse := StripReverse(reduced)
	gotOriginal := Apply(reverse, modified)
	assert.Equal(t, string(original), string(gotOriginal))
}

func TestDiffStreamScenarioS1(t *testing.T) {
	original, modified := runes("abcabcabc"), runes("abxybcabcx")
	tree := FindChangeset(original, modified)
	stream := DiffStream(tree, original)

	var rebuilt []rune
	for _, f := range stream {
		switch v := f.(type) {
		case CopyFragment[rune]:
			rebuilt = append(rebuilt, v.Content...)
		case ChangeFragment[rune]:
			rebuilt = append(rebuilt, v.Insert...)
		}
	}
	assert.Equal(t, string(modified), string(rebuilt))
}

package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mawicks/gaspra/modules/changeset"
)

func runes(s string) []rune { return []rune(s) }

// flatten renders a merged stream the way a conflict-marker CLI would:
// plain runs pass through, conflicts render as "<v1|v2>" so tests can
// assert on a single string.
func flatten(fragments []changeset.Fragment[rune]) string {
	var out []rune
	for _, f := range fragments {
		switch v := f.(type) {
		case changeset.CopyFragment[rune]:
			out = append(out, v.Content...)
		case changeset.ChangeFragment[rune]:
			out = append(out, v.Insert...)
		case changeset.ConflictFragment[rune]:
			out = append(out, '<')
			out = append(out, v.Version1...)
			out = append(out, '|')
			out = append(out, v.Version2...)
			out = append(out, '>')
		}
	}
	return string(out)
}

func TestMergeNoConflict(t *testing.T) {
	// S2: parent="abc", branch0="abcxyz", branch1="abcxyz" -> "abcxyz".
	result := Merge(runes("abc"), runes("abcxyz"), runes("abcxyz"))
	require.Len(t, result, 1)
	cp, ok := result[0].(changeset.CopyFragment[rune])
	require.True(t, ok)
	assert.Equal(t, "abcxyz", string(cp.Content))
}

func TestMergeConflict(t *testing.T) {
	// S3: parent="abcdefg", branch0="axdpefg", branch1="abcdqey"
	// -> ("axd", Change("p","q"), "ey").
	result := Merge(runes("abcdefg"), runes("axdpefg"), runes("abcdqey"))
	require.Len(t, result, 3)

	first, ok := result[0].(changeset.CopyFragment[rune])
	require.True(t, ok)
	assert.Equal(t, "axd", string(first.Content))

	conflict, ok := result[1].(changeset.ConflictFragment[rune])
	require.True(t, ok)
	assert.Equal(t, "p", string(conflict.Version1))
	assert.Equal(t, "q", string(conflict.Version2))

	last, ok := result[2].(changeset.CopyFragment[rune])
	require.True(t, ok)
	assert.Equal(t, "ey", string(last.Content))
}

func TestMergeComposesDeletionAndInsertion(t *testing.T) {
	// S4: parent=".a", branch0=".xa", branch1="." -> (".x",).
	result := Merge(runes(".a"), runes(".xa"), runes("."))
	require.Len(t, result, 1)
	cp, ok := result[0].(changeset.CopyFragment[rune])
	require.True(t, ok)
	assert.Equal(t, ".x", string(cp.Content))
}

func TestMergeIdenticalBranchesIsIdentity(t *testing.T) {
	// P2: merge(a, a, a) = a.
	for _, s := range []string{"", "hello world", "abcabcabc"} {
		result := Merge(runes(s), runes(s), runes(s))
		assert.Equal(t, s, flatten(result), "merge(%q,%q,%q)", s, s, s)
	}
}

func TestMergeEmptyEverything(t *testing.T) {
	result := Merge([]rune{}, []rune{}, []rune{})
	require.Len(t, result, 1)
	cp, ok := result[0].(changeset.CopyFragment[rune])
	require.True(t, ok)
	assert.Empty(t, cp.Content)
}

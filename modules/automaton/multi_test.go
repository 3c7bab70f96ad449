package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiLCSTwoSequences(t *testing.T) {
	seqs := [][]rune{tokens("xxabcxx"), tokens("yyabcyy")}
	positions, length := MultiLCS(seqs)
	require.Equal(t, 3, length)
	for i, seq := range seqs {
		got := string(seq[positions[i] : positions[i]+length])
		assert.Equal(t, "abc", got)
	}
}

func TestMultiLCSThreeSequences(t *testing.T) {
	seqs := [][]rune{
		tokens("ZZsharedZZ"),
		tokens("sharedYY"),
		tokens("WWsharedW"),
	}
	positions, length := MultiLCS(seqs)
	require.Equal(t, len("shared"), length)
	for i, seq := range seqs {
		got := string(seq[positions[i] : positions[i]+length])
		assert.Equal(t, "shared", got)
	}
}

func TestMultiLCSNoCommonSubstring(t *testing.T) {
	seqs := [][]rune{tokens("abc"), tokens("xyz")}
	positions, length := MultiLCS(seqs)
	assert.Equal(t, 0, length)
	assert.Equal(t, []int{0, 0}, positions)
}

func TestMultiLCSEmptyInput(t *testing.T) {
	positions, length := MultiLCS[rune](nil)
	assert.Nil(t, positions)
	assert.Equal(t, 0, length)
}

func TestMultiLCSSingleSequence(t *testing.T) {
	seqs := [][]rune{tokens("hello")}
	positions, length := MultiLCS(seqs)
	require.Equal(t, 5, length)
	assert.Equal(t, []int{0}, positions)
}

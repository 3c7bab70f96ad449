package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mawicks/gaspra/modules/patch"
)

func newByteStore(t *testing.T) *Store[byte] {
	t.Helper()
	s, err := New[byte](patch.ByteCodec{})
	require.NoError(t, err)
	return s
}

func strPtr(s string) *string { return &s }

func TestStoreScenarioS6(t *testing.T) {
	s := newByteStore(t)

	require.NoError(t, s.Add("v0", []byte("abcdefg"), nil))
	require.NoError(t, s.Add("v1", []byte("acefg"), strPtr("v0")))
	require.NoError(t, s.Add("v2", []byte("acdxyg"), strPtr("v1")))

	got, err := s.Get("v0")
	require.NoError(t, err)
	assert.Equal(t, "abcdefg", string(got))

	got, err = s.Get("v1")
	require.NoError(t, err)
	assert.Equal(t, "acefg", string(got))

	got, err = s.Get("v2")
	require.NoError(t, err)
	assert.Equal(t, "acdxyg", string(got))

	info0, err := s.VersionInfo("v0")
	require.NoError(t, err)
	assert.Greater(t, info0.ChangeCount, 0)

	info1, err := s.VersionInfo("v1")
	require.NoError(t, err)
	assert.Greater(t, info1.ChangeCount, 0)

	info2, err := s.VersionInfo("v2")
	require.NoError(t, err)
	assert.Equal(t, 0, info2.ChangeCount)
	assert.Equal(t, len("acdxyg"), info2.TokenCount)
}

func TestStoreContainsAndUnknownTag(t *testing.T) {
	s := newByteStore(t)
	assert.False(t, s.Contains("missing"))

	_, err := s.Get("missing")
	assert.ErrorIs(t, err, ErrUnknownTag)

	_, err = s.VersionInfo("missing")
	assert.ErrorIs(t, err, ErrUnknownTag)
}

func TestStoreBaseVersionIsRecorded(t *testing.T) {
	s := newByteStore(t)
	require.NoError(t, s.Add("v0", []byte("hello"), nil))
	require.NoError(t, s.Add("v1", []byte("hullo"), strPtr("v0")))

	info, err := s.VersionInfo("v1")
	require.NoError(t, err)
	require.True(t, info.HasBase)
	assert.Equal(t, "v0", info.BaseVersion)
}

// TestStoreLongChainRoundTrips exercises tree reshaping (GetSplit
// promoting an interior node) by growing a longer chain where earlier
// tags accumulate descendants before being reused as existingHead.
func TestStoreLongChainRoundTrips(t *testing.T) {
	s := newByteStore(t)

	contents := map[string]string{
		"v0": "the quick brown fox",
		"v1": "the quick red fox",
		"v2": "the slow red fox",
		"v3": "the slow red hare",
		"v4": "a slow red hare",
		"v5": "a slow red hare jumps",
	}
	parents := map[string]string{
		"v1": "v0",
		"v2": "v1",
		"v3": "v2",
		"v4": "v3",
		"v5": "v4",
	}

	order := []string{"v0", "v1", "v2", "v3", "v4", "v5"}
	for _, tag := range order {
		var parent *string
		if p, ok := parents[tag]; ok {
			parent = strPtr(p)
		}
		require.NoError(t, s.Add(tag, []byte(contents[tag]), parent))
	}

	for _, tag := range order {
		got, err := s.Get(tag)
		require.NoError(t, err)
		assert.Equal(t, contents[tag], string(got), "tag %s", tag)
	}
}

func TestStoreWithCompressionRoundTrips(t *testing.T) {
	s, err := New[byte](patch.ByteCodec{}, WithCompression[byte](true))
	require.NoError(t, err)

	require.NoError(t, s.Add("v0", []byte("abcdefghijklmnopqrstuvwxyz"), nil))
	require.NoError(t, s.Add("v1", []byte("abcdefghijklmnopqrstuvwxy"), strPtr("v0")))

	got, err := s.Get("v1")
	require.NoError(t, err)
	assert.Equal(t, "abcdefghijklmnopqrstuvwxy", string(got))
}

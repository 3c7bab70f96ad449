package vtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndContains(t *testing.T) {
	tr := New[string]()
	assert.False(t, tr.Contains("a"))
	tr.Add("a", nil)
	assert.True(t, tr.Contains("a"))

	head := "a"
	tr.Add("b", &head)
	got, ok := tr.BaseVersion("b")
	require.True(t, ok)
	assert.Equal(t, "a", got)

	_, ok = tr.BaseVersion("a")
	assert.False(t, ok)
}

// TestChangeParentHeadAttachmentUpdatesHeight links a onto root as a
// head attachment, then b onto a, exercising ChangeParent's child0 slot
// and metric propagation.
func TestChangeParentHeadAttachmentUpdatesHeight(t *testing.T) {
	tr := New[string]()
	tr.Add("root", nil)
	tr.Add("a", nil)
	tr.ChangeParent("a", "root")
	assert.Equal(t, 2, tr.Height("root"))
	assert.Equal(t, 2, tr.Size("root"))

	tr.Add("b", nil)
	tr.ChangeParent("b", "a")
	assert.Equal(t, 3, tr.Height("root"))
	assert.Equal(t, 3, tr.Size("root"))

	parent, ok := tr.Parent("b")
	require.True(t, ok)
	assert.Equal(t, "a", parent)
}

// TestChangeParentSplitAttachmentUsesChild1 reparents a node that
// already has a parent (a "split" attachment) and confirms it lands in
// child1 without disturbing the existing child0 occupant, and that both
// the new and old parent's metrics are refreshed.
func TestChangeParentSplitAttachmentUsesChild1(t *testing.T) {
	tr := New[string]()
	tr.Add("root", nil)
	tr.Add("left", nil)
	tr.Add("mid", nil)

	tr.ChangeParent("left", "root") // head attachment -> root.child0
	tr.ChangeParent("mid", "left")  // head attachment -> left.child0
	assert.Equal(t, 3, tr.Height("root"))

	// Split mid off of left and onto root directly: mid had a parent
	// (left) already, so it must land in root.child1, not evict left.
	tr.ChangeParent("mid", "root")

	parent, ok := tr.Parent("mid")
	require.True(t, ok)
	assert.Equal(t, "root", parent)

	parent, ok = tr.Parent("left")
	require.True(t, ok)
	assert.Equal(t, "root", parent)

	// left lost its only child, so its height drops back to 1, and
	// root's height is now max(left.height, mid.height)+1 = 2.
	assert.Equal(t, 1, tr.Height("left"))
	assert.Equal(t, 2, tr.Height("root"))
	assert.Equal(t, 3, tr.Size("root"))
}

package trie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAATreeFindMissing(t *testing.T) {
	a := NewArena()
	root := a.NewTrieNode()
	assert.Equal(t, nullIndex, a.ChildOf(root, 12345))
}

func TestAATreeInsertAndFindManyKeys(t *testing.T) {
	a := NewArena()
	root := a.NewTrieNode()

	keys := []uint64{500, 100, 900, 300, 700, 200, 800, 400, 600, 1000, 150, 950}
	created := map[uint64]uint32{}
	for _, k := range keys {
		created[k] = a.EnsureChild(root, k)
	}
	for _, k := range keys {
		assert.Equal(t, created[k], a.ChildOf(root, k), "key %d", k)
	}
	assert.Equal(t, nullIndex, a.ChildOf(root, 999999))
}

func TestAATreeDuplicateInsertReturnsSameChild(t *testing.T) {
	a := NewArena()
	root := a.NewTrieNode()
	first := a.EnsureChild(root, 42)
	second := a.EnsureChild(root, 42)
	assert.Equal(t, first, second)
}

func TestSkipEdgesSortedAscending(t *testing.T) {
	a := NewArena()
	root := a.NewTrieNode()
	a.EnsureSkip(root, 5)
	a.EnsureSkip(root, 1)
	a.EnsureSkip(root, 3)

	skips := a.Skips(root)
	require.Len(t, skips, 3)
	assert.Equal(t, uint8(1), skips[0].N)
	assert.Equal(t, uint8(3), skips[1].N)
	assert.Equal(t, uint8(5), skips[2].N)
}

func TestSkipEdgeReuse(t *testing.T) {
	a := NewArena()
	root := a.NewTrieNode()
	first := a.EnsureSkip(root, 2)
	second := a.EnsureSkip(root, 2)
	assert.Equal(t, first, second)
	assert.Len(t, a.Skips(root), 1)
}

func TestAddPatternRejectsEmpty(t *testing.T) {
	ix := NewIndex()
	err := ix.AddPattern(1, nil)
	assert.Error(t, err)
}

func TestAddPatternWalksConcreteAndSkipTokens(t *testing.T) {
	ix := NewIndex()
	require.NoError(t, ix.AddPattern(1, []uint64{1000, 5, 2000}))
	assert.Equal(t, 3, ix.LongestPattern)

	// re-walk the same path by hand and confirm the terminal pid.
	cur := ix.Root
	cur = ix.Arena.ChildOf(cur, 1000)
	require.NotEqual(t, nullIndex, cur)
	cur = ix.Arena.EnsureSkip(cur, 5)
	cur = ix.Arena.ChildOf(cur, 2000)
	require.NotEqual(t, nullIndex, cur)
	assert.Equal(t, uint32(1), ix.Arena.Pid(cur))
}

func TestAddPatternOverwriteLogsAndWins(t *testing.T) {
	ix := NewIndex()
	require.NoError(t, ix.AddPattern(1, []uint64{1000, 2000}))
	require.NoError(t, ix.AddPattern(2, []uint64{1000, 2000}))

	cur := ix.Arena.ChildOf(ix.Root, 1000)
	cur = ix.Arena.ChildOf(cur, 2000)
	assert.Equal(t, uint32(2), ix.Arena.Pid(cur))
}

func TestLongestPatternTracksMax(t *testing.T) {
	ix := NewIndex()
	require.NoError(t, ix.AddPattern(1, []uint64{1000, 2000, 3000}))
	require.NoError(t, ix.AddPattern(2, []uint64{1000}))
	assert.Equal(t, 3, ix.LongestPattern)
}

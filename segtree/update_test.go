package segtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustQuery[A, T any](t *testing.T, a *Arena[A, T], tr Tree, l, r int) A {
	t.Helper()
	got, err := a.Query(tr, l, r)
	require.NoError(t, err)
	return got
}

func TestUpdateOverlappingRangeAdds(t *testing.T) {
	a := newSumArena()
	tr, err := a.Create(8)
	require.NoError(t, err)

	tr, err = a.Update(tr, 1, 4, 3)
	require.NoError(t, err)
	tr, err = a.Update(tr, 3, 6, 2)
	require.NoError(t, err)

	assert.Equal(t, int64(3*4+2*4), mustQuery(t, a, tr, 1, 8))
	assert.Equal(t, int64((3+2)*2), mustQuery(t, a, tr, 3, 4))
	assert.Equal(t, int64(3), mustQuery(t, a, tr, 1, 1))
	assert.Equal(t, int64(4), mustQuery(t, a, tr, 5, 8))
	assert.Equal(t, int64(0), mustQuery(t, a, tr, 7, 8))

	total, err := a.Total(tr)
	require.NoError(t, err)
	assert.Equal(t, int64(20), total)
}

func TestUpdateRejectsInvalidRanges(t *testing.T) {
	a := newSumArena()
	tr, _ := a.Create(8)
	tr, err := a.Update(tr, 2, 5, 1)
	require.NoError(t, err)
	before := a.Stats()

	for _, rng := range [][2]int{{0, 3}, {5, 4}, {1, 9}, {9, 9}, {-1, 2}} {
		got, err := a.Update(tr, rng[0], rng[1], 7)
		require.ErrorIs(t, err, ErrInvalidRange, "range %v", rng)
		assert.Equal(t, tr, got)

		_, err = a.Query(tr, rng[0], rng[1])
		require.ErrorIs(t, err, ErrInvalidRange, "range %v", rng)

		_, _, err = a.Split(tr, rng[0], rng[1])
		require.ErrorIs(t, err, ErrInvalidRange, "range %v", rng)
	}
	_, err = a.Set(tr, 0, 1)
	require.ErrorIs(t, err, ErrInvalidRange)

	// Nothing was touched by the rejected calls.
	assert.Equal(t, before, a.Stats())
	assert.Equal(t, int64(4), mustQuery(t, a, tr, 1, 8))
}

func TestPointUpdate(t *testing.T) {
	a := newSumArena()
	tr, _ := a.Create(1 << 20)

	var err error
	for _, pos := range []int{1, 17, 1 << 19, 1 << 20} {
		tr, err = a.Update(tr, pos, pos, int64(pos))
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1+17+(1<<19)+(1<<20)), mustQuery(t, a, tr, 1, 1<<20))
	assert.Equal(t, int64(17), mustQuery(t, a, tr, 2, (1<<19)-1))

	// Point updates over a huge universe only materialize their paths: four
	// paths of 21 nodes, sharing the root, [1, 2^19] (three of them) and
	// [1, 2^k] for k in 5..18 (positions 1 and 17).
	require.Equal(t, 21, Levels(1<<20))
	assert.Equal(t, 4*21-3-2-14, a.Stats().Live)
}

func TestSetAndBuild(t *testing.T) {
	a := newSumArena()

	_, err := a.Build(nil)
	require.ErrorIs(t, err, ErrInvalidRange)

	tr, err := a.Build([]int64{5, 1, 4, 1, 5, 9, 2, 6})
	require.NoError(t, err)
	assert.Equal(t, 8, tr.Size())
	assert.Equal(t, 15, a.Stats().Live)
	assert.Equal(t, int64(33), mustQuery(t, a, tr, 1, 8))
	assert.Equal(t, int64(10), mustQuery(t, a, tr, 3, 5))

	tr, err = a.Update(tr, 1, 8, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(41), mustQuery(t, a, tr, 1, 8))

	// Set discards the pending add that covered the position.
	tr, err = a.Set(tr, 6, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), mustQuery(t, a, tr, 6, 6))
	assert.Equal(t, int64(31), mustQuery(t, a, tr, 1, 8))
	assert.Equal(t, int64(3), mustQuery(t, a, tr, 7, 7))
}

func TestQueryDoesNotModifyTheArena(t *testing.T) {
	a := newSumArena()
	tr, _ := a.Create(16)
	tr, err := a.Update(tr, 1, 16, 2)
	require.NoError(t, err)
	tr, err = a.Update(tr, 5, 12, -1)
	require.NoError(t, err)

	before := a.Stats()
	nodes := append([]node[int64, int64](nil), a.nodes...)

	assert.Equal(t, int64(2*16-8), mustQuery(t, a, tr, 1, 16))
	assert.Equal(t, int64(2+1), mustQuery(t, a, tr, 4, 5))
	assert.Equal(t, int64(1*3), mustQuery(t, a, tr, 6, 8))
	assert.Equal(t, int64(2), mustQuery(t, a, tr, 16, 16))

	assert.Equal(t, before, a.Stats())
	assert.Equal(t, nodes, a.nodes)
}

func TestTagOnAbsentChildrenIsPushedOnDemand(t *testing.T) {
	a := newSumArena()
	tr, _ := a.Create(8)

	// A whole-range update only touches the root.
	tr, err := a.Update(tr, 1, 8, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, a.Stats().Live)
	assert.True(t, a.nodes[tr.Root()].tagged)

	// A later partial update pushes the tag down first.
	tr, err = a.Update(tr, 8, 8, 10)
	require.NoError(t, err)
	assert.False(t, a.nodes[tr.Root()].tagged)
	assert.Equal(t, int64(18), mustQuery(t, a, tr, 1, 8))
	assert.Equal(t, int64(11), mustQuery(t, a, tr, 8, 8))
	assert.Equal(t, int64(7), mustQuery(t, a, tr, 1, 7))
}

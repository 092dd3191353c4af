package segtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSumArena(opts ...Option) *Arena[int64, int64] {
	return NewArena[int64, int64](SumAdd[int64]{}, opts...)
}

func newCountArena(opts ...Option) *Arena[int64, int64] {
	return NewArena[int64, int64](Count{}, opts...)
}

func TestCreate(t *testing.T) {
	a := newSumArena()

	_, err := a.Create(0)
	require.ErrorIs(t, err, ErrInvalidRange)

	tr, err := a.Create(8)
	require.NoError(t, err)
	assert.True(t, tr.Empty())
	assert.Equal(t, NoRef, tr.Root())
	assert.Equal(t, 8, tr.Size())
	assert.Equal(t, Stats{}, a.Stats())

	total, err := a.Total(tr)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestHandlesAreBoundToTheirArena(t *testing.T) {
	a := newSumArena()
	b := newSumArena()

	ta, err := a.Create(8)
	require.NoError(t, err)
	tb, err := b.Create(8)
	require.NoError(t, err)

	_, err = b.Update(ta, 1, 1, 1)
	require.ErrorIs(t, err, ErrForeignTree)
	_, err = a.Merge(ta, tb)
	require.ErrorIs(t, err, ErrForeignTree)

	ta, err = a.Update(ta, 1, 4, 1)
	require.NoError(t, err)

	a.Reset()
	assert.Equal(t, Stats{}, a.Stats())

	_, err = a.Query(ta, 1, 8)
	require.ErrorIs(t, err, ErrStaleTree)
	_, _, err = a.Split(ta, 1, 2)
	require.ErrorIs(t, err, ErrStaleTree)
	_, err = a.Kth(ta, 1)
	require.ErrorIs(t, err, ErrStaleTree)

	// Fresh handles work after the reset.
	tc, err := a.Create(8)
	require.NoError(t, err)
	tc, err = a.Update(tc, 2, 3, 5)
	require.NoError(t, err)
	got, err := a.Query(tc, 1, 8)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got)
}

func TestBumpAllocationNeverReuses(t *testing.T) {
	a := newCountArena()

	p, _ := a.Create(8)
	q, _ := a.Create(8)
	p, err := a.Update(p, 3, 3, 1)
	require.NoError(t, err)
	q, err = a.Update(q, 3, 3, 2)
	require.NoError(t, err)

	// A point update materializes one node per level.
	require.Equal(t, Stats{Allocated: 2 * Levels(8), Live: 2 * Levels(8)}, a.Stats())

	_, err = a.Merge(p, q)
	require.NoError(t, err)
	assert.Equal(t, Stats{Allocated: 8, Live: 8}, a.Stats())
}

func TestRecyclingReusesRetiredNodes(t *testing.T) {
	a := newCountArena(WithRecycling())

	p, _ := a.Create(8)
	q, _ := a.Create(8)
	p, err := a.Update(p, 3, 3, 1)
	require.NoError(t, err)
	q, err = a.Update(q, 3, 3, 2)
	require.NoError(t, err)

	m, err := a.Merge(p, q)
	require.NoError(t, err)
	assert.Equal(t, Stats{Allocated: 8, Live: 4, Free: 4}, a.Stats())

	got, err := a.Query(m, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got)

	// The retired path is reused before the arena grows.
	r, _ := a.Create(8)
	_, err = a.Update(r, 6, 6, 1)
	require.NoError(t, err)
	assert.Equal(t, Stats{Allocated: 12, Live: 8, Free: 0}, a.Stats())
	assert.Len(t, a.nodes, 9)

	// The merged tree is unaffected by the reuse.
	got, err = a.Query(m, 1, 8)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got)
}

func TestRecyclingAfterSplit(t *testing.T) {
	a := newCountArena(WithRecycling())

	tr, _ := a.Create(8)
	tr, err := a.Update(tr, 2, 2, 1)
	require.NoError(t, err)

	// Moving the only element out empties every node above the moved
	// subtree. Each of them is retired and its record reused for the moved
	// part, so the arena does not grow.
	rest, moved, err := a.Split(tr, 1, 2)
	require.NoError(t, err)
	assert.True(t, rest.Empty())
	assert.False(t, moved.Empty())
	assert.Equal(t, Stats{Allocated: 6, Live: 4}, a.Stats())
	assert.Len(t, a.nodes, 5)

	total, err := a.Total(moved)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestLevelsAndNodeBudget(t *testing.T) {
	assert.Equal(t, 1, Levels(1))
	assert.Equal(t, 2, Levels(2))
	assert.Equal(t, 3, Levels(3))
	assert.Equal(t, 4, Levels(8))
	assert.Equal(t, 5, Levels(9))

	assert.Equal(t, 0, NodeBudget(0, 10))
	assert.Equal(t, 240, NodeBudget(8, 10))
}

func TestWithCapacityPreallocates(t *testing.T) {
	a := newSumArena(WithCapacity(NodeBudget(8, 4)))
	assert.Equal(t, NodeBudget(8, 4)+1, cap(a.nodes))
	assert.Len(t, a.nodes, 1)
}

// Package forest manages named segment trees that share one arena.
package forest

import (
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-segforest/segtree"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Forest keeps a table of named trees over one index universe [1, N] that
// share a single arena. It is the root-handle table of the engine: callers
// address trees by id and never see the value handles, so a consumed handle
// can not be reused by mistake.
//
// The implementation assumes single threaded access. It is not goroutine
// safe.
type Forest[A, T any] struct {
	log   logger.Logger
	opts  Options
	n     int
	arena *segtree.Arena[A, T]
	trees map[uuid.UUID]segtree.Tree
}

// New creates an empty forest over [1, n]. If log is nil the process wide
// logger is used, named by WithServiceName.
func New[A, T any](log logger.Logger, model segtree.Model[A, T], n int, opts ...Option) (*Forest[A, T], error) {
	if n < 1 {
		return nil, errors.Wrapf(segtree.ErrInvalidRange, "universe [1, %d]", n)
	}
	o := NewOptions(opts...)
	if log == nil {
		log = logger.Sugar.WithServiceName(o.serviceName)
	}
	return &Forest[A, T]{
		log:   log,
		opts:  o,
		n:     n,
		arena: segtree.NewArena(model, o.arenaOptions()...),
		trees: make(map[uuid.UUID]segtree.Tree),
	}, nil
}

// Size returns N.
func (f *Forest[A, T]) Size() int { return f.n }

// Len returns the number of trees.
func (f *Forest[A, T]) Len() int { return len(f.trees) }

// IDs returns the ids of all trees in a stable order.
func (f *Forest[A, T]) IDs() []uuid.UUID {
	ids := lo.Keys(f.trees)
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return slices.Compare(a[:], b[:])
	})
	return ids
}

// Has reports whether id names a tree of the forest.
func (f *Forest[A, T]) Has(id uuid.UUID) bool {
	_, ok := f.trees[id]
	return ok
}

func (f *Forest[A, T]) get(id uuid.UUID) (segtree.Tree, error) {
	t, ok := f.trees[id]
	if !ok {
		return segtree.Tree{}, errors.Wrapf(ErrUnknownTree, "%s", id)
	}
	return t, nil
}

func (f *Forest[A, T]) add(t segtree.Tree) uuid.UUID {
	id := uuid.New()
	f.trees[id] = t
	return id
}

// Create adds an empty tree and returns its id.
func (f *Forest[A, T]) Create() uuid.UUID {
	t, err := f.arena.Create(f.n)
	if err != nil {
		// n was checked by New
		panic(err)
	}
	id := f.add(t)
	f.log.Debugf("create: id=%s n=%d", id, f.n)
	return id
}

// Build adds a tree holding values at positions [1, len(values)]. Fewer
// values than N leave the remaining positions empty.
func (f *Forest[A, T]) Build(values []A) (uuid.UUID, error) {
	if len(values) > f.n {
		return uuid.Nil, errors.Wrapf(segtree.ErrInvalidRange, "%d values over [1, %d]", len(values), f.n)
	}
	id := f.Create()
	t := f.trees[id]
	var err error
	for i, v := range values {
		if t, err = f.arena.Set(t, i+1, v); err != nil {
			return uuid.Nil, err
		}
	}
	f.trees[id] = t
	return id, nil
}

// Update applies tag over [l, r] of tree id.
func (f *Forest[A, T]) Update(id uuid.UUID, l, r int, tag T) error {
	t, err := f.get(id)
	if err != nil {
		return err
	}
	if t, err = f.arena.Update(t, l, r, tag); err != nil {
		return err
	}
	f.trees[id] = t
	return nil
}

// Set replaces the aggregate at pos of tree id.
func (f *Forest[A, T]) Set(id uuid.UUID, pos int, v A) error {
	t, err := f.get(id)
	if err != nil {
		return err
	}
	if t, err = f.arena.Set(t, pos, v); err != nil {
		return err
	}
	f.trees[id] = t
	return nil
}

// Query returns the aggregate over [l, r] of tree id.
func (f *Forest[A, T]) Query(id uuid.UUID, l, r int) (A, error) {
	t, err := f.get(id)
	if err != nil {
		return f.arena.Model().Identity(), err
	}
	return f.arena.Query(t, l, r)
}

// Total returns the aggregate over the whole universe of tree id.
func (f *Forest[A, T]) Total(id uuid.UUID) (A, error) {
	t, err := f.get(id)
	if err != nil {
		return f.arena.Model().Identity(), err
	}
	return f.arena.Total(t)
}

// Kth returns the k-th element position of tree id, see segtree.Arena.Kth.
func (f *Forest[A, T]) Kth(id uuid.UUID, k int64) (int, error) {
	t, err := f.get(id)
	if err != nil {
		return 0, err
	}
	return f.arena.Kth(t, k)
}

// Merge merges src into dst. src is removed from the forest unless it is
// dst itself, in which case the tree is merged with a copy of itself.
func (f *Forest[A, T]) Merge(dst, src uuid.UUID) error {
	p, err := f.get(dst)
	if err != nil {
		return err
	}
	q, err := f.get(src)
	if err != nil {
		return err
	}
	if p, err = f.arena.Merge(p, q); err != nil {
		return err
	}
	if src != dst {
		delete(f.trees, src)
	}
	f.trees[dst] = p
	f.log.Debugf("merge: dst=%s src=%s", dst, src)
	return nil
}

// Split moves the positions [l, r] of tree id into a new tree and returns
// the new id. Tree id keeps the remaining positions.
func (f *Forest[A, T]) Split(id uuid.UUID, l, r int) (uuid.UUID, error) {
	t, err := f.get(id)
	if err != nil {
		return uuid.Nil, err
	}
	rest, moved, err := f.arena.Split(t, l, r)
	if err != nil {
		return uuid.Nil, err
	}
	f.trees[id] = rest
	movedID := f.add(moved)
	f.log.Debugf("split: id=%s [%d, %d] moved=%s", id, l, r, movedID)
	return movedID, nil
}

// Drop removes tree id. Its nodes are not reclaimed until Reset.
func (f *Forest[A, T]) Drop(id uuid.UUID) error {
	if _, err := f.get(id); err != nil {
		return err
	}
	delete(f.trees, id)
	f.log.Debugf("drop: id=%s", id)
	return nil
}

// Reset removes every tree and releases all arena nodes.
func (f *Forest[A, T]) Reset() {
	stats := f.arena.Stats()
	f.log.Infof("reset: trees=%d allocated=%d live=%d", len(f.trees), stats.Allocated, stats.Live)
	f.arena.Reset()
	clear(f.trees)
}

// Stats returns the occupancy of the shared arena.
func (f *Forest[A, T]) Stats() segtree.Stats {
	return f.arena.Stats()
}

package segtree

import "github.com/cockroachdb/errors"

// Update applies tag to every position in [l, r] and returns the updated
// tree. A point update is l == r.
func (a *Arena[A, T]) Update(t Tree, l, r int, tag T) (Tree, error) {
	if err := a.checkRange(t, l, r); err != nil {
		return t, err
	}
	t.root = a.update(t.root, 1, t.n, l, r, tag)
	return t, nil
}

func (a *Arena[A, T]) update(ref Ref, lo, hi, l, r int, tag T) Ref {
	if ref == NoRef {
		ref = a.allocate()
	}
	if l <= lo && hi <= r {
		a.applyTag(ref, tag, hi-lo+1)
		return ref
	}
	a.pushDown(ref, lo, hi)
	mid := lo + (hi-lo)/2
	if l <= mid {
		left := a.update(a.nodes[ref].left, lo, mid, l, r, tag)
		a.nodes[ref].left = left
	}
	if r > mid {
		right := a.update(a.nodes[ref].right, mid+1, hi, l, r, tag)
		a.nodes[ref].right = right
	}
	a.pull(ref)
	return ref
}

// Set replaces the aggregate stored at pos with v, discarding whatever the
// position held before.
func (a *Arena[A, T]) Set(t Tree, pos int, v A) (Tree, error) {
	if err := a.checkRange(t, pos, pos); err != nil {
		return t, err
	}
	t.root = a.set(t.root, 1, t.n, pos, v)
	return t, nil
}

func (a *Arena[A, T]) set(ref Ref, lo, hi, pos int, v A) Ref {
	if ref == NoRef {
		ref = a.allocate()
	}
	if lo == hi {
		a.nodes[ref].agg = v
		return ref
	}
	a.pushDown(ref, lo, hi)
	mid := lo + (hi-lo)/2
	if pos <= mid {
		left := a.set(a.nodes[ref].left, lo, mid, pos, v)
		a.nodes[ref].left = left
	} else {
		right := a.set(a.nodes[ref].right, mid+1, hi, pos, v)
		a.nodes[ref].right = right
	}
	a.pull(ref)
	return ref
}

// Build returns a fully materialized tree over [1, len(values)] whose
// position i holds values[i-1].
func (a *Arena[A, T]) Build(values []A) (Tree, error) {
	if len(values) == 0 {
		return Tree{}, errors.Wrap(ErrInvalidRange, "no values")
	}
	return a.handle(a.build(values, 1, len(values)), len(values)), nil
}

func (a *Arena[A, T]) build(values []A, lo, hi int) Ref {
	ref := a.allocate()
	if lo == hi {
		a.nodes[ref].agg = values[lo-1]
		return ref
	}
	mid := lo + (hi-lo)/2
	left := a.build(values, lo, mid)
	right := a.build(values, mid+1, hi)
	a.nodes[ref].left = left
	a.nodes[ref].right = right
	a.pull(ref)
	return ref
}

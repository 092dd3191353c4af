package segtree

import "github.com/cockroachdb/errors"

// Merge combines q into p and returns the combined tree. Both trees must
// cover the same universe. q is consumed: its nodes are either adopted by
// the result or retired, and the handle must not be used again.
//
// Subtrees present in only one of the trees are adopted without being
// visited, so the total work over a sequence of merges is bounded by the
// number of nodes ever created.
//
// Merging a tree with itself is equivalent to merging it with an identical
// copy.
func (a *Arena[A, T]) Merge(p, q Tree) (Tree, error) {
	if err := a.checkTree(p); err != nil {
		return p, err
	}
	if err := a.checkTree(q); err != nil {
		return p, err
	}
	if p.n != q.n {
		return p, errors.Wrapf(ErrUniverseMismatch, "[1, %d] and [1, %d]", p.n, q.n)
	}
	p.root = a.merge(p.root, q.root, 1, p.n)
	return p, nil
}

func (a *Arena[A, T]) merge(p, q Ref, lo, hi int) Ref {
	if p == NoRef {
		return q
	}
	if q == NoRef {
		return p
	}
	if lo == hi {
		a.nodes[p].agg = a.model.Combine(a.nodes[p].agg, a.nodes[q].agg)
		a.retireAbsorbed(p, q)
		return p
	}
	a.pushDown(p, lo, hi)
	a.pushDown(q, lo, hi)

	mid := lo + (hi-lo)/2
	qn := a.nodes[q]
	left := a.merge(a.nodes[p].left, qn.left, lo, mid)
	a.nodes[p].left = left
	right := a.merge(a.nodes[p].right, qn.right, mid+1, hi)
	a.nodes[p].right = right
	a.pull(p)
	a.retireAbsorbed(p, q)
	return p
}

func (a *Arena[A, T]) retireAbsorbed(p, q Ref) {
	if p != q {
		a.retire(q)
	}
}

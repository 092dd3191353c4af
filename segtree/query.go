package segtree

// pending is the composition of the tags held by the ancestors of a node
// during a read-only descent. Deeper tags are always older than the tags
// above them, so a node's own tag composes before the accumulated one.
type pending[T any] struct {
	tag T
	ok  bool
}

func (a *Arena[A, T]) below(p pending[T], ref Ref) pending[T] {
	n := &a.nodes[ref]
	if !n.tagged {
		return p
	}
	if !p.ok {
		return pending[T]{tag: n.tag, ok: true}
	}
	return pending[T]{tag: a.model.Compose(n.tag, p.tag), ok: true}
}

func (a *Arena[A, T]) effective(p pending[T], agg A, span int) A {
	if !p.ok {
		return agg
	}
	return a.model.Apply(p.tag, agg, span)
}

// Query returns the aggregate over [l, r].
//
// Query does not modify the arena: instead of pushing pending tags down it
// carries them along the descent and applies them to the partial results.
func (a *Arena[A, T]) Query(t Tree, l, r int) (A, error) {
	if err := a.checkRange(t, l, r); err != nil {
		return a.model.Identity(), err
	}
	return a.query(t.root, 1, t.n, l, r, pending[T]{}), nil
}

func (a *Arena[A, T]) query(ref Ref, lo, hi, l, r int, p pending[T]) A {
	if ref == NoRef {
		return a.effective(p, a.model.Identity(), min(hi, r)-max(lo, l)+1)
	}
	if l <= lo && hi <= r {
		return a.effective(p, a.nodes[ref].agg, hi-lo+1)
	}
	p = a.below(p, ref)
	mid := lo + (hi-lo)/2
	res := a.model.Identity()
	if l <= mid {
		res = a.model.Combine(res, a.query(a.nodes[ref].left, lo, mid, l, r, p))
	}
	if r > mid {
		res = a.model.Combine(res, a.query(a.nodes[ref].right, mid+1, hi, l, r, p))
	}
	return res
}

// Total returns the aggregate over the whole universe of t.
func (a *Arena[A, T]) Total(t Tree) (A, error) {
	if err := a.checkTree(t); err != nil {
		return a.model.Identity(), err
	}
	return a.aggOf(t.root), nil
}

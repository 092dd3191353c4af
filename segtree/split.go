package segtree

// Split detaches the positions in [l, r] from t. It returns rest, the tree
// left holding the complement, and moved, a new tree over the same universe
// holding exactly the positions in [l, r]. t is consumed.
//
// Subtrees whose span lies inside [l, r] move as a whole. Splitting the
// entire universe leaves rest empty; splitting a range that stores nothing
// returns an empty moved tree.
func (a *Arena[A, T]) Split(t Tree, l, r int) (rest Tree, moved Tree, err error) {
	if err := a.checkRange(t, l, r); err != nil {
		return t, Tree{}, err
	}
	keep, take := a.split(t.root, 1, t.n, l, r)
	rest, moved = t, t
	rest.root, moved.root = keep, take
	return rest, moved, nil
}

func (a *Arena[A, T]) split(ref Ref, lo, hi, l, r int) (keep Ref, take Ref) {
	if ref == NoRef {
		return NoRef, NoRef
	}
	if l <= lo && hi <= r {
		return NoRef, ref
	}
	if r < lo || hi < l {
		return ref, NoRef
	}
	a.pushDown(ref, lo, hi)

	mid := lo + (hi-lo)/2
	var takeLeft, takeRight Ref
	if l <= mid {
		var keepLeft Ref
		keepLeft, takeLeft = a.split(a.nodes[ref].left, lo, mid, l, r)
		a.nodes[ref].left = keepLeft
	}
	if r > mid {
		var keepRight Ref
		keepRight, takeRight = a.split(a.nodes[ref].right, mid+1, hi, l, r)
		a.nodes[ref].right = keepRight
	}

	// Retire an emptied node before allocating the moved one so that with
	// recycling the record is reused in place.
	empty := a.childless(ref)
	if empty {
		a.retire(ref)
	} else {
		a.pull(ref)
	}
	if takeLeft != NoRef || takeRight != NoRef {
		take = a.allocate()
		a.nodes[take].left = takeLeft
		a.nodes[take].right = takeRight
		a.pull(take)
	}
	if empty {
		return NoRef, take
	}
	return ref, take
}

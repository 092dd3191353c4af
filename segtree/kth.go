package segtree

import "github.com/cockroachdb/errors"

// Kth returns the smallest position p such that the positions [1, p] hold
// at least k elements. The model must implement Ranker.
//
// ErrRankOutOfBounds is returned when k < 1 or k exceeds the number of
// elements in the tree.
func (a *Arena[A, T]) Kth(t Tree, k int64) (int, error) {
	if err := a.checkTree(t); err != nil {
		return 0, err
	}
	ranker, ok := a.model.(Ranker[A])
	if !ok {
		return 0, ErrNotRanked
	}
	count := ranker.Rank(a.aggOf(t.root))
	if k < 1 || k > count {
		return 0, errors.Wrapf(ErrRankOutOfBounds, "k=%d count=%d", k, count)
	}

	ref, lo, hi := t.root, 1, t.n
	var p pending[T]
	for lo < hi {
		if ref == NoRef {
			// An absent subtree under a pending tag holds the same count at
			// every position.
			per := ranker.Rank(a.effective(p, a.model.Identity(), 1))
			if per <= 0 {
				return 0, errors.Wrapf(ErrRankOutOfBounds, "k=%d in empty span [%d, %d]", k, lo, hi)
			}
			return lo + int((k-1)/per), nil
		}
		p = a.below(p, ref)
		mid := lo + (hi-lo)/2
		left := a.nodes[ref].left
		leftCount := ranker.Rank(a.effective(p, a.aggOf(left), mid-lo+1))
		if k <= leftCount {
			ref, hi = left, mid
			continue
		}
		k -= leftCount
		ref, lo = a.nodes[ref].right, mid+1
	}
	return lo, nil
}

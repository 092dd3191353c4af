package segtree

// Model defines the aggregate A maintained per node and the lazy tag T
// pending on a node.
//
// Implementations must satisfy, for any tag t and aggregates a, b over
// spans of la and lb positions:
//
//	Apply(t, Combine(a, b), la+lb) == Combine(Apply(t, a, la), Apply(t, b, lb))
//	Apply(Compose(t1, t2), a, l)   == Apply(t2, Apply(t1, a, l), l)
//
// Combine must be associative with Identity as its neutral element. The
// identity aggregate stands for a span with no stored elements (or all
// zero, for additive models).
type Model[A, T any] interface {
	Identity() A
	Combine(a, b A) A
	Apply(t T, a A, span int) A
	Compose(older, newer T) T
}

// Ranker is implemented by models whose aggregate carries an element count.
// Kth is only defined for such models.
type Ranker[A any] interface {
	Rank(a A) int64
}

package segtree

import "golang.org/x/exp/constraints"

// Number is the value domain of the numeric specializations.
type Number interface {
	constraints.Integer | constraints.Float
}

// SumAdd maintains range sums under range add. Positions never touched
// read as zero.
type SumAdd[V Number] struct{}

func (SumAdd[V]) Identity() V { return 0 }

func (SumAdd[V]) Combine(a, b V) V { return a + b }

func (SumAdd[V]) Apply(t V, a V, span int) V { return a + t*V(span) }

func (SumAdd[V]) Compose(older, newer V) V { return older + newer }

// Count maintains a multiset over positions: the aggregate of a span is the
// number of elements stored at positions in that span. Tags add the same
// number of copies at every position of a span.
//
// Kth requires every position to hold a non-negative count.
type Count struct{}

func (Count) Identity() int64 { return 0 }

func (Count) Combine(a, b int64) int64 { return a + b }

func (Count) Apply(t int64, a int64, span int) int64 { return a + t*int64(span) }

func (Count) Compose(older, newer int64) int64 { return older + newer }

func (Count) Rank(a int64) int64 { return a }

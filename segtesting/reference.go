package segtesting

import (
	"github.com/samber/lo"
)

// Reference is an eager array over [1, N] that applies every update
// immediately. Tests run the same operations against a segment tree and a
// Reference and compare the answers.
//
// Positions hold int64 values and a presence flag. Additive models ignore
// presence; the extreme models only consider present positions.
type Reference struct {
	values  []int64
	present []bool
}

func NewReference(n int) *Reference {
	return &Reference{
		values:  make([]int64, n+1),
		present: make([]bool, n+1),
	}
}

// N returns the size of the universe.
func (r *Reference) N() int { return len(r.values) - 1 }

// Clone returns an independent copy.
func (r *Reference) Clone() *Reference {
	c := NewReference(r.N())
	copy(c.values, r.values)
	copy(c.present, r.present)
	return c
}

// Add adds delta to every position in [l, hi].
func (r *Reference) Add(l, hi int, delta int64) {
	for i := l; i <= hi; i++ {
		r.values[i] += delta
	}
}

// Assign makes every position in [l, hi] present with value v.
func (r *Reference) Assign(l, hi int, v int64) {
	for i := l; i <= hi; i++ {
		r.values[i] = v
		r.present[i] = true
	}
}

// Set makes pos present with value v.
func (r *Reference) Set(pos int, v int64) {
	r.Assign(pos, pos, v)
}

// Value returns the value held at pos.
func (r *Reference) Value(pos int) int64 { return r.values[pos] }

// Sum returns the sum over [l, hi].
func (r *Reference) Sum(l, hi int) int64 {
	return lo.Sum(r.values[l : hi+1])
}

func (r *Reference) presentIn(l, hi int) []int64 {
	var out []int64
	for i := l; i <= hi; i++ {
		if r.present[i] {
			out = append(out, r.values[i])
		}
	}
	return out
}

// Min returns the minimum over the present positions in [l, hi].
func (r *Reference) Min(l, hi int) (int64, bool) {
	vals := r.presentIn(l, hi)
	return lo.Min(vals), len(vals) > 0
}

// Max returns the maximum over the present positions in [l, hi].
func (r *Reference) Max(l, hi int) (int64, bool) {
	vals := r.presentIn(l, hi)
	return lo.Max(vals), len(vals) > 0
}

// Kth treats the values as element counts and returns the smallest position
// p such that [1, p] holds at least k elements.
func (r *Reference) Kth(k int64) (int, bool) {
	if k < 1 {
		return 0, false
	}
	var seen int64
	for i := 1; i <= r.N(); i++ {
		seen += r.values[i]
		if seen >= k {
			return i, true
		}
	}
	return 0, false
}

// Merge adds the values of o pointwise and unions presence. o is left
// unchanged.
func (r *Reference) Merge(o *Reference) {
	for i := 1; i <= r.N(); i++ {
		r.values[i] += o.values[i]
		r.present[i] = r.present[i] || o.present[i]
	}
}

// Split moves the positions in [l, hi] into a new Reference, leaving zero
// and absent positions behind.
func (r *Reference) Split(l, hi int) *Reference {
	moved := NewReference(r.N())
	for i := l; i <= hi; i++ {
		moved.values[i], moved.present[i] = r.values[i], r.present[i]
		r.values[i], r.present[i] = 0, false
	}
	return moved
}

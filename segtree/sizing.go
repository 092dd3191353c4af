package segtree

import "math/bits"

// Levels returns the number of levels of a tree over [1, n].
func Levels(n int) int {
	if n <= 1 {
		return 1
	}
	return bits.Len(uint(n-1)) + 1
}

// NodeBudget returns an arena capacity that covers ops calls to Update, Set
// or Split over [1, n] without growing the arena.
//
// Each such call descends through at most two partially covered nodes per
// level. A push down on each of them allocates at most two children and
// Split allocates one more record per partially covered node for the moved
// part, so a call allocates at most 6 records per level. Build of n values
// needs 2n-1.
func NodeBudget(n, ops int) int {
	if n < 1 || ops < 0 {
		return 0
	}
	return 6 * Levels(n) * ops
}

package segtree

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// Ref is a node record index in an Arena.
type Ref uint32

// NoRef is the null handle. Slot 0 of every arena is reserved for it, so a
// zero valued node record has no children.
const NoRef Ref = 0

var (
	ErrInvalidRange      = errors.New("segtree: invalid range")
	ErrRankOutOfBounds   = errors.New("segtree: rank out of bounds")
	ErrNotRanked         = errors.New("segtree: model does not track counts")
	ErrUniverseMismatch  = errors.New("segtree: trees cover different index universes")
	ErrForeignTree       = errors.New("segtree: tree belongs to another arena")
	ErrStaleTree         = errors.New("segtree: tree handle predates arena reset")
	ErrCheckpointInvalid = errors.New("segtree: checkpoint invalid")
)

// Tree is a handle to one logical tree instance over the index universe
// [1, N]. Handles are values: mutating operations return the handle to use
// from then on, and the handles they consume must not be used again.
type Tree struct {
	root  Ref
	n     int
	arena uuid.UUID
	epoch uint32
}

// Root returns the root node reference, NoRef for an empty tree.
func (t Tree) Root() Ref { return t.root }

// Size returns N, the upper bound of the index universe.
func (t Tree) Size() int { return t.n }

// Empty reports whether the tree holds no nodes.
func (t Tree) Empty() bool { return t.root == NoRef }

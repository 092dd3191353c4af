package segtree

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

type node[A, T any] struct {
	left   Ref
	right  Ref
	agg    A
	tag    T
	tagged bool
}

// ArenaOptions configures an Arena.
type ArenaOptions struct {
	capacity  int
	recycling bool
}

type Option func(*ArenaOptions)

// WithCapacity preallocates room for nodes records. NodeBudget gives a
// suitable value for a known workload.
func WithCapacity(nodes int) Option {
	return func(o *ArenaOptions) {
		o.capacity = nodes
	}
}

// WithRecycling keeps a free list of the nodes retired by Merge and Split
// and reuses them before growing the arena. Without it the arena is a bump
// allocator and retired nodes are only reclaimed by Reset.
func WithRecycling() Option {
	return func(o *ArenaOptions) {
		o.recycling = true
	}
}

// Stats summarizes arena occupancy.
type Stats struct {
	// Allocated counts node records handed out since the last Reset,
	// including recycled ones.
	Allocated int
	// Live is the number of records currently reachable or retired but not
	// on the free list.
	Live int
	// Free is the length of the free list.
	Free int
}

// Arena owns the nodes of any number of trees sharing one Model.
//
// An Arena is not safe for concurrent use. Merge moves nodes between trees
// without any grace period, so the arena and every handle derived from it
// need external synchronization if shared between goroutines.
type Arena[A, T any] struct {
	model Model[A, T]
	opts  ArenaOptions

	id    uuid.UUID
	epoch uint32

	nodes     []node[A, T]
	free      []Ref
	allocated int
}

// NewArena creates an empty arena for model.
func NewArena[A, T any](model Model[A, T], opts ...Option) *Arena[A, T] {
	a := &Arena[A, T]{
		model: model,
		id:    uuid.New(),
	}
	for _, o := range opts {
		o(&a.opts)
	}
	a.nodes = make([]node[A, T], 1, max(a.opts.capacity, 0)+1)
	return a
}

// Model returns the aggregate model of the arena.
func (a *Arena[A, T]) Model() Model[A, T] { return a.model }

// Reset discards every tree. Handles obtained before the reset are rejected
// with ErrStaleTree afterwards.
func (a *Arena[A, T]) Reset() {
	a.nodes = a.nodes[:1]
	a.nodes[0] = node[A, T]{}
	a.free = a.free[:0]
	a.allocated = 0
	a.epoch++
}

// Stats returns the current occupancy.
func (a *Arena[A, T]) Stats() Stats {
	return Stats{
		Allocated: a.allocated,
		Live:      len(a.nodes) - 1 - len(a.free),
		Free:      len(a.free),
	}
}

// Create returns an empty tree over [1, n].
func (a *Arena[A, T]) Create(n int) (Tree, error) {
	if n < 1 {
		return Tree{}, errors.Wrapf(ErrInvalidRange, "universe [1, %d]", n)
	}
	return a.handle(NoRef, n), nil
}

func (a *Arena[A, T]) handle(root Ref, n int) Tree {
	return Tree{root: root, n: n, arena: a.id, epoch: a.epoch}
}

func (a *Arena[A, T]) checkTree(t Tree) error {
	if t.arena != a.id {
		return ErrForeignTree
	}
	if t.epoch != a.epoch {
		return ErrStaleTree
	}
	return nil
}

func (a *Arena[A, T]) checkRange(t Tree, l, r int) error {
	if err := a.checkTree(t); err != nil {
		return err
	}
	if l > r || l < 1 || r > t.n {
		return errors.Wrapf(ErrInvalidRange, "[%d, %d] in [1, %d]", l, r, t.n)
	}
	return nil
}

func (a *Arena[A, T]) allocate() Ref {
	a.allocated++
	if n := len(a.free); n > 0 {
		ref := a.free[n-1]
		a.free = a.free[:n-1]
		a.nodes[ref] = node[A, T]{agg: a.model.Identity()}
		return ref
	}
	a.nodes = append(a.nodes, node[A, T]{agg: a.model.Identity()})
	return Ref(len(a.nodes) - 1)
}

// retire drops a node that is no longer owned by any tree.
func (a *Arena[A, T]) retire(ref Ref) {
	if !a.opts.recycling || ref == NoRef {
		return
	}
	a.free = append(a.free, ref)
}

func (a *Arena[A, T]) aggOf(ref Ref) A {
	if ref == NoRef {
		return a.model.Identity()
	}
	return a.nodes[ref].agg
}

// applyTag makes ref reflect tag t over a span of span positions. Leaves
// never keep a tag.
func (a *Arena[A, T]) applyTag(ref Ref, t T, span int) {
	n := &a.nodes[ref]
	n.agg = a.model.Apply(t, n.agg, span)
	if span == 1 {
		return
	}
	if n.tagged {
		n.tag = a.model.Compose(n.tag, t)
		return
	}
	n.tag = t
	n.tagged = true
}

// pushDown hands the pending tag of ref over to its children, allocating
// the absent ones. The aggregate of ref is unchanged.
func (a *Arena[A, T]) pushDown(ref Ref, lo, hi int) {
	if !a.nodes[ref].tagged {
		return
	}
	mid := lo + (hi-lo)/2
	if a.nodes[ref].left == NoRef {
		left := a.allocate()
		a.nodes[ref].left = left
	}
	if a.nodes[ref].right == NoRef {
		right := a.allocate()
		a.nodes[ref].right = right
	}
	n := a.nodes[ref]
	a.applyTag(n.left, n.tag, mid-lo+1)
	a.applyTag(n.right, n.tag, hi-mid)

	var zero T
	a.nodes[ref].tag = zero
	a.nodes[ref].tagged = false
}

// pull recomputes the aggregate of ref from its children.
func (a *Arena[A, T]) pull(ref Ref) {
	n := &a.nodes[ref]
	n.agg = a.model.Combine(a.aggOf(n.left), a.aggOf(n.right))
}

func (a *Arena[A, T]) childless(ref Ref) bool {
	n := &a.nodes[ref]
	return n.left == NoRef && n.right == NoRef && !n.tagged
}

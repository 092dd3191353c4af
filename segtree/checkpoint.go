package segtree

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/fxamacker/cbor/v2"
)

// CheckpointVersionV1 identifies the encoding produced by Checkpoint.
const CheckpointVersionV1 uint8 = 1

// The node records of a large arena exceed the default array limit of the
// decoder, so both modes are configured once for the whole Ref range.
var (
	checkpointEncMode = mustEncMode(cbor.CoreDetEncOptions())
	checkpointDecMode = mustDecMode(cbor.DecOptions{MaxArrayElements: math.MaxInt32})
)

func mustEncMode(opts cbor.EncOptions) cbor.EncMode {
	em, err := opts.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}

func mustDecMode(opts cbor.DecOptions) cbor.DecMode {
	dm, err := opts.DecMode()
	if err != nil {
		panic(err)
	}
	return dm
}

type nodeRecordV1[A, T any] struct {
	Left   Ref  `cbor:"1,keyasint,omitempty"`
	Right  Ref  `cbor:"2,keyasint,omitempty"`
	Agg    A    `cbor:"3,keyasint"`
	Tag    T    `cbor:"4,keyasint"`
	Tagged bool `cbor:"5,keyasint,omitempty"`
}

type treeRecordV1 struct {
	Root Ref `cbor:"1,keyasint"`
	N    int `cbor:"2,keyasint"`
}

type checkpointV1[A, T any] struct {
	Version   uint8                `cbor:"1,keyasint"`
	Nodes     []nodeRecordV1[A, T] `cbor:"2,keyasint"`
	Free      []Ref                `cbor:"3,keyasint,omitempty"`
	Trees     []treeRecordV1       `cbor:"4,keyasint"`
	Allocated int                  `cbor:"5,keyasint"`
}

// Checkpoint encodes the arena and the given trees so that the forest can be
// resumed with RestoreArena. A and T must be encodable as CBOR.
//
// Every node record is written, including the ones not reachable from trees.
// Passing a consumed handle together with the tree that absorbed its nodes
// is rejected with ErrCheckpointInvalid.
func (a *Arena[A, T]) Checkpoint(trees ...Tree) ([]byte, error) {
	cp := checkpointV1[A, T]{
		Version:   CheckpointVersionV1,
		Nodes:     make([]nodeRecordV1[A, T], 0, len(a.nodes)-1),
		Free:      a.free,
		Trees:     make([]treeRecordV1, 0, len(trees)),
		Allocated: a.allocated,
	}
	for _, t := range trees {
		if err := a.checkTree(t); err != nil {
			return nil, err
		}
		cp.Trees = append(cp.Trees, treeRecordV1{Root: t.root, N: t.n})
	}
	if err := a.checkOwnership(cp.Trees, a.free); err != nil {
		return nil, err
	}
	for _, n := range a.nodes[1:] {
		cp.Nodes = append(cp.Nodes, nodeRecordV1[A, T]{
			Left: n.left, Right: n.right, Agg: n.agg, Tag: n.tag, Tagged: n.tagged,
		})
	}
	return checkpointEncMode.Marshal(cp)
}

// RestoreArena decodes a checkpoint into a new arena and returns it together
// with the handles of the checkpointed trees, in the order they were given
// to Checkpoint.
//
// Every node reachable from the trees must have exactly one owner, and free
// list entries must be distinct and unreachable.
func RestoreArena[A, T any](model Model[A, T], data []byte, opts ...Option) (*Arena[A, T], []Tree, error) {
	var cp checkpointV1[A, T]
	if err := checkpointDecMode.Unmarshal(data, &cp); err != nil {
		return nil, nil, errors.WithSecondaryError(errors.Wrap(ErrCheckpointInvalid, "decoding checkpoint"), err)
	}
	if cp.Version != CheckpointVersionV1 {
		return nil, nil, errors.Wrapf(ErrCheckpointInvalid, "version %d", cp.Version)
	}

	limit := Ref(len(cp.Nodes) + 1)
	valid := func(ref Ref) bool { return ref < limit }

	a := NewArena(model, append([]Option{WithCapacity(len(cp.Nodes))}, opts...)...)
	for i, rec := range cp.Nodes {
		if !valid(rec.Left) || !valid(rec.Right) {
			return nil, nil, errors.Wrapf(ErrCheckpointInvalid, "node %d has a dangling child", i+1)
		}
		a.nodes = append(a.nodes, node[A, T]{
			left: rec.Left, right: rec.Right, agg: rec.Agg, tag: rec.Tag, tagged: rec.Tagged,
		})
	}
	for _, rec := range cp.Trees {
		if rec.N < 1 || !valid(rec.Root) {
			return nil, nil, errors.Wrapf(ErrCheckpointInvalid, "tree root %d over [1, %d]", rec.Root, rec.N)
		}
	}
	for _, ref := range cp.Free {
		if ref == NoRef || !valid(ref) {
			return nil, nil, errors.Wrapf(ErrCheckpointInvalid, "free list entry %d", ref)
		}
	}
	if err := a.checkOwnership(cp.Trees, cp.Free); err != nil {
		return nil, nil, err
	}

	if a.opts.recycling {
		a.free = append(a.free, cp.Free...)
	}
	a.allocated = cp.Allocated

	trees := make([]Tree, 0, len(cp.Trees))
	for _, rec := range cp.Trees {
		trees = append(trees, a.handle(rec.Root, rec.N))
	}
	return a, trees, nil
}

// checkOwnership walks the nodes reachable from trees and fails if a node
// has two owners, or if a free entry is reachable or listed twice. Every
// ref must already be within the arena.
func (a *Arena[A, T]) checkOwnership(trees []treeRecordV1, free []Ref) error {
	owned := make([]bool, len(a.nodes))
	var stack []Ref
	claim := func(ref Ref) error {
		if ref == NoRef {
			return nil
		}
		if owned[ref] {
			return errors.Wrapf(ErrCheckpointInvalid, "node %d has more than one owner", ref)
		}
		owned[ref] = true
		stack = append(stack, ref)
		return nil
	}

	for _, rec := range trees {
		if err := claim(rec.Root); err != nil {
			return err
		}
		for len(stack) > 0 {
			ref := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if err := claim(a.nodes[ref].left); err != nil {
				return err
			}
			if err := claim(a.nodes[ref].right); err != nil {
				return err
			}
		}
	}

	freed := make([]bool, len(a.nodes))
	for _, ref := range free {
		if owned[ref] {
			return errors.Wrapf(ErrCheckpointInvalid, "free list entry %d is in use", ref)
		}
		if freed[ref] {
			return errors.Wrapf(ErrCheckpointInvalid, "free list entry %d is listed twice", ref)
		}
		freed[ref] = true
	}
	return nil
}

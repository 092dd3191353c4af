package segtree

/*

# Dynamic segment trees with structural merge and split

This package provides an arena backed, lazily propagated segment tree over
integer positions `[1, N]`. Many independent trees can live in one Arena.
Each is addressed by a Tree handle, a small value holding the root Ref.

Supported operations:

- Update: apply a tag (add, assign, ...) to a position or a range
- Query: combine the aggregates of a range
- Kth: order statistic selection, for count tracking models
- Merge: union two trees over the same universe into one
- Split: move the positions of a range out of a tree into a new one

## Arena and references

Nodes are records in a growable slice and are addressed by Ref. Slot 0 is
reserved and NoRef (0) means "absent", so the zero value of a record has no
children. Nodes are created on first touch and are never freed one by one:
Reset discards a whole forest at once. WithRecycling adds a free list for the
nodes retired by Merge and Split.

Handing a child from one tree to another is an index assignment. A Ref is
owned by exactly one parent (or one Tree) at any time.

## Aggregates and lazy tags

A Model defines the aggregate of a span, how two are combined, how a tag
affects an aggregate and how two tags compose. A node's aggregate always
already includes its own pending tag; the tag is owed to the children only.
Pushing a tag down allocates the children it needs and leaves the node's
aggregate unchanged.

An absent node is a span with the identity aggregate. For the additive
models that is a span of zeros, for the extreme models a span holding no
element.

## Merge and split cost

Merge returns as soon as one side is absent, so it only visits the nodes the
two trees have in common. Every such visit retires one node of the absorbed
tree, which bounds the work of any sequence of merges by the number of nodes
ever allocated. Split moves every subtree fully inside the range in O(1) and
descends only along the two range borders, so it touches O(log N) nodes.

## Errors

Operations validate their arguments before touching the arena. An operation
either completes with every invariant intact or returns an error and leaves
the trees as they were. Ranges are never clamped.

*/

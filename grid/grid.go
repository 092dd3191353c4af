// Package grid implements a two dimensional dynamic segment tree: an outer
// tree over rows whose every node owns an inner segtree over columns.
package grid

import (
	"github.com/cockroachdb/errors"
	"github.com/forestrie/go-segforest/segtree"
)

// Option configures a Grid.
type Option func(*Options)

// Options holds the settings applied by Option values.
type Options struct {
	capacity int
}

// WithCapacity preallocates room for nodes inner node records.
func WithCapacity(nodes int) Option {
	return func(o *Options) {
		o.capacity = nodes
	}
}

type rowNode struct {
	left, right int32
	cols        segtree.Tree
}

// Grid holds values at cells (x, y) of [1, rows] x [1, cols] and answers
// rectangle sums. Cells never written read as zero and cost no memory.
//
// Add and Sum are O(log(rows) log(cols)).
type Grid[V segtree.Number] struct {
	rows, cols int
	// nodes[0] is the null row node
	nodes []rowNode
	inner *segtree.Arena[V, V]
	root  int32
}

// New returns an empty grid of rows x cols cells.
func New[V segtree.Number](rows, cols int, opts ...Option) (*Grid[V], error) {
	if rows < 1 || cols < 1 {
		return nil, errors.Wrapf(segtree.ErrInvalidRange, "grid %d x %d", rows, cols)
	}
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	var arenaOpts []segtree.Option
	if o.capacity > 0 {
		arenaOpts = append(arenaOpts, segtree.WithCapacity(o.capacity))
	}
	return &Grid[V]{
		rows:  rows,
		cols:  cols,
		nodes: make([]rowNode, 1),
		inner: segtree.NewArena[V, V](segtree.SumAdd[V]{}, arenaOpts...),
	}, nil
}

// Rows returns the number of rows.
func (g *Grid[V]) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid[V]) Cols() int { return g.cols }

func (g *Grid[V]) checkCell(x, y int) error {
	if x < 1 || x > g.rows || y < 1 || y > g.cols {
		return errors.Wrapf(segtree.ErrInvalidRange, "cell (%d, %d) outside %d x %d", x, y, g.rows, g.cols)
	}
	return nil
}

func (g *Grid[V]) newRowNode() (int32, error) {
	cols, err := g.inner.Create(g.cols)
	if err != nil {
		return 0, err
	}
	g.nodes = append(g.nodes, rowNode{cols: cols})
	return int32(len(g.nodes) - 1), nil
}

// Add adds delta to cell (x, y).
func (g *Grid[V]) Add(x, y int, delta V) error {
	if err := g.checkCell(x, y); err != nil {
		return err
	}
	var err error
	g.root, err = g.add(g.root, 1, g.rows, x, y, delta)
	return err
}

func (g *Grid[V]) add(ref int32, lo, hi, x, y int, delta V) (int32, error) {
	var err error
	if ref == 0 {
		if ref, err = g.newRowNode(); err != nil {
			return 0, err
		}
	}
	cols, err := g.inner.Update(g.nodes[ref].cols, y, y, delta)
	if err != nil {
		return 0, err
	}
	g.nodes[ref].cols = cols
	if lo == hi {
		return ref, nil
	}

	mid := lo + (hi-lo)/2
	if x <= mid {
		left, err := g.add(g.nodes[ref].left, lo, mid, x, y, delta)
		if err != nil {
			return 0, err
		}
		g.nodes[ref].left = left
	} else {
		right, err := g.add(g.nodes[ref].right, mid+1, hi, x, y, delta)
		if err != nil {
			return 0, err
		}
		g.nodes[ref].right = right
	}
	return ref, nil
}

// Sum returns the sum over the rectangle [x1, x2] x [y1, y2].
func (g *Grid[V]) Sum(x1, x2, y1, y2 int) (V, error) {
	if x1 > x2 || y1 > y2 {
		return 0, errors.Wrapf(segtree.ErrInvalidRange, "rectangle [%d, %d] x [%d, %d]", x1, x2, y1, y2)
	}
	if err := g.checkCell(x1, y1); err != nil {
		return 0, err
	}
	if err := g.checkCell(x2, y2); err != nil {
		return 0, err
	}
	return g.sum(g.root, 1, g.rows, x1, x2, y1, y2)
}

func (g *Grid[V]) sum(ref int32, lo, hi, x1, x2, y1, y2 int) (V, error) {
	if ref == 0 {
		return 0, nil
	}
	if x1 <= lo && hi <= x2 {
		return g.inner.Query(g.nodes[ref].cols, y1, y2)
	}
	mid := lo + (hi-lo)/2
	var total V
	if x1 <= mid {
		s, err := g.sum(g.nodes[ref].left, lo, mid, x1, x2, y1, y2)
		if err != nil {
			return 0, err
		}
		total += s
	}
	if x2 > mid {
		s, err := g.sum(g.nodes[ref].right, mid+1, hi, x1, x2, y1, y2)
		if err != nil {
			return 0, err
		}
		total += s
	}
	return total, nil
}

// Total returns the sum over the whole grid.
func (g *Grid[V]) Total() V {
	if g.root == 0 {
		return 0
	}
	// The inner arena is never reset, so the root's handle is always current
	// and Total can not fail.
	total, _ := g.inner.Total(g.nodes[g.root].cols)
	return total
}

// Stats returns the occupancy of the inner arena.
func (g *Grid[V]) Stats() segtree.Stats {
	return g.inner.Stats()
}

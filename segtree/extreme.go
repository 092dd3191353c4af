package segtree

import "golang.org/x/exp/constraints"

// Extreme is the minimum (or maximum) over the elements present in a span.
// Ok is false when the span holds no element.
type Extreme[V constraints.Ordered] struct {
	Value V    `cbor:"1,keyasint"`
	Ok    bool `cbor:"2,keyasint"`
}

// Present returns the aggregate of a single present element.
func Present[V constraints.Ordered](v V) Extreme[V] {
	return Extreme[V]{Value: v, Ok: true}
}

func pickExtreme[V constraints.Ordered](a, b Extreme[V], largest bool) Extreme[V] {
	if !a.Ok {
		return b
	}
	if !b.Ok {
		return a
	}
	if largest == (b.Value > a.Value) {
		return b
	}
	return a
}

// ExtremeAdd maintains the min or max of the present elements under range
// add. Adding to a span with no elements leaves it empty; use Set or Build
// to make elements present.
type ExtremeAdd[V Number] struct {
	largest bool
}

// NewMinAdd returns the range-min, range-add model.
func NewMinAdd[V Number]() ExtremeAdd[V] { return ExtremeAdd[V]{} }

// NewMaxAdd returns the range-max, range-add model.
func NewMaxAdd[V Number]() ExtremeAdd[V] { return ExtremeAdd[V]{largest: true} }

func (m ExtremeAdd[V]) Identity() Extreme[V] { return Extreme[V]{} }

func (m ExtremeAdd[V]) Combine(a, b Extreme[V]) Extreme[V] { return pickExtreme(a, b, m.largest) }

func (m ExtremeAdd[V]) Apply(t V, a Extreme[V], _ int) Extreme[V] {
	if a.Ok {
		a.Value += t
	}
	return a
}

func (m ExtremeAdd[V]) Compose(older, newer V) V { return older + newer }

// ExtremeAssign maintains the min or max under range assignment. Assigning
// a span makes every position in it present with the assigned value; a later
// assignment overwrites any outstanding one.
type ExtremeAssign[V constraints.Ordered] struct {
	largest bool
}

// NewMinAssign returns the range-min, range-assign model.
func NewMinAssign[V constraints.Ordered]() ExtremeAssign[V] { return ExtremeAssign[V]{} }

// NewMaxAssign returns the range-max, range-assign model.
func NewMaxAssign[V constraints.Ordered]() ExtremeAssign[V] { return ExtremeAssign[V]{largest: true} }

func (m ExtremeAssign[V]) Identity() Extreme[V] { return Extreme[V]{} }

func (m ExtremeAssign[V]) Combine(a, b Extreme[V]) Extreme[V] { return pickExtreme(a, b, m.largest) }

func (m ExtremeAssign[V]) Apply(t V, _ Extreme[V], _ int) Extreme[V] { return Present(t) }

func (m ExtremeAssign[V]) Compose(_, newer V) V { return newer }

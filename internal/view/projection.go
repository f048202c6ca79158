// Package view provides read-only, filtered and sorted projections over a
// backing collection. A projection is recomputed from the collection's current
// contents on every read, so it always reflects the latest mutations.
package view

import "slices"

// Predicate selects the elements a projection shows.
type Predicate[T any] func(T) bool

// Comparator orders two elements: negative if a sorts first, positive if b
// does, zero if they rank equally.
type Comparator[T any] func(a, b T) int

// All is the show-everything predicate.
func All[T any](T) bool { return true }

// Reverse inverts cmp.
func Reverse[T any](cmp Comparator[T]) Comparator[T] {
	return func(a, b T) int { return cmp(b, a) }
}

// Then breaks ties in cmp with next.
func Then[T any](cmp, next Comparator[T]) Comparator[T] {
	return func(a, b T) int {
		if c := cmp(a, b); c != 0 {
			return c
		}
		return next(a, b)
	}
}

// Projection is a live view over the elements returned by its source.
type Projection[T any] struct {
	source func() []T
	filter Predicate[T]
	sort   Comparator[T]
}

// New returns a projection over source showing every element in source order.
// source must return the backing collection's current contents on each call.
func New[T any](source func() []T) *Projection[T] {
	return &Projection[T]{source: source, filter: All[T]}
}

// SetFilter replaces the active predicate. A nil predicate shows everything.
func (p *Projection[T]) SetFilter(pred Predicate[T]) {
	if pred == nil {
		pred = All[T]
	}
	p.filter = pred
}

// SetSort orders the filtered elements with cmp. Sorting is stable, so
// elements that compare equal keep their backing order. A nil comparator
// restores backing order.
func (p *Projection[T]) SetSort(cmp Comparator[T]) {
	p.sort = cmp
}

// Items returns the current contents of the projection. The returned slice is
// freshly allocated; the elements themselves are shared with the source.
func (p *Projection[T]) Items() []T {
	var out []T
	for _, item := range p.source() {
		if p.filter(item) {
			out = append(out, item)
		}
	}
	if p.sort != nil {
		slices.SortStableFunc(out, p.sort)
	}
	return out
}

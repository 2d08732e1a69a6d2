// Package index implements a small generic sorted-slice index with
// binary search, used by the static engine to narrow a lookup to the byte
// range bracketed by two adjacent sparse index anchors.
package index

import (
	"slices"
	"sort"
)

// Index is a generic sorted array index over values of type V, ordered by
// a caller-supplied key function and comparator.
type Index[V any, K any] struct {
	items []V
	key   func(V) K
	cmp   func(K, K) int
}

// New creates an Index from the given slice, key function, and comparator.
// cmp(a, b) should return a negative number when a < b, a positive number
// when a > b, and zero when a and b are equivalent. items is copied and
// sorted; the original slice is left untouched.
func New[V any, K any](items []V, key func(V) K, cmp func(K, K) int) *Index[V, K] {
	sorted := make([]V, len(items))
	copy(sorted, items)
	slices.SortFunc(sorted, func(a, b V) int {
		return cmp(key(a), key(b))
	})

	return &Index[V, K]{
		items: sorted,
		key:   key,
		cmp:   cmp,
	}
}

// Len returns the number of items in the index.
func (idx *Index[V, K]) Len() int {
	return len(idx.items)
}

// At returns the item at position i.
func (idx *Index[V, K]) At(i int) V {
	return idx.items[i]
}

// Bracket returns the index of the last item whose key is <= query (or -1
// if query sorts before every item) and the index of the first item whose
// key is > query (or Len() if query sorts after or equal to every item).
// This is the sparse-index probe of spec §4.4's findEntry: it narrows a
// lookup to [lo, hi) without guaranteeing an exact match.
func (idx *Index[V, K]) Bracket(query K) (lo, hi int) {
	i, found := sort.Find(len(idx.items), func(i int) int {
		return idx.cmp(query, idx.key(idx.items[i]))
	})

	if found {
		return i, i + 1
	}
	// sort.Find returns the smallest i such that cmp(query, items[i]) <= 0,
	// i.e. the first item strictly greater than query.
	return i - 1, i
}

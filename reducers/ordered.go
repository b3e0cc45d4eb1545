package reducers

import (
	"cmp"

	"github.com/google/btree"

	"github.com/go-sif/distiter"
)

const btreeDegree = 32

func pairLess[K cmp.Ordered, V any](a, b distiter.Pair[K, V]) bool {
	return a.Key < b.Key
}

// OrderedInsert inserts items into a sorted set
type OrderedInsert[T cmp.Ordered] struct {
	fresh
	tree *btree.BTreeG[T]
}

// Push inserts item
func (r *OrderedInsert[T]) Push(item T) bool {
	if r.tree == nil {
		r.tree = btree.NewG(btreeDegree, cmp.Less[T])
	}
	r.tree.ReplaceOrInsert(item)
	return true
}

// Ret returns the distinct items inserted, in ascending order
func (r *OrderedInsert[T]) Ret() []T {
	var out []T
	if r.tree != nil {
		r.tree.Ascend(func(item T) bool {
			out = append(out, item)
			return true
		})
	}
	return out
}

type unionTree[T any] struct {
	tree *btree.BTreeG[T]
}

func (r *unionTree[T]) Push(part []T) bool {
	for _, item := range part {
		r.tree.ReplaceOrInsert(item)
	}
	return true
}

func (r *unionTree[T]) Ret() *btree.BTreeG[T] {
	return r.tree
}

// OrderedSet collects the distinct items into a B-tree, in ascending order
func OrderedSet[T cmp.Ordered]() distiter.Collector[T, []T, *btree.BTreeG[T]] {
	return distiter.NewCollector(
		func() distiter.Reducer[T, []T] { return &OrderedInsert[T]{} },
		func() distiter.Reducer[[]T, *btree.BTreeG[T]] {
			return &unionTree[T]{tree: btree.NewG(btreeDegree, cmp.Less[T])}
		},
	)
}

// OrderedInsertPair inserts key-value pairs into a sorted map. Later pairs
// overwrite earlier ones with the same key.
type OrderedInsertPair[K cmp.Ordered, V any] struct {
	fresh
	tree *btree.BTreeG[distiter.Pair[K, V]]
}

// Push inserts item
func (r *OrderedInsertPair[K, V]) Push(item distiter.Pair[K, V]) bool {
	if r.tree == nil {
		r.tree = btree.NewG(btreeDegree, pairLess[K, V])
	}
	r.tree.ReplaceOrInsert(item)
	return true
}

// Ret returns the pairs inserted, in ascending order of key
func (r *OrderedInsertPair[K, V]) Ret() []distiter.Pair[K, V] {
	var out []distiter.Pair[K, V]
	if r.tree != nil {
		r.tree.Ascend(func(item distiter.Pair[K, V]) bool {
			out = append(out, item)
			return true
		})
	}
	return out
}

// OrderedMap collects key-value pairs into a B-tree ordered by key. When
// several Tasks produce the same key, the value from whichever Task's output
// was merged last wins.
func OrderedMap[K cmp.Ordered, V any]() distiter.Collector[distiter.Pair[K, V], []distiter.Pair[K, V], *btree.BTreeG[distiter.Pair[K, V]]] {
	return distiter.NewCollector(
		func() distiter.Reducer[distiter.Pair[K, V], []distiter.Pair[K, V]] { return &OrderedInsertPair[K, V]{} },
		func() distiter.Reducer[[]distiter.Pair[K, V], *btree.BTreeG[distiter.Pair[K, V]]] {
			return &unionTree[distiter.Pair[K, V]]{tree: btree.NewG(btreeDegree, pairLess[K, V])}
		},
	)
}

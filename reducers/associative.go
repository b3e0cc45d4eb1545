package reducers

import (
	"github.com/go-sif/distiter"
)

// Insert inserts items into a set
type Insert[T comparable] struct {
	Items map[T]bool
}

// Push inserts item
func (r *Insert[T]) Push(item T) bool {
	if r.Items == nil {
		r.Items = make(map[T]bool)
	}
	r.Items[item] = true
	return true
}

// Ret returns the distinct items inserted
func (r *Insert[T]) Ret() []T {
	out := make([]T, 0, len(r.Items))
	for item := range r.Items {
		out = append(out, item)
	}
	return out
}

type unionSet[T comparable] struct {
	items map[T]struct{}
}

func (r *unionSet[T]) Push(part []T) bool {
	for _, item := range part {
		r.items[item] = struct{}{}
	}
	return true
}

func (r *unionSet[T]) Ret() map[T]struct{} {
	return r.items
}

// Set collects the distinct items
func Set[T comparable]() distiter.Collector[T, []T, map[T]struct{}] {
	return distiter.NewCollector(
		func() distiter.Reducer[T, []T] { return &Insert[T]{} },
		func() distiter.Reducer[[]T, map[T]struct{}] { return &unionSet[T]{items: make(map[T]struct{})} },
	)
}

// InsertPair inserts key-value pairs into a map. Later pairs overwrite earlier ones with the same key.
type InsertPair[K comparable, V any] struct {
	Items map[K]V
}

// Push inserts item
func (r *InsertPair[K, V]) Push(item distiter.Pair[K, V]) bool {
	if r.Items == nil {
		r.Items = make(map[K]V)
	}
	r.Items[item.Key] = item.Value
	return true
}

// Ret returns the map
func (r *InsertPair[K, V]) Ret() map[K]V {
	if r.Items == nil {
		return map[K]V{}
	}
	return r.Items
}

type unionMap[K comparable, V any] struct {
	items map[K]V
}

func (r *unionMap[K, V]) Push(part map[K]V) bool {
	for k, v := range part {
		r.items[k] = v
	}
	return true
}

func (r *unionMap[K, V]) Ret() map[K]V {
	return r.items
}

// Map collects key-value pairs into a map. When several Tasks produce the
// same key, the value from whichever Task's output was merged last wins.
func Map[K comparable, V any]() distiter.Collector[distiter.Pair[K, V], map[K]V, map[K]V] {
	return distiter.NewCollector(
		func() distiter.Reducer[distiter.Pair[K, V], map[K]V] { return &InsertPair[K, V]{} },
		func() distiter.Reducer[map[K]V, map[K]V] { return &unionMap[K, V]{items: make(map[K]V)} },
	)
}

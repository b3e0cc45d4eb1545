package reducers

import (
	"github.com/go-sif/distiter"
)

// Append appends items to a slice
type Append[T any] struct {
	Items []T
}

// Push appends item
func (r *Append[T]) Push(item T) bool {
	r.Items = append(r.Items, item)
	return true
}

// Ret returns the slice of items
func (r *Append[T]) Ret() []T {
	return r.Items
}

// Concat concatenates slices
type Concat[T any] struct {
	items []T
}

// Push appends the items of part
func (r *Concat[T]) Push(part []T) bool {
	r.items = append(r.items, part...)
	return true
}

// Ret returns the concatenation of every slice pushed
func (r *Concat[T]) Ret() []T {
	return r.items
}

// Slice collects items into a slice. Items of the same Task remain adjacent
// and in order; Tasks appear in the order in which they completed.
func Slice[T any]() distiter.Collector[T, []T, []T] {
	return distiter.NewCollector(
		func() distiter.Reducer[T, []T] { return &Append[T]{} },
		func() distiter.Reducer[[]T, []T] { return &Concat[T]{} },
	)
}

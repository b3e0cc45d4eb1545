package reducers

import (
	"cmp"
	"container/heap"
	"container/list"

	"github.com/gammazero/deque"

	"github.com/go-sif/distiter"
)

type intoReducer[P, O, O2 any] struct {
	inner   distiter.Reducer[P, O]
	convert func(O) O2
}

func (r *intoReducer[P, O, O2]) Push(part P) bool {
	return r.inner.Push(part)
}

func (r *intoReducer[P, O, O2]) Ret() O2 {
	return r.convert(r.inner.Ret())
}

// Into adapts inner to produce a different container, by converting its
// output once the level-B reduction has finished. Workers are unaffected.
func Into[T, P, O, O2 any](inner distiter.Collector[T, P, O], convert func(O) O2) distiter.Collector[T, P, O2] {
	return distiter.NewCollector(
		inner.ReducerA,
		func() distiter.Reducer[P, O2] {
			return &intoReducer[P, O, O2]{inner: inner.ReducerB(), convert: convert}
		},
	)
}

// Deque collects items into a double-ended queue, in the order of Slice
func Deque[T any]() distiter.Collector[T, []T, *deque.Deque[T]] {
	return Into(Slice[T](), func(items []T) *deque.Deque[T] {
		q := deque.New[T]()
		for _, item := range items {
			q.PushBack(item)
		}
		return q
	})
}

// List collects items into a doubly linked list, in the order of Slice
func List[T any]() distiter.Collector[T, []T, *list.List] {
	return Into(Slice[T](), func(items []T) *list.List {
		l := list.New()
		for _, item := range items {
			l.PushBack(item)
		}
		return l
	})
}

// MaxHeap is a binary max-heap, for use with container/heap
type MaxHeap[T cmp.Ordered] []T

func (h MaxHeap[T]) Len() int           { return len(h) }
func (h MaxHeap[T]) Less(i, j int) bool { return h[i] > h[j] }
func (h MaxHeap[T]) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

// Push is for use by container/heap
func (h *MaxHeap[T]) Push(x any) {
	*h = append(*h, x.(T))
}

// Pop is for use by container/heap
func (h *MaxHeap[T]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Heap collects items into a max-heap
func Heap[T cmp.Ordered]() distiter.Collector[T, []T, *MaxHeap[T]] {
	return Into(Slice[T](), func(items []T) *MaxHeap[T] {
		h := MaxHeap[T](items)
		heap.Init(&h)
		return &h
	})
}

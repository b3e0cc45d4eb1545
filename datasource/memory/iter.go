package memory

import (
	"github.com/go-sif/distiter"
)

type sliceIterator[T any] struct {
	partitions [][]T
	remaining  int
}

// Iter returns a DistributedIterator with one Task per partition, each of
// which yields the items of its partition in order
func Iter[T any](partitions ...[]T) distiter.DistributedIterator[T] {
	distiter.RegisterType(&sliceTask[T]{})
	remaining := 0
	for _, p := range partitions {
		remaining += len(p)
	}
	return &sliceIterator[T]{partitions: partitions, remaining: remaining}
}

func (s *sliceIterator[T]) SizeHint() distiter.SizeHint {
	return distiter.ExactSize(s.remaining)
}

func (s *sliceIterator[T]) NextTask() (distiter.Task[T], bool) {
	if len(s.partitions) == 0 {
		return nil, false
	}
	items := s.partitions[0]
	s.partitions = s.partitions[1:]
	s.remaining -= len(items)
	return &sliceTask[T]{Items: items}, true
}

// sliceTask carries its partition's items with it
type sliceTask[T any] struct {
	Items []T
}

func (t *sliceTask[T]) IntoAsync() distiter.AsyncTask[T] {
	return &sliceAsync[T]{items: t.Items}
}

type sliceAsync[T any] struct {
	items []T
	next  int
}

func (a *sliceAsync[T]) PollRun(rc *distiter.RunContext, sink distiter.Sink[T]) distiter.Poll {
	for a.next < len(a.items) {
		item := a.items[a.next]
		a.next++
		if !sink.Offer(item) {
			return distiter.Ready(false)
		}
	}
	return distiter.Ready(true)
}

package distiter

// StreamState describes the outcome of Stream.Next
type StreamState int

const (
	// StreamItem indicates that Next produced an item
	StreamItem StreamState = iota
	// StreamPending indicates that no item is available yet; the RunContext's Waker will fire
	StreamPending
	// StreamEnd indicates that the Stream is exhausted
	StreamEnd
)

// A Stream is a lazily evaluated, possibly suspending sequence of items, pulled
// one at a time. FlatMap expands each element into a Stream.
type Stream[T any] interface {
	Next(rc *RunContext) (T, StreamState)
}

type sliceStream[T any] struct {
	items []T
	next  int
}

// SliceStream returns a Stream over items which never suspends
func SliceStream[T any](items []T) Stream[T] {
	return &sliceStream[T]{items: items}
}

func (s *sliceStream[T]) Next(rc *RunContext) (T, StreamState) {
	if s.next >= len(s.items) {
		var zero T
		return zero, StreamEnd
	}
	item := s.items[s.next]
	s.next++
	return item, StreamItem
}

// DrainState describes how far DrainStream got
type DrainState int

const (
	// Drained indicates that the Stream was exhausted
	Drained DrainState = iota
	// DrainPending indicates that the Stream suspended
	DrainPending
	// DrainHalted indicates that the Sink requested a halt
	DrainHalted
)

// DrainStream offers items from s to sink until s suspends, ends, or the sink halts
func DrainStream[T any](rc *RunContext, s Stream[T], sink Sink[T]) DrainState {
	for {
		item, state := s.Next(rc)
		switch state {
		case StreamPending:
			return DrainPending
		case StreamEnd:
			return Drained
		}
		if !sink.Offer(item) {
			return DrainHalted
		}
	}
}

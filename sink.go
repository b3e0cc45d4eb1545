package distiter

// A Sink receives items pushed to it by a running Task. Offer returns false to
// request that the producer halts; producers honour this promptly, and never
// offer another item to a Sink for the same run once it has returned false.
type Sink[T any] interface {
	Offer(item T) bool
}

// SinkFunc adapts an ordinary function into a Sink
type SinkFunc[T any] func(item T) bool

// Offer calls f(item)
func (f SinkFunc[T]) Offer(item T) bool {
	return f(item)
}

// MappedSink wraps an existing Sink, applying a transform to each item before forwarding it.
// Element-wise combinators are built on it, so that their Tasks need no sink-specific logic.
type MappedSink[A, B any] struct {
	sink Sink[B]
	f    func(A) B
}

// NewMappedSink returns a Sink which forwards f(item) to sink
func NewMappedSink[A, B any](sink Sink[B], f func(A) B) *MappedSink[A, B] {
	return &MappedSink[A, B]{sink: sink, f: f}
}

// Offer transforms item and offers the result to the wrapped Sink
func (s *MappedSink[A, B]) Offer(item A) bool {
	return s.sink.Offer(s.f(item))
}

// filteredSink forwards only the items for which keep returns true
type filteredSink[T any] struct {
	sink Sink[T]
	keep func(T) bool
}

// NewFilteredSink returns a Sink which forwards only items satisfying keep. Dropped
// items never halt the producer.
func NewFilteredSink[T any](sink Sink[T], keep func(T) bool) Sink[T] {
	return &filteredSink[T]{sink: sink, keep: keep}
}

func (s *filteredSink[T]) Offer(item T) bool {
	if !s.keep(item) {
		return true
	}
	return s.sink.Offer(item)
}

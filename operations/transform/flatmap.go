package transform

import (
	"github.com/go-sif/distiter"
)

type flatMapIterator[A, B any] struct {
	inner distiter.DistributedIterator[A]
	fn    distiter.Func[func(A) distiter.Stream[B]]
}

func (f *flatMapIterator[A, B]) SizeHint() distiter.SizeHint {
	return distiter.UnknownSize()
}

func (f *flatMapIterator[A, B]) NextTask() (distiter.Task[B], bool) {
	task, ok := f.inner.NextTask()
	if !ok {
		return nil, false
	}
	return &flatMapTask[A, B]{Inner: task, Fn: f.fn}, true
}

type flatMapTask[A, B any] struct {
	Inner distiter.Task[A]
	Fn    distiter.Func[func(A) distiter.Stream[B]]
}

func (t *flatMapTask[A, B]) IntoAsync() distiter.AsyncTask[B] {
	return &pipeAsync[A, B]{
		inner: t.Inner.IntoAsync(),
		exp:   newExpansion[A, B](&flatMapAsync[A, B]{expand: t.Fn.MustResolve()}),
	}
}

// flatMapAsync drains the Stream an item expands into, suspending with it
type flatMapAsync[A, B any] struct {
	expand  func(A) distiter.Stream[B]
	current distiter.Stream[B]
}

func (a *flatMapAsync[A, B]) PollRun(rc *distiter.RunContext, source distiter.Option[A], sink distiter.Sink[B]) distiter.Poll {
	if source.Valid {
		a.current = a.expand(source.Value)
	}
	if a.current == nil {
		return distiter.Ready(true)
	}
	switch distiter.DrainStream(rc, a.current, sink) {
	case distiter.DrainPending:
		return distiter.Pending()
	case distiter.DrainHalted:
		a.current = nil
		return distiter.Ready(false)
	}
	a.current = nil
	return distiter.Ready(true)
}

// FlatMap expands each item of iter into a Stream of items. The Stream may
// suspend; items of iter produced in the meantime are expanded in order once it
// is exhausted. Those items are buffered without bound, so a Stream which
// suspends while iter produces many items (a large page, say) holds all of
// them in memory until it resumes.
func FlatMap[A, B any](iter distiter.DistributedIterator[A], fn distiter.Func[func(A) distiter.Stream[B]]) distiter.DistributedIterator[B] {
	distiter.RegisterType(&flatMapTask[A, B]{})
	return &flatMapIterator[A, B]{inner: iter, fn: fn}
}

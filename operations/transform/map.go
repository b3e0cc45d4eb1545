package transform

import (
	"github.com/go-sif/distiter"
)

type mapIterator[A, B any] struct {
	inner distiter.DistributedIterator[A]
	fn    distiter.Func[func(A) B]
}

func (m *mapIterator[A, B]) SizeHint() distiter.SizeHint {
	return m.inner.SizeHint()
}

func (m *mapIterator[A, B]) NextTask() (distiter.Task[B], bool) {
	task, ok := m.inner.NextTask()
	if !ok {
		return nil, false
	}
	return &mapTask[A, B]{Inner: task, Fn: m.fn}, true
}

type mapTask[A, B any] struct {
	Inner distiter.Task[A]
	Fn    distiter.Func[func(A) B]
}

func (t *mapTask[A, B]) IntoAsync() distiter.AsyncTask[B] {
	return &mapAsync[A, B]{inner: t.Inner.IntoAsync(), fn: t.Fn.MustResolve()}
}

type mapAsync[A, B any] struct {
	inner distiter.AsyncTask[A]
	fn    func(A) B
}

func (a *mapAsync[A, B]) PollRun(rc *distiter.RunContext, sink distiter.Sink[B]) distiter.Poll {
	return a.inner.PollRun(rc, distiter.NewMappedSink(sink, a.fn))
}

// Map transforms each item of iter into a new item, possibly of a different type
func Map[A, B any](iter distiter.DistributedIterator[A], fn distiter.Func[func(A) B]) distiter.DistributedIterator[B] {
	distiter.RegisterType(&mapTask[A, B]{})
	return &mapIterator[A, B]{inner: iter, fn: fn}
}

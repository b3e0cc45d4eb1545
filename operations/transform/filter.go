package transform

import (
	"github.com/go-sif/distiter"
)

type filterIterator[T any] struct {
	inner distiter.DistributedIterator[T]
	fn    distiter.Func[func(T) bool]
}

func (f *filterIterator[T]) SizeHint() distiter.SizeHint {
	hint := f.inner.SizeHint()
	hint.Lower = 0
	return hint
}

func (f *filterIterator[T]) NextTask() (distiter.Task[T], bool) {
	task, ok := f.inner.NextTask()
	if !ok {
		return nil, false
	}
	return &filterTask[T]{Inner: task, Fn: f.fn}, true
}

type filterTask[T any] struct {
	Inner distiter.Task[T]
	Fn    distiter.Func[func(T) bool]
}

func (t *filterTask[T]) IntoAsync() distiter.AsyncTask[T] {
	return &filterAsync[T]{inner: t.Inner.IntoAsync(), keep: t.Fn.MustResolve()}
}

type filterAsync[T any] struct {
	inner distiter.AsyncTask[T]
	keep  func(T) bool
}

func (a *filterAsync[T]) PollRun(rc *distiter.RunContext, sink distiter.Sink[T]) distiter.Poll {
	return a.inner.PollRun(rc, distiter.NewFilteredSink(sink, a.keep))
}

// Filter keeps only the items of iter for which fn returns true
func Filter[T any](iter distiter.DistributedIterator[T], fn distiter.Func[func(T) bool]) distiter.DistributedIterator[T] {
	distiter.RegisterType(&filterTask[T]{})
	return &filterIterator[T]{inner: iter, fn: fn}
}

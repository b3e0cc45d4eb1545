package transform

import (
	"github.com/go-sif/distiter"
)

type inspectIterator[T any] struct {
	inner distiter.DistributedIterator[T]
	fn    distiter.Func[func(T)]
}

func (i *inspectIterator[T]) SizeHint() distiter.SizeHint {
	return i.inner.SizeHint()
}

func (i *inspectIterator[T]) NextTask() (distiter.Task[T], bool) {
	task, ok := i.inner.NextTask()
	if !ok {
		return nil, false
	}
	return &inspectTask[T]{Inner: task, Fn: i.fn}, true
}

type inspectTask[T any] struct {
	Inner distiter.Task[T]
	Fn    distiter.Func[func(T)]
}

func (t *inspectTask[T]) IntoAsync() distiter.AsyncTask[T] {
	fn := t.Fn.MustResolve()
	return &mapAsync[T, T]{inner: t.Inner.IntoAsync(), fn: func(item T) T {
		fn(item)
		return item
	}}
}

// Inspect calls fn with each item of iter as it passes, for its side effects
// (logging, usually). Items are forwarded unchanged.
func Inspect[T any](iter distiter.DistributedIterator[T], fn distiter.Func[func(T)]) distiter.DistributedIterator[T] {
	distiter.RegisterType(&inspectTask[T]{})
	return &inspectIterator[T]{inner: iter, fn: fn}
}

package transform

import (
	"github.com/go-sif/distiter"
)

type updateIterator[T any] struct {
	inner distiter.DistributedIterator[T]
	fn    distiter.Func[func(*T)]
}

func (u *updateIterator[T]) SizeHint() distiter.SizeHint {
	return u.inner.SizeHint()
}

func (u *updateIterator[T]) NextTask() (distiter.Task[T], bool) {
	task, ok := u.inner.NextTask()
	if !ok {
		return nil, false
	}
	return &updateTask[T]{Inner: task, Fn: u.fn}, true
}

type updateTask[T any] struct {
	Inner distiter.Task[T]
	Fn    distiter.Func[func(*T)]
}

func (t *updateTask[T]) IntoAsync() distiter.AsyncTask[T] {
	return &updateAsync[T]{inner: t.Inner.IntoAsync(), fn: t.Fn.MustResolve()}
}

type updateAsync[T any] struct {
	inner distiter.AsyncTask[T]
	fn    func(*T)
}

func (a *updateAsync[T]) PollRun(rc *distiter.RunContext, sink distiter.Sink[T]) distiter.Poll {
	return a.inner.PollRun(rc, distiter.NewMappedSink(sink, func(item T) T {
		a.fn(&item)
		return item
	}))
}

// Update mutates each item of iter in place. It never drops, reorders or
// short-circuits items.
func Update[T any](iter distiter.DistributedIterator[T], fn distiter.Func[func(*T)]) distiter.DistributedIterator[T] {
	distiter.RegisterType(&updateTask[T]{})
	return &updateIterator[T]{inner: iter, fn: fn}
}

package transform

import (
	"github.com/go-sif/distiter"
)

type identityIterator[S any] struct{}

func (identityIterator[S]) Task() distiter.MultiTask[S, S] {
	return &identityTask[S]{}
}

type identityTask[S any] struct{}

// GobEncode serializes an identityTask, which carries no state
func (identityTask[S]) GobEncode() ([]byte, error) {
	return []byte{}, nil
}

// GobDecode deserializes an identityTask
func (*identityTask[S]) GobDecode([]byte) error {
	return nil
}

func (t *identityTask[S]) IntoAsync() distiter.AsyncMultiTask[S, S] {
	return identityAsync[S]{}
}

type identityAsync[S any] struct{}

func (identityAsync[S]) PollRun(rc *distiter.RunContext, source distiter.Option[S], sink distiter.Sink[S]) distiter.Poll {
	if !source.Valid {
		return distiter.Ready(true)
	}
	return distiter.Ready(sink.Offer(source.Value))
}

// Identity is the MultiIterator which offers each source value it is driven
// with, unchanged. The Multi combinators are stacked on top of it.
func Identity[S any]() distiter.MultiIterator[S, S] {
	distiter.RegisterType(&identityTask[S]{})
	return identityIterator[S]{}
}

// sinkMultiAsync applies a sink decorator around an inner AsyncMultiTask
type sinkMultiAsync[S, A, B any] struct {
	inner    distiter.AsyncMultiTask[S, A]
	decorate func(distiter.Sink[B]) distiter.Sink[A]
}

func (a *sinkMultiAsync[S, A, B]) PollRun(rc *distiter.RunContext, source distiter.Option[S], sink distiter.Sink[B]) distiter.Poll {
	return a.inner.PollRun(rc, source, a.decorate(sink))
}

type updateMultiIterator[S, T any] struct {
	inner distiter.MultiIterator[S, T]
	fn    distiter.Func[func(*T)]
}

func (u *updateMultiIterator[S, T]) Task() distiter.MultiTask[S, T] {
	return &updateMultiTask[S, T]{Inner: u.inner.Task(), Fn: u.fn}
}

type updateMultiTask[S, T any] struct {
	Inner distiter.MultiTask[S, T]
	Fn    distiter.Func[func(*T)]
}

func (t *updateMultiTask[S, T]) IntoAsync() distiter.AsyncMultiTask[S, T] {
	fn := t.Fn.MustResolve()
	return &sinkMultiAsync[S, T, T]{inner: t.Inner.IntoAsync(), decorate: func(sink distiter.Sink[T]) distiter.Sink[T] {
		return distiter.NewMappedSink(sink, func(item T) T {
			fn(&item)
			return item
		})
	}}
}

// UpdateMulti mutates each item of inner in place
func UpdateMulti[S, T any](inner distiter.MultiIterator[S, T], fn distiter.Func[func(*T)]) distiter.MultiIterator[S, T] {
	distiter.RegisterType(&updateMultiTask[S, T]{})
	return &updateMultiIterator[S, T]{inner: inner, fn: fn}
}

type mapMultiIterator[S, A, B any] struct {
	inner distiter.MultiIterator[S, A]
	fn    distiter.Func[func(A) B]
}

func (m *mapMultiIterator[S, A, B]) Task() distiter.MultiTask[S, B] {
	return &mapMultiTask[S, A, B]{Inner: m.inner.Task(), Fn: m.fn}
}

type mapMultiTask[S, A, B any] struct {
	Inner distiter.MultiTask[S, A]
	Fn    distiter.Func[func(A) B]
}

func (t *mapMultiTask[S, A, B]) IntoAsync() distiter.AsyncMultiTask[S, B] {
	fn := t.Fn.MustResolve()
	return &sinkMultiAsync[S, A, B]{inner: t.Inner.IntoAsync(), decorate: func(sink distiter.Sink[B]) distiter.Sink[A] {
		return distiter.NewMappedSink(sink, fn)
	}}
}

// MapMulti transforms each item of inner into a new item
func MapMulti[S, A, B any](inner distiter.MultiIterator[S, A], fn distiter.Func[func(A) B]) distiter.MultiIterator[S, B] {
	distiter.RegisterType(&mapMultiTask[S, A, B]{})
	return &mapMultiIterator[S, A, B]{inner: inner, fn: fn}
}

type filterMultiIterator[S, T any] struct {
	inner distiter.MultiIterator[S, T]
	fn    distiter.Func[func(T) bool]
}

func (f *filterMultiIterator[S, T]) Task() distiter.MultiTask[S, T] {
	return &filterMultiTask[S, T]{Inner: f.inner.Task(), Fn: f.fn}
}

type filterMultiTask[S, T any] struct {
	Inner distiter.MultiTask[S, T]
	Fn    distiter.Func[func(T) bool]
}

func (t *filterMultiTask[S, T]) IntoAsync() distiter.AsyncMultiTask[S, T] {
	keep := t.Fn.MustResolve()
	return &sinkMultiAsync[S, T, T]{inner: t.Inner.IntoAsync(), decorate: func(sink distiter.Sink[T]) distiter.Sink[T] {
		return distiter.NewFilteredSink(sink, keep)
	}}
}

// FilterMulti keeps only the items of inner for which fn returns true
func FilterMulti[S, T any](inner distiter.MultiIterator[S, T], fn distiter.Func[func(T) bool]) distiter.MultiIterator[S, T] {
	distiter.RegisterType(&filterMultiTask[S, T]{})
	return &filterMultiIterator[S, T]{inner: inner, fn: fn}
}

type flatMapMultiIterator[S, A, B any] struct {
	inner distiter.MultiIterator[S, A]
	fn    distiter.Func[func(A) distiter.Stream[B]]
}

func (f *flatMapMultiIterator[S, A, B]) Task() distiter.MultiTask[S, B] {
	return &flatMapMultiTask[S, A, B]{Inner: f.inner.Task(), Fn: f.fn}
}

type flatMapMultiTask[S, A, B any] struct {
	Inner distiter.MultiTask[S, A]
	Fn    distiter.Func[func(A) distiter.Stream[B]]
}

func (t *flatMapMultiTask[S, A, B]) IntoAsync() distiter.AsyncMultiTask[S, B] {
	return &chainAsync[S, A, B]{
		inner: t.Inner.IntoAsync(),
		exp:   newExpansion[A, B](&flatMapAsync[A, B]{expand: t.Fn.MustResolve()}),
	}
}

// chainAsync feeds each item an inner AsyncMultiTask produces through an expansion
type chainAsync[S, A, B any] struct {
	inner     distiter.AsyncMultiTask[S, A]
	innerBusy bool
	exp       *expansion[A, B]
}

func (a *chainAsync[S, A, B]) PollRun(rc *distiter.RunContext, source distiter.Option[S], sink distiter.Sink[B]) distiter.Poll {
	for {
		if p, ok := a.exp.resume(rc, sink); !ok {
			return p
		}
		if !a.innerBusy && !source.Valid {
			return distiter.Ready(true)
		}
		p := a.inner.PollRun(rc, source, a.exp.upstream(rc, sink))
		source = distiter.None[S]()
		if a.exp.halted {
			return distiter.Ready(false)
		}
		a.innerBusy = !p.IsReady()
		if a.innerBusy {
			return distiter.Pending()
		}
	}
}

// FlatMapMulti expands each item of inner into a Stream of items
func FlatMapMulti[S, A, B any](inner distiter.MultiIterator[S, A], fn distiter.Func[func(A) distiter.Stream[B]]) distiter.MultiIterator[S, B] {
	distiter.RegisterType(&flatMapMultiTask[S, A, B]{})
	return &flatMapMultiIterator[S, A, B]{inner: inner, fn: fn}
}

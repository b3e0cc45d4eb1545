package transform

import (
	"github.com/go-sif/distiter"
)

type pipeIterator[A, B any] struct {
	inner distiter.DistributedIterator[A]
	multi distiter.MultiIterator[A, B]
}

func (p *pipeIterator[A, B]) SizeHint() distiter.SizeHint {
	return distiter.UnknownSize()
}

func (p *pipeIterator[A, B]) NextTask() (distiter.Task[B], bool) {
	task, ok := p.inner.NextTask()
	if !ok {
		return nil, false
	}
	return &pipeTask[A, B]{Inner: task, Multi: p.multi.Task()}, true
}

type pipeTask[A, B any] struct {
	Inner distiter.Task[A]
	Multi distiter.MultiTask[A, B]
}

func (t *pipeTask[A, B]) IntoAsync() distiter.AsyncTask[B] {
	return &pipeAsync[A, B]{inner: t.Inner.IntoAsync(), exp: newExpansion(t.Multi.IntoAsync())}
}

type pipeAsync[A, B any] struct {
	inner     distiter.AsyncTask[A]
	innerDone bool
	exp       *expansion[A, B]
}

func (a *pipeAsync[A, B]) PollRun(rc *distiter.RunContext, sink distiter.Sink[B]) distiter.Poll {
	for {
		if p, ok := a.exp.resume(rc, sink); !ok {
			return p
		}
		if a.innerDone {
			return distiter.Ready(true)
		}
		p := a.inner.PollRun(rc, a.exp.upstream(rc, sink))
		if a.exp.halted {
			return distiter.Ready(false)
		}
		if !p.IsReady() {
			return distiter.Pending()
		}
		a.innerDone = true
	}
}

// Pipe drives multi with every item of iter. Each Task of the result runs one
// Task of iter, handing its items to a single running Task of multi. While
// that Task is suspended, items of iter are buffered without bound.
func Pipe[A, B any](iter distiter.DistributedIterator[A], multi distiter.MultiIterator[A, B]) distiter.DistributedIterator[B] {
	distiter.RegisterType(&pipeTask[A, B]{})
	return &pipeIterator[A, B]{inner: iter, multi: multi}
}

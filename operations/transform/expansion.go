package transform

import (
	"github.com/gammazero/deque"

	"github.com/go-sif/distiter"
)

// expansion feeds the items of an upstream producer, one at a time, through a
// suspendable step. An upstream producer cannot be paused mid-poll, so items
// it produces while the step is suspended are queued in order.
type expansion[A, B any] struct {
	step   distiter.AsyncMultiTask[A, B]
	busy   bool // step owns an item, and must be re-polled with None
	queue  *deque.Deque[A]
	halted bool
}

func newExpansion[A, B any](step distiter.AsyncMultiTask[A, B]) *expansion[A, B] {
	return &expansion[A, B]{step: step, queue: deque.New[A]()}
}

// advance steps the item at hand
func (e *expansion[A, B]) advance(rc *distiter.RunContext, item distiter.Option[A], sink distiter.Sink[B]) {
	p := e.step.PollRun(rc, item, sink)
	if !p.IsReady() {
		e.busy = true
		return
	}
	e.busy = false
	if !p.More() {
		e.halted = true
	}
}

// resume drives the step through any suspended or queued items. It returns
// true once the upstream producer may be polled again; otherwise the returned
// Poll should be passed on.
func (e *expansion[A, B]) resume(rc *distiter.RunContext, sink distiter.Sink[B]) (distiter.Poll, bool) {
	if e.busy {
		e.advance(rc, distiter.None[A](), sink)
	}
	for !e.busy && !e.halted && e.queue.Len() > 0 {
		e.advance(rc, distiter.Some(e.queue.PopFront()), sink)
	}
	switch {
	case e.halted:
		return distiter.Ready(false), false
	case e.busy:
		return distiter.Pending(), false
	}
	return distiter.Poll{}, true
}

// upstream returns the Sink handed to the upstream producer for one poll
func (e *expansion[A, B]) upstream(rc *distiter.RunContext, sink distiter.Sink[B]) distiter.Sink[A] {
	return distiter.SinkFunc[A](func(item A) bool {
		switch {
		case e.halted:
			return false
		case e.busy:
			e.queue.PushBack(item)
			return true
		}
		e.advance(rc, distiter.Some(item), sink)
		return !e.halted
	})
}

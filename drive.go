package distiter

import (
	"context"

	"github.com/go-sif/distiter/internal/util"
)

// Drive runs task to completion on the calling goroutine, offering its items
// to sink. Between polls it parks until the task's Waker fires, so a task which
// is waiting on I/O never holds a thread hostage. It returns whether the sink
// still wanted items when the task finished.
func Drive[T any](ctx context.Context, task AsyncTask[T], sink Sink[T]) (bool, error) {
	rc := NewRunContext(ctx)
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		p := task.PollRun(rc, sink)
		if p.IsReady() {
			return p.More(), nil
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-rc.Woken():
		}
	}
}

// haltingSink stops offering to the wrapped Reducer once it has asked to stop,
// so that a misbehaving producer can never push past a short-circuit.
type haltingSink[T, P any] struct {
	reducer Reducer[T, P]
	halted  bool
}

func (s *haltingSink[T, P]) Offer(item T) bool {
	if s.halted {
		return false
	}
	if !s.reducer.Push(item) {
		s.halted = true
	}
	return !s.halted
}

// RunTask executes a single Task against a freshly made level-A Reducer, as a
// worker does, returning the Reducer's output. Panics raised by the Task,
// including those of unresolvable Funcs, are returned as errors.
func RunTask[T, P any](ctx context.Context, task Task[T], reducer Reducer[T, P]) (partial P, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = util.RecoveredError(r)
		}
	}()
	sink := &haltingSink[T, P]{reducer: reducer}
	if _, err = Drive[T](ctx, task.IntoAsync(), sink); err != nil {
		return partial, err
	}
	return reducer.Ret(), nil
}

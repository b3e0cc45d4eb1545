package distiter

import "context"

// Poll is the outcome of a single advance step of an AsyncTask
type Poll struct {
	ready bool
	more  bool
}

// Pending indicates that the AsyncTask cannot make progress until it is woken
func Pending() Poll {
	return Poll{}
}

// Ready indicates that the AsyncTask has completed. more reports whether the
// downstream Sink still wanted further items when it finished.
func Ready(more bool) Poll {
	return Poll{ready: true, more: more}
}

// IsReady returns true iff the AsyncTask has completed
func (p Poll) IsReady() bool {
	return p.ready
}

// More returns true iff the downstream Sink still wanted items. Only meaningful when IsReady.
func (p Poll) More() bool {
	return p.more
}

// A Waker is invoked by whatever an AsyncTask is waiting on (a page fetch,
// for example) once progress is possible again. It is safe to call from any
// goroutine, and more than once.
type Waker func()

// RunContext is the cursor handed to every PollRun call of a single run.
type RunContext struct {
	ctx  context.Context
	wake chan struct{}
}

// NewRunContext creates a RunContext whose Waker signals the returned channel
func NewRunContext(ctx context.Context) *RunContext {
	return &RunContext{ctx: ctx, wake: make(chan struct{}, 1)}
}

// Context returns the context.Context governing this run
func (rc *RunContext) Context() context.Context {
	return rc.ctx
}

// Waker returns a Waker which reschedules this run
func (rc *RunContext) Waker() Waker {
	return func() {
		select {
		case rc.wake <- struct{}{}:
		default:
			// a wakeup is already queued
		}
	}
}

// Woken returns a channel which receives once the Waker has been invoked
func (rc *RunContext) Woken() <-chan struct{} {
	return rc.wake
}

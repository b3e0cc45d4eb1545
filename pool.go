package distiter

import (
	"context"
	"fmt"
)

// Work is a single unit handed to a Pool: one Task, together with the fresh
// level-A Reducer it will be folded into. Work is gob-encodable, so a Pool may
// execute it in another process.
type Work interface {
	// ID identifies this Work within its Job, for logging
	ID() string
	// Run executes the Task on the calling goroutine, returning its partial result
	Run(ctx context.Context) (any, error)
}

// A Pool executes Work on behalf of a Job. Execute may be called concurrently,
// up to Capacity times at once; it blocks until the Work has completed, and
// returns whatever the Work's Run returned (possibly having crossed a process
// boundary in between). Returning an error aborts the Job.
type Pool interface {
	Capacity() int
	Execute(ctx context.Context, w Work) (any, error)
}

// work is the concrete Work of a Job[T, P, _]
type work[T, P any] struct {
	JobID     string
	TaskIndex int
	Task      Task[T]
	Reducer   Reducer[T, P]
}

func (w *work[T, P]) ID() string {
	return fmt.Sprintf("%s/%d", w.JobID, w.TaskIndex)
}

func (w *work[T, P]) Run(ctx context.Context) (any, error) {
	partial, err := RunTask[T, P](ctx, w.Task, w.Reducer)
	if err != nil {
		return nil, err
	}
	return &outcome[P]{Value: partial}, nil
}

// outcome wraps a partial result, so that its registered type is unique to the
// Job's partial type even when P itself (a slice, say) could not be registered.
type outcome[P any] struct {
	Value P
}

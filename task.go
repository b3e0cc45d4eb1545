package distiter

// SizeHint is a best-effort bound on the number of items remaining in a
// pipeline. It is advisory only, for scheduling and progress estimation.
type SizeHint struct {
	Lower   int
	Upper   int  // meaningful only if Bounded
	Bounded bool // false if no upper bound is known
}

// ExactSize returns a SizeHint for exactly n remaining items
func ExactSize(n int) SizeHint {
	return SizeHint{Lower: n, Upper: n, Bounded: true}
}

// UnknownSize returns a SizeHint with no information
func UnknownSize() SizeHint {
	return SizeHint{}
}

// A DistributedIterator is a lazy description of a pipeline. Drawing from it
// produces Tasks, one per partition, each independently executable. Constructing
// a DistributedIterator performs no I/O.
type DistributedIterator[T any] interface {
	SizeHint() SizeHint        // SizeHint never changes what NextTask yields
	NextTask() (Task[T], bool) // NextTask returns false once the source is exhausted
}

// A MultiIterator is a pipeline driven by externally supplied source values,
// rather than by a stream of its own. It builds its Task directly.
type MultiIterator[S, T any] interface {
	Task() MultiTask[S, T]
}

// A Task is a snapshot of everything needed to process exactly one partition.
// Tasks hold no references to the pipeline which produced them and must be
// gob-encodable (see RegisterType), so that they may be shipped to a worker.
type Task[T any] interface {
	IntoAsync() AsyncTask[T]
}

// An AsyncTask is a Task which has been converted into a suspendable computation.
// PollRun advances it by one step, offering any items produced to sink. It
// returns Pending() if it must wait for an external event, in which case the
// Waker of rc will be called when it may be polled again, or Ready(more) once
// complete.
type AsyncTask[T any] interface {
	PollRun(rc *RunContext, sink Sink[T]) Poll
}

// A MultiTask is the Task form of a MultiIterator
type MultiTask[S, T any] interface {
	IntoAsync() AsyncMultiTask[S, T]
}

// An AsyncMultiTask is driven once per source value. If PollRun is handed a
// source and returns Pending(), it has taken ownership of that source and must be
// re-polled with None until Ready. Polling with None when idle is Ready(true).
type AsyncMultiTask[S, T any] interface {
	PollRun(rc *RunContext, source Option[S], sink Sink[T]) Poll
}

package distiter

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/go-sif/distiter/errors"
	"github.com/go-sif/distiter/logging"
	"github.com/go-sif/distiter/stats"
)

// A Job reduces every item of a DistributedIterator into a single output, by
// way of a Collector: each Task is folded by a fresh level-A Reducer inside a
// Pool, and the resulting partials are folded by one level-B Reducer on the caller.
type Job[T, P, O any] struct {
	id        string
	iter      DistributedIterator[T]
	collector Collector[T, P, O]
	stats     *stats.RunStatistics
	logger    zerolog.Logger
}

// JobOption customizes a Job
type JobOption func(*jobOptions)

type jobOptions struct {
	meter metric.Meter
}

// WithMeter reports the Job's statistics through meter
func WithMeter(meter metric.Meter) JobOption {
	return func(o *jobOptions) {
		o.meter = meter
	}
}

// NewJob describes a reduction of iter with collector. No work is done until Run.
// The Job's Work and partial result types are registered with gob, so a worker
// which constructs the same Job can decode the Work it is sent.
func NewJob[T, P, O any](iter DistributedIterator[T], collector Collector[T, P, O], opts ...JobOption) *Job[T, P, O] {
	o := &jobOptions{}
	for _, opt := range opts {
		opt(o)
	}
	RegisterType(&work[T, P]{})
	RegisterType(&outcome[P]{})
	id := uuid.Must(uuid.NewV4()).String()
	return &Job[T, P, O]{
		id:        id,
		iter:      iter,
		collector: collector,
		stats:     stats.NewRunStatistics(o.meter),
		logger:    logging.New("job").With().Str("job", id).Logger(),
	}
}

// ID returns the unique ID of this Job
func (j *Job[T, P, O]) ID() string {
	return j.id
}

// Stats returns the runtime statistics of this Job
func (j *Job[T, P, O]) Stats() *stats.RunStatistics {
	return j.stats
}

type timedPartial[P any] struct {
	value   P
	runtime time.Duration
}

// Run executes the Job on pool. Tasks are drawn lazily, only once the pool has
// capacity for them, and partial results are folded at level B in the order in
// which they complete. If the level-B Reducer stops accepting partials, the
// remaining Work is cancelled and its output is returned as-is. The first error
// returned by the pool aborts the Job.
func (j *Job[T, P, O]) Run(ctx context.Context, pool Pool) (O, error) {
	var zero O
	capacity := pool.Capacity()
	if capacity < 1 {
		capacity = 1
	}
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	j.stats.Start()
	defer j.stats.Finish()

	sem := semaphore.NewWeighted(int64(capacity))
	g, gctx := errgroup.WithContext(runCtx)
	partials := make(chan timedPartial[P])
	g.Go(func() error {
		for idx := 0; ; idx++ {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			task, ok := j.iter.NextTask()
			if !ok {
				sem.Release(1)
				return nil
			}
			w := &work[T, P]{JobID: j.id, TaskIndex: idx, Task: task, Reducer: j.collector.ReducerA()}
			j.stats.TaskDrawn(gctx)
			j.logger.Debug().Str("work", w.ID()).Msg("dispatching task")
			g.Go(func() error {
				defer sem.Release(1)
				return j.execute(gctx, pool, w, partials)
			})
		}
	})
	errc := make(chan error, 1)
	go func() {
		errc <- g.Wait()
		close(partials)
	}()

	reducer := j.collector.ReducerB()
	halted := false
	for p := range partials {
		if halted {
			continue
		}
		j.stats.TaskCompleted(runCtx, p.runtime)
		if !reducer.Push(p.value) {
			halted = true
			j.stats.Halted()
			j.logger.Debug().Msg("collector satisfied, cancelling remaining tasks")
			cancel()
		}
	}
	err := <-errc
	if halted {
		return reducer.Ret(), nil
	}
	if err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		j.logger.Error().Err(err).Msg("job failed")
		return zero, err
	}
	j.logger.Debug().
		Time("started", j.stats.GetStartTime()).
		Int64("tasks", j.stats.GetNumTasksCompleted()).
		Dur("runtime", j.stats.GetRuntime()).
		Dur("recent_task_time", j.stats.GetCurrentTaskProcessingTime()).
		Msg("job complete")
	return reducer.Ret(), nil
}

func (j *Job[T, P, O]) execute(ctx context.Context, pool Pool, w *work[T, P], partials chan<- timedPartial[P]) error {
	start := time.Now()
	res, err := pool.Execute(ctx, w)
	if err != nil {
		// work abandoned after the Job halted or aborted has not failed
		if ctx.Err() == nil {
			j.stats.TaskFailed(ctx)
		}
		return fmt.Errorf("task %s: %w", w.ID(), err)
	}
	out, ok := res.(*outcome[P])
	if !ok {
		return &errors.ConsistencyError{Message: fmt.Sprintf("task %s returned %T rather than a partial result of type %T", w.ID(), res, out)}
	}
	select {
	case partials <- timedPartial[P]{value: out.Value, runtime: time.Since(start)}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Collect runs a Job reducing iter with collector on pool
func Collect[T, P, O any](ctx context.Context, iter DistributedIterator[T], collector Collector[T, P, O], pool Pool, opts ...JobOption) (O, error) {
	return NewJob(iter, collector, opts...).Run(ctx, pool)
}

// Package stats tracks runtime statistics of a running Job, and reports them
// through OpenTelemetry metric instruments.
package stats

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const statisticRollingWindows = 5

// RunStatistics contains statistics about a running Job. It is safe for concurrent use.
type RunStatistics struct {
	lock                   sync.Mutex
	started                bool
	finished               bool
	startTime              time.Time
	totalRuntime           time.Duration
	tasksDrawn             int64
	tasksCompleted         int64
	tasksFailed            int64
	halted                 bool
	recentTaskRuntimes     []time.Duration // for rolling average of recent task processing times
	recentTaskRuntimesHead int

	drawnCounter     metric.Int64Counter
	completedCounter metric.Int64Counter
	failedCounter    metric.Int64Counter
	taskLatency      metric.Float64Histogram
}

// NewRunStatistics creates RunStatistics reporting to meter. A nil meter reports nowhere.
func NewRunStatistics(meter metric.Meter) *RunStatistics {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter("github.com/go-sif/distiter")
	}
	rs := &RunStatistics{recentTaskRuntimes: make([]time.Duration, statisticRollingWindows)}
	// instrument creation only fails for invalid names, so fall back to noop instruments
	var err error
	noopMeter := noop.NewMeterProvider().Meter("")
	if rs.drawnCounter, err = meter.Int64Counter("distiter.tasks.drawn", metric.WithDescription("number of tasks drawn from the pipeline")); err != nil {
		rs.drawnCounter, _ = noopMeter.Int64Counter("")
	}
	if rs.completedCounter, err = meter.Int64Counter("distiter.tasks.completed", metric.WithDescription("number of partial results merged")); err != nil {
		rs.completedCounter, _ = noopMeter.Int64Counter("")
	}
	if rs.failedCounter, err = meter.Int64Counter("distiter.tasks.failed", metric.WithDescription("number of tasks which returned an error")); err != nil {
		rs.failedCounter, _ = noopMeter.Int64Counter("")
	}
	if rs.taskLatency, err = meter.Float64Histogram("distiter.task.duration", metric.WithUnit("s"), metric.WithDescription("time taken to run a task and return its partial result")); err != nil {
		rs.taskLatency, _ = noopMeter.Float64Histogram("")
	}
	return rs
}

// Start triggers statistics tracking, if it hasn't been started already
func (rs *RunStatistics) Start() {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	if !rs.started {
		rs.started = true
		rs.startTime = time.Now()
	}
}

// Finish completes statistics tracking
func (rs *RunStatistics) Finish() {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	rs.finished = true
	rs.totalRuntime = time.Since(rs.startTime)
}

// TaskDrawn tracks a Task being drawn and dispatched
func (rs *RunStatistics) TaskDrawn(ctx context.Context) {
	rs.lock.Lock()
	rs.tasksDrawn++
	rs.lock.Unlock()
	rs.drawnCounter.Add(ctx, 1)
}

// TaskCompleted tracks the partial result of a Task being merged
func (rs *RunStatistics) TaskCompleted(ctx context.Context, runtime time.Duration) {
	rs.lock.Lock()
	rs.tasksCompleted++
	rs.recentTaskRuntimes[rs.recentTaskRuntimesHead] = runtime
	rs.recentTaskRuntimesHead = (rs.recentTaskRuntimesHead + 1) % len(rs.recentTaskRuntimes)
	rs.lock.Unlock()
	rs.completedCounter.Add(ctx, 1)
	rs.taskLatency.Record(ctx, runtime.Seconds())
}

// TaskFailed tracks a Task which returned an error
func (rs *RunStatistics) TaskFailed(ctx context.Context) {
	rs.lock.Lock()
	rs.tasksFailed++
	rs.lock.Unlock()
	rs.failedCounter.Add(ctx, 1)
}

// Halted records that the level-B reducer stopped accepting partial results early
func (rs *RunStatistics) Halted() {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	rs.halted = true
}

// GetStartTime returns the start time of the Job
func (rs *RunStatistics) GetStartTime() time.Time {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return rs.startTime
}

// GetRuntime returns the running time of the Job
func (rs *RunStatistics) GetRuntime() time.Duration {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	if rs.finished {
		return rs.totalRuntime
	}
	return time.Since(rs.startTime)
}

// GetNumTasksDrawn returns the number of Tasks drawn so far
func (rs *RunStatistics) GetNumTasksDrawn() int64 {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return rs.tasksDrawn
}

// GetNumTasksCompleted returns the number of partial results merged so far
func (rs *RunStatistics) GetNumTasksCompleted() int64 {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return rs.tasksCompleted
}

// GetNumTasksFailed returns the number of Tasks which failed
func (rs *RunStatistics) GetNumTasksFailed() int64 {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return rs.tasksFailed
}

// WasHalted returns true iff the Job stopped early because its level-B reducer was satisfied
func (rs *RunStatistics) WasHalted() bool {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return rs.halted
}

// GetCurrentTaskProcessingTime returns a rolling average of task processing time
func (rs *RunStatistics) GetCurrentTaskProcessingTime() time.Duration {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	var total time.Duration
	for _, d := range rs.recentTaskRuntimes {
		total += d
	}
	return total / statisticRollingWindows
}

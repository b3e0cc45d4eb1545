package distiter_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/go-sif/distiter"
)

// eagerTask ignores its Sink's requests to halt
type eagerTask struct {
	Items []int
}

func (t *eagerTask) IntoAsync() distiter.AsyncTask[int] {
	return t
}

func (t *eagerTask) PollRun(rc *distiter.RunContext, sink distiter.Sink[int]) distiter.Poll {
	more := true
	for _, item := range t.Items {
		more = sink.Offer(item) && more
	}
	return distiter.Ready(more)
}

type takeTwo struct {
	items []int
}

func (r *takeTwo) Push(item int) bool {
	r.items = append(r.items, item)
	return len(r.items) < 2
}

func (r *takeTwo) Ret() []int {
	return r.items
}

func TestRunTaskNeverPushesPastHalt(t *testing.T) {
	out, err := distiter.RunTask[int, []int](context.Background(), &eagerTask{Items: []int{1, 2, 3, 4}}, &takeTwo{})
	require.Nil(t, err)
	require.Equal(t, []int{1, 2}, out)
}

// sleepyTask waits once on a timer before offering its item
type sleepyTask struct {
	fired chan struct{}
	delay time.Duration
}

func (t *sleepyTask) PollRun(rc *distiter.RunContext, sink distiter.Sink[int]) distiter.Poll {
	if t.fired == nil {
		t.fired = make(chan struct{})
		wake := rc.Waker()
		time.AfterFunc(t.delay, func() {
			close(t.fired)
			wake()
		})
		return distiter.Pending()
	}
	select {
	case <-t.fired:
		return distiter.Ready(sink.Offer(42))
	default:
		return distiter.Pending()
	}
}

func TestDriveParksUntilWoken(t *testing.T) {
	var got []int
	more, err := distiter.Drive[int](context.Background(), &sleepyTask{delay: 10 * time.Millisecond}, distiter.SinkFunc[int](func(item int) bool {
		got = append(got, item)
		return true
	}))
	require.Nil(t, err)
	require.True(t, more)
	require.Equal(t, []int{42}, got)
}

func TestDriveStopsOnCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	task := &sleepyTask{delay: 50 * time.Millisecond}
	_, err := distiter.Drive[int](ctx, task, distiter.SinkFunc[int](func(int) bool { return true }))
	require.ErrorIs(t, err, context.DeadlineExceeded)
	<-task.fired
}

func TestWakerIsIdempotent(t *testing.T) {
	rc := distiter.NewRunContext(context.Background())
	wake := rc.Waker()
	wake()
	wake()
	<-rc.Woken()
	select {
	case <-rc.Woken():
		t.Fatal("a second wakeup was queued")
	default:
	}
}

func TestMappedAndFilteredSinks(t *testing.T) {
	var got []string
	sink := distiter.NewFilteredSink[int](distiter.NewMappedSink[int, string](distiter.SinkFunc[string](func(s string) bool {
		got = append(got, s)
		return len(got) < 2
	}), func(n int) string { return string(rune('a' + n)) }), func(n int) bool { return n%2 == 0 })
	require.True(t, sink.Offer(0))
	require.True(t, sink.Offer(1))
	require.False(t, sink.Offer(2))
	require.Equal(t, []string{"a", "c"}, got)
}

package transform

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-sif/distiter"
	"github.com/go-sif/distiter/datasource/memory"
	"github.com/go-sif/distiter/internal/wire"
)

var inspected int

func init() {
	distiter.RegisterStatic("transform_test.times10", func(n *int) { *n *= 10 })
	distiter.RegisterStatic("transform_test.itoa", func(n int) string { return strconv.Itoa(n) })
	distiter.RegisterStatic("transform_test.even", func(n int) bool { return n%2 == 0 })
	distiter.RegisterStatic("transform_test.repeat", func(n int) distiter.Stream[int] {
		items := make([]int, n)
		for i := range items {
			items[i] = n
		}
		return distiter.SliceStream(items)
	})
	distiter.RegisterStatic("transform_test.repeatLater", func(n int) distiter.Stream[int] {
		return &pendingStream{n: n}
	})
	distiter.RegisterStatic("transform_test.count", func(int) { inspected++ })
	distiter.RegisterFunc("transform_test.add", func(delta int) func(int) int {
		return func(n int) int { return n + delta }
	})
}

// pendingStream suspends once before yielding n copies of n
type pendingStream struct {
	n       int
	yielded int
	woken   bool
}

func (s *pendingStream) Next(rc *distiter.RunContext) (int, distiter.StreamState) {
	if !s.woken {
		s.woken = true
		rc.Waker()()
		return 0, distiter.StreamPending
	}
	if s.yielded >= s.n {
		return 0, distiter.StreamEnd
	}
	s.yielded++
	return s.n, distiter.StreamItem
}

// run drives every Task of iter, returning the items each one offered
func run[T any](t *testing.T, iter distiter.DistributedIterator[T]) [][]T {
	var out [][]T
	for {
		task, ok := iter.NextTask()
		if !ok {
			return out
		}
		items := []T{}
		more, err := distiter.Drive[T](context.Background(), task.IntoAsync(), distiter.SinkFunc[T](func(item T) bool {
			items = append(items, item)
			return true
		}))
		require.Nil(t, err)
		require.True(t, more)
		out = append(out, items)
	}
}

func TestUpdate(t *testing.T) {
	iter := Update(memory.Iter([]int{1, 2, 3}), distiter.Static[func(*int)]("transform_test.times10"))
	require.Equal(t, [][]int{{10, 20, 30}}, run(t, iter))
}

func TestMapAndFilter(t *testing.T) {
	iter := Map(Filter(memory.Iter([]int{1, 2, 3, 4}, []int{5, 6}), distiter.Static[func(int) bool]("transform_test.even")),
		distiter.Static[func(int) string]("transform_test.itoa"))
	require.Equal(t, [][]string{{"2", "4"}, {"6"}}, run(t, iter))
}

func TestFilterLowersSizeHint(t *testing.T) {
	iter := Filter(memory.Iter([]int{1, 2, 3}), distiter.Static[func(int) bool]("transform_test.even"))
	require.Equal(t, distiter.SizeHint{Lower: 0, Upper: 3, Bounded: true}, iter.SizeHint())
}

func TestParameterizedFunc(t *testing.T) {
	iter := Map(memory.Iter([]int{1, 2}), distiter.NewFunc[func(int) int]("transform_test.add", 100))
	require.Equal(t, [][]int{{101, 102}}, run(t, iter))
}

func TestInspect(t *testing.T) {
	inspected = 0
	iter := Inspect(memory.Iter([]int{1, 2, 3}), distiter.Static[func(int)]("transform_test.count"))
	require.Equal(t, [][]int{{1, 2, 3}}, run(t, iter))
	require.Equal(t, 3, inspected)
}

func TestFlatMap(t *testing.T) {
	iter := FlatMap(memory.Iter([]int{1, 2}, []int{0, 3}), distiter.Static[func(int) distiter.Stream[int]]("transform_test.repeat"))
	require.Equal(t, [][]int{{1, 2, 2}, {3, 3, 3}}, run(t, iter))
}

func TestFlatMapSuspends(t *testing.T) {
	iter := FlatMap(memory.Iter([]int{1, 2, 3}), distiter.Static[func(int) distiter.Stream[int]]("transform_test.repeatLater"))
	require.Equal(t, [][]int{{1, 2, 2, 3, 3, 3}}, run(t, iter))
}

func TestFlatMapBuffersWhileSuspended(t *testing.T) {
	page := make([]int, 60)
	var want []int
	for i := range page {
		page[i] = i + 1
		for j := 0; j <= i; j++ {
			want = append(want, i+1)
		}
	}
	iter := FlatMap(memory.Iter(page), distiter.Static[func(int) distiter.Stream[int]]("transform_test.repeatLater"))
	require.Equal(t, [][]int{want}, run(t, iter))
}

func TestFlatMapHalts(t *testing.T) {
	iter := FlatMap(memory.Iter([]int{2, 3}), distiter.Static[func(int) distiter.Stream[int]]("transform_test.repeatLater"))
	task, ok := iter.NextTask()
	require.True(t, ok)
	var seen []int
	offersAfterHalt := 0
	halted := false
	more, err := distiter.Drive[int](context.Background(), task.IntoAsync(), distiter.SinkFunc[int](func(item int) bool {
		if halted {
			offersAfterHalt++
			return false
		}
		seen = append(seen, item)
		halted = len(seen) == 3
		return !halted
	}))
	require.Nil(t, err)
	require.False(t, more)
	require.Equal(t, []int{2, 2, 3}, seen)
	require.Zero(t, offersAfterHalt)
}

func TestPipe(t *testing.T) {
	multi := MapMulti(
		FilterMulti(
			UpdateMulti(Identity[int](), distiter.Static[func(*int)]("transform_test.times10")),
			distiter.Static[func(int) bool]("transform_test.even"),
		),
		distiter.Static[func(int) string]("transform_test.itoa"),
	)
	iter := Pipe(memory.Iter([]int{1, 2}, []int{3}), multi)
	require.Equal(t, [][]string{{"10", "20"}, {"30"}}, run(t, iter))
}

func TestFlatMapMulti(t *testing.T) {
	multi := FlatMapMulti(Identity[int](), distiter.Static[func(int) distiter.Stream[int]]("transform_test.repeatLater"))
	iter := Pipe(memory.Iter([]int{1, 2}), multi)
	require.Equal(t, [][]int{{1, 2, 2}}, run(t, iter))
}

type taskEnvelope struct {
	Task distiter.Task[string]
}

func TestTasksCrossTheWire(t *testing.T) {
	multi := MapMulti(FlatMapMulti(Identity[int](), distiter.Static[func(int) distiter.Stream[int]]("transform_test.repeat")),
		distiter.Static[func(int) string]("transform_test.itoa"))
	iter := Pipe(Map(memory.Iter([]int{1, 2}), distiter.NewFunc[func(int) int]("transform_test.add", 1)), multi)
	task, ok := iter.NextTask()
	require.True(t, ok)

	buf, err := wire.Encode(&taskEnvelope{Task: task})
	require.Nil(t, err)
	var received taskEnvelope
	require.Nil(t, wire.Decode(buf, &received))

	var items []string
	more, err := distiter.Drive[string](context.Background(), received.Task.IntoAsync(), distiter.SinkFunc[string](func(item string) bool {
		items = append(items, item)
		return true
	}))
	require.Nil(t, err)
	require.True(t, more)
	require.Equal(t, []string{"2", "2", "3", "3", "3"}, items)
}

func TestUnregisteredFunc(t *testing.T) {
	iter := Map(memory.Iter([]int{1}), distiter.Static[func(int) int]("transform_test.missing"))
	task, ok := iter.NextTask()
	require.True(t, ok)
	_, err := distiter.RunTask[int, []int](context.Background(), task, &appendAll{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "transform_test.missing")
}

type appendAll struct {
	Items []int
}

func (r *appendAll) Push(item int) bool {
	r.Items = append(r.Items, item)
	return true
}

func (r *appendAll) Ret() []int {
	return r.Items
}

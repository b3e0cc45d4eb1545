package reducers

import (
	"container/heap"
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-sif/distiter"
	"github.com/go-sif/distiter/datasource/memory"
)

func init() {
	distiter.RegisterStatic("reducers_test.positive", func(n int) bool { return n > 0 })
	distiter.RegisterStatic("reducers_test.even", func(n int) bool { return n%2 == 0 })
}

// collect runs every Task of iter in order, merging partials in that same order
func collect[T, P, O any](t *testing.T, collector distiter.Collector[T, P, O], iter distiter.DistributedIterator[T]) O {
	b := collector.ReducerB()
	for {
		task, ok := iter.NextTask()
		if !ok {
			break
		}
		partial, err := distiter.RunTask(context.Background(), task, collector.ReducerA())
		require.Nil(t, err)
		if !b.Push(partial) {
			break
		}
	}
	return b.Ret()
}

func TestSlice(t *testing.T) {
	out := collect(t, Slice[int](), memory.Iter([]int{1, 2}, []int{3}, []int{4, 5, 6}))
	require.Equal(t, []int{1, 2, 3, 4, 5, 6}, out)
}

func TestSequenceFamilies(t *testing.T) {
	parts := [][]int{{3, 1}, {}, {2}}
	q := collect(t, Deque[int](), memory.Iter(parts...))
	require.Equal(t, 3, q.Len())
	require.Equal(t, 3, q.Front())
	require.Equal(t, 2, q.Back())

	l := collect(t, List[int](), memory.Iter(parts...))
	var fromList []int
	for e := l.Front(); e != nil; e = e.Next() {
		fromList = append(fromList, e.Value.(int))
	}
	require.Equal(t, []int{3, 1, 2}, fromList)

	h := collect(t, Heap[int](), memory.Iter(parts...))
	var fromHeap []int
	for h.Len() > 0 {
		fromHeap = append(fromHeap, heap.Pop(h).(int))
	}
	require.Equal(t, []int{3, 2, 1}, fromHeap)
}

func TestSet(t *testing.T) {
	out := collect(t, Set[string](), memory.Iter([]string{"a", "b", "a"}, []string{"b", "c"}))
	require.Equal(t, map[string]struct{}{"a": {}, "b": {}, "c": {}}, out)
}

func TestMapLastWriteWins(t *testing.T) {
	out := collect(t, Map[string, int](), memory.Iter(
		[]distiter.Pair[string, int]{distiter.KV("a", 1), distiter.KV("b", 2)},
		[]distiter.Pair[string, int]{distiter.KV("a", 3)},
	))
	require.Equal(t, map[string]int{"a": 3, "b": 2}, out)
}

func TestOrdered(t *testing.T) {
	set := collect(t, OrderedSet[int](), memory.Iter([]int{5, 1, 5}, []int{3, 1}))
	var items []int
	set.Ascend(func(item int) bool {
		items = append(items, item)
		return true
	})
	require.Equal(t, []int{1, 3, 5}, items)

	m := collect(t, OrderedMap[string, int](), memory.Iter(
		[]distiter.Pair[string, int]{distiter.KV("b", 1), distiter.KV("a", 1), distiter.KV("b", 2)},
		[]distiter.Pair[string, int]{distiter.KV("a", 9)},
	))
	var pairs []distiter.Pair[string, int]
	m.Ascend(func(p distiter.Pair[string, int]) bool {
		pairs = append(pairs, p)
		return true
	})
	require.Equal(t, []distiter.Pair[string, int]{distiter.KV("a", 9), distiter.KV("b", 2)}, pairs)
}

func TestTextual(t *testing.T) {
	require.Equal(t, "abcd", collect(t, String(), memory.Iter([]string{"a", "b"}, []string{"cd"})))
	require.Equal(t, "héllo", collect(t, Runes(), memory.Iter([]rune("hé"), []rune("llo"))))
	require.Equal(t, distiter.Unit{}, collect(t, Unit[int](), memory.Iter([]int{1})))
}

func TestOptionalShortCircuits(t *testing.T) {
	c := Optional(Slice[int]())
	out := collect(t, c, memory.Iter(
		[]distiter.Option[int]{distiter.Some(1), distiter.Some(2)},
		[]distiter.Option[int]{distiter.Some(3), distiter.None[int](), distiter.Some(4)},
	))
	require.False(t, out.Valid)

	out = collect(t, c, memory.Iter([]distiter.Option[int]{distiter.Some(1)}, []distiter.Option[int]{distiter.Some(2)}))
	require.Equal(t, distiter.Some([]int{1, 2}), out)

	r := c.ReducerA()
	require.False(t, r.Push(distiter.None[int]()))
	require.False(t, r.Push(distiter.Some(1)))
	require.False(t, r.Ret().Valid)
}

func TestResultShortCircuits(t *testing.T) {
	failure := errors.New("bad row")
	var seen []int
	a := Result(Slice[int]()).ReducerA()
	sink := distiter.SinkFunc[distiter.Result[int]](func(item distiter.Result[int]) bool {
		if item.IsOk() {
			seen = append(seen, item.Value)
		}
		return a.Push(item)
	})
	task, _ := memory.Iter([]distiter.Result[int]{distiter.Ok(1), distiter.Err[int](failure), distiter.Ok(2)}).NextTask()
	more, err := distiter.Drive[distiter.Result[int]](context.Background(), task.IntoAsync(), sink)
	require.Nil(t, err)
	require.False(t, more)
	require.Equal(t, []int{1}, seen)
	require.ErrorIs(t, a.Ret().Err, failure)
}

func TestAggregates(t *testing.T) {
	parts := [][]int{{1, 2}, {3}, {4, 5, 6}}
	require.Equal(t, int64(6), collect(t, Count[int](), memory.Iter(parts...)))
	require.Equal(t, 21, collect(t, Sum[int](), memory.Iter(parts...)))
	require.True(t, collect(t, All(distiter.Static[func(int) bool]("reducers_test.positive")), memory.Iter(parts...)))
	require.False(t, collect(t, All(distiter.Static[func(int) bool]("reducers_test.even")), memory.Iter(parts...)))
	require.True(t, collect(t, Any(distiter.Static[func(int) bool]("reducers_test.even")), memory.Iter(parts...)))
	require.False(t, collect(t, Any(distiter.Static[func(int) bool]("reducers_test.even")), memory.Iter([]int{1}, []int{3})))
}

func TestAnyStopsAtFirstMatch(t *testing.T) {
	a := Any(distiter.Static[func(int) bool]("reducers_test.even")).ReducerA()
	require.True(t, a.Push(1))
	require.False(t, a.Push(2))
	require.True(t, a.Ret())
}

func TestCombine(t *testing.T) {
	out := collect(t, Combine(Count[int](), Slice[int]()), memory.Iter([]int{2, 1}, []int{3}))
	require.Equal(t, int64(3), out.Key)
	sort.Ints(out.Value)
	require.Equal(t, []int{1, 2, 3}, out.Value)

	both := Combine(Any(distiter.Static[func(int) bool]("reducers_test.even")), Count[int]()).ReducerA()
	require.True(t, both.Push(2), "Count still wants items")
	require.True(t, both.Push(3))
	require.Equal(t, distiter.KV(true, int64(2)), both.Ret())
}

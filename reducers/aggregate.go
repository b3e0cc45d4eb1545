package reducers

import (
	"github.com/go-sif/distiter"
)

// Number is the set of types which Sum can add
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Counter counts items
type Counter[T any] struct {
	Count int64
}

// Push counts item
func (r *Counter[T]) Push(item T) bool {
	r.Count++
	return true
}

// Ret returns the count
func (r *Counter[T]) Ret() int64 {
	return r.Count
}

// Count counts the items of a pipeline
func Count[T any]() distiter.Collector[T, int64, int64] {
	return distiter.NewCollector(
		func() distiter.Reducer[T, int64] { return &Counter[T]{} },
		func() distiter.Reducer[int64, int64] { return &Adder[int64]{} },
	)
}

// Adder sums items
type Adder[T Number] struct {
	Sum T
}

// Push adds item
func (r *Adder[T]) Push(item T) bool {
	r.Sum += item
	return true
}

// Ret returns the sum
func (r *Adder[T]) Ret() T {
	return r.Sum
}

// Sum adds the items of a pipeline
func Sum[T Number]() distiter.Collector[T, T, T] {
	return distiter.NewCollector(
		func() distiter.Reducer[T, T] { return &Adder[T]{} },
		func() distiter.Reducer[T, T] { return &Adder[T]{} },
	)
}

// Predicate halts at the first item for which Fn returns Until
type Predicate[T any] struct {
	Fn      distiter.Func[func(T) bool]
	Until   bool
	Reached bool
	fn      func(T) bool
}

// Push tests item
func (r *Predicate[T]) Push(item T) bool {
	if r.Reached {
		return false
	}
	if r.fn == nil {
		r.fn = r.Fn.MustResolve()
	}
	if r.fn(item) == r.Until {
		r.Reached = true
	}
	return !r.Reached
}

// Ret returns whether any item matched Until
func (r *Predicate[T]) Ret() bool {
	return r.Reached
}

// latch halts at the first partial equal to until
type latch struct {
	until   bool
	reached bool
}

func (r *latch) Push(part bool) bool {
	if part == r.until {
		r.reached = true
	}
	return !r.reached
}

func (r *latch) Ret() bool {
	return r.reached
}

// All returns true iff fn returns true for every item, stopping at the first for which it does not
func All[T any](fn distiter.Func[func(T) bool]) distiter.Collector[T, bool, bool] {
	return Into(distiter.NewCollector(
		func() distiter.Reducer[T, bool] { return &Predicate[T]{Fn: fn, Until: false} },
		func() distiter.Reducer[bool, bool] { return &latch{until: true} },
	), func(failed bool) bool { return !failed })
}

// Any returns true iff fn returns true for some item, stopping at the first for which it does
func Any[T any](fn distiter.Func[func(T) bool]) distiter.Collector[T, bool, bool] {
	return distiter.NewCollector(
		func() distiter.Reducer[T, bool] { return &Predicate[T]{Fn: fn, Until: true} },
		func() distiter.Reducer[bool, bool] { return &latch{until: true} },
	)
}

// Visitor calls Fn with every item
type Visitor[T any] struct {
	Fn distiter.Func[func(T)]
	fn func(T)
}

// Push visits item
func (r *Visitor[T]) Push(item T) bool {
	if r.fn == nil {
		r.fn = r.Fn.MustResolve()
	}
	r.fn(item)
	return true
}

// Ret returns Unit
func (r *Visitor[T]) Ret() distiter.Unit {
	return distiter.Unit{}
}

// ForEach calls fn with every item of a pipeline, on the worker running its Task
func ForEach[T any](fn distiter.Func[func(T)]) distiter.Collector[T, distiter.Unit, distiter.Unit] {
	return distiter.NewCollector(
		func() distiter.Reducer[T, distiter.Unit] { return &Visitor[T]{Fn: fn} },
		func() distiter.Reducer[distiter.Unit, distiter.Unit] { return &Discard[distiter.Unit]{} },
	)
}

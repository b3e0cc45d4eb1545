package distiter

// A Reducer folds a stream of items into an output. Push returns whether the
// Reducer wants further items; once it has returned false, no further items
// may be offered to it. Ret consumes the Reducer, yielding its output.
//
// The same interface serves both levels of a reduction. A level-A Reducer
// folds the items of a single Task, on a worker, so it and its output must be
// gob-encodable. A level-B Reducer folds the level-A outputs of every Task of a
// Job, on the coordinator.
type Reducer[Item, Output any] interface {
	Push(item Item) bool
	Ret() Output
}

// A Collector selects the pair of Reducers used to produce a target
// container. ReducerA is a context-free factory, called once per Task;
// ReducerB is called once per Job.
type Collector[Item, Partial, Output any] interface {
	ReducerA() Reducer[Item, Partial]
	ReducerB() Reducer[Partial, Output]
}

type collector[Item, Partial, Output any] struct {
	a func() Reducer[Item, Partial]
	b func() Reducer[Partial, Output]
}

func (c *collector[Item, Partial, Output]) ReducerA() Reducer[Item, Partial] {
	r := c.a()
	RegisterType(r)
	return r
}

func (c *collector[Item, Partial, Output]) ReducerB() Reducer[Partial, Output] {
	return c.b()
}

// NewCollector builds a Collector from a pair of Reducer factories. Every
// Reducer returned by a is registered with gob.
func NewCollector[Item, Partial, Output any](a func() Reducer[Item, Partial], b func() Reducer[Partial, Output]) Collector[Item, Partial, Output] {
	RegisterType(a())
	return &collector[Item, Partial, Output]{a: a, b: b}
}

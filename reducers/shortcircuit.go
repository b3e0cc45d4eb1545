package reducers

import (
	"github.com/go-sif/distiter"
)

// OptionReducer reduces present items with an inner Reducer, until the first
// missing item, after which it accepts nothing further and its output is missing
type OptionReducer[T, P any] struct {
	Inner   distiter.Reducer[T, P]
	Missing bool
}

// Push reduces a present item, or halts on a missing one
func (r *OptionReducer[T, P]) Push(item distiter.Option[T]) bool {
	if r.Missing {
		return false
	}
	if !item.Valid {
		r.Missing = true
		return false
	}
	return r.Inner.Push(item.Value)
}

// Ret returns the inner output, or None if any item was missing
func (r *OptionReducer[T, P]) Ret() distiter.Option[P] {
	if r.Missing {
		return distiter.None[P]()
	}
	return distiter.Some(r.Inner.Ret())
}

// Optional wraps inner such that the first missing item, in any Task, makes
// the whole output missing
func Optional[T, P, O any](inner distiter.Collector[T, P, O]) distiter.Collector[distiter.Option[T], distiter.Option[P], distiter.Option[O]] {
	return distiter.NewCollector(
		func() distiter.Reducer[distiter.Option[T], distiter.Option[P]] {
			return &OptionReducer[T, P]{Inner: inner.ReducerA()}
		},
		func() distiter.Reducer[distiter.Option[P], distiter.Option[O]] {
			return &OptionReducer[P, O]{Inner: inner.ReducerB()}
		},
	)
}

// ResultReducer reduces successful items with an inner Reducer, until the
// first failure, after which it accepts nothing further and its output is that failure
type ResultReducer[T, P any] struct {
	Inner distiter.Reducer[T, P]
	Err   error
}

// Push reduces a successful item, or halts on a failure
func (r *ResultReducer[T, P]) Push(item distiter.Result[T]) bool {
	if r.Err != nil {
		return false
	}
	if item.Err != nil {
		r.Err = item.Err
		return false
	}
	return r.Inner.Push(item.Value)
}

// Ret returns the inner output, or the first failure
func (r *ResultReducer[T, P]) Ret() distiter.Result[P] {
	if r.Err != nil {
		return distiter.Err[P](r.Err)
	}
	return distiter.Ok(r.Inner.Ret())
}

// Result wraps inner such that the first failed item, in any Task, becomes
// the whole output
func Result[T, P, O any](inner distiter.Collector[T, P, O]) distiter.Collector[distiter.Result[T], distiter.Result[P], distiter.Result[O]] {
	return distiter.NewCollector(
		func() distiter.Reducer[distiter.Result[T], distiter.Result[P]] {
			return &ResultReducer[T, P]{Inner: inner.ReducerA()}
		},
		func() distiter.Reducer[distiter.Result[P], distiter.Result[O]] {
			return &ResultReducer[P, O]{Inner: inner.ReducerB()}
		},
	)
}

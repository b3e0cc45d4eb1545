package reducers

import (
	"github.com/go-sif/distiter"
)

// Both pushes every item to two Reducers, until both have halted
type Both[T, P1, P2 any] struct {
	A     distiter.Reducer[T, P1]
	B     distiter.Reducer[T, P2]
	DoneA bool
	DoneB bool
}

// Push offers item to whichever Reducers still want items
func (r *Both[T, P1, P2]) Push(item T) bool {
	if !r.DoneA {
		r.DoneA = !r.A.Push(item)
	}
	if !r.DoneB {
		r.DoneB = !r.B.Push(item)
	}
	return !r.DoneA || !r.DoneB
}

// Ret returns both outputs
func (r *Both[T, P1, P2]) Ret() distiter.Pair[P1, P2] {
	return distiter.KV(r.A.Ret(), r.B.Ret())
}

// bothPairs pushes each half of a pair of partials to its own Reducer
type bothPairs[P1, P2, O1, O2 any] struct {
	first        distiter.Reducer[P1, O1]
	second       distiter.Reducer[P2, O2]
	doneA, doneB bool
}

func (r *bothPairs[P1, P2, O1, O2]) Push(part distiter.Pair[P1, P2]) bool {
	if !r.doneA {
		r.doneA = !r.first.Push(part.Key)
	}
	if !r.doneB {
		r.doneB = !r.second.Push(part.Value)
	}
	return !r.doneA || !r.doneB
}

func (r *bothPairs[P1, P2, O1, O2]) Ret() distiter.Pair[O1, O2] {
	return distiter.KV(r.first.Ret(), r.second.Ret())
}

// Combine runs two Collectors over a single pass of a pipeline. The pipeline
// stops early only once both have stopped accepting items.
func Combine[T, P1, O1, P2, O2 any](a distiter.Collector[T, P1, O1], b distiter.Collector[T, P2, O2]) distiter.Collector[T, distiter.Pair[P1, P2], distiter.Pair[O1, O2]] {
	return distiter.NewCollector(
		func() distiter.Reducer[T, distiter.Pair[P1, P2]] {
			return &Both[T, P1, P2]{A: a.ReducerA(), B: b.ReducerA()}
		},
		func() distiter.Reducer[distiter.Pair[P1, P2], distiter.Pair[O1, O2]] {
			return &bothPairs[P1, P2, O1, O2]{first: a.ReducerB(), second: b.ReducerB()}
		},
	)
}

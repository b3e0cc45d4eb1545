package reducers

import (
	"strings"

	"github.com/go-sif/distiter"
)

// Concatenate appends strings
type Concatenate struct {
	fresh
	b strings.Builder
}

// Push appends s
func (r *Concatenate) Push(s string) bool {
	r.b.WriteString(s)
	return true
}

// Ret returns the concatenation
func (r *Concatenate) Ret() string {
	return r.b.String()
}

// AppendRune appends runes to a string
type AppendRune struct {
	fresh
	b strings.Builder
}

// Push appends c
func (r *AppendRune) Push(c rune) bool {
	r.b.WriteRune(c)
	return true
}

// Ret returns the string built
func (r *AppendRune) Ret() string {
	return r.b.String()
}

// String concatenates strings. The strings of each Task are concatenated in
// order, then Tasks are concatenated in the order in which they completed.
func String() distiter.Collector[string, string, string] {
	return distiter.NewCollector(
		func() distiter.Reducer[string, string] { return &Concatenate{} },
		func() distiter.Reducer[string, string] { return &Concatenate{} },
	)
}

// Runes builds a string from runes, ordered as String orders strings
func Runes() distiter.Collector[rune, string, string] {
	return distiter.NewCollector(
		func() distiter.Reducer[rune, string] { return &AppendRune{} },
		func() distiter.Reducer[string, string] { return &Concatenate{} },
	)
}

// Discard accepts every item and keeps none
type Discard[T any] struct {
	fresh
}

// Push discards item
func (r *Discard[T]) Push(item T) bool {
	return true
}

// Ret returns Unit
func (r *Discard[T]) Ret() distiter.Unit {
	return distiter.Unit{}
}

// Unit drives a pipeline to completion, keeping nothing
func Unit[T any]() distiter.Collector[T, distiter.Unit, distiter.Unit] {
	return distiter.NewCollector(
		func() distiter.Reducer[T, distiter.Unit] { return &Discard[T]{} },
		func() distiter.Reducer[distiter.Unit, distiter.Unit] { return &Discard[distiter.Unit]{} },
	)
}

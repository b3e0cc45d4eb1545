package distiter

import "fmt"

// Option is a value which may be missing. It is the item type of the Optional
// collector family, and carries the optional source value of AsyncMultiTask.PollRun.
type Option[T any] struct {
	Value T
	Valid bool
}

// Some wraps a present value
func Some[T any](v T) Option[T] {
	return Option[T]{Value: v, Valid: true}
}

// None returns a missing value
func None[T any]() Option[T] {
	return Option[T]{}
}

// Get returns the value and whether it is present
func (o Option[T]) Get() (T, bool) {
	return o.Value, o.Valid
}

// String returns a textual representation of this Option
func (o Option[T]) String() string {
	if !o.Valid {
		return "None"
	}
	return fmt.Sprintf("Some(%v)", o.Value)
}

// Pair is a key-value item, the item type of the associative collector families
type Pair[K, V any] struct {
	Key   K
	Value V
}

// KV builds a Pair
func KV[K, V any](k K, v V) Pair[K, V] {
	return Pair[K, V]{Key: k, Value: v}
}

// Unit is the output type of collectors which only report completion.
// Unlike struct{}, it is gob-encodable.
type Unit struct{}

// GobEncode serializes a Unit
func (Unit) GobEncode() ([]byte, error) {
	return []byte{}, nil
}

// GobDecode deserializes a Unit
func (*Unit) GobDecode([]byte) error {
	return nil
}

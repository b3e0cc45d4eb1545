package distiter

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/go-sif/distiter/errors"
)

// Result is an item which is either a value or a failure. Sources deliver
// decode failures as Results, leaving it to the caller's choice of collector
// whether the first failure halts the reduction.
type Result[T any] struct {
	Value T
	Err   error
}

// Ok wraps a successful value
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Err wraps a failure
func Err[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// IsOk returns true iff this Result holds a value
func (r Result[T]) IsOk() bool {
	return r.Err == nil
}

// Get returns the value and the error held by this Result
func (r Result[T]) Get() (T, error) {
	return r.Value, r.Err
}

// String returns a textual representation of this Result
func (r Result[T]) String() string {
	if r.Err != nil {
		return fmt.Sprintf("Err(%s)", r.Err)
	}
	return fmt.Sprintf("Ok(%v)", r.Value)
}

type resultWire[T any] struct {
	Value  T
	Err    []byte
	Failed bool
}

type errorWire struct {
	Err error
}

// GobEncode serializes a Result. Errors whose concrete type has not been
// registered with gob are replaced by an errors.RemoteError carrying the same message.
func (r Result[T]) GobEncode() ([]byte, error) {
	w := resultWire[T]{Failed: r.Err != nil}
	if r.Err != nil {
		encoded, err := encodeError(r.Err)
		if err != nil {
			return nil, err
		}
		w.Err = encoded
	} else {
		w.Value = r.Value
	}
	buf := new(bytes.Buffer)
	if err := gob.NewEncoder(buf).Encode(&w); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode deserializes a Result
func (r *Result[T]) GobDecode(buf []byte) error {
	var w resultWire[T]
	if err := gob.NewDecoder(bytes.NewReader(buf)).Decode(&w); err != nil {
		return err
	}
	r.Value = w.Value
	r.Err = nil
	if w.Failed {
		var ew errorWire
		if err := gob.NewDecoder(bytes.NewReader(w.Err)).Decode(&ew); err != nil {
			return err
		}
		r.Err = ew.Err
	}
	return nil
}

func encodeError(err error) ([]byte, error) {
	buf := new(bytes.Buffer)
	if gob.NewEncoder(buf).Encode(&errorWire{Err: err}) == nil {
		return buf.Bytes(), nil
	}
	buf.Reset()
	if err := gob.NewEncoder(buf).Encode(&errorWire{Err: &errors.RemoteError{Message: err.Error()}}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package distiter

import (
	"encoding/gob"
	"reflect"
	"sync"
)

var registeredTypes sync.Map // map[reflect.Type]struct{}, keyed on the base type

// RegisterType registers the dynamic type of value with gob, so that it may
// travel inside an interface (a Task, a Reducer, or a partial result). It is
// idempotent and cheap to call repeatedly; pipeline and collector constructors
// call it for every concrete type they create, which is what makes a worker
// that constructs the same pipeline able to decode its Tasks.
//
// gob names a type and a pointer to it identically, so whichever of T and *T
// is registered first is the one a decoder reconstructs.
func RegisterType(value any) {
	t := reflect.TypeOf(value)
	if t == nil {
		return
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if _, seen := registeredTypes.LoadOrStore(t, struct{}{}); seen {
		return
	}
	gob.Register(value)
}

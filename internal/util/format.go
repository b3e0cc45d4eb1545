package util

import (
	"fmt"
	"reflect"
	"sync"
)

var formatters sync.Map // map[reflect.Type]func(interface{}) string

// RegisterFormatter installs a formatter for values of type T, used by Describe
func RegisterFormatter[T any](f func(T) string) {
	formatters.Store(reflect.TypeOf((*T)(nil)).Elem(), func(v interface{}) string {
		return f(v.(T))
	})
}

// Describe produces a best-effort description of v for logs and error messages:
// a registered formatter if there is one, then fmt.Stringer or error, and
// otherwise only the name of its type.
func Describe(v interface{}) string {
	if v == nil {
		return "<nil>"
	}
	if f, ok := formatters.Load(reflect.TypeOf(v)); ok {
		return f.(func(interface{}) string)(v)
	}
	switch s := v.(type) {
	case fmt.Stringer:
		return s.String()
	case error:
		return s.Error()
	case string:
		return s
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%v", v)
	}
	return fmt.Sprintf("<%T>", v)
}

package util

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/go-sif/distiter/errors"
)

// GetTrace produces the string representation of a stack trace
func GetTrace() string {
	var name, file string
	var line int
	var pc [16]uintptr
	var res strings.Builder
	n := runtime.Callers(3, pc[:])
	for _, pc := range pc[:n] {
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}
		file, line = fn.FileLine(pc)
		name = fn.Name()
		if !strings.HasPrefix(name, "runtime.") {
			fmt.Fprintf(&res, "%s\n\t%s:%d\n", name, file, line)
		}
	}
	return res.String()
}

// RecoveredError converts a value recovered from a panic into an error. Errors
// which are already meaningful on their own (such as an unresolvable function) are
// returned untouched; anything else becomes an errors.PanicError with a stack trace.
func RecoveredError(r interface{}) error {
	switch v := r.(type) {
	case *errors.FuncError:
		return v
	case *errors.ConsistencyError:
		return v
	case error:
		return &errors.PanicError{Value: v.Error(), Trace: GetTrace()}
	default:
		return &errors.PanicError{Value: Describe(v), Trace: GetTrace()}
	}
}

package distiter

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"reflect"
	"sync"

	"github.com/go-sif/distiter/errors"
)

// Func is a transmissible function object. Native closures cannot cross a
// process boundary, so a Func instead carries a stable registered Name and
// the gob-encoded parameters it captured. Workers resolve it against their
// own registry, which must have been populated identically (typically from
// package init functions, or by constructing the same pipeline).
type Func[F any] struct {
	Name string
	Args []byte
}

type funcBuilder[F any] func(args []byte) (F, error)

var funcRegistry sync.Map // map[string]any, holding funcBuilders

// RegisterFunc registers a parameterized function under name. build receives
// the decoded parameters of a Func and returns the function itself. Registering
// a name twice panics.
func RegisterFunc[F, P any](name string, build func(params P) F) {
	builder := funcBuilder[F](func(args []byte) (F, error) {
		var params P
		if len(args) > 0 {
			if err := gob.NewDecoder(bytes.NewReader(args)).Decode(&params); err != nil {
				var zero F
				return zero, &errors.FuncError{Name: name, Reason: fmt.Sprintf("unable to decode parameters: %v", err)}
			}
		}
		return build(params), nil
	})
	if _, dup := funcRegistry.LoadOrStore(name, builder); dup {
		panic(fmt.Sprintf("distiter: function %q registered twice", name))
	}
}

// RegisterStatic registers a function which captures no parameters
func RegisterStatic[F any](name string, f F) {
	RegisterFunc(name, func(struct{}) F { return f })
}

// NewFunc captures params for the function registered under name
func NewFunc[F, P any](name string, params P) Func[F] {
	buf := new(bytes.Buffer)
	if err := gob.NewEncoder(buf).Encode(params); err != nil {
		panic(fmt.Sprintf("distiter: unable to encode parameters of function %q: %v", name, err))
	}
	return Func[F]{Name: name, Args: buf.Bytes()}
}

// Static refers to a function registered with RegisterStatic
func Static[F any](name string) Func[F] {
	return Func[F]{Name: name}
}

// Resolve looks this Func up in the registry. The registered signature is
// checked against F, so a mismatch is reported rather than coerced.
func (f Func[F]) Resolve() (F, error) {
	var zero F
	entry, ok := funcRegistry.Load(f.Name)
	if !ok {
		return zero, &errors.FuncError{Name: f.Name, Reason: "not registered"}
	}
	builder, ok := entry.(funcBuilder[F])
	if !ok {
		return zero, &errors.FuncError{
			Name:   f.Name,
			Reason: fmt.Sprintf("registered with a different signature than %s", reflect.TypeOf((*F)(nil)).Elem()),
		}
	}
	return builder(f.Args)
}

// MustResolve is Resolve, panicking on failure. It is used inside IntoAsync,
// where failure is an internal consistency violation recovered by RunTask.
func (f Func[F]) MustResolve() F {
	fn, err := f.Resolve()
	if err != nil {
		panic(err)
	}
	return fn
}

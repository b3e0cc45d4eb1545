package distiter_test

import (
	goerrors "errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-sif/distiter"
	"github.com/go-sif/distiter/errors"
)

type scale struct {
	Factor int
	Offset int
}

func init() {
	distiter.RegisterFunc("distiter_test.scale", func(p scale) func(int) int {
		return func(n int) int { return n*p.Factor + p.Offset }
	})
}

func TestFuncResolve(t *testing.T) {
	fn, err := distiter.NewFunc[func(int) int]("distiter_test.scale", scale{Factor: 3, Offset: 1}).Resolve()
	require.Nil(t, err)
	require.Equal(t, 7, fn(2))
}

func TestFuncResolveFailures(t *testing.T) {
	var ferr *errors.FuncError
	_, err := distiter.Static[func(int) int]("distiter_test.unknown").Resolve()
	require.True(t, goerrors.As(err, &ferr))
	require.Equal(t, "distiter_test.unknown", ferr.Name)

	_, err = distiter.Static[func(string) int]("distiter_test.scale").Resolve()
	require.True(t, goerrors.As(err, &ferr))
	require.Contains(t, ferr.Reason, "different signature")

	require.Panics(t, func() {
		distiter.Static[func(int) int]("distiter_test.unknown").MustResolve()
	})
}

func TestFuncRegisteredTwice(t *testing.T) {
	require.Panics(t, func() {
		distiter.RegisterStatic("distiter_test.positive", func(n int) bool { return n > 0 })
	})
}

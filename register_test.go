package distiter_test

import (
	"bytes"
	"encoding/gob"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-sif/distiter"
)

type tagged struct {
	Tag string
}

func TestRegisterTypeByValueAndPointer(t *testing.T) {
	require.NotPanics(t, func() {
		distiter.RegisterType(tagged{})
		distiter.RegisterType(&tagged{})
		distiter.RegisterType(tagged{})
	})
	var buf bytes.Buffer
	var in interface{} = &tagged{Tag: "x"}
	require.Nil(t, gob.NewEncoder(&buf).Encode(&in))
	var out interface{}
	require.Nil(t, gob.NewDecoder(&buf).Decode(&out))
	require.Equal(t, tagged{Tag: "x"}, out)
}

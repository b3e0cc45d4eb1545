package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type message struct {
	Name   string
	Values []int
}

func TestRoundTrip(t *testing.T) {
	for _, c := range []Compression{LZ4, Zstd} {
		in := &message{Name: "partial", Values: []int{1, 2, 3}}
		buf, err := EncodeWith(c, in)
		require.Nil(t, err)
		require.Equal(t, byte(c), buf[0])
		out := &message{}
		require.Nil(t, Decode(buf, out))
		require.Equal(t, in, out)
	}
}

func TestCorruptFrame(t *testing.T) {
	buf, err := Encode(&message{Name: "partial"})
	require.Nil(t, err)
	buf[len(buf)-1] ^= 0xff
	require.ErrorIs(t, Decode(buf, &message{}), ErrChecksum)
	require.Error(t, Decode(buf[:4], &message{}))
}

package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigure(t *testing.T) {
	buf := new(bytes.Buffer)
	Configure(Config{Level: WarnLevel, Format: "json", Output: buf})
	defer Configure(Config{Level: InfoLevel})

	logger := New("job")
	logger.Info().Msg("dropped")
	logger.Warn().Msg("kept")
	require.NotContains(t, buf.String(), "dropped")
	require.Contains(t, buf.String(), `"component":"job"`)
	require.Contains(t, buf.String(), `"message":"kept"`)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("DEBUG")
	require.Nil(t, err)
	require.Equal(t, DebugLevel, level)
	level, err = ParseLevel("")
	require.Nil(t, err)
	require.Equal(t, InfoLevel, level)
	_, err = ParseLevel("loud")
	require.Error(t, err)
}

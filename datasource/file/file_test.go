package file

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGlobPages(t *testing.T) {
	dir := t.TempDir()
	content := "{\"n\": 1}\n{\"n\": 22}\n{\"n\": 333}\n{\"n\": 4444}\n"
	require.Nil(t, os.WriteFile(filepath.Join(dir, "a.jsonl"), []byte(content), 0o644))
	require.Nil(t, os.WriteFile(filepath.Join(dir, "b.jsonl"), []byte("{\"n\": 5}"), 0o644))

	parts, err := Glob(filepath.Join(dir, "*.jsonl"), 12).Partitions()
	require.Nil(t, err)
	require.Len(t, parts, 2)
	require.Equal(t, filepath.Join(dir, "a.jsonl"), parts[0].Name())

	pages, err := parts[0].Pages()
	require.Nil(t, err)
	require.Greater(t, len(pages), 1)
	var rebuilt strings.Builder
	for _, p := range pages {
		r, err := p.Open()
		require.Nil(t, err)
		data, err := io.ReadAll(r)
		require.Nil(t, err)
		require.Nil(t, r.Close())
		require.True(t, strings.HasSuffix(string(data), "\n"), "page %q should end on a line boundary", data)
		rebuilt.Write(data)
	}
	require.Equal(t, content, rebuilt.String())

	pages, err = parts[1].Pages()
	require.Nil(t, err)
	require.Len(t, pages, 1)
}

func TestGlobNoMatches(t *testing.T) {
	_, err := Glob(filepath.Join(t.TempDir(), "*.jsonl"), 0).Partitions()
	require.Error(t, err)
}

func TestGlobPagesWithoutTrailingNewline(t *testing.T) {
	dir := t.TempDir()
	content := "{\"n\": 1}\n{\"n\": 1234567890}"
	require.Nil(t, os.WriteFile(filepath.Join(dir, "c.jsonl"), []byte(content), 0o644))

	parts, err := Glob(filepath.Join(dir, "*.jsonl"), 12).Partitions()
	require.Nil(t, err)
	require.Len(t, parts, 1)
	pages, err := parts[0].Pages()
	require.Nil(t, err)
	var total int64
	for _, p := range pages {
		pg := p.(*page)
		require.LessOrEqual(t, pg.offset+pg.length, int64(len(content)))
		total += pg.length
	}
	require.Equal(t, int64(len(content)), total)
}

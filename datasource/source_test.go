package datasource_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-sif/distiter"
	"github.com/go-sif/distiter/datasource"
	"github.com/go-sif/distiter/errors"
)

type intDecoder struct{}

func (intDecoder) Decode(line []byte) (int, error) {
	return strconv.Atoi(string(line))
}

type brokenFile struct{}

func (brokenFile) Partitions() ([]datasource.Partition, error) {
	return nil, fmt.Errorf("bucket not found")
}

type fakeFile struct {
	partitions []datasource.Partition
}

func (f *fakeFile) Partitions() ([]datasource.Partition, error) {
	return f.partitions, nil
}

type fakePartition struct {
	name     string
	pages    []datasource.Page
	pagesErr error
}

func (p *fakePartition) Name() string {
	return p.name
}

func (p *fakePartition) Pages() ([]datasource.Page, error) {
	return p.pages, p.pagesErr
}

type fakePage struct {
	data []byte
	err  error
}

func (p fakePage) Open() (io.ReadCloser, error) {
	if p.err != nil {
		return nil, p.err
	}
	return io.NopCloser(bytes.NewReader(p.data)), nil
}

func drain(t *testing.T, iter distiter.DistributedIterator[distiter.Result[int]]) [][]distiter.Result[int] {
	var out [][]distiter.Result[int]
	for {
		task, ok := iter.NextTask()
		if !ok {
			return out
		}
		var items []distiter.Result[int]
		_, err := distiter.Drive[distiter.Result[int]](context.Background(), task.IntoAsync(), distiter.SinkFunc[distiter.Result[int]](func(item distiter.Result[int]) bool {
			items = append(items, item)
			return true
		}))
		require.Nil(t, err)
		out = append(out, items)
	}
}

func TestRowsListingFailure(t *testing.T) {
	iter := datasource.Rows[int](brokenFile{}, intDecoder{})
	require.Equal(t, distiter.UnknownSize(), iter.SizeHint())
	out := drain(t, iter)
	require.Len(t, out, 1)
	require.Len(t, out[0], 1)
	require.True(t, errors.IsKind(out[0][0].Err, errors.KindPartitions))
}

func TestRowsFailuresNeverStopSiblings(t *testing.T) {
	file := &fakeFile{partitions: []datasource.Partition{
		&fakePartition{name: "a", pages: []datasource.Page{
			fakePage{data: []byte("1\nx\n2\n")},
			fakePage{err: fmt.Errorf("connection reset")},
			fakePage{data: []byte("3")},
		}},
		&fakePartition{name: "b", pagesErr: fmt.Errorf("forbidden")},
		&fakePartition{name: "c", pages: []datasource.Page{fakePage{data: []byte("4\n")}}},
	}}
	iter := datasource.Rows[int](file, intDecoder{})
	out := drain(t, iter)
	require.Len(t, out, 3)
	require.Equal(t, distiter.ExactSize(0), iter.SizeHint())

	a := out[0]
	require.Len(t, a, 5)
	require.Equal(t, 1, a[0].Value)
	require.True(t, a[1].Err.(*errors.SourceError).Equal(&errors.SourceError{Kind: errors.KindDecode, Partition: "a", Page: 0, Line: 2, Message: a[1].Err.(*errors.SourceError).Message}))
	require.Equal(t, 2, a[2].Value)
	require.True(t, errors.IsKind(a[3].Err, errors.KindPage))
	require.Equal(t, 1, a[3].Err.(*errors.SourceError).Page)
	require.Equal(t, 3, a[4].Value)

	require.Len(t, out[1], 1)
	require.True(t, errors.IsKind(out[1][0].Err, errors.KindPages))

	require.Len(t, out[2], 1)
	require.Equal(t, 4, out[2][0].Value)
}

func TestRowsHaltPromptly(t *testing.T) {
	file := &fakeFile{partitions: []datasource.Partition{
		&fakePartition{name: "a", pages: []datasource.Page{fakePage{data: []byte("1\n2\n3\n")}, fakePage{data: []byte("4\n")}}},
	}}
	task, ok := datasource.Rows[int](file, intDecoder{}).NextTask()
	require.True(t, ok)
	var seen []int
	more, err := distiter.Drive[distiter.Result[int]](context.Background(), task.IntoAsync(), distiter.SinkFunc[distiter.Result[int]](func(item distiter.Result[int]) bool {
		seen = append(seen, item.Value)
		return len(seen) < 2
	}))
	require.Nil(t, err)
	require.False(t, more)
	require.Equal(t, []int{1, 2}, seen)
}

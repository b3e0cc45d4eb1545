package file

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-sif/distiter"
	"github.com/go-sif/distiter/datasource"
)

// DefaultPageSize is the page size used when none is configured
const DefaultPageSize = 1 << 20

// File is a set of files on disk, matched by a glob
type File struct {
	glob     string
	pageSize int64
}

// Glob creates a File from the files matching glob. A pageSize of 0 selects DefaultPageSize.
func Glob(glob string, pageSize int64) *File {
	distiter.RegisterType(&Partition{})
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &File{glob: glob, pageSize: pageSize}
}

// Partitions lists one Partition per matching file
func (f *File) Partitions() ([]datasource.Partition, error) {
	matches, err := filepath.Glob(f.glob)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("glob %s produced 0 files", f.glob)
	}
	partitions := make([]datasource.Partition, len(matches))
	for i, path := range matches {
		partitions[i] = &Partition{Path: path, PageSize: f.pageSize}
	}
	return partitions, nil
}

// Partition is a single file on disk
type Partition struct {
	Path     string
	PageSize int64
}

// Name returns the path of this Partition
func (p *Partition) Name() string {
	return p.Path
}

// Pages divides the file into newline-aligned byte ranges
func (p *Partition) Pages() ([]datasource.Page, error) {
	f, err := os.Open(p.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := info.Size()
	var pages []datasource.Page
	start := int64(0)
	for start < size {
		end := start + p.PageSize
		if end >= size {
			end = size
		} else if end, err = nextLineStart(f, end); err != nil {
			return nil, err
		} else if end > size {
			end = size
		}
		pages = append(pages, &page{path: p.Path, offset: start, length: end - start})
		start = end
	}
	return pages, nil
}

// nextLineStart finds the first line which begins at or after pos, or the end
// of the file if there is none
func nextLineStart(f *os.File, pos int64) (int64, error) {
	if _, err := f.Seek(pos-1, io.SeekStart); err != nil {
		return 0, err
	}
	r := bufio.NewReader(f)
	for {
		b, err := r.ReadByte()
		if err == io.EOF {
			return pos - 1, nil
		} else if err != nil {
			return 0, err
		}
		if b == '\n' {
			return pos, nil
		}
		pos++
	}
}

type page struct {
	path   string
	offset int64
	length int64
}

type sectionReadCloser struct {
	*io.SectionReader
	io.Closer
}

func (p *page) Open() (io.ReadCloser, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return nil, err
	}
	return &sectionReadCloser{SectionReader: io.NewSectionReader(f, p.offset, p.length), Closer: f}, nil
}

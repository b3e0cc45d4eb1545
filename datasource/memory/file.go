package memory

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-sif/distiter"
	"github.com/go-sif/distiter/datasource"
)

// File is an in-memory datasource.File. Each Partition is a list of pages of raw bytes.
type File struct {
	partitions []datasource.Partition
}

// NewFile creates a File, in which each argument is a Partition consisting of the given pages
func NewFile(partitions ...[][]byte) *File {
	distiter.RegisterType(&Partition{})
	f := &File{}
	for i, pages := range partitions {
		f.partitions = append(f.partitions, &Partition{PartitionName: fmt.Sprintf("memory-%d", i), Data: pages})
	}
	return f
}

// Partitions lists the Partitions of this File
func (f *File) Partitions() ([]datasource.Partition, error) {
	return f.partitions, nil
}

// Partition is a named list of in-memory pages
type Partition struct {
	PartitionName string
	Data          [][]byte
}

// Name returns the name of this Partition
func (p *Partition) Name() string {
	return p.PartitionName
}

// Pages lists the Pages of this Partition
func (p *Partition) Pages() ([]datasource.Page, error) {
	pages := make([]datasource.Page, len(p.Data))
	for i, data := range p.Data {
		pages[i] = page(data)
	}
	return pages, nil
}

type page []byte

func (p page) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(p)), nil
}

package datasource

import (
	"bytes"
	"io"

	"github.com/go-sif/distiter"
	"github.com/go-sif/distiter/errors"
)

// A File is a source of data, divided into Partitions. Partitions are listed
// on the coordinator.
type File interface {
	Partitions() ([]Partition, error)
}

// A Partition is a division of a File, read in its entirety by a single Task.
// Partitions travel inside Tasks, so implementations must be gob-encodable and
// registered (see distiter.RegisterType) by whichever constructor creates them.
type Partition interface {
	Name() string
	Pages() ([]Page, error)
}

// A Page is a contiguous range of bytes within a Partition
type Page interface {
	Open() (io.ReadCloser, error)
}

// A Decoder turns a single line of a Page into a Row. Decoders travel inside
// Tasks, so must be gob-encodable.
type Decoder[Row any] interface {
	Decode(line []byte) (Row, error)
}

type rowsIterator[Row any] struct {
	file       File
	decoder    Decoder[Row]
	listed     bool
	partitions []Partition
	listErr    error
	next       int
}

// Rows flattens the Partitions, Pages and lines of file into a single
// DistributedIterator of decoded Rows, with one Task per Partition. Partitions
// are listed when the first Task is drawn; a listing failure becomes a single
// Task which yields the failure as its only item.
func Rows[Row any](file File, decoder Decoder[Row]) distiter.DistributedIterator[distiter.Result[Row]] {
	distiter.RegisterType(decoder)
	distiter.RegisterType(&rowsTask[Row]{})
	distiter.RegisterType(&failedTask[Row]{})
	return &rowsIterator[Row]{file: file, decoder: decoder}
}

func (r *rowsIterator[Row]) SizeHint() distiter.SizeHint {
	if r.listed && r.listErr == nil && r.next >= len(r.partitions) {
		return distiter.ExactSize(0)
	}
	return distiter.UnknownSize()
}

func (r *rowsIterator[Row]) NextTask() (distiter.Task[distiter.Result[Row]], bool) {
	if !r.listed {
		r.listed = true
		r.partitions, r.listErr = r.file.Partitions()
		if r.listErr != nil {
			return &failedTask[Row]{Err: errors.NewSourceError(errors.KindPartitions, "", 0, 0, r.listErr)}, true
		}
	}
	if r.listErr != nil || r.next >= len(r.partitions) {
		return nil, false
	}
	p := r.partitions[r.next]
	r.next++
	return &rowsTask[Row]{Partition: p, Decoder: r.decoder}, true
}

// failedTask yields a single failure
type failedTask[Row any] struct {
	Err *errors.SourceError
}

func (t *failedTask[Row]) IntoAsync() distiter.AsyncTask[distiter.Result[Row]] {
	return t
}

func (t *failedTask[Row]) PollRun(rc *distiter.RunContext, sink distiter.Sink[distiter.Result[Row]]) distiter.Poll {
	return distiter.Ready(sink.Offer(distiter.Err[Row](t.Err)))
}

type rowsTask[Row any] struct {
	Partition Partition
	Decoder   Decoder[Row]
}

func (t *rowsTask[Row]) IntoAsync() distiter.AsyncTask[distiter.Result[Row]] {
	return &rowsAsync[Row]{partition: t.Partition, decoder: t.Decoder}
}

type fetchedPage struct {
	data []byte
	err  error
}

// fetchPage reads page in full, then wakes the Task waiting on it
func fetchPage(page Page, out chan<- fetchedPage, wake distiter.Waker) {
	defer wake()
	r, err := page.Open()
	if err != nil {
		out <- fetchedPage{err: err}
		return
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	out <- fetchedPage{data: data, err: err}
}

// rowsAsync reads the Pages of one Partition in order. Each Page is fetched on
// its own goroutine, and its lines are decoded as the Sink accepts them.
type rowsAsync[Row any] struct {
	partition Partition
	decoder   Decoder[Row]
	listed    bool
	pages     []Page
	page      int              // index of the current page
	fetch     chan fetchedPage // in-flight fetch of the current page, if any
	buf       []byte           // contents of the current page, once fetched
	offset    int              // read position within buf
	line      int              // 1-based number of the last line read from buf
	halted    bool
}

func (a *rowsAsync[Row]) PollRun(rc *distiter.RunContext, sink distiter.Sink[distiter.Result[Row]]) distiter.Poll {
	if a.halted {
		return distiter.Ready(false)
	}
	if !a.listed {
		a.listed = true
		pages, err := a.partition.Pages()
		if err != nil {
			return a.offer(sink, distiter.Err[Row](errors.NewSourceError(errors.KindPages, a.partition.Name(), 0, 0, err)))
		}
		a.pages = pages
	}
	for {
		if a.buf != nil {
			for a.offset < len(a.buf) {
				line := a.nextLine()
				if len(bytes.TrimSpace(line)) == 0 {
					continue
				}
				var item distiter.Result[Row]
				if row, err := a.decoder.Decode(line); err != nil {
					item = distiter.Err[Row](errors.NewSourceError(errors.KindDecode, a.partition.Name(), a.page, a.line, err))
				} else {
					item = distiter.Ok(row)
				}
				if !sink.Offer(item) {
					a.halted = true
					return distiter.Ready(false)
				}
			}
			a.buf = nil
			a.page++
		}
		if a.page >= len(a.pages) {
			return distiter.Ready(true)
		}
		if a.fetch == nil {
			a.fetch = make(chan fetchedPage, 1)
			go fetchPage(a.pages[a.page], a.fetch, rc.Waker())
		}
		select {
		case f := <-a.fetch:
			a.fetch = nil
			if f.err != nil {
				failed := errors.NewSourceError(errors.KindPage, a.partition.Name(), a.page, 0, f.err)
				a.page++
				if !sink.Offer(distiter.Err[Row](failed)) {
					a.halted = true
					return distiter.Ready(false)
				}
				continue
			}
			a.buf, a.offset, a.line = f.data, 0, 0
			if a.buf == nil {
				a.buf = []byte{}
			}
		default:
			return distiter.Pending()
		}
	}
}

func (a *rowsAsync[Row]) offer(sink distiter.Sink[distiter.Result[Row]], item distiter.Result[Row]) distiter.Poll {
	more := sink.Offer(item)
	a.halted = !more
	return distiter.Ready(more)
}

// nextLine consumes the next line of buf, without its line terminator
func (a *rowsAsync[Row]) nextLine() []byte {
	rest := a.buf[a.offset:]
	a.line++
	end := bytes.IndexByte(rest, '\n')
	if end < 0 {
		a.offset = len(a.buf)
		return bytes.TrimSuffix(rest, []byte{'\r'})
	}
	a.offset += end + 1
	return bytes.TrimSuffix(rest[:end], []byte{'\r'})
}

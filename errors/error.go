package errors

import (
	"encoding/gob"
	goerrors "errors"
	"fmt"
)

func init() {
	gob.Register(&SourceError{})
	gob.Register(&RemoteError{})
	gob.Register(&PanicError{})
	gob.Register(&FuncError{})
	gob.Register(&ConsistencyError{})
}

// Kind tags the stage of the source boundary at which a SourceError occurred
type Kind int

const (
	// KindPartitions indicates that the partitions of a source could not be listed
	KindPartitions Kind = iota + 1
	// KindPages indicates that the pages of a partition could not be listed
	KindPages
	// KindPage indicates that a page could not be opened or read
	KindPage
	// KindDecode indicates that a single row could not be decoded
	KindDecode
)

// String returns a textual representation of this Kind
func (k Kind) String() string {
	switch k {
	case KindPartitions:
		return "partitions"
	case KindPages:
		return "pages"
	case KindPage:
		return "page"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// SourceError occurs at the boundary between a data source and the pipeline reading it.
// Each Kind is a distinct variant; SourceErrors are delivered as failed items rather
// than aborting a Task, and survive gob encoding intact so that they compare equal
// on either side of a worker boundary.
type SourceError struct {
	Kind      Kind
	Partition string // the partition being read, if known
	Page      int    // the index of the page within its partition, if known
	Line      int    // the 1-based line within the page, for KindDecode
	Message   string // the message of the underlying error
	cause     error  // not transmitted
}

// NewSourceError wraps an underlying error as a SourceError of the given Kind
func NewSourceError(kind Kind, partition string, page int, line int, cause error) *SourceError {
	e := &SourceError{Kind: kind, Partition: partition, Page: page, Line: line, cause: cause}
	if cause != nil {
		e.Message = cause.Error()
	}
	return e
}

// Error returns a textual representation of this SourceError
func (e *SourceError) Error() string {
	switch e.Kind {
	case KindPartitions:
		return fmt.Sprintf("unable to list partitions: %s", e.Message)
	case KindPages:
		return fmt.Sprintf("unable to list pages of partition %s: %s", e.Partition, e.Message)
	case KindPage:
		return fmt.Sprintf("unable to read page %d of partition %s: %s", e.Page, e.Partition, e.Message)
	default:
		return fmt.Sprintf("unable to decode line %d of page %d of partition %s: %s", e.Line, e.Page, e.Partition, e.Message)
	}
}

// Unwrap returns the underlying error, which is lost once a SourceError crosses a worker boundary
func (e *SourceError) Unwrap() error {
	return e.cause
}

// Equal compares two SourceErrors structurally
func (e *SourceError) Equal(o *SourceError) bool {
	if e == nil || o == nil {
		return e == o
	}
	return e.Kind == o.Kind && e.Partition == o.Partition && e.Page == o.Page && e.Line == o.Line && e.Message == o.Message
}

// Is supports errors.Is. A target SourceError carrying only a Kind matches every
// SourceError of that Kind; otherwise the comparison is structural.
func (e *SourceError) Is(target error) bool {
	t, ok := target.(*SourceError)
	if !ok {
		return false
	}
	if t.Partition == "" && t.Page == 0 && t.Line == 0 && t.Message == "" {
		return t.Kind == e.Kind
	}
	return e.Equal(t)
}

// IsKind returns true iff err is, or wraps, a SourceError of the given Kind
func IsKind(err error, kind Kind) bool {
	var serr *SourceError
	return goerrors.As(err, &serr) && serr.Kind == kind
}

// RemoteError stands in for an error whose concrete type could not be sent
// across a worker boundary. Only its message survives.
type RemoteError struct {
	Message string
}

// Error returns a textual representation of this RemoteError
func (e *RemoteError) Error() string {
	return e.Message
}

// FuncError occurs when a transmissible function cannot be resolved from the registry
type FuncError struct {
	Name   string
	Reason string
}

// Error returns a textual representation of this FuncError
func (e *FuncError) Error() string {
	return fmt.Sprintf("function %q: %s", e.Name, e.Reason)
}

// ConsistencyError indicates an internal consistency violation, such as a worker
// returning a partial result of an unexpected type. It is never used for input validation.
type ConsistencyError struct {
	Message string
}

// Error returns a textual representation of this ConsistencyError
func (e *ConsistencyError) Error() string {
	return "internal consistency violation: " + e.Message
}

// PanicError occurs when a Task panics while running
type PanicError struct {
	Value string
	Trace string
}

// Error returns a textual representation of this PanicError
func (e *PanicError) Error() string {
	return fmt.Sprintf("Task Panic: %s\n%s", e.Value, e.Trace)
}

// Package rpc describes the gRPC services through which a coordinator and its
// workers communicate. Every payload is a wire frame carried in a
// wrapperspb.BytesValue, so the services need no generated message types.
package rpc

import (
	"github.com/go-sif/distiter"
)

// RegisterRequest is sent by a worker to join a cluster
type RegisterRequest struct {
	ID   string
	Port int // the port the worker is serving on; its host is taken from the connection
}

// ExecuteRequest hands a single unit of Work to a worker
type ExecuteRequest struct {
	Work distiter.Work
}

// ExecuteResponse carries the partial result of a unit of Work, or the error which ended it
type ExecuteResponse struct {
	Result distiter.Result[any]
}

// LogMessage is a log line forwarded from a worker to the coordinator
type LogMessage struct {
	Level   int
	Source  string
	Message string
}

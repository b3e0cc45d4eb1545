package cluster

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/semaphore"

	"github.com/go-sif/distiter"
	pb "github.com/go-sif/distiter/internal/rpc"
	"github.com/go-sif/distiter/internal/wire"
)

// LocalPool executes Work on goroutines of the current process
type LocalPool struct {
	capacity    int
	roundTrip   bool
	compression wire.Compression
	running     *semaphore.Weighted
}

// LocalPoolOption customizes a LocalPool
type LocalPoolOption func(*LocalPool)

// WithCapacity sets the number of Tasks run at once, which defaults to GOMAXPROCS
func WithCapacity(capacity int) LocalPoolOption {
	return func(p *LocalPool) {
		if capacity > 0 {
			p.capacity = capacity
		}
	}
}

// WithWireRoundTrip encodes every unit of Work, and every partial result,
// exactly as a Coordinator and Worker would, and decodes it again before use.
// Pipelines which run correctly on such a pool will run correctly on a cluster.
// compression is "lz4" or "zstd", as in NodeOptions.
func WithWireRoundTrip(compression string) LocalPoolOption {
	return func(p *LocalPool) {
		p.roundTrip = true
		p.compression = compressionOf(compression)
	}
}

// NewLocalPool creates a LocalPool
func NewLocalPool(opts ...LocalPoolOption) *LocalPool {
	p := &LocalPool{capacity: runtime.GOMAXPROCS(0), compression: wire.LZ4}
	for _, opt := range opts {
		opt(p)
	}
	p.running = semaphore.NewWeighted(int64(p.capacity))
	return p
}

// Capacity is the number of Tasks this pool runs at once
func (p *LocalPool) Capacity() int {
	return p.capacity
}

// Execute runs w on the calling goroutine, once a slot is free
func (p *LocalPool) Execute(ctx context.Context, w distiter.Work) (any, error) {
	if err := p.running.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer p.running.Release(1)
	if !p.roundTrip {
		return w.Run(ctx)
	}
	var req pb.ExecuteRequest
	if err := p.cross(&pb.ExecuteRequest{Work: w}, &req); err != nil {
		return nil, fmt.Errorf("unable to transmit work %s: %w", w.ID(), err)
	}
	var res pb.ExecuteResponse
	partial, err := req.Work.Run(ctx)
	if err != nil {
		res.Result = distiter.Err[any](err)
	} else {
		res.Result = distiter.Ok[any](partial)
	}
	var out pb.ExecuteResponse
	if err := p.cross(&res, &out); err != nil {
		return nil, fmt.Errorf("unable to transmit result of work %s: %w", w.ID(), err)
	}
	return out.Result.Get()
}

func (p *LocalPool) cross(in interface{}, out interface{}) error {
	buf, err := wire.EncodeWith(p.compression, in)
	if err != nil {
		return err
	}
	return wire.Decode(buf, out)
}

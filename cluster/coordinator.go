package cluster

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/go-sif/distiter"
	pb "github.com/go-sif/distiter/internal/rpc"
	"github.com/go-sif/distiter/internal/wire"
	"github.com/go-sif/distiter/logging"
)

// CoordinatorNode is a Coordinator node which has lifecycle methods. It is a
// distiter.Pool: Work given to Execute is shipped to a registered Worker.
type CoordinatorNode struct {
	id            string
	opts          *NodeOptions
	lifecycleLock sync.Mutex
	lis           net.Listener
	server        *grpc.Server
	clusterServer *clusterServer
	logger        zerolog.Logger
}

// CreateCoordinator is a factory for Coordinators
func CreateCoordinator(opts *NodeOptions) (*CoordinatorNode, error) {
	// default certain options if not supplied
	if err := ensureDefaultNodeOptionsValues(opts); err != nil {
		return nil, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID: %w", err)
	}
	logger := logging.New("coordinator").With().Str("node", id.String()).Logger()
	return &CoordinatorNode{
		id:            id.String(),
		opts:          opts,
		clusterServer: createClusterServer(opts, logger),
		logger:        logger,
	}, nil
}

// ID returns the ID of this Coordinator
func (c *CoordinatorNode) ID() string {
	return c.id
}

// IsCoordinator returns true for coordinators
func (c *CoordinatorNode) IsCoordinator() bool {
	return true
}

// Listen binds the Coordinator to its configured address
func (c *CoordinatorNode) Listen() error {
	c.lifecycleLock.Lock()
	defer c.lifecycleLock.Unlock()
	if c.lis != nil {
		return fmt.Errorf("coordinator is already listening on %s", c.lis.Addr())
	}
	lis, err := net.Listen("tcp", c.opts.connectionString())
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	c.lis = lis
	c.server = grpc.NewServer()
	// register rpc handlers
	pb.RegisterClusterServiceServer(c.server, c.clusterServer)
	pb.RegisterLogServiceServer(c.server, createLogServer(logging.New("worker-log")))
	return nil
}

// Addr returns the address the Coordinator is listening on, or nil
func (c *CoordinatorNode) Addr() net.Addr {
	c.lifecycleLock.Lock()
	defer c.lifecycleLock.Unlock()
	if c.lis == nil {
		return nil
	}
	return c.lis.Addr()
}

// Serve blocks, accepting Worker registrations, until the Coordinator is stopped
func (c *CoordinatorNode) Serve() error {
	c.lifecycleLock.Lock()
	server, lis := c.server, c.lis
	c.lifecycleLock.Unlock()
	if server == nil {
		return fmt.Errorf("coordinator must Listen before it can Serve")
	}
	c.logger.Info().Str("addr", lis.Addr().String()).Msg("starting coordinator")
	if err := server.Serve(lis); err != nil {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

// Start the Coordinator - blocking unless run in a goroutine
func (c *CoordinatorNode) Start() error {
	if err := c.Listen(); err != nil {
		return err
	}
	return c.Serve()
}

// GracefulStop the Coordinator, waiting for RPCs to finish
func (c *CoordinatorNode) GracefulStop() error {
	c.lifecycleLock.Lock()
	defer c.lifecycleLock.Unlock()
	if c.server != nil {
		c.server.GracefulStop()
	}
	c.clusterServer.closeConnections()
	return nil
}

// Stop the Coordinator immediately
func (c *CoordinatorNode) Stop() error {
	c.lifecycleLock.Lock()
	defer c.lifecycleLock.Unlock()
	if c.server != nil {
		c.server.Stop()
	}
	c.clusterServer.closeConnections()
	return nil
}

// WaitForWorkers blocks until NumWorkers Workers have registered, or until
// WorkerJoinTimeout has elapsed
func (c *CoordinatorNode) WaitForWorkers(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, c.opts.WorkerJoinTimeout)
	defer cancel()
	c.logger.Info().Int("workers", c.opts.NumWorkers).Msg("waiting for workers to connect")
	return c.clusterServer.waitForWorkers(waitCtx)
}

// NumberOfWorkers returns the number of Workers which have registered so far
func (c *CoordinatorNode) NumberOfWorkers() int {
	return c.clusterServer.NumberOfWorkers()
}

// Capacity is the number of Tasks the cluster runs at once
func (c *CoordinatorNode) Capacity() int {
	return c.opts.NumWorkers * c.opts.TasksPerWorker
}

// Execute ships w to a Worker with spare capacity, blocking until one is
// available, and returns the partial result it sends back
func (c *CoordinatorNode) Execute(ctx context.Context, w distiter.Work) (any, error) {
	buf, err := wire.EncodeWith(c.opts.compression(), &pb.ExecuteRequest{Work: w})
	if err != nil {
		return nil, fmt.Errorf("unable to encode work %s: %w", w.ID(), err)
	}
	target, err := c.clusterServer.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer c.clusterServer.release(target)
	c.logger.Debug().Str("work", w.ID()).Str("worker", target.ID).Msg("assigning task")
	res, err := target.client.Execute(ctx, wrapperspb.Bytes(buf))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("worker %s: %w", target.ID, err)
	}
	var out pb.ExecuteResponse
	if err := wire.Decode(res.GetValue(), &out); err != nil {
		return nil, fmt.Errorf("unable to decode result from worker %s: %w", target.ID, err)
	}
	return out.Result.Get()
}

// StopWorkers asks every registered Worker to shut down
func (c *CoordinatorNode) StopWorkers(ctx context.Context) error {
	workers := c.clusterServer.Workers()
	var wg sync.WaitGroup
	var lock sync.Mutex
	var errs *multierror.Error
	for _, w := range workers {
		wg.Add(1)
		go func(w *workerDescriptor) {
			defer wg.Done()
			c.logger.Info().Str("worker", w.ID).Msg("stopping worker")
			rpcCtx, cancel := context.WithTimeout(ctx, c.opts.RPCTimeout)
			defer cancel()
			if _, err := w.client.Stop(rpcCtx, wrapperspb.String(w.ID)); err != nil {
				lock.Lock()
				errs = multierror.Append(errs, fmt.Errorf("unable to stop worker %s: %w", w.ID, err))
				lock.Unlock()
			}
		}(w)
	}
	wg.Wait()
	return errs.ErrorOrNil()
}

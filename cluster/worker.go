package cluster

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	uuid "github.com/gofrs/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"

	pb "github.com/go-sif/distiter/internal/rpc"
	"github.com/go-sif/distiter/internal/wire"
	"github.com/go-sif/distiter/logging"
)

// WorkerNode executes Work on behalf of a Coordinator. A Worker can only
// decode Work whose types have been registered, so the process hosting it must
// construct the same pipelines and Jobs as the Coordinator's process.
type WorkerNode struct {
	id            string
	opts          *NodeOptions
	lifecycleLock sync.Mutex
	lis           net.Listener
	server        *grpc.Server
	conn          *grpc.ClientConn
	clusterClient *pb.CoordinatorClient
	stopped       chan struct{}
	logger        zerolog.Logger
}

// CreateWorker is a factory for Workers
func CreateWorker(opts *NodeOptions) (*WorkerNode, error) {
	// default certain options if not supplied
	if err := ensureDefaultNodeOptionsValues(opts); err != nil {
		return nil, err
	}
	// generate worker ID
	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID: %w", err)
	}
	return &WorkerNode{
		id:      id.String(),
		opts:    opts,
		stopped: make(chan struct{}),
		logger:  logging.New("worker").With().Str("node", id.String()).Logger(),
	}, nil
}

func (w *WorkerNode) mconnect() error {
	conn, err := grpc.NewClient(w.opts.coordinatorConnectionString(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("fail to dial: %w", err)
	}
	w.conn = conn
	w.clusterClient = pb.NewCoordinatorClient(conn)
	return nil
}

func (w *WorkerNode) register(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, w.opts.RPCTimeout)
	defer cancel()
	buf, err := wire.Encode(&pb.RegisterRequest{ID: w.id, Port: w.lis.Addr().(*net.TCPAddr).Port})
	if err != nil {
		return err
	}
	_, err = w.clusterClient.RegisterWorker(ctx, wrapperspb.Bytes(buf))
	return err
}

// registerWithCoordinator retries registration at one second intervals
func (w *WorkerNode) registerWithCoordinator(ctx context.Context) error {
	var err error
	for retries := 0; retries < w.opts.WorkerJoinRetries; retries++ {
		if err = w.register(ctx); err == nil {
			w.logger.Info().Str("coordinator", w.opts.coordinatorConnectionString()).Msg("registered with coordinator")
			return nil
		}
		w.logger.Debug().Err(err).Int("attempt", retries+1).Msg("unable to register with coordinator")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
	return fmt.Errorf("unable to register with coordinator after %d attempts: %w", w.opts.WorkerJoinRetries, err)
}

// ID returns the ID of this worker
func (w *WorkerNode) ID() string {
	return w.id
}

// IsCoordinator returns true for coordinators
func (w *WorkerNode) IsCoordinator() bool {
	return false
}

// Listen binds the Worker to its configured address and dials the Coordinator
func (w *WorkerNode) Listen() error {
	w.lifecycleLock.Lock()
	defer w.lifecycleLock.Unlock()
	if w.lis != nil {
		return fmt.Errorf("worker is already listening on %s", w.lis.Addr())
	}
	if err := w.mconnect(); err != nil {
		return err
	}
	lis, err := net.Listen("tcp", w.opts.connectionString())
	if err != nil {
		w.conn.Close()
		return fmt.Errorf("failed to listen: %w", err)
	}
	w.lis = lis
	w.server = grpc.NewServer()
	pb.RegisterLifecycleServiceServer(w.server, createLifecycleServer(w, w.logger))
	pb.RegisterExecutionServiceServer(w.server, createExecutionServer(w.id, w.opts, w.clusterClient, w.logger))
	return nil
}

// Addr returns the address the Worker is listening on, or nil
func (w *WorkerNode) Addr() net.Addr {
	w.lifecycleLock.Lock()
	defer w.lifecycleLock.Unlock()
	if w.lis == nil {
		return nil
	}
	return w.lis.Addr()
}

// Serve registers with the Coordinator, then blocks serving Work until the Worker is stopped
func (w *WorkerNode) Serve() error {
	w.lifecycleLock.Lock()
	server, lis, conn := w.server, w.lis, w.conn
	w.lifecycleLock.Unlock()
	if server == nil {
		return fmt.Errorf("worker must Listen before it can Serve")
	}
	defer close(w.stopped)
	defer conn.Close()
	// the listener is open, so the coordinator can reach us as soon as we are registered
	if err := w.registerWithCoordinator(context.Background()); err != nil {
		server.Stop()
		lis.Close()
		return err
	}
	w.logger.Info().Str("addr", lis.Addr().String()).Msg("starting worker")
	if err := server.Serve(lis); err != nil {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

// Start the worker - will block the current thread
func (w *WorkerNode) Start() error {
	if err := w.Listen(); err != nil {
		return err
	}
	return w.Serve()
}

// GracefulStop the worker, waiting for RPCs to finish
func (w *WorkerNode) GracefulStop() error {
	w.lifecycleLock.Lock()
	defer w.lifecycleLock.Unlock()
	if w.server != nil {
		w.server.GracefulStop()
	}
	return nil
}

// Stop the worker immediately
func (w *WorkerNode) Stop() error {
	w.lifecycleLock.Lock()
	defer w.lifecycleLock.Unlock()
	if w.server != nil {
		w.server.Stop()
	}
	return nil
}

// Wait blocks until the worker has stopped serving
func (w *WorkerNode) Wait(ctx context.Context) error {
	select {
	case <-w.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package cluster

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/peer"
	"google.golang.org/protobuf/types/known/wrapperspb"

	pb "github.com/go-sif/distiter/internal/rpc"
	"github.com/go-sif/distiter/internal/wire"
)

// workerDescriptor is a registered Worker, and the connection through which it is reached
type workerDescriptor struct {
	ID     string
	Host   string
	Port   int
	conn   *grpc.ClientConn
	client *pb.WorkerClient
}

func (w *workerDescriptor) connectionString() string {
	return net.JoinHostPort(w.Host, fmt.Sprint(w.Port))
}

func dialWorker(w *workerDescriptor) error {
	conn, err := grpc.NewClient(w.connectionString(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("unable to dial worker %s: %w", w.ID, err)
	}
	w.conn = conn
	w.client = pb.NewWorkerClient(conn)
	return nil
}

type clusterServer struct {
	lock       sync.Mutex
	workers    []*workerDescriptor
	numWorkers int
	slots      chan *workerDescriptor // one entry per concurrent Task a Worker will accept
	ready      chan struct{}          // closed once numWorkers have registered
	logger     zerolog.Logger
}

// createClusterServer creates a new cluster server
func createClusterServer(opts *NodeOptions, logger zerolog.Logger) *clusterServer {
	return &clusterServer{
		numWorkers: opts.NumWorkers,
		slots:      make(chan *workerDescriptor, opts.NumWorkers*opts.TasksPerWorker),
		ready:      make(chan struct{}),
		logger:     logger,
	}
}

// RegisterWorker registers new workers with the cluster
func (s *clusterServer) RegisterWorker(ctx context.Context, req *wrapperspb.BytesValue) (*wrapperspb.Int64Value, error) {
	var reg pb.RegisterRequest
	if err := wire.Decode(req.GetValue(), &reg); err != nil {
		return nil, err
	}
	p, ok := peer.FromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("unable to fetch peer data for connecting worker %s", reg.ID)
	}
	tcpAddr, ok := p.Addr.(*net.TCPAddr)
	if !ok {
		return nil, fmt.Errorf("connecting worker %s is not using TCP", reg.ID)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	for _, w := range s.workers {
		if w.ID == reg.ID {
			return nil, fmt.Errorf("worker %s is already registered", reg.ID)
		}
	}
	if len(s.workers) >= s.numWorkers {
		return nil, fmt.Errorf("cluster already has %d workers", s.numWorkers)
	}
	w := &workerDescriptor{ID: reg.ID, Host: tcpAddr.IP.String(), Port: reg.Port}
	if err := dialWorker(w); err != nil {
		return nil, err
	}
	s.workers = append(s.workers, w)
	// each worker contributes TasksPerWorker slots
	perWorker := cap(s.slots) / s.numWorkers
	for i := 0; i < perWorker; i++ {
		s.slots <- w
	}
	s.logger.Info().Str("worker", w.ID).Str("addr", w.connectionString()).Msg("registered worker")
	if len(s.workers) == s.numWorkers {
		close(s.ready)
	}
	return wrapperspb.Int64(time.Now().Unix()), nil
}

// NumberOfWorkers returns the current worker count
func (s *clusterServer) NumberOfWorkers() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.workers)
}

// Workers retrieves a snapshot of the registered workers
func (s *clusterServer) Workers() []*workerDescriptor {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]*workerDescriptor(nil), s.workers...)
}

func (s *clusterServer) waitForWorkers(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%d of %d workers joined: %w", s.NumberOfWorkers(), s.numWorkers, ctx.Err())
	}
}

// acquire reserves a slot on some Worker, blocking until one is free
func (s *clusterServer) acquire(ctx context.Context) (*workerDescriptor, error) {
	select {
	case w := <-s.slots:
		return w, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *clusterServer) release(w *workerDescriptor) {
	s.slots <- w
}

func (s *clusterServer) closeConnections() {
	s.lock.Lock()
	defer s.lock.Unlock()
	for _, w := range s.workers {
		if w.conn != nil {
			w.conn.Close()
		}
	}
}

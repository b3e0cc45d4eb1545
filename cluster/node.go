package cluster

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/go-sif/distiter/internal/wire"
)

// NodeRole describes the intended role of a Node
type NodeRole = string

const (
	// Coordinator indicates that a node should coordinate work
	//   e.g. CreateNodeInRole(Coordinator, &NodeOptions{...})
	Coordinator NodeRole = "coordinator"
	// Worker indicates that a node should perform work
	//   e.g. CreateNodeInRole(Worker, &NodeOptions{...})
	Worker NodeRole = "worker"
)

// NodeTypeEnv is the environment variable from which CreateNode derives a Node's role
const NodeTypeEnv = "DISTITER_NODE_TYPE"

// DefaultPort is the port a Node binds to when none is configured
const DefaultPort = 1643

// EphemeralPort asks a Node to bind to any free port (see Node.Addr)
const EphemeralPort = -1

// Node is a member of a distiter cluster, either coordinating or performing work.
// Nodes present several methods to control their lifecycle.
type Node interface {
	IsCoordinator() bool
	// Listen binds this Node to its configured address, without serving
	Listen() error
	// Addr returns the address this Node is bound to, once listening
	Addr() net.Addr
	// Serve blocks, serving RPCs, until the Node is stopped
	Serve() error
	// Start is Listen followed by Serve
	Start() error
	GracefulStop() error
	Stop() error
}

// NodeOptions are options for a Node, configuring elements of a distiter cluster
type NodeOptions struct {
	Port              int           `mapstructure:"port" validate:"gte=-1,lte=65535"`                // port for this Node to bind to
	Host              string        `mapstructure:"host"`                                            // hostname for this Node to bind to
	CoordinatorPort   int           `mapstructure:"coordinator_port" validate:"gte=0,lte=65535"`     // port for the Coordinator Node (potentially identical to Port if this is the Coordinator)
	CoordinatorHost   string        `mapstructure:"coordinator_host" validate:"required"`            // [REQUIRED] hostname of the Coordinator Node (potentially identical to Host if this is the Coordinator)
	NumWorkers        int           `mapstructure:"num_workers" validate:"gt=0"`                     // [REQUIRED] the number of Workers to wait for before running Work
	TasksPerWorker    int           `mapstructure:"tasks_per_worker" validate:"gte=0"`               // how many Tasks each Worker runs concurrently
	WorkerJoinTimeout time.Duration `mapstructure:"worker_join_timeout" validate:"gte=0"`            // how long the Coordinator should wait for Workers to join
	WorkerJoinRetries int           `mapstructure:"worker_join_retries" validate:"gte=0"`            // how many times a Worker should retry connecting to the Coordinator (at one second intervals)
	RPCTimeout        time.Duration `mapstructure:"rpc_timeout" validate:"gte=0"`                    // timeout for lifecycle RPC calls
	TaskTimeout       time.Duration `mapstructure:"task_timeout" validate:"gte=0"`                   // upper bound on the runtime of a single Task on a Worker, or 0 for none
	Compression       string        `mapstructure:"compression" validate:"omitempty,oneof=lz4 zstd"` // compression applied to Work and partial results in transit
	LogLevel          string        `mapstructure:"log_level" validate:"omitempty,oneof=trace debug info warn error fatal"`
	LogFormat         string        `mapstructure:"log_format" validate:"omitempty,oneof=json console"`
}

// CloneNodeOptions makes a copy of a NodeOptions
func CloneNodeOptions(opts *NodeOptions) *NodeOptions {
	clone := *opts
	return &clone
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ensureDefaultNodeOptionsValues rejects options missing required values, then defaults the rest
func ensureDefaultNodeOptionsValues(opts *NodeOptions) error {
	if opts == nil {
		return fmt.Errorf("NodeOptions cannot be nil")
	}
	if err := getValidator().Struct(opts); err != nil {
		return fmt.Errorf("invalid NodeOptions: %w", err)
	}
	if opts.Port == 0 {
		opts.Port = DefaultPort
	}
	if len(opts.Host) == 0 {
		opts.Host = "0.0.0.0"
	}
	if opts.CoordinatorPort == 0 {
		opts.CoordinatorPort = DefaultPort
	}
	if opts.TasksPerWorker == 0 {
		opts.TasksPerWorker = 1
	}
	if opts.RPCTimeout == 0 {
		opts.RPCTimeout = 5 * time.Second
	}
	if opts.WorkerJoinTimeout == 0 {
		opts.WorkerJoinTimeout = 5 * time.Second
	}
	if opts.WorkerJoinRetries == 0 {
		opts.WorkerJoinRetries = 5
	}
	if len(opts.Compression) == 0 {
		opts.Compression = "lz4"
	}
	return nil
}

func (o *NodeOptions) compression() wire.Compression {
	return compressionOf(o.Compression)
}

// compressionOf maps "zstd" to Zstd, and anything else to the LZ4 default
func compressionOf(name string) wire.Compression {
	if name == "zstd" {
		return wire.Zstd
	}
	return wire.LZ4
}

// connectionString returns the connection string for this node
func (o *NodeOptions) connectionString() string {
	port := o.Port
	if port == EphemeralPort {
		port = 0
	}
	return net.JoinHostPort(o.Host, strconv.Itoa(port))
}

// coordinatorConnectionString returns the connection string for the coordinator
func (o *NodeOptions) coordinatorConnectionString() string {
	return net.JoinHostPort(o.CoordinatorHost, strconv.Itoa(o.CoordinatorPort))
}

// CreateNodeInRole creates a distiter node in a specific role (Coordinator or Worker)
func CreateNodeInRole(role NodeRole, opts *NodeOptions) (Node, error) {
	switch role {
	case Coordinator:
		return CreateCoordinator(opts)
	case Worker:
		return CreateWorker(opts)
	default:
		return nil, fmt.Errorf("%s is an unknown NodeRole", role)
	}
}

// CreateNode creates a distiter node, deriving its role from $DISTITER_NODE_TYPE
func CreateNode(opts *NodeOptions) (Node, error) {
	role := os.Getenv(NodeTypeEnv)
	if len(role) == 0 {
		return nil, fmt.Errorf("$%s is not set - must be \"%s\" or \"%s\"", NodeTypeEnv, Coordinator, Worker)
	}
	switch role {
	case Coordinator, Worker:
		return CreateNodeInRole(role, opts)
	default:
		return nil, fmt.Errorf("$%s=\"%s\" is an unknown NodeRole", NodeTypeEnv, role)
	}
}

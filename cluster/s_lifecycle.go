package cluster

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type lifecycleServer struct {
	node   Node
	logger zerolog.Logger
}

// createLifecycleServer creates a new lifecycleServer
func createLifecycleServer(node Node, logger zerolog.Logger) *lifecycleServer {
	return &lifecycleServer{node: node, logger: logger}
}

// Stop shuts the node down gracefully, once this RPC has returned
func (s *lifecycleServer) Stop(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.Int64Value, error) {
	s.logger.Info().Str("worker", req.GetValue()).Msg("received request to stop")
	// GracefulStop waits for open RPCs, including this one
	go s.node.GracefulStop()
	return wrapperspb.Int64(time.Now().Unix()), nil
}

package cluster

import (
	"context"

	"github.com/rs/zerolog"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	pb "github.com/go-sif/distiter/internal/rpc"
	"github.com/go-sif/distiter/internal/wire"
	"github.com/go-sif/distiter/logging"
)

type logServer struct {
	logger zerolog.Logger
}

// createLogServer creates a log server
func createLogServer(logger zerolog.Logger) *logServer {
	return &logServer{logger: logger}
}

// Log messages coming from workers to the coordinator's log
func (s *logServer) Log(ctx context.Context, req *wrapperspb.BytesValue) (*emptypb.Empty, error) {
	var msg pb.LogMessage
	if err := wire.Decode(req.GetValue(), &msg); err != nil {
		return nil, err
	}
	s.logger.WithLevel(logging.ToZerologLevel(msg.Level)).Str("worker", msg.Source).Msg(msg.Message)
	return &emptypb.Empty{}, nil
}

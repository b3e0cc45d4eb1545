package cluster

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/go-sif/distiter"
	pb "github.com/go-sif/distiter/internal/rpc"
	"github.com/go-sif/distiter/internal/wire"
	"github.com/go-sif/distiter/logging"
)

type executionServer struct {
	workerID  string
	opts      *NodeOptions
	running   *semaphore.Weighted
	logClient *pb.CoordinatorClient
	logger    zerolog.Logger
}

// createExecutionServer creates a new execution server
func createExecutionServer(workerID string, opts *NodeOptions, logClient *pb.CoordinatorClient, logger zerolog.Logger) *executionServer {
	return &executionServer{
		workerID:  workerID,
		opts:      opts,
		running:   semaphore.NewWeighted(int64(opts.TasksPerWorker)),
		logClient: logClient,
		logger:    logger,
	}
}

// Execute runs a single unit of Work on this Worker. Failures of the Work
// itself are returned inside the response; only failures of the exchange are RPC errors.
func (s *executionServer) Execute(ctx context.Context, req *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	var in pb.ExecuteRequest
	if err := wire.Decode(req.GetValue(), &in); err != nil {
		return nil, fmt.Errorf("unable to decode work: %w", err)
	}
	if in.Work == nil {
		return nil, fmt.Errorf("request carried no work")
	}
	if err := s.running.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.running.Release(1)
	if s.opts.TaskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.TaskTimeout)
		defer cancel()
	}
	s.logger.Debug().Str("work", in.Work.ID()).Msg("running task")
	partial, err := in.Work.Run(ctx)
	var out pb.ExecuteResponse
	if err != nil {
		s.forwardLog(ctx, logging.ErrorLevel, fmt.Sprintf("task %s failed: %s", in.Work.ID(), err))
		out.Result = distiter.Err[any](err)
	} else {
		out.Result = distiter.Ok[any](partial)
	}
	buf, err := wire.EncodeWith(s.opts.compression(), &out)
	if err != nil {
		return nil, fmt.Errorf("unable to encode result of task %s: %w", in.Work.ID(), err)
	}
	return wrapperspb.Bytes(buf), nil
}

// forwardLog reports a message to the coordinator's log, falling back to the local log
func (s *executionServer) forwardLog(ctx context.Context, level int, message string) {
	s.logger.WithLevel(logging.ToZerologLevel(level)).Msg(message)
	if s.logClient == nil {
		return
	}
	buf, err := wire.Encode(&pb.LogMessage{Level: level, Source: s.workerID, Message: message})
	if err != nil {
		return
	}
	rpcCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.RPCTimeout)
	defer cancel()
	if _, err := s.logClient.Log(rpcCtx, wrapperspb.Bytes(buf)); err != nil {
		s.logger.Warn().Err(err).Msg("unable to forward log message to coordinator")
	}
}

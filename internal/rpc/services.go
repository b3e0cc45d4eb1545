package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	registerWorkerMethod = "/distiter.ClusterService/RegisterWorker"
	logMethod            = "/distiter.LogService/Log"
	executeMethod        = "/distiter.ExecutionService/Execute"
	stopMethod           = "/distiter.LifecycleService/Stop"
)

// ClusterServiceServer is served by the coordinator
type ClusterServiceServer interface {
	// RegisterWorker accepts a framed RegisterRequest, returning the coordinator's clock in unix seconds
	RegisterWorker(context.Context, *wrapperspb.BytesValue) (*wrapperspb.Int64Value, error)
}

// LogServiceServer is served by the coordinator
type LogServiceServer interface {
	// Log accepts a framed LogMessage
	Log(context.Context, *wrapperspb.BytesValue) (*emptypb.Empty, error)
}

// ExecutionServiceServer is served by workers
type ExecutionServiceServer interface {
	// Execute accepts a framed ExecuteRequest, returning a framed ExecuteResponse
	Execute(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
}

// LifecycleServiceServer is served by workers
type LifecycleServiceServer interface {
	// Stop accepts the ID of the worker being stopped, returning its clock in unix seconds
	Stop(context.Context, *wrapperspb.StringValue) (*wrapperspb.Int64Value, error)
}

func unaryHandler[Req any, Res any](fullMethod string, newReq func() *Req, call func(srv interface{}, ctx context.Context, req *Req) (Res, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv, ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var clusterServiceDesc = grpc.ServiceDesc{
	ServiceName: "distiter.ClusterService",
	HandlerType: (*ClusterServiceServer)(nil),
	Methods: []grpc.MethodDesc{{
		MethodName: "RegisterWorker",
		Handler: unaryHandler(registerWorkerMethod, func() *wrapperspb.BytesValue { return new(wrapperspb.BytesValue) },
			func(srv interface{}, ctx context.Context, req *wrapperspb.BytesValue) (*wrapperspb.Int64Value, error) {
				return srv.(ClusterServiceServer).RegisterWorker(ctx, req)
			}),
	}},
}

var logServiceDesc = grpc.ServiceDesc{
	ServiceName: "distiter.LogService",
	HandlerType: (*LogServiceServer)(nil),
	Methods: []grpc.MethodDesc{{
		MethodName: "Log",
		Handler: unaryHandler(logMethod, func() *wrapperspb.BytesValue { return new(wrapperspb.BytesValue) },
			func(srv interface{}, ctx context.Context, req *wrapperspb.BytesValue) (*emptypb.Empty, error) {
				return srv.(LogServiceServer).Log(ctx, req)
			}),
	}},
}

var executionServiceDesc = grpc.ServiceDesc{
	ServiceName: "distiter.ExecutionService",
	HandlerType: (*ExecutionServiceServer)(nil),
	Methods: []grpc.MethodDesc{{
		MethodName: "Execute",
		Handler: unaryHandler(executeMethod, func() *wrapperspb.BytesValue { return new(wrapperspb.BytesValue) },
			func(srv interface{}, ctx context.Context, req *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
				return srv.(ExecutionServiceServer).Execute(ctx, req)
			}),
	}},
}

var lifecycleServiceDesc = grpc.ServiceDesc{
	ServiceName: "distiter.LifecycleService",
	HandlerType: (*LifecycleServiceServer)(nil),
	Methods: []grpc.MethodDesc{{
		MethodName: "Stop",
		Handler: unaryHandler(stopMethod, func() *wrapperspb.StringValue { return new(wrapperspb.StringValue) },
			func(srv interface{}, ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.Int64Value, error) {
				return srv.(LifecycleServiceServer).Stop(ctx, req)
			}),
	}},
}

// RegisterClusterServiceServer registers srv with s
func RegisterClusterServiceServer(s grpc.ServiceRegistrar, srv ClusterServiceServer) {
	s.RegisterService(&clusterServiceDesc, srv)
}

// RegisterLogServiceServer registers srv with s
func RegisterLogServiceServer(s grpc.ServiceRegistrar, srv LogServiceServer) {
	s.RegisterService(&logServiceDesc, srv)
}

// RegisterExecutionServiceServer registers srv with s
func RegisterExecutionServiceServer(s grpc.ServiceRegistrar, srv ExecutionServiceServer) {
	s.RegisterService(&executionServiceDesc, srv)
}

// RegisterLifecycleServiceServer registers srv with s
func RegisterLifecycleServiceServer(s grpc.ServiceRegistrar, srv LifecycleServiceServer) {
	s.RegisterService(&lifecycleServiceDesc, srv)
}

// CoordinatorClient calls the services served by a coordinator
type CoordinatorClient struct {
	cc grpc.ClientConnInterface
}

// NewCoordinatorClient creates a CoordinatorClient
func NewCoordinatorClient(cc grpc.ClientConnInterface) *CoordinatorClient {
	return &CoordinatorClient{cc: cc}
}

// RegisterWorker calls ClusterService.RegisterWorker
func (c *CoordinatorClient) RegisterWorker(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.Int64Value, error) {
	out := new(wrapperspb.Int64Value)
	if err := c.cc.Invoke(ctx, registerWorkerMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Log calls LogService.Log
func (c *CoordinatorClient) Log(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, logMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// WorkerClient calls the services served by a worker
type WorkerClient struct {
	cc grpc.ClientConnInterface
}

// NewWorkerClient creates a WorkerClient
func NewWorkerClient(cc grpc.ClientConnInterface) *WorkerClient {
	return &WorkerClient{cc: cc}
}

// Execute calls ExecutionService.Execute
func (c *WorkerClient) Execute(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, executeMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Stop calls LifecycleService.Stop
func (c *WorkerClient) Stop(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.Int64Value, error) {
	out := new(wrapperspb.Int64Value)
	if err := c.cc.Invoke(ctx, stopMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

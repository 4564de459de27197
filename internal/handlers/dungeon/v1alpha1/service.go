// Package v1alpha1 handles the grpc service interface.
//
// RunService has no generated stubs: every method takes and returns a
// google.protobuf.Struct whose fields mirror the JSON documented on each
// handler method.
package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "dungeon.api.v1alpha1.RunService"

// Method names
const (
	MethodStartRun       = "StartRun"
	MethodStep           = "Step"
	MethodAutoplay       = "Autoplay"
	MethodAbortRun       = "AbortRun"
	MethodGetRun         = "GetRun"
	MethodListRuns       = "ListRuns"
	MethodGetProgression = "GetProgression"
	MethodListUnlocks    = "ListUnlocks"
	MethodPurchaseUnlock = "PurchaseUnlock"
	MethodResetProfile   = "ResetProfile"
)

// RunServiceServer is the server API for RunService
type RunServiceServer interface {
	StartRun(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Step(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Autoplay(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AbortRun(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetRun(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListRuns(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetProgression(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListUnlocks(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PurchaseUnlock(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ResetProfile(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(RunServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func method(name string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(RunServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(name),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(RunServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// RunServiceDesc is the grpc.ServiceDesc for RunService
var RunServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RunServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		method(MethodStartRun, RunServiceServer.StartRun),
		method(MethodStep, RunServiceServer.Step),
		method(MethodAutoplay, RunServiceServer.Autoplay),
		method(MethodAbortRun, RunServiceServer.AbortRun),
		method(MethodGetRun, RunServiceServer.GetRun),
		method(MethodListRuns, RunServiceServer.ListRuns),
		method(MethodGetProgression, RunServiceServer.GetProgression),
		method(MethodListUnlocks, RunServiceServer.ListUnlocks),
		method(MethodPurchaseUnlock, RunServiceServer.PurchaseUnlock),
		method(MethodResetProfile, RunServiceServer.ResetProfile),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dungeon/api/v1alpha1/run.proto",
}

// RegisterRunServiceServer registers srv with s
func RegisterRunServiceServer(s grpc.ServiceRegistrar, srv RunServiceServer) {
	s.RegisterService(&RunServiceDesc, srv)
}

// FullMethod returns the gRPC path of a RunService method
func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// Call invokes a RunService method over conn
func Call(ctx context.Context, conn grpc.ClientConnInterface, name string, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if req == nil {
		req = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := conn.Invoke(ctx, FullMethod(name), req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

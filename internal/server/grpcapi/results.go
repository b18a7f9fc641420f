// Package grpcapi declares the owltest.v1.ResultsService gRPC service. Its
// messages are protobuf well-known types, so no generated code is needed.
package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "owltest.v1.ResultsService"

const (
	GetServerInfoMethod    = "/" + ServiceName + "/GetServerInfo"
	ListResultsMethod      = "/" + ServiceName + "/ListResults"
	GetResultMethod        = "/" + ServiceName + "/GetResult"
	RenderResultPageMethod = "/" + ServiceName + "/RenderResultPage"
)

// ResultsServiceServer is implemented by the server. Struct responses carry
// the same JSON objects the HTTP API returns.
type ResultsServiceServer interface {
	GetServerInfo(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ListResults(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetResult(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	RenderResultPage(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
}

type UnimplementedResultsServiceServer struct{}

func (UnimplementedResultsServiceServer) GetServerInfo(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetServerInfo not implemented")
}

func (UnimplementedResultsServiceServer) ListResults(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ListResults not implemented")
}

func (UnimplementedResultsServiceServer) GetResult(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetResult not implemented")
}

func (UnimplementedResultsServiceServer) RenderResultPage(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method RenderResultPage not implemented")
}

func RegisterResultsServiceServer(s grpc.ServiceRegistrar, srv ResultsServiceServer) {
	s.RegisterService(&ResultsServiceDesc, srv)
}

var ResultsServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ResultsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetServerInfo", Handler: getServerInfoHandler},
		{MethodName: "ListResults", Handler: listResultsHandler},
		{MethodName: "GetResult", Handler: getResultHandler},
		{MethodName: "RenderResultPage", Handler: renderResultPageHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "owltest/v1/results.proto",
}

func getServerInfoHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ResultsServiceServer).GetServerInfo(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetServerInfoMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ResultsServiceServer).GetServerInfo(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func listResultsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ResultsServiceServer).ListResults(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ListResultsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ResultsServiceServer).ListResults(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func getResultHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ResultsServiceServer).GetResult(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetResultMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ResultsServiceServer).GetResult(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func renderResultPageHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ResultsServiceServer).RenderResultPage(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RenderResultPageMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ResultsServiceServer).RenderResultPage(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

type ResultsServiceClient interface {
	GetServerInfo(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListResults(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetResult(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	RenderResultPage(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
}

type resultsServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewResultsServiceClient(cc grpc.ClientConnInterface) ResultsServiceClient {
	return &resultsServiceClient{cc: cc}
}

func (c *resultsServiceClient) GetServerInfo(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetServerInfoMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *resultsServiceClient) ListResults(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ListResultsMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *resultsServiceClient) GetResult(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetResultMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *resultsServiceClient) RenderResultPage(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, RenderResultPageMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

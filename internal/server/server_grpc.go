package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/izzyreal/owltest/internal/server/grpcapi"
)

// resultsGRPCServer answers gRPC calls by replaying them against the HTTP
// router, so both transports share one implementation.
type resultsGRPCServer struct {
	grpcapi.UnimplementedResultsServiceServer
	router http.Handler
}

func newResultsGRPCServer(router http.Handler) *resultsGRPCServer {
	return &resultsGRPCServer{router: router}
}

func (g *resultsGRPCServer) GetServerInfo(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	resp := &structpb.Struct{}
	if err := g.invokeAndDecodeJSON(ctx, http.MethodGet, "/api/v1/server-info", resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (g *resultsGRPCServer) ListResults(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	resp := &structpb.Struct{}
	if err := g.invokeAndDecodeJSON(ctx, http.MethodGet, "/api/v1/results", resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (g *resultsGRPCServer) GetResult(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	id := strings.TrimSpace(req.GetValue())
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "result id is required")
	}
	resp := &structpb.Struct{}
	if err := g.invokeAndDecodeJSON(ctx, http.MethodGet, "/api/v1/results/"+url.PathEscape(id), resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (g *resultsGRPCServer) RenderResultPage(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	id := strings.TrimSpace(req.GetValue())
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "result id is required")
	}
	raw, err := g.invoke(ctx, http.MethodGet, "/results/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	return wrapperspb.String(string(raw)), nil
}

func (g *resultsGRPCServer) invokeAndDecodeJSON(ctx context.Context, method, targetPath string, out proto.Message) error {
	raw, err := g.invoke(ctx, method, targetPath)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := (protojson.UnmarshalOptions{DiscardUnknown: true}).Unmarshal(raw, out); err != nil {
		return status.Errorf(codes.Internal, "decode JSON response: %v", err)
	}
	return nil
}

func (g *resultsGRPCServer) invoke(ctx context.Context, method, targetPath string) ([]byte, error) {
	if g == nil || g.router == nil {
		return nil, status.Error(codes.Internal, "gRPC bridge is not initialized")
	}

	req := httptest.NewRequest(method, targetPath, nil).WithContext(ctx)
	w := httptest.NewRecorder()
	g.router.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	rawBody, _ := io.ReadAll(resp.Body)
	trimmed := strings.TrimSpace(string(rawBody))
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		if trimmed == "" {
			trimmed = http.StatusText(resp.StatusCode)
		}
		return nil, status.Errorf(httpStatusToGRPCCode(resp.StatusCode), "http %d: %s", resp.StatusCode, trimmed)
	}
	return rawBody, nil
}

func httpStatusToGRPCCode(statusCode int) codes.Code {
	switch statusCode {
	case http.StatusBadRequest:
		return codes.InvalidArgument
	case http.StatusNotFound:
		return codes.NotFound
	case http.StatusConflict:
		return codes.FailedPrecondition
	case http.StatusTooManyRequests:
		return codes.ResourceExhausted
	case http.StatusMethodNotAllowed:
		return codes.Unimplemented
	default:
		if statusCode >= 500 {
			return codes.Internal
		}
		return codes.Unknown
	}
}

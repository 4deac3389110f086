// movie-catalog/internal/grpc/service_desc.go
package grpc

import (
	"context"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Full method names of the catalog.v1.CatalogLookup service.
const (
	ServiceName          = "catalog.v1.CatalogLookup"
	DirectorExistsMethod = "/" + ServiceName + "/DirectorExists"
	MovieExistsMethod    = "/" + ServiceName + "/MovieExists"
	MovieRatingMethod    = "/" + ServiceName + "/MovieRating"
)

// LookupServer answers cross-service existence and rating questions.
// Requests carry the entity id as a StringValue.
type LookupServer interface {
	DirectorExists(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
	MovieExists(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
	MovieRating(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.DoubleValue, error)
}

// RegisterLookupServer attaches srv to a gRPC server.
func RegisterLookupServer(s gogrpc.ServiceRegistrar, srv LookupServer) {
	s.RegisterService(&lookupServiceDesc, srv)
}

func unaryHandler[Resp any](method string, call func(LookupServer, context.Context, *wrapperspb.StringValue) (Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor gogrpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor gogrpc.UnaryServerInterceptor) (any, error) {
		in := new(wrapperspb.StringValue)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(LookupServer), ctx, in)
		}
		info := &gogrpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(LookupServer), ctx, req.(*wrapperspb.StringValue))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var lookupServiceDesc = gogrpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LookupServer)(nil),
	Methods: []gogrpc.MethodDesc{
		{MethodName: "DirectorExists", Handler: unaryHandler(DirectorExistsMethod, LookupServer.DirectorExists)},
		{MethodName: "MovieExists", Handler: unaryHandler(MovieExistsMethod, LookupServer.MovieExists)},
		{MethodName: "MovieRating", Handler: unaryHandler(MovieRatingMethod, LookupServer.MovieRating)},
	},
	Streams:  []gogrpc.StreamDesc{},
	Metadata: "catalog/v1/lookup.proto",
}

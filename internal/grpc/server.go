// movie-catalog/internal/grpc/server.go
package grpc

import (
	"context"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"movie-catalog/internal/domain"
)

// Backend is the slice of the store the lookup service reads.
type Backend interface {
	Exists(ctx context.Context, kind domain.Kind, id string) (bool, error)
	AggregatedRating(ctx context.Context, movieID string) (*domain.AggregatedRating, error)
}

// Server implements LookupServer over the catalog store.
type Server struct {
	backend Backend
	logger  *slog.Logger
}

func NewServer(backend Backend, logger *slog.Logger) *Server {
	return &Server{backend: backend, logger: logger}
}

func (s *Server) exists(ctx context.Context, kind domain.Kind, id string) (*wrapperspb.BoolValue, error) {
	if id == "" {
		s.logger.WarnContext(ctx, "gRPC existence check called with empty id", slog.String("kind", kind.String()))
		return nil, status.Errorf(codes.InvalidArgument, "%s id cannot be empty", kind)
	}
	ok, err := s.backend.Exists(ctx, kind, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to check entity existence", slog.String("kind", kind.String()), slog.String("id", id), slog.String("error", err.Error()))
		return nil, status.Errorf(codes.Internal, "failed to check %s existence: %v", kind, err)
	}
	s.logger.DebugContext(ctx, "gRPC existence check", slog.String("kind", kind.String()), slog.String("id", id), slog.Bool("exists", ok))
	return wrapperspb.Bool(ok), nil
}

func (s *Server) DirectorExists(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	return s.exists(ctx, domain.KindDirector, req.GetValue())
}

func (s *Server) MovieExists(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	return s.exists(ctx, domain.KindMovie, req.GetValue())
}

// MovieRating returns the mean rating. NotFound covers both a missing movie and a movie with no reviews.
func (s *Server) MovieRating(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.DoubleValue, error) {
	id := req.GetValue()
	found, err := s.exists(ctx, domain.KindMovie, id)
	if err != nil {
		return nil, err
	}
	if !found.GetValue() {
		return nil, status.Errorf(codes.NotFound, "movie not found with ID %s", id)
	}
	agg, err := s.backend.AggregatedRating(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to aggregate rating", slog.String("movieID", id), slog.String("error", err.Error()))
		return nil, status.Errorf(codes.Internal, "failed to aggregate rating: %v", err)
	}
	if agg.RatingCount == 0 {
		return nil, status.Errorf(codes.NotFound, "movie %s has no reviews", id)
	}
	return wrapperspb.Double(agg.AverageRating), nil
}

var _ LookupServer = (*Server)(nil)

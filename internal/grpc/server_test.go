package grpc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"movie-catalog/internal/domain"
)

type fakeBackend struct {
	entities map[domain.Kind]map[string]bool
	ratings  map[string]domain.AggregatedRating
	err      error
}

func (f *fakeBackend) Exists(_ context.Context, kind domain.Kind, id string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.entities[kind][id], nil
}

func (f *fakeBackend) AggregatedRating(_ context.Context, movieID string) (*domain.AggregatedRating, error) {
	agg := f.ratings[movieID]
	agg.MovieID = movieID
	return &agg, nil
}

func dial(t *testing.T, backend Backend) *gogrpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := gogrpc.NewServer()
	RegisterLookupServer(srv, NewServer(backend, slog.New(slog.NewTextHandler(io.Discard, nil))))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := gogrpc.NewClient("passthrough:///bufnet",
		gogrpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func seeded() *fakeBackend {
	return &fakeBackend{
		entities: map[domain.Kind]map[string]bool{
			domain.KindDirector: {"d1": true},
			domain.KindMovie:    {"m1": true, "m2": true},
		},
		ratings: map[string]domain.AggregatedRating{"m1": {AverageRating: 6.5, RatingCount: 2}},
	}
}

func TestExistenceMethods(t *testing.T) {
	conn := dial(t, seeded())
	ctx := context.Background()

	tests := []struct {
		method string
		id     string
		want   bool
	}{
		{DirectorExistsMethod, "d1", true},
		{DirectorExistsMethod, "m1", false},
		{MovieExistsMethod, "m1", true},
		{MovieExistsMethod, "ghost", false},
	}
	for _, tt := range tests {
		t.Run(tt.method+"/"+tt.id, func(t *testing.T) {
			out := new(wrapperspb.BoolValue)
			require.NoError(t, conn.Invoke(ctx, tt.method, wrapperspb.String(tt.id), out))
			assert.Equal(t, tt.want, out.GetValue())
		})
	}
}

func TestExistenceRejectsEmptyID(t *testing.T) {
	conn := dial(t, seeded())
	err := conn.Invoke(context.Background(), MovieExistsMethod, wrapperspb.String(""), new(wrapperspb.BoolValue))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestExistenceBackendFailureIsInternal(t *testing.T) {
	conn := dial(t, &fakeBackend{err: errors.New("db down")})
	err := conn.Invoke(context.Background(), DirectorExistsMethod, wrapperspb.String("d1"), new(wrapperspb.BoolValue))
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestMovieRating(t *testing.T) {
	conn := dial(t, seeded())
	ctx := context.Background()

	out := new(wrapperspb.DoubleValue)
	require.NoError(t, conn.Invoke(ctx, MovieRatingMethod, wrapperspb.String("m1"), out))
	assert.Equal(t, 6.5, out.GetValue())

	err := conn.Invoke(ctx, MovieRatingMethod, wrapperspb.String("m2"), new(wrapperspb.DoubleValue))
	assert.Equal(t, codes.NotFound, status.Code(err), "movie without reviews")

	err = conn.Invoke(ctx, MovieRatingMethod, wrapperspb.String("ghost"), new(wrapperspb.DoubleValue))
	assert.Equal(t, codes.NotFound, status.Code(err), "missing movie")
}

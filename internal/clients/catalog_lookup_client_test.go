package clients

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	"movie-catalog/internal/catalog"
	"movie-catalog/internal/domain"
	lookup "movie-catalog/internal/grpc"
	"movie-catalog/internal/store"
)

func TestCatalogLookupClientBacksIntegrityValidator(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st := store.NewMemoryStore(logger)
	require.NoError(t, st.CreateDirector(ctx, &domain.Director{ID: "d1", Name: "Bergman", BirthYear: 1918, Country: "Sweden"}))
	require.NoError(t, st.CreateMovie(ctx, &domain.Movie{ID: "m1", Title: "Persona", Genre: "Drama", ReleaseYear: 1966, DirectorID: "d1"}))

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	lookup.RegisterLookupServer(srv, lookup.NewServer(st, logger))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	client, err := NewCatalogLookupClient("passthrough:///bufnet", time.Second, logger,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
	)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	ok, err := client.Exists(ctx, domain.KindDirector, "d1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.Exists(ctx, domain.KindMovie, "ghost")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = client.Exists(ctx, domain.KindReview, "r1")
	assert.Error(t, err)

	integrity := catalog.NewIntegrityValidator(client, logger)
	assert.NoError(t, integrity.Require(ctx, domain.KindMovie, "m1"))
	assert.ErrorIs(t, integrity.Require(ctx, domain.KindMovie, "ghost"), domain.ErrReferenceNotFound)
}

func TestCatalogLookupClientSurfacesTransportErrors(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	lis := bufconn.Listen(1 << 20)
	lis.Close()

	client, err := NewCatalogLookupClient("passthrough:///bufnet", 200*time.Millisecond, logger,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
	)
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Exists(context.Background(), domain.KindMovie, "m1")
	assert.Error(t, err)
}

package catalog

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"movie-catalog/internal/domain"
	"movie-catalog/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

type fixture struct {
	store   *store.MemoryStore
	service *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithLogger(t, discardLogger())
}

func newFixtureWithLogger(t *testing.T, logger *slog.Logger) *fixture {
	t.Helper()
	st := store.NewMemoryStore(logger)
	v, err := NewValidator()
	require.NoError(t, err)
	svc := NewService(st, NewIntegrityValidator(st, logger), NewRatingAggregator(st, logger), v, logger)
	return &fixture{store: st, service: svc}
}

func (f *fixture) director(t *testing.T) *domain.Director {
	t.Helper()
	d, err := f.service.CreateDirector(context.Background(), domain.CreateDirectorRequest{Name: "Hayao Miyazaki", BirthYear: intPtr(1941), Country: "Japan"})
	require.NoError(t, err)
	return d
}

func (f *fixture) movie(t *testing.T, directorID, title string) *domain.Movie {
	t.Helper()
	m, err := f.service.CreateMovie(context.Background(), domain.CreateMovieRequest{
		Title: title, Genre: "Animation", ReleaseYear: intPtr(2001), DirectorID: directorID,
	})
	require.NoError(t, err)
	return m
}

func (f *fixture) review(t *testing.T, movieID string, rating int) {
	t.Helper()
	_, err := f.service.CreateReview(context.Background(), domain.CreateReviewRequest{UserName: "critic", Rating: intPtr(rating), MovieID: movieID})
	require.NoError(t, err)
}

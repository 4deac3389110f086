package store

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-catalog/internal/domain"
	"movie-catalog/internal/paging"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedMemory(t *testing.T) *MemoryStore {
	t.Helper()
	ctx := context.Background()
	s := NewMemoryStore(discardLogger())
	require.NoError(t, s.CreateDirector(ctx, &domain.Director{ID: "d1", Name: "Nolan", BirthYear: 1970, Country: "UK"}))
	for _, m := range []*domain.Movie{
		{ID: "m1", Title: "Tenet", Genre: "Sci-Fi", ReleaseYear: 2020, DirectorID: "d1"},
		{ID: "m2", Title: "Interstellar", Genre: "sci-fi", ReleaseYear: 2014, DirectorID: "d1"},
		{ID: "m3", Title: "Dunkirk", Genre: "War", ReleaseYear: 2017, DirectorID: "d1"},
		{ID: "m4", Title: "inception", Genre: "Sci-Fi", ReleaseYear: 2010, DirectorID: "d1"},
	} {
		require.NoError(t, s.CreateMovie(ctx, m))
	}
	return s
}

func TestMemoryStoreDirectorRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(discardLogger())

	d := &domain.Director{Name: "Agnès Varda", BirthYear: 1928, Country: "France"}
	require.NoError(t, s.CreateDirector(ctx, d))
	require.NotEmpty(t, d.ID)

	got, err := s.GetDirector(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, *d, *got)

	got.Name = "mutated"
	again, err := s.GetDirector(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Agnès Varda", again.Name)

	assert.ErrorIs(t, s.CreateDirector(ctx, &domain.Director{ID: d.ID, Name: "x"}), ErrAlreadyExists)

	_, err = s.GetDirector(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryStoreRejectsDanglingReferences(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(discardLogger())

	err := s.CreateMovie(ctx, &domain.Movie{Title: "Orphan", Genre: "Drama", ReleaseYear: 2000, DirectorID: "nope"})
	assert.ErrorIs(t, err, ErrForeignKey)
	err = s.CreateReview(ctx, &domain.Review{UserName: "bob", Rating: 5, MovieID: "nope"})
	assert.ErrorIs(t, err, ErrForeignKey)

	ok, err := s.Exists(ctx, domain.KindMovie, "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreExists(t *testing.T) {
	ctx := context.Background()
	s := seedMemory(t)

	ok, err := s.Exists(ctx, domain.KindDirector, "d1")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.Exists(ctx, domain.KindMovie, "m2")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.Exists(ctx, domain.Kind("actor"), "x")
	assert.Error(t, err)
}

func TestMemoryStoreListMoviesByGenre(t *testing.T) {
	ctx := context.Background()
	s := seedMemory(t)

	movies, total, err := s.ListMoviesByGenre(ctx, MovieListParams{Genre: "Sci-Fi", Page: paging.Request{Number: 0, Size: 1}})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, movies, 1)
	assert.Equal(t, "m4", movies[0].ID) // inception, case-insensitive title order

	movies, total, err = s.ListMoviesByGenre(ctx, MovieListParams{Genre: "Sci-Fi", Page: paging.Request{Number: 1, Size: 1}})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, movies, 1)
	assert.Equal(t, "m1", movies[0].ID)

	movies, total, err = s.ListMoviesByGenre(ctx, MovieListParams{Genre: "sci-fi", Page: paging.Request{Number: 0, Size: 5}})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, movies, 1)
	assert.Equal(t, "m2", movies[0].ID)

	movies, total, err = s.ListMoviesByGenre(ctx, MovieListParams{Genre: "SCI-FI", Page: paging.Request{Number: 0, Size: 5}})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, movies)

	movies, _, err = s.ListMoviesByGenre(ctx, MovieListParams{
		Genre: "Sci-Fi",
		Page:  paging.Request{Number: 0, Size: 10, Sort: []paging.Sort{paging.Desc("releaseYear")}},
	})
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, []string{"m1", "m4"}, []string{movies[0].ID, movies[1].ID})

	_, _, err = s.ListMoviesByGenre(ctx, MovieListParams{Genre: "sci-fi", Page: paging.Request{Size: 1, Sort: []paging.Sort{paging.Asc("budget")}}})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestMemoryStoreReviewsAndRatings(t *testing.T) {
	ctx := context.Background()
	s := seedMemory(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 12; i++ {
		require.NoError(t, s.CreateReview(ctx, &domain.Review{
			UserName:  "user",
			Rating:    i%10 + 1,
			MovieID:   "m1",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}
	r := &domain.Review{UserName: "late", Rating: 7, MovieID: "m2"}
	require.NoError(t, s.CreateReview(ctx, r))
	assert.False(t, r.CreatedAt.IsZero())

	reviews, total, err := s.ListReviewsByMovie(ctx, ReviewListParams{MovieID: "m1", Page: paging.Request{Number: 0, Size: 5}})
	require.NoError(t, err)
	assert.Equal(t, 12, total)
	require.Len(t, reviews, 5)
	assert.Equal(t, base.Add(11*time.Hour), reviews[0].CreatedAt, "newest first by default")

	reviews, _, err = s.ListReviewsByMovie(ctx, ReviewListParams{MovieID: "m1", Page: paging.Request{Number: 2, Size: 5}})
	require.NoError(t, err)
	assert.Len(t, reviews, 2)

	reviews, total, err = s.ListReviewsByMovie(ctx, ReviewListParams{MovieID: "unknown", Page: paging.Request{Size: 5}})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, reviews)

	agg, err := s.AggregatedRating(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, int64(12), agg.RatingCount)
	assert.InDelta(t, float64(1+2+3+4+5+6+7+8+9+10+1+2)/12, agg.AverageRating, 1e-9)

	agg, err = s.AggregatedRating(ctx, "m3")
	require.NoError(t, err)
	assert.Zero(t, agg.RatingCount)

	samples, err := s.RatingSamples(ctx)
	require.NoError(t, err)
	assert.Len(t, samples, 13)
}

func TestMemoryStoreMoviesByIDsSkipsMissing(t *testing.T) {
	s := seedMemory(t)
	got, err := s.MoviesByIDs(context.Background(), []string{"m1", "ghost", "m3"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Contains(t, got, "m1")
	assert.Contains(t, got, "m3")
	assert.NotContains(t, got, "ghost")
}

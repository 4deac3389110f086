// movie-catalog/internal/store/store.go
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"movie-catalog/internal/domain"
	"movie-catalog/internal/paging"
)

var (
	// ErrAlreadyExists is returned when a create targets an id already in use.
	ErrAlreadyExists = errors.New("entity with this id already exists")
	// ErrForeignKey is returned when the backend itself rejects a dangling reference.
	ErrForeignKey = errors.New("referenced entity missing")
)

// Sortable fields per paged listing.
var (
	MovieSortFields  = []string{"title", "releaseYear"}
	ReviewSortFields = []string{"createdAt", "rating", "userName"}

	DefaultMovieSort  = []paging.Sort{paging.Asc("title")}
	DefaultReviewSort = []paging.Sort{paging.Desc("createdAt")}
)

type MovieListParams struct {
	Genre string
	Page  paging.Request
}

type ReviewListParams struct {
	MovieID string
	Page    paging.Request
}

type DirectorStore interface {
	CreateDirector(ctx context.Context, d *domain.Director) error
	GetDirector(ctx context.Context, id string) (*domain.Director, error)
}

type MovieStore interface {
	CreateMovie(ctx context.Context, m *domain.Movie) error
	GetMovie(ctx context.Context, id string) (*domain.Movie, error)
	// ListMoviesByGenre returns one page of movies and the total match count.
	ListMoviesByGenre(ctx context.Context, params MovieListParams) ([]*domain.Movie, int, error)
	// MoviesByIDs returns the movies that exist among ids. Missing ids are absent from the map.
	MoviesByIDs(ctx context.Context, ids []string) (map[string]*domain.Movie, error)
}

type ReviewStore interface {
	CreateReview(ctx context.Context, r *domain.Review) error
	ListReviewsByMovie(ctx context.Context, params ReviewListParams) ([]*domain.Review, int, error)
	AggregatedRating(ctx context.Context, movieID string) (*domain.AggregatedRating, error)
}

// RatingSource is what the rating aggregator reads: every review's rating
// and the movie records to join back to.
type RatingSource interface {
	RatingSamples(ctx context.Context) ([]domain.RatingSample, error)
	MoviesByIDs(ctx context.Context, ids []string) (map[string]*domain.Movie, error)
}

// RatingRanker is implemented by backends that can group, average, sort,
// page and join in one query. Results must match the in-process ranking.
type RatingRanker interface {
	RankMoviesByRating(ctx context.Context, page paging.Request) ([]*domain.RankedMovie, int, error)
}

// Store is the full persistence contract of the catalog.
type Store interface {
	DirectorStore
	MovieStore
	ReviewStore
	RatingSource
	Exists(ctx context.Context, kind domain.Kind, id string) (bool, error)
}

func assignID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func assignCreatedAt(t *time.Time) {
	if t.IsZero() {
		*t = time.Now().UTC()
	}
}

var (
	_ Store        = (*MemoryStore)(nil)
	_ Store        = (*PostgresStore)(nil)
	_ RatingRanker = (*PostgresStore)(nil)
)

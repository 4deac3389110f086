// movie-catalog/internal/store/memory_store.go
package store

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"movie-catalog/internal/domain"
	"movie-catalog/internal/paging"
)

// MemoryStore keeps every entity in process memory. Values are copied on the
// way in and on the way out so callers never share records with the store.
type MemoryStore struct {
	mu             sync.RWMutex
	directors      map[string]*domain.Director
	movies         map[string]*domain.Movie
	reviews        map[string]*domain.Review
	reviewsByMovie map[string][]*domain.Review
	logger         *slog.Logger
}

func NewMemoryStore(logger *slog.Logger) *MemoryStore {
	return &MemoryStore{
		directors:      make(map[string]*domain.Director),
		movies:         make(map[string]*domain.Movie),
		reviews:        make(map[string]*domain.Review),
		reviewsByMovie: make(map[string][]*domain.Review),
		logger:         logger,
	}
}

func (m *MemoryStore) Exists(ctx context.Context, kind domain.Kind, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.existsLocked(kind, id)
}

func (m *MemoryStore) existsLocked(kind domain.Kind, id string) (bool, error) {
	var ok bool
	switch kind {
	case domain.KindDirector:
		_, ok = m.directors[id]
	case domain.KindMovie:
		_, ok = m.movies[id]
	case domain.KindReview:
		_, ok = m.reviews[id]
	default:
		return false, fmt.Errorf("unknown entity kind %q", kind)
	}
	return ok, nil
}

func (m *MemoryStore) CreateDirector(ctx context.Context, d *domain.Director) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	assignID(&d.ID)
	if _, exists := m.directors[d.ID]; exists {
		return ErrAlreadyExists
	}
	c := *d
	m.directors[d.ID] = &c
	m.logger.DebugContext(ctx, "Director stored", slog.String("directorID", d.ID))
	return nil
}

func (m *MemoryStore) GetDirector(ctx context.Context, id string) (*domain.Director, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.directors[id]
	if !ok {
		m.logger.WarnContext(ctx, "Director not found", slog.String("directorID", id))
		return nil, domain.NewNotFound(domain.KindDirector, id)
	}
	c := *d
	return &c, nil
}

func (m *MemoryStore) CreateMovie(ctx context.Context, mv *domain.Movie) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.directors[mv.DirectorID]; !ok {
		return fmt.Errorf("director %q: %w", mv.DirectorID, ErrForeignKey)
	}
	assignID(&mv.ID)
	if _, exists := m.movies[mv.ID]; exists {
		return ErrAlreadyExists
	}
	c := *mv
	m.movies[mv.ID] = &c
	m.logger.DebugContext(ctx, "Movie stored", slog.String("movieID", mv.ID))
	return nil
}

func (m *MemoryStore) GetMovie(ctx context.Context, id string) (*domain.Movie, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	mv, ok := m.movies[id]
	if !ok {
		m.logger.WarnContext(ctx, "Movie not found", slog.String("movieID", id))
		return nil, domain.NewNotFound(domain.KindMovie, id)
	}
	c := *mv
	return &c, nil
}

func (m *MemoryStore) MoviesByIDs(ctx context.Context, ids []string) (map[string]*domain.Movie, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]*domain.Movie, len(ids))
	for _, id := range ids {
		if mv, ok := m.movies[id]; ok {
			c := *mv
			out[id] = &c
		}
	}
	return out, nil
}

func (m *MemoryStore) ListMoviesByGenre(ctx context.Context, params MovieListParams) ([]*domain.Movie, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.logger.DebugContext(ctx, "Listing movies by genre", slog.String("genre", params.Genre), slog.Int("page", params.Page.Number))

	var matched []domain.Movie
	for _, mv := range m.movies {
		if mv.Genre == params.Genre {
			matched = append(matched, *mv)
		}
	}
	compare, err := movieComparator(params.Page.WithDefaultSort(DefaultMovieSort...).Sort)
	if err != nil {
		return nil, 0, err
	}
	slices.SortFunc(matched, compare)

	page := paging.Slice(matched, params.Page)
	return pointers(page.Items), len(matched), nil
}

func (m *MemoryStore) CreateReview(ctx context.Context, r *domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.movies[r.MovieID]; !ok {
		return fmt.Errorf("movie %q: %w", r.MovieID, ErrForeignKey)
	}
	assignID(&r.ID)
	assignCreatedAt(&r.CreatedAt)
	if _, exists := m.reviews[r.ID]; exists {
		return ErrAlreadyExists
	}
	c := *r
	m.reviews[r.ID] = &c
	m.reviewsByMovie[r.MovieID] = append(m.reviewsByMovie[r.MovieID], &c)
	m.logger.DebugContext(ctx, "Review stored", slog.String("reviewID", r.ID), slog.String("movieID", r.MovieID))
	return nil
}

func (m *MemoryStore) ListReviewsByMovie(ctx context.Context, params ReviewListParams) ([]*domain.Review, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	src := m.reviewsByMovie[params.MovieID]
	matched := make([]domain.Review, len(src))
	for i, r := range src {
		matched[i] = *r
	}
	compare, err := reviewComparator(params.Page.WithDefaultSort(DefaultReviewSort...).Sort)
	if err != nil {
		return nil, 0, err
	}
	slices.SortFunc(matched, compare)

	page := paging.Slice(matched, params.Page)
	return pointers(page.Items), len(matched), nil
}

func (m *MemoryStore) AggregatedRating(ctx context.Context, movieID string) (*domain.AggregatedRating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	g := domain.RatingGroup{MovieID: movieID}
	for _, r := range m.reviewsByMovie[movieID] {
		g.Sum += int64(r.Rating)
		g.Count++
	}
	return &domain.AggregatedRating{MovieID: movieID, AverageRating: g.Mean(), RatingCount: g.Count}, nil
}

func (m *MemoryStore) RatingSamples(ctx context.Context) ([]domain.RatingSample, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.RatingSample, 0, len(m.reviews))
	for _, r := range m.reviews {
		out = append(out, domain.RatingSample{MovieID: r.MovieID, Rating: r.Rating})
	}
	return out, nil
}

func pointers[T any](items []T) []*T {
	out := make([]*T, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out
}

func movieComparator(sorts []paging.Sort) (func(a, b domain.Movie) int, error) {
	keys := make([]func(a, b domain.Movie) int, 0, len(sorts)+1)
	for _, s := range sorts {
		var f func(a, b domain.Movie) int
		switch s.Field {
		case "title":
			f = func(a, b domain.Movie) int { return cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)) }
		case "releaseYear":
			f = func(a, b domain.Movie) int { return cmp.Compare(a.ReleaseYear, b.ReleaseYear) }
		default:
			return nil, domain.NewValidationError("sort", "oneof="+strings.Join(MovieSortFields, " "))
		}
		keys = append(keys, direction(f, s.Descending))
	}
	keys = append(keys, func(a, b domain.Movie) int { return cmp.Compare(a.ID, b.ID) })
	return chain(keys), nil
}

func reviewComparator(sorts []paging.Sort) (func(a, b domain.Review) int, error) {
	keys := make([]func(a, b domain.Review) int, 0, len(sorts)+1)
	for _, s := range sorts {
		var f func(a, b domain.Review) int
		switch s.Field {
		case "createdAt":
			f = func(a, b domain.Review) int { return a.CreatedAt.Compare(b.CreatedAt) }
		case "rating":
			f = func(a, b domain.Review) int { return cmp.Compare(a.Rating, b.Rating) }
		case "userName":
			f = func(a, b domain.Review) int { return cmp.Compare(a.UserName, b.UserName) }
		default:
			return nil, domain.NewValidationError("sort", "oneof="+strings.Join(ReviewSortFields, " "))
		}
		keys = append(keys, direction(f, s.Descending))
	}
	keys = append(keys, func(a, b domain.Review) int { return cmp.Compare(a.ID, b.ID) })
	return chain(keys), nil
}

func direction[T any](f func(a, b T) int, desc bool) func(a, b T) int {
	if !desc {
		return f
	}
	return func(a, b T) int { return f(b, a) }
}

func chain[T any](keys []func(a, b T) int) func(a, b T) int {
	return func(a, b T) int {
		for _, k := range keys {
			if c := k(a, b); c != 0 {
				return c
			}
		}
		return 0
	}
}

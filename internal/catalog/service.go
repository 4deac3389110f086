// movie-catalog/internal/catalog/service.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"movie-catalog/internal/domain"
	"movie-catalog/internal/paging"
	"movie-catalog/internal/store"
)

// Service is the query and command surface of the catalog. Writes run
// validation, then the referential check, then the store call.
type Service struct {
	store     store.Store
	integrity *IntegrityValidator
	ratings   *RatingAggregator
	validator *Validator
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(s store.Store, integrity *IntegrityValidator, ratings *RatingAggregator, v *Validator, logger *slog.Logger) *Service {
	return &Service{
		store:     s,
		integrity: integrity,
		ratings:   ratings,
		validator: v,
		logger:    logger,
		now:       time.Now,
	}
}

func checkPage(req paging.Request) error {
	if _, err := paging.NewRequest(req.Number, req.Size, req.Sort...); err != nil {
		if errors.Is(err, paging.ErrNegativePage) {
			return domain.NewValidationError("page", "gte=0")
		}
		return domain.NewValidationError("size", "gt=0")
	}
	return nil
}

func (s *Service) ListMoviesByGenre(ctx context.Context, genre string, page paging.Request) (paging.Page[*domain.Movie], error) {
	if strings.TrimSpace(genre) == "" {
		return paging.Page[*domain.Movie]{}, domain.NewValidationError("genre", "notblank")
	}
	if err := checkPage(page); err != nil {
		return paging.Page[*domain.Movie]{}, err
	}
	movies, total, err := s.store.ListMoviesByGenre(ctx, store.MovieListParams{Genre: genre, Page: page})
	if err != nil {
		return paging.Page[*domain.Movie]{}, err
	}
	return paging.NewPage(movies, page, total), nil
}

func (s *Service) GetMovie(ctx context.Context, id string) (*domain.Movie, error) {
	return s.store.GetMovie(ctx, id)
}

func (s *Service) GetDirector(ctx context.Context, id string) (*domain.Director, error) {
	return s.store.GetDirector(ctx, id)
}

// ListReviewsByMovie pages a movie's reviews. An unknown movie yields an empty page.
func (s *Service) ListReviewsByMovie(ctx context.Context, movieID string, page paging.Request) (paging.Page[*domain.Review], error) {
	if strings.TrimSpace(movieID) == "" {
		return paging.Page[*domain.Review]{}, domain.NewValidationError("movieId", "notblank")
	}
	if err := checkPage(page); err != nil {
		return paging.Page[*domain.Review]{}, err
	}
	reviews, total, err := s.store.ListReviewsByMovie(ctx, store.ReviewListParams{MovieID: movieID, Page: page})
	if err != nil {
		return paging.Page[*domain.Review]{}, err
	}
	return paging.NewPage(reviews, page, total), nil
}

// AverageRating returns the mean rating of one movie. ok is false when the
// movie has no reviews. A missing movie is a *domain.NotFoundError.
func (s *Service) AverageRating(ctx context.Context, movieID string) (mean float64, ok bool, err error) {
	if _, err := s.store.GetMovie(ctx, movieID); err != nil {
		return 0, false, err
	}
	agg, err := s.store.AggregatedRating(ctx, movieID)
	if err != nil {
		return 0, false, err
	}
	if agg.RatingCount == 0 {
		return 0, false, nil
	}
	return agg.AverageRating, true, nil
}

func (s *Service) TopRated(ctx context.Context, page paging.Request) (paging.Page[*domain.RankedMovie], error) {
	if err := checkPage(page); err != nil {
		return paging.Page[*domain.RankedMovie]{}, err
	}
	return s.ratings.TopRated(ctx, page)
}

func (s *Service) CreateDirector(ctx context.Context, req domain.CreateDirectorRequest) (*domain.Director, error) {
	if err := s.validator.ValidateDirector(ctx, req); err != nil {
		return nil, err
	}
	d := &domain.Director{Name: req.Name, BirthYear: *req.BirthYear, Country: req.Country}
	if err := s.store.CreateDirector(ctx, d); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Director created", slog.String("directorID", d.ID))
	return d, nil
}

func (s *Service) CreateMovie(ctx context.Context, req domain.CreateMovieRequest) (*domain.Movie, error) {
	if err := s.validator.ValidateMovie(ctx, req); err != nil {
		return nil, err
	}
	if err := s.integrity.Require(ctx, domain.KindDirector, req.DirectorID); err != nil {
		return nil, err
	}
	m := &domain.Movie{
		Title:       req.Title,
		Genre:       req.Genre,
		ReleaseYear: *req.ReleaseYear,
		Description: deref(req.Description),
		DirectorID:  req.DirectorID,
		ImageURL:    deref(req.ImageURL),
	}
	if err := s.store.CreateMovie(ctx, m); err != nil {
		return nil, referenceError(err, domain.KindDirector, req.DirectorID)
	}
	s.logger.InfoContext(ctx, "Movie created", slog.String("movieID", m.ID), slog.String("directorID", m.DirectorID))
	return m, nil
}

func (s *Service) CreateReview(ctx context.Context, req domain.CreateReviewRequest) (*domain.Review, error) {
	if err := s.validator.ValidateReview(ctx, req); err != nil {
		return nil, err
	}
	if err := s.integrity.Require(ctx, domain.KindMovie, req.MovieID); err != nil {
		return nil, err
	}
	r := &domain.Review{
		UserName:  req.UserName,
		Rating:    *req.Rating,
		Comment:   deref(req.Comment),
		CreatedAt: s.now().UTC(),
		MovieID:   req.MovieID,
	}
	if err := s.store.CreateReview(ctx, r); err != nil {
		return nil, referenceError(err, domain.KindMovie, req.MovieID)
	}
	s.logger.InfoContext(ctx, "Review created", slog.String("reviewID", r.ID), slog.String("movieID", r.MovieID))
	return r, nil
}

// referenceError maps a backend foreign-key rejection, which can only happen if
// the parent vanished after Require, onto the same error Require would return.
func referenceError(err error, kind domain.Kind, id string) error {
	if errors.Is(err, store.ErrForeignKey) {
		return domain.NewReferenceNotFound(kind, id)
	}
	return fmt.Errorf("persist: %w", err)
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

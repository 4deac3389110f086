package store

import (
	"context"
	"fmt"
	"log/slog"

	"movie-catalog/internal/domain"
)

const reviewColumns = `id, user_name, rating, comment, created_at, movie_id`

var reviewOrderColumns = map[string]string{
	"createdAt": "created_at",
	"rating":    "rating",
	"userName":  "user_name",
}

func (s *PostgresStore) CreateReview(ctx context.Context, r *domain.Review) error {
	query := `INSERT INTO reviews (` + reviewColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	assignID(&r.ID)
	assignCreatedAt(&r.CreatedAt)

	s.logger.DebugContext(ctx, "Executing CreateReview query", slog.String("reviewID", r.ID), slog.String("movieID", r.MovieID))
	_, err := s.db.ExecContext(ctx, query, r.ID, r.UserName, r.Rating, r.Comment, r.CreatedAt, r.MovieID)
	if err != nil {
		return s.mapWriteError(ctx, domain.KindReview, err)
	}
	s.logger.DebugContext(ctx, "Review inserted into DB", slog.String("reviewID", r.ID))
	return nil
}

func (s *PostgresStore) ListReviewsByMovie(ctx context.Context, params ReviewListParams) ([]*domain.Review, int, error) {
	order, err := orderBy(params.Page.WithDefaultSort(DefaultReviewSort...).Sort, reviewOrderColumns)
	if err != nil {
		return nil, 0, err
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM reviews WHERE movie_id = $1`
	s.logger.DebugContext(ctx, "Executing ListReviewsByMovie count query", slog.String("movieID", params.MovieID))
	if err := s.db.GetContext(ctx, &total, countQuery, params.MovieID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to count reviews in DB", slog.String("movieID", params.MovieID), slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	if total == 0 {
		return []*domain.Review{}, 0, nil
	}

	selectQuery := `SELECT ` + reviewColumns + ` FROM reviews WHERE movie_id = $1` + order + ` LIMIT $2 OFFSET $3`
	reviews := []*domain.Review{}
	if err := s.db.SelectContext(ctx, &reviews, selectQuery, params.MovieID, params.Page.Size, params.Page.Offset()); err != nil {
		s.logger.ErrorContext(ctx, "Failed to list reviews from DB", slog.String("movieID", params.MovieID), slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, total, nil
}

// AggregatedRating computes mean and count of one movie's ratings. Count is 0 when unrated.
func (s *PostgresStore) AggregatedRating(ctx context.Context, movieID string) (*domain.AggregatedRating, error) {
	query := `SELECT COALESCE(AVG(rating), 0)::float8 AS average_rating, COUNT(rating) AS rating_count
              FROM reviews WHERE movie_id = $1`
	agg := domain.AggregatedRating{MovieID: movieID}

	s.logger.DebugContext(ctx, "Executing AggregatedRating query", slog.String("movieID", movieID))
	if err := s.db.GetContext(ctx, &agg, query, movieID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to aggregate rating", slog.String("movieID", movieID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to aggregate rating: %w", err)
	}
	agg.MovieID = movieID
	return &agg, nil
}

func (s *PostgresStore) RatingSamples(ctx context.Context) ([]domain.RatingSample, error) {
	var samples []domain.RatingSample
	if err := s.db.SelectContext(ctx, &samples, `SELECT movie_id, rating FROM reviews`); err != nil {
		s.logger.ErrorContext(ctx, "Failed to read rating samples", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to read rating samples: %w", err)
	}
	return samples, nil
}

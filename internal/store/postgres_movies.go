// movie-catalog/internal/store/postgres_movies.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"movie-catalog/internal/domain"
	"movie-catalog/internal/paging"
)

const movieColumns = `id, title, genre, release_year, description, director_id, image_url`

var movieOrderColumns = map[string]string{
	"title":       "LOWER(title)",
	"releaseYear": "release_year",
}

func (s *PostgresStore) CreateMovie(ctx context.Context, m *domain.Movie) error {
	query := `INSERT INTO movies (` + movieColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	assignID(&m.ID)

	s.logger.DebugContext(ctx, "Executing CreateMovie query", slog.String("movieID", m.ID), slog.String("title", m.Title))
	_, err := s.db.ExecContext(ctx, query, m.ID, m.Title, m.Genre, m.ReleaseYear, m.Description, m.DirectorID, m.ImageURL)
	if err != nil {
		return s.mapWriteError(ctx, domain.KindMovie, err)
	}
	s.logger.DebugContext(ctx, "Movie inserted into DB", slog.String("movieID", m.ID))
	return nil
}

func (s *PostgresStore) GetMovie(ctx context.Context, id string) (*domain.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = $1`
	var m domain.Movie

	s.logger.DebugContext(ctx, "Executing GetMovie query", slog.String("movieID", id))
	if err := s.db.GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.WarnContext(ctx, "Movie not found in DB", slog.String("movieID", id))
			return nil, domain.NewNotFound(domain.KindMovie, id)
		}
		s.logger.ErrorContext(ctx, "Failed to get movie from DB", slog.String("movieID", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}
	return &m, nil
}

func (s *PostgresStore) ListMoviesByGenre(ctx context.Context, params MovieListParams) ([]*domain.Movie, int, error) {
	order, err := orderBy(params.Page.WithDefaultSort(DefaultMovieSort...).Sort, movieOrderColumns)
	if err != nil {
		return nil, 0, err
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM movies WHERE genre = $1`
	s.logger.DebugContext(ctx, "Executing ListMoviesByGenre count query", slog.String("genre", params.Genre))
	if err := s.db.GetContext(ctx, &total, countQuery, params.Genre); err != nil {
		s.logger.ErrorContext(ctx, "Failed to count movies in DB", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("failed to count movies: %w", err)
	}
	if total == 0 {
		return []*domain.Movie{}, 0, nil
	}

	selectQuery := `SELECT ` + movieColumns + ` FROM movies WHERE genre = $1` + order + ` LIMIT $2 OFFSET $3`
	movies := []*domain.Movie{}
	if err := s.db.SelectContext(ctx, &movies, selectQuery, params.Genre, params.Page.Size, params.Page.Offset()); err != nil {
		s.logger.ErrorContext(ctx, "Failed to list movies from DB", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("failed to list movies: %w", err)
	}
	return movies, total, nil
}

func (s *PostgresStore) MoviesByIDs(ctx context.Context, ids []string) (map[string]*domain.Movie, error) {
	out := make(map[string]*domain.Movie, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = ANY($1)`
	var movies []*domain.Movie
	if err := s.db.SelectContext(ctx, &movies, query, pq.Array(ids)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to load movies by ids", slog.Int("count", len(ids)), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load movies: %w", err)
	}
	for _, m := range movies {
		out[m.ID] = m
	}
	return out, nil
}

// RankMoviesByRating groups, averages, ranks and pages reviews in one round trip,
// then joins the selected groups to their movies. Groups without a movie row drop out.
func (s *PostgresStore) RankMoviesByRating(ctx context.Context, page paging.Request) ([]*domain.RankedMovie, int, error) {
	var total int
	countQuery := `SELECT COUNT(DISTINCT movie_id) FROM reviews`
	if err := s.db.GetContext(ctx, &total, countQuery); err != nil {
		s.logger.ErrorContext(ctx, "Failed to count rated movies", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("failed to count rated movies: %w", err)
	}
	if total == 0 {
		return []*domain.RankedMovie{}, 0, nil
	}

	query := `WITH ranked AS (
    SELECT movie_id, AVG(rating)::float8 AS average_rating
    FROM reviews
    GROUP BY movie_id
    ORDER BY average_rating DESC, movie_id ASC
    LIMIT $1 OFFSET $2
)
SELECT m.id, m.title, m.genre, m.release_year, m.description, m.director_id, m.image_url, r.average_rating
FROM ranked r
JOIN movies m ON m.id = r.movie_id
ORDER BY r.average_rating DESC, r.movie_id ASC`

	ranked := []*domain.RankedMovie{}
	s.logger.DebugContext(ctx, "Executing RankMoviesByRating query", slog.Int("page", page.Number), slog.Int("size", page.Size))
	if err := s.db.SelectContext(ctx, &ranked, query, page.Size, page.Offset()); err != nil {
		s.logger.ErrorContext(ctx, "Failed to rank movies by rating", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("failed to rank movies: %w", err)
	}
	return ranked, total, nil
}

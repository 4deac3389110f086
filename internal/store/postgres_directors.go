package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"movie-catalog/internal/domain"
)

func (s *PostgresStore) CreateDirector(ctx context.Context, d *domain.Director) error {
	query := `INSERT INTO directors (id, name, birth_year, country) VALUES ($1, $2, $3, $4)`
	assignID(&d.ID)

	s.logger.DebugContext(ctx, "Executing CreateDirector query", slog.String("directorID", d.ID))
	if _, err := s.db.ExecContext(ctx, query, d.ID, d.Name, d.BirthYear, d.Country); err != nil {
		return s.mapWriteError(ctx, domain.KindDirector, err)
	}
	s.logger.DebugContext(ctx, "Director inserted into DB", slog.String("directorID", d.ID))
	return nil
}

func (s *PostgresStore) GetDirector(ctx context.Context, id string) (*domain.Director, error) {
	query := `SELECT id, name, birth_year, country FROM directors WHERE id = $1`
	var d domain.Director

	s.logger.DebugContext(ctx, "Executing GetDirector query", slog.String("directorID", id))
	if err := s.db.GetContext(ctx, &d, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.WarnContext(ctx, "Director not found in DB", slog.String("directorID", id))
			return nil, domain.NewNotFound(domain.KindDirector, id)
		}
		s.logger.ErrorContext(ctx, "Failed to get director from DB", slog.String("directorID", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get director: %w", err)
	}
	return &d, nil
}

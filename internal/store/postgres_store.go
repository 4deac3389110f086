// movie-catalog/internal/store/postgres_store.go
package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"movie-catalog/internal/domain"
	"movie-catalog/internal/paging"
)

//go:embed schema.sql
var schema string

// PostgresStore implements Store on PostgreSQL.
type PostgresStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewPostgresStore wraps an open connection pool.
func NewPostgresStore(db *sqlx.DB, logger *slog.Logger) (*PostgresStore, error) {
	if db == nil {
		return nil, errors.New("database connection (db) cannot be nil")
	}
	return &PostgresStore{db: db, logger: logger}, nil
}

// Migrate creates the tables and indexes when they are missing.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	s.logger.InfoContext(ctx, "Applying database schema")
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		s.logger.ErrorContext(ctx, "Failed to apply database schema", slog.String("error", err.Error()))
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

var existsQueries = map[domain.Kind]string{
	domain.KindDirector: `SELECT EXISTS (SELECT 1 FROM directors WHERE id = $1)`,
	domain.KindMovie:    `SELECT EXISTS (SELECT 1 FROM movies WHERE id = $1)`,
	domain.KindReview:   `SELECT EXISTS (SELECT 1 FROM reviews WHERE id = $1)`,
}

func (s *PostgresStore) Exists(ctx context.Context, kind domain.Kind, id string) (bool, error) {
	query, ok := existsQueries[kind]
	if !ok {
		return false, fmt.Errorf("unknown entity kind %q", kind)
	}
	var exists bool
	if err := s.db.GetContext(ctx, &exists, query, id); err != nil {
		s.logger.ErrorContext(ctx, "Failed to check entity existence", slog.String("kind", kind.String()), slog.String("id", id), slog.String("error", err.Error()))
		return false, fmt.Errorf("failed to check %s existence: %w", kind, err)
	}
	return exists, nil
}

// mapWriteError converts constraint violations into store errors.
func (s *PostgresStore) mapWriteError(ctx context.Context, kind domain.Kind, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			s.logger.WarnContext(ctx, "Entity already exists", slog.String("kind", kind.String()), slog.String("constraint", pqErr.Constraint))
			return ErrAlreadyExists
		case "23503": // foreign_key_violation
			s.logger.WarnContext(ctx, "Entity references a missing parent", slog.String("kind", kind.String()), slog.String("constraint", pqErr.Constraint))
			return fmt.Errorf("%s: %w", pqErr.Constraint, ErrForeignKey)
		}
	}
	s.logger.ErrorContext(ctx, "Failed to create entity in DB", slog.String("kind", kind.String()), slog.String("error", err.Error()))
	return fmt.Errorf("failed to create %s: %w", kind, err)
}

// orderBy renders an ORDER BY clause from whitelisted columns, ending with id.
func orderBy(sorts []paging.Sort, columns map[string]string) (string, error) {
	parts := make([]string, 0, len(sorts)+1)
	for _, srt := range sorts {
		col, ok := columns[srt.Field]
		if !ok {
			return "", domain.NewValidationError("sort", "unsupported="+srt.Field)
		}
		if srt.Descending {
			col += " DESC"
		} else {
			col += " ASC"
		}
		parts = append(parts, col)
	}
	parts = append(parts, "id ASC")
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"movie-catalog/internal/domain"
)

// ExistenceChecker answers whether an entity of a kind exists. The store
// satisfies it directly, the gRPC lookup client satisfies it remotely.
type ExistenceChecker interface {
	Exists(ctx context.Context, kind domain.Kind, id string) (bool, error)
}

// IntegrityValidator verifies that the parent of a dependent write exists.
// It takes no locks: a parent removed between check and write is not detected here.
type IntegrityValidator struct {
	checker ExistenceChecker
	logger  *slog.Logger
}

func NewIntegrityValidator(checker ExistenceChecker, logger *slog.Logger) *IntegrityValidator {
	return &IntegrityValidator{checker: checker, logger: logger}
}

// Require returns a *domain.ReferenceNotFoundError when kind/id is absent.
func (v *IntegrityValidator) Require(ctx context.Context, kind domain.Kind, id string) error {
	ok, err := v.checker.Exists(ctx, kind, id)
	if err != nil {
		return fmt.Errorf("check %s %q: %w", kind, id, err)
	}
	if !ok {
		v.logger.WarnContext(ctx, "Referenced entity does not exist", slog.String("kind", kind.String()), slog.String("id", id))
		return domain.NewReferenceNotFound(kind, id)
	}
	return nil
}

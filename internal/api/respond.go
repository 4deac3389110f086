// movie-catalog/internal/api/respond.go
package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	"movie-catalog/internal/domain"
)

const maxBodyBytes = 1 << 20

func respondJSON(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.ErrorContext(r.Context(), "Failed to encode JSON response", slog.String("error", err.Error()), slog.String("path", r.URL.Path))
	}
}

func respondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, message string) {
	respondJSON(w, r, logger, status, ErrorResponse{Error: message})
}

// respondServiceError maps the catalog error taxonomy onto HTTP statuses.
func respondServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var (
		ve  *domain.ValidationError
		rnf *domain.ReferenceNotFoundError
		nf  *domain.NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		respondJSON(w, r, logger, http.StatusBadRequest, ErrorResponse{Error: ve.Error(), Field: ve.Field, Constraint: ve.Constraint})
	case errors.As(err, &rnf):
		respondError(w, r, logger, http.StatusUnprocessableEntity, rnf.Error())
	case errors.As(err, &nf):
		respondError(w, r, logger, http.StatusNotFound, nf.Message())
	default:
		logger.ErrorContext(r.Context(), "Request failed", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		respondError(w, r, logger, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request payload: %w", err)
	}
	return nil
}

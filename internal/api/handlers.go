// movie-catalog/internal/api/handlers.go
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"movie-catalog/internal/domain"
	"movie-catalog/internal/paging"
)

// Catalog is the query and command surface the handlers serve.
type Catalog interface {
	ListMoviesByGenre(ctx context.Context, genre string, page paging.Request) (paging.Page[*domain.Movie], error)
	TopRated(ctx context.Context, page paging.Request) (paging.Page[*domain.RankedMovie], error)
	GetMovie(ctx context.Context, id string) (*domain.Movie, error)
	GetDirector(ctx context.Context, id string) (*domain.Director, error)
	ListReviewsByMovie(ctx context.Context, movieID string, page paging.Request) (paging.Page[*domain.Review], error)
	AverageRating(ctx context.Context, movieID string) (float64, bool, error)
	CreateDirector(ctx context.Context, req domain.CreateDirectorRequest) (*domain.Director, error)
	CreateMovie(ctx context.Context, req domain.CreateMovieRequest) (*domain.Movie, error)
	CreateReview(ctx context.Context, req domain.CreateReviewRequest) (*domain.Review, error)
}

// PageDefaults configures query-string paging per listing.
type PageDefaults struct {
	Movies  paging.Defaults
	Reviews paging.Defaults
	Top     paging.Defaults
}

// CatalogHandler holds the HTTP handlers of the catalog API.
type CatalogHandler struct {
	catalog Catalog
	pages   PageDefaults
	logger  *slog.Logger
}

func NewCatalogHandler(c Catalog, pages PageDefaults, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: c, pages: pages, logger: logger}
}

// GetMovies serves GET /api/movies?genre=&page=&size=&sort=.
func (h *CatalogHandler) GetMovies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	page, err := paging.ParseQuery(q, h.pages.Movies)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}
	result, err := h.catalog.ListMoviesByGenre(ctx, q.Get("genre"), page)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}
	h.logger.DebugContext(ctx, "Movies by genre listed", slog.String("genre", q.Get("genre")), slog.Int("returned", len(result.Items)), slog.Int("total", result.TotalItems))
	respondJSON(w, r, h.logger, http.StatusOK, toPageResponse(result))
}

// GetTopMovies serves GET /api/movies/top?page=&size=.
func (h *CatalogHandler) GetTopMovies(w http.ResponseWriter, r *http.Request) {
	page, err := paging.ParseQuery(r.URL.Query(), h.pages.Top)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}
	result, err := h.catalog.TopRated(r.Context(), page)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}
	respondJSON(w, r, h.logger, http.StatusOK, toPageResponse(result))
}

func (h *CatalogHandler) GetDirector(w http.ResponseWriter, r *http.Request) {
	d, err := h.catalog.GetDirector(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}
	respondJSON(w, r, h.logger, http.StatusOK, d)
}

func (h *CatalogHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	m, err := h.catalog.GetMovie(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}
	respondJSON(w, r, h.logger, http.StatusOK, m)
}

// GetMovieRating replies with a bare number, or null for a movie with no reviews.
func (h *CatalogHandler) GetMovieRating(w http.ResponseWriter, r *http.Request) {
	mean, ok, err := h.catalog.AverageRating(r.Context(), mux.Vars(r)["movieId"])
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}
	var body *float64
	if ok {
		body = &mean
	}
	respondJSON(w, r, h.logger, http.StatusOK, body)
}

// GetReviews serves GET /api/reviews?movieId=&page=&size=&sort=.
func (h *CatalogHandler) GetReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := paging.ParseQuery(q, h.pages.Reviews)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}
	result, err := h.catalog.ListReviewsByMovie(r.Context(), q.Get("movieId"), page)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}
	respondJSON(w, r, h.logger, http.StatusOK, toPageResponse(result))
}

func (h *CatalogHandler) CreateDirector(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateDirectorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode director request", slog.String("error", err.Error()))
		respondError(w, r, h.logger, http.StatusBadRequest, "Invalid request payload")
		return
	}
	d, err := h.catalog.CreateDirector(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}
	respondJSON(w, r, h.logger, http.StatusCreated, d)
}

func (h *CatalogHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateMovieRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode movie request", slog.String("error", err.Error()))
		respondError(w, r, h.logger, http.StatusBadRequest, "Invalid request payload")
		return
	}
	m, err := h.catalog.CreateMovie(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}
	respondJSON(w, r, h.logger, http.StatusCreated, m)
}

func (h *CatalogHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateReviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode review request", slog.String("error", err.Error()))
		respondError(w, r, h.logger, http.StatusBadRequest, "Invalid request payload")
		return
	}
	rv, err := h.catalog.CreateReview(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}
	respondJSON(w, r, h.logger, http.StatusCreated, rv)
}

func (h *CatalogHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, h.logger, http.StatusOK, map[string]string{"status": "ok"})
}

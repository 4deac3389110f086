// movie-catalog/internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the catalog routes, health and metrics endpoints.
func NewRouter(handler *CatalogHandler, metrics *Metrics, gatherer prometheus.Gatherer, logger *slog.Logger) *mux.Router {
	middlewares := []mux.MiddlewareFunc{RequestID, Recoverer(logger), RequestLogger(logger), metrics.Middleware()}

	router := mux.NewRouter()
	router.Use(middlewares...)
	// mux skips Use middleware when no route matches.
	router.NotFoundHandler = chain(middlewares, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, logger, http.StatusNotFound, "resource not found")
	}))
	router.MethodNotAllowedHandler = chain(middlewares, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, logger, http.StatusMethodNotAllowed, "method not allowed")
	}))

	router.HandleFunc("/healthz", handler.Healthz).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	apiRouter := router.PathPrefix("/api").Subrouter()

	apiRouter.HandleFunc("/movies", handler.GetMovies).Methods(http.MethodGet)
	apiRouter.HandleFunc("/movies/top", handler.GetTopMovies).Methods(http.MethodGet)
	apiRouter.HandleFunc("/movie", handler.CreateMovie).Methods(http.MethodPost)
	apiRouter.HandleFunc("/movie/{id}", handler.GetMovie).Methods(http.MethodGet)
	apiRouter.HandleFunc("/movie/{movieId}/rating", handler.GetMovieRating).Methods(http.MethodGet)

	apiRouter.HandleFunc("/director", handler.CreateDirector).Methods(http.MethodPost)
	apiRouter.HandleFunc("/director/{id}", handler.GetDirector).Methods(http.MethodGet)

	apiRouter.HandleFunc("/reviews", handler.GetReviews).Methods(http.MethodGet)
	apiRouter.HandleFunc("/review", handler.CreateReview).Methods(http.MethodPost)

	return router
}

// chain wraps h so that middlewares[0] runs first, matching router.Use.
func chain(middlewares []mux.MiddlewareFunc, h http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"gamecatalog/internal/metrics"
)

// NewRouter wires the API routes. When staticDir is set, unmatched GET
// requests are served from it.
func NewRouter(h *Handler, staticDir string) *mux.Router {
	r := mux.NewRouter()
	r.Use(metricsMiddleware, loggingMiddleware(h.logger))

	api := r.PathPrefix("/api/games").Subrouter()
	api.HandleFunc("", h.listGames).Methods(http.MethodGet)
	api.HandleFunc("", h.createGame).Methods(http.MethodPost)
	api.HandleFunc("/search", h.searchGames).Methods(http.MethodPost)
	api.HandleFunc("/populate", h.populate).Methods(http.MethodPost)
	api.HandleFunc("/populate/runs", h.listRuns).Methods(http.MethodGet)
	api.HandleFunc("/{id}", h.updateGame).Methods(http.MethodPut)
	api.HandleFunc("/{id}", h.deleteGame).Methods(http.MethodDelete)

	r.HandleFunc("/healthz", healthz).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	if staticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(staticDir))).Methods(http.MethodGet, http.MethodHead)
	}

	return r
}

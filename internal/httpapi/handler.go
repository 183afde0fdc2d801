package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"gamecatalog/internal/domain"
)

const (
	maxBodyBytes    = 1 << 20
	defaultRunLimit = 20
	maxRunLimit     = 100
)

type Catalog interface {
	List(ctx context.Context) ([]domain.Game, error)
	Search(ctx context.Context, filter domain.SearchFilter) ([]domain.Game, error)
	Create(ctx context.Context, in domain.GameInput) (*domain.Game, error)
	Update(ctx context.Context, id int64, in domain.GameInput) (*domain.Game, error)
	Delete(ctx context.Context, id int64) error
}

type Populator interface {
	Populate(ctx context.Context) (*domain.PopulateResult, error)
}

type RunLister interface {
	Latest(ctx context.Context, limit int) ([]domain.PopulationRun, error)
}

type errorResponse struct {
	Error       string `json:"error"`
	Details     string `json:"details,omitempty"`
	TimeElapsed string `json:"timeElapsed,omitempty"`
}

// Handler serves the catalog's JSON API.
type Handler struct {
	catalog   Catalog
	populator Populator
	runs      RunLister
	logger    *slog.Logger
}

func NewHandler(catalog Catalog, populator Populator, runs RunLister, logger *slog.Logger) *Handler {
	return &Handler{
		catalog:   catalog,
		populator: populator,
		runs:      runs,
		logger:    logger.With("component", "http"),
	}
}

func (h *Handler) listGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.catalog.List(r.Context())
	if err != nil {
		h.logger.Error("error querying games", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list games", err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

func (h *Handler) createGame(w http.ResponseWriter, r *http.Request) {
	var in domain.GameInput
	if !decodeJSON(w, r, &in) {
		return
	}

	game, err := h.catalog.Create(r.Context(), in)
	if err != nil {
		h.logger.Error("error creating game", "error", err)
		writeError(w, http.StatusBadRequest, "Failed to create game", err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

func (h *Handler) searchGames(w http.ResponseWriter, r *http.Request) {
	var filter domain.SearchFilter
	if !decodeJSON(w, r, &filter) {
		return
	}

	games, err := h.catalog.Search(r.Context(), filter)
	if err != nil {
		h.logger.Error("error searching games", "error", err)
		writeError(w, http.StatusBadRequest, "Failed to search games", err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

func (h *Handler) updateGame(w http.ResponseWriter, r *http.Request) {
	id, ok := gameID(w, r)
	if !ok {
		return
	}

	var in domain.GameInput
	if !decodeJSON(w, r, &in) {
		return
	}

	game, err := h.catalog.Update(r.Context(), id, in)
	if err != nil {
		h.logger.Error("error updating game", "id", id, "error", err)
		writeError(w, statusFor(err), "Failed to update game", err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

func (h *Handler) deleteGame(w http.ResponseWriter, r *http.Request) {
	id, ok := gameID(w, r)
	if !ok {
		return
	}

	if err := h.catalog.Delete(r.Context(), id); err != nil {
		h.logger.Error("error deleting game", "id", id, "error", err)
		writeError(w, statusFor(err), "Failed to delete game", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"id": id})
}

func (h *Handler) populate(w http.ResponseWriter, r *http.Request) {
	result, err := h.populator.Populate(r.Context())
	if err != nil {
		var popErr *domain.PopulateError
		if errors.As(err, &popErr) {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error:       "Failed to populate database",
				Details:     popErr.Details(),
				TimeElapsed: popErr.TimeElapsed(),
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to populate database", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) listRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = min(n, maxRunLimit)
	}

	runs, err := h.runs.Latest(r.Context(), limit)
	if err != nil {
		h.logger.Error("error listing population runs", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list population runs", err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "time": time.Now()})
}

func gameID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid game id"})
		return 0, false
	}
	return id, true
}

func statusFor(err error) int {
	if errors.Is(err, domain.ErrGameNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	writeJSON(w, status, errorResponse{Error: msg, Details: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

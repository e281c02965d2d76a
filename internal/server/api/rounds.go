// Package api provides HTTP API handlers for the punchmoji spectator server.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ayusman/punchmoji/internal/store"
)

// DefaultListLimit is the number of rounds returned when no limit is given.
const DefaultListLimit = 50

// RoundHandler handles HTTP requests for round history.
type RoundHandler struct {
	store *store.Store
}

// NewRoundHandler creates a new RoundHandler with the given store.
func NewRoundHandler(s *store.Store) *RoundHandler {
	return &RoundHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *RoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/rounds or /api/rounds/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/rounds")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type roundResponse struct {
	ID         string         `json:"id"`
	StartedAt  string         `json:"started_at"`
	EndedAt    string         `json:"ended_at"`
	Outcome    string         `json:"outcome"`
	Spawned    int            `json:"spawned"`
	Hits       int            `json:"hits"`
	Remaining  map[string]int `json:"remaining"`
	DurationMS int64          `json:"duration_ms"`
}

type listRoundsResponse struct {
	Rounds []roundResponse `json:"rounds"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toResponse(r *store.Round) roundResponse {
	return roundResponse{
		ID:        r.ID,
		StartedAt: r.StartedAt.Format(time.RFC3339),
		EndedAt:   r.EndedAt.Format(time.RFC3339),
		Outcome:   r.Outcome,
		Spawned:   r.Spawned,
		Hits:      r.Hits,
		Remaining: map[string]int{
			"blossom":   r.RemainingBlossom,
			"snowflake": r.RemainingSnowflake,
		},
		DurationMS: r.EndedAt.Sub(r.StartedAt).Milliseconds(),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/rounds?limit=N and returns the newest rounds first.
func (h *RoundHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	rounds, err := h.store.Rounds().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list rounds")
		return
	}

	response := listRoundsResponse{
		Rounds: make([]roundResponse, 0, len(rounds)),
	}
	for _, round := range rounds {
		response.Rounds = append(response.Rounds, toResponse(round))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/rounds/{id}.
func (h *RoundHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	round, err := h.store.Rounds().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Round not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get round")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(round))
}

// delete handles DELETE /api/rounds/{id}.
func (h *RoundHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Rounds().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Round not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete round")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// StatsHandler serves GET /api/stats.
type StatsHandler struct {
	store *store.Store
}

// NewStatsHandler creates a new StatsHandler with the given store.
func NewStatsHandler(s *store.Store) *StatsHandler {
	return &StatsHandler{store: s}
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats, err := h.store.Rounds().Stats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

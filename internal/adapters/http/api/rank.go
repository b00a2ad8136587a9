// Package api declares HTTP contracts and route registration helpers
// for the rotation service.
package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/openplayhq/rally/internal/adapters/standings"
)

// RankHandler serves single-player standings lookups.
type RankHandler struct {
	deps Dependencies
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(deps Dependencies) *RankHandler {
	return &RankHandler{deps: deps}
}

// HandleGetRank handles GET /rank/{player} requests.
func (h *RankHandler) HandleGetRank(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /rank/
	name := strings.TrimPrefix(r.URL.Path, "/rank/")
	if name == "" || strings.Contains(name, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	entry, err := h.deps.PlayerRank(r.Context(), name)
	if err != nil {
		if errors.Is(err, standings.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

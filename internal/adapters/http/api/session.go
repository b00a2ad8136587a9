// Package api declares HTTP contracts and route registration helpers
// for the rotation service.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/openplayhq/rally/internal/domain/session"
)

// SessionHandler serves the session snapshot and the session-level
// mutations: applying settings and resetting.
type SessionHandler struct {
	deps Dependencies
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(deps Dependencies) *SessionHandler {
	return &SessionHandler{deps: deps}
}

// HandleGetSession handles GET /session requests. The response is the
// full serializable session state, the same document the store
// persists.
func (h *SessionHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Session(r.Context()))
}

// HandleSettings handles GET and PUT /session/settings requests.
// Applying settings resets courts, streaks, and pairings and rebuilds
// the queue; game history survives.
func (h *SessionHandler) HandleSettings(w http.ResponseWriter, r *http.Request) {
	const op = "api.session_settings"
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.deps.Session(r.Context()).Settings)
	case http.MethodPut:
		var next session.Settings
		if err := json.NewDecoder(r.Body).Decode(&next); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, err))
			return
		}
		if err := h.deps.UpdateSettings(r.Context(), next); err != nil {
			if errors.Is(err, session.ErrInvalidSettings) {
				writeError(w, http.StatusBadRequest, "invalid_settings", err)
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err)
			return
		}
		writeJSON(w, http.StatusOK, next)
	default:
		http.NotFound(w, r)
	}
}

// HandleReset handles POST /session/reset requests, wiping the session
// back to defaults built from the current settings.
func (h *SessionHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := h.deps.ResetSession(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Session(r.Context()))
}

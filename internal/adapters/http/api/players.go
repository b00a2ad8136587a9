// Package api declares HTTP contracts and route registration helpers
// for the rotation service.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openplayhq/rally/internal/domain/roster"
)

// playerView is the wire shape for one roster entry with its session
// state folded in.
type playerView struct {
	Name     string `json:"name"`
	Active   bool   `json:"active"`
	OnCourt  int    `json:"on_court_streak"`
	Overall  int    `json:"games_played"`
	Seated   bool   `json:"seated"`
	Waiting  bool   `json:"waiting"`
	Partners int    `json:"past_partners"`
}

// replaceRequest mirrors the OpenAPI schema for PUT /players.
type replaceRequest struct {
	Players []string `json:"players"`
}

// replaceResponse reports the roster diff of a replacement.
type replaceResponse struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
	Count   int      `json:"count"`
}

// activeRequest mirrors the OpenAPI schema for POST /players/{name}/active.
type activeRequest struct {
	Active bool `json:"active"`
}

// PlayersHandler serves roster reads and edits.
type PlayersHandler struct {
	deps Dependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps Dependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// HandlePlayers handles GET and PUT /players requests.
func (h *PlayersHandler) HandlePlayers(w http.ResponseWriter, r *http.Request) {
	const op = "api.players"
	switch r.Method {
	case http.MethodGet:
		snap := h.deps.Session(r.Context())
		seated := make(map[string]bool)
		for _, slots := range snap.Courts {
			for _, name := range slots {
				if name != "" {
					seated[name] = true
				}
			}
		}
		waiting := make(map[string]bool, len(snap.Queue))
		for _, name := range snap.Queue {
			waiting[name] = true
		}
		views := make([]playerView, 0, len(snap.Players))
		for _, name := range snap.Players {
			st := snap.Streaks[name]
			views = append(views, playerView{
				Name:     name,
				Active:   snap.Active[name],
				OnCourt:  st.OnCourt,
				Overall:  st.Overall,
				Seated:   seated[name],
				Waiting:  waiting[name],
				Partners: len(snap.PastTeams[name]),
			})
		}
		writeJSON(w, http.StatusOK, views)
	case http.MethodPut:
		var req replaceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, err))
			return
		}
		names := make([]string, 0, len(req.Players))
		for _, name := range req.Players {
			name = strings.TrimSpace(name)
			if name != "" {
				names = append(names, name)
			}
		}
		added, removed := h.deps.ReplacePlayers(r.Context(), names)
		writeJSON(w, http.StatusOK, replaceResponse{Added: added, Removed: removed, Count: len(names)})
	default:
		http.NotFound(w, r)
	}
}

// HandlePlayer handles POST /players/{name}/active requests.
func (h *PlayersHandler) HandlePlayer(w http.ResponseWriter, r *http.Request) {
	const op = "api.player_active"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	// Extract path parameters after /players/
	path := strings.TrimPrefix(r.URL.Path, "/players/")
	name, action, found := strings.Cut(path, "/")
	if !found || action != "active" || name == "" {
		http.NotFound(w, r)
		return
	}
	var req activeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, err))
		return
	}
	if err := h.deps.SetPlayerActive(r.Context(), name, req.Active); err != nil {
		if errors.Is(err, roster.ErrUnknownPlayer) {
			writeError(w, http.StatusNotFound, "unknown_player", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"name": name, "active": req.Active})
}

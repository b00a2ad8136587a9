// Package api declares HTTP contracts and route registration helpers
// for the rotation service.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/openplayhq/rally/internal/domain/model"
)

// gameView is the wire shape for one history entry.
type gameView struct {
	ID       string   `json:"id"`
	PlayedAt string   `json:"played_at"`
	Court    int      `json:"court"`
	Team1    []string `json:"team1"`
	Team2    []string `json:"team2"`
	Winners  []string `json:"winners"`
}

// HistoryHandler serves the game log, newest first.
type HistoryHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(deps Dependencies, maxLimit int) *HistoryHandler {
	return &HistoryHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetHistory handles GET /history?limit=N requests. A missing
// limit returns up to the configured maximum.
func (h *HistoryHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_history"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n := h.maxLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		if parsed > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", ErrLimitExceeded)
			return
		}
		n = parsed
	}
	records := h.deps.History(r.Context(), n)
	views := make([]gameView, 0, len(records))
	for _, rec := range records {
		views = append(views, newGameView(rec))
	}
	writeJSON(w, http.StatusOK, views)
}

func newGameView(rec model.GameRecord) gameView {
	return gameView{
		ID:       rec.ID,
		PlayedAt: rec.PlayedAt.Format(time.RFC3339),
		Court:    rec.Court,
		Team1:    nonEmpty(rec.Team1[:]),
		Team2:    nonEmpty(rec.Team2[:]),
		Winners:  nonEmpty(rec.Winners[:]),
	}
}

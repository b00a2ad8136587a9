// Package api declares HTTP contracts and route registration helpers
// for the rotation service.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/openplayhq/rally/internal/domain/model"
	"github.com/openplayhq/rally/internal/domain/rotation"
)

// courtView is the wire shape for one court.
type courtView struct {
	ID    int      `json:"id"`
	Slots []string `json:"slots"`
	Team1 []string `json:"team1"`
	Team2 []string `json:"team2"`
}

// resultRequest mirrors the OpenAPI schema for POST /courts/{id}/result.
type resultRequest struct {
	Winners []string `json:"winners"`
}

// resultResponse reports the state changes of one processed game.
type resultResponse struct {
	GameID   string   `json:"game_id"`
	Court    int      `json:"court"`
	Winners  []string `json:"winners"`
	Kept     []string `json:"kept"`
	Requeued []string `json:"requeued"`
	Placed   []string `json:"placed"`
}

// assignResponse reports the players placed by an assignment.
type assignResponse struct {
	Court  int      `json:"court"`
	Placed []string `json:"placed"`
}

// CourtsHandler serves the court bank and the assignment and result
// operations.
type CourtsHandler struct {
	deps Dependencies
}

// NewCourtsHandler creates a new courts handler.
func NewCourtsHandler(deps Dependencies) *CourtsHandler {
	return &CourtsHandler{deps: deps}
}

// HandleGetCourts handles GET /courts requests.
func (h *CourtsHandler) HandleGetCourts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	snap := h.deps.Session(r.Context())
	views := make([]courtView, 0, len(snap.Courts))
	for key, slots := range snap.Courts {
		id, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		views = append(views, newCourtView(id, slots))
	}
	sort.Slice(views, func(i, j int) bool { return views[i].ID < views[j].ID })
	writeJSON(w, http.StatusOK, views)
}

// HandleAssignAll handles POST /courts/assign requests, filling every
// court from the front of the queue in ascending court order.
func (h *CourtsHandler) HandleAssignAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	placed := h.deps.AssignAll(r.Context())
	out := make([]assignResponse, 0, len(placed))
	for id, names := range placed {
		out = append(out, assignResponse{Court: id, Placed: names})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Court < out[j].Court })
	writeJSON(w, http.StatusOK, out)
}

// HandleCourt handles POST /courts/{id}/assign and
// POST /courts/{id}/result requests.
func (h *CourtsHandler) HandleCourt(w http.ResponseWriter, r *http.Request) {
	const op = "api.court"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	// Extract path parameters after /courts/
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/courts/"), "/")
	if len(parts) != 2 {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	courtID, err := strconv.Atoi(parts[0])
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: court id %q: %w", op, parts[0], ErrBadRequest))
		return
	}

	switch parts[1] {
	case "assign":
		h.assign(w, r, courtID)
	case "result":
		h.result(w, r, courtID)
	default:
		http.NotFound(w, r)
	}
}

func (h *CourtsHandler) assign(w http.ResponseWriter, r *http.Request, courtID int) {
	placed, err := h.deps.AssignCourt(r.Context(), courtID)
	if err != nil {
		if errors.Is(err, rotation.ErrUnknownCourt) {
			writeError(w, http.StatusNotFound, "unknown_court", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, assignResponse{Court: courtID, Placed: placed})
}

func (h *CourtsHandler) result(w http.ResponseWriter, r *http.Request, courtID int) {
	const op = "api.court_result"
	var req resultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, err))
		return
	}
	res, err := h.deps.ProcessWin(r.Context(), courtID, req.Winners)
	if err != nil {
		switch {
		case errors.Is(err, rotation.ErrUnknownCourt):
			writeError(w, http.StatusNotFound, "unknown_court", err)
		case errors.Is(err, rotation.ErrInvalidWinnerCount):
			writeError(w, http.StatusBadRequest, "invalid_winner_count", err)
		case errors.Is(err, rotation.ErrInvalidWinners):
			writeError(w, http.StatusBadRequest, "invalid_winners", err)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, resultResponse{
		GameID:   res.Record.ID,
		Court:    courtID,
		Winners:  req.Winners,
		Kept:     res.Kept,
		Requeued: res.Requeued,
		Placed:   res.Placed,
	})
}

func newCourtView(id int, slots []string) courtView {
	view := courtView{ID: id, Slots: make([]string, model.CourtSlots)}
	copy(view.Slots, slots)
	view.Team1 = nonEmpty(view.Slots[0:2])
	view.Team2 = nonEmpty(view.Slots[2:4])
	return view
}

func nonEmpty(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}

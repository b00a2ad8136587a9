// Package api declares HTTP contracts and route registration helpers
// for the rotation service.
package api

import (
	"net/http"
)

// queueResponse is the wire shape for queue reads and rebuilds.
type queueResponse struct {
	Queue  []string `json:"queue"`
	Length int      `json:"length"`
}

// QueueHandler serves the waiting line.
type QueueHandler struct {
	deps Dependencies
}

// NewQueueHandler creates a new queue handler.
func NewQueueHandler(deps Dependencies) *QueueHandler {
	return &QueueHandler{deps: deps}
}

// HandleGetQueue handles GET /queue requests.
func (h *QueueHandler) HandleGetQueue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := h.deps.Session(r.Context()).Queue
	writeJSON(w, http.StatusOK, queueResponse{Queue: q, Length: len(q)})
}

// HandleRebuild handles POST /queue/rebuild requests, replacing the
// line with the active unseated roster players in roster order.
func (h *QueueHandler) HandleRebuild(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	q := h.deps.RebuildQueue(r.Context())
	writeJSON(w, http.StatusOK, queueResponse{Queue: q, Length: len(q)})
}

// Package api declares HTTP contracts and route registration helpers
// for the rotation service.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/openplayhq/rally/internal/adapters/export"
	"github.com/openplayhq/rally/internal/adapters/standings"
	"github.com/openplayhq/rally/internal/domain/model"
	"github.com/openplayhq/rally/internal/domain/rotation"
	"github.com/openplayhq/rally/internal/domain/session"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Session returns a deep snapshot of the current session state.
	Session(ctx context.Context) session.Snapshot

	// Rotation operations.
	RebuildQueue(ctx context.Context) []string
	AssignCourt(ctx context.Context, courtID int) ([]string, error)
	AssignAll(ctx context.Context) map[int][]string
	ProcessWin(ctx context.Context, courtID int, winners []string) (rotation.Result, error)

	// Read models.
	History(ctx context.Context, limit int) []model.GameRecord
	Standings(ctx context.Context, n int) ([]standings.Entry, error)
	PlayerRank(ctx context.Context, name string) (standings.Entry, error)

	// Shell operations.
	ReplacePlayers(ctx context.Context, names []string) (added, removed []string)
	SetPlayerActive(ctx context.Context, name string, active bool) error
	UpdateSettings(ctx context.Context, next session.Settings) error
	ResetSession(ctx context.Context) error
	Export(ctx context.Context, format export.Format) (string, []byte, error)
}

// Entry mirrors the read shape returned by standings queries.
type Entry = standings.Entry

// Limits caps the list endpoints. Zero values fall back to defaults.
type Limits struct {
	History   int
	Standings int
}

// Default list caps applied when Limits carries zero values.
const (
	defaultHistoryLimit   = 100
	defaultStandingsLimit = 100
)

func (l Limits) withDefaults() Limits {
	if l.History < 1 {
		l.History = defaultHistoryLimit
	}
	if l.Standings < 1 {
		l.Standings = defaultStandingsLimit
	}
	return l
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	sessionHandler   *SessionHandler
	queueHandler     *QueueHandler
	courtsHandler    *CourtsHandler
	playersHandler   *PlayersHandler
	historyHandler   *HistoryHandler
	standingsHandler *StandingsHandler
	rankHandler      *RankHandler
	exportHandler    *ExportHandler
	dashboardHandler *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, limits Limits) *Server {
	limits = limits.withDefaults()
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		sessionHandler:   NewSessionHandler(deps),
		queueHandler:     NewQueueHandler(deps),
		courtsHandler:    NewCourtsHandler(deps),
		playersHandler:   NewPlayersHandler(deps),
		historyHandler:   NewHistoryHandler(deps, limits.History),
		standingsHandler: NewStandingsHandler(deps, limits.Standings),
		rankHandler:      NewRankHandler(deps),
		exportHandler:    NewExportHandler(deps),
		dashboardHandler: newDashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/session", MetricsMiddleware(s.sessionHandler.HandleGetSession, "session"))
	mux.HandleFunc("/session/settings", MetricsMiddleware(s.sessionHandler.HandleSettings, "session_settings"))
	mux.HandleFunc("/session/reset", MetricsMiddleware(s.sessionHandler.HandleReset, "session_reset"))
	mux.HandleFunc("/queue", MetricsMiddleware(s.queueHandler.HandleGetQueue, "queue"))
	mux.HandleFunc("/queue/rebuild", MetricsMiddleware(s.queueHandler.HandleRebuild, "queue_rebuild"))
	mux.HandleFunc("/courts", MetricsMiddleware(s.courtsHandler.HandleGetCourts, "courts"))
	mux.HandleFunc("/courts/assign", MetricsMiddleware(s.courtsHandler.HandleAssignAll, "courts_assign"))
	mux.HandleFunc("/courts/", MetricsMiddleware(s.courtsHandler.HandleCourt, "court"))
	mux.HandleFunc("/players", MetricsMiddleware(s.playersHandler.HandlePlayers, "players"))
	mux.HandleFunc("/players/", MetricsMiddleware(s.playersHandler.HandlePlayer, "player"))
	mux.HandleFunc("/history", MetricsMiddleware(s.historyHandler.HandleGetHistory, "history"))
	mux.HandleFunc("/standings", MetricsMiddleware(s.standingsHandler.HandleGetStandings, "standings"))
	mux.HandleFunc("/rank/", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
	mux.HandleFunc("/export", MetricsMiddleware(s.exportHandler.HandleExport, "export"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

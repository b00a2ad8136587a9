// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/openplayhq/rally/internal/adapters/export"
	"github.com/openplayhq/rally/internal/adapters/standings"
	"github.com/openplayhq/rally/internal/adapters/storage"
	"github.com/openplayhq/rally/internal/domain/model"
	"github.com/openplayhq/rally/internal/domain/rotation"
	"github.com/openplayhq/rally/internal/domain/session"
	"github.com/openplayhq/rally/pkg/logger"
	"github.com/openplayhq/rally/pkg/metrics"
)

// stopTimeout bounds the graceful shutdown of background components.
const stopTimeout = 5 * time.Second

// Service owns the live session state and serializes every operation
// on it. Reads hand out snapshots, never live references.
type Service struct {
	mu sync.RWMutex

	// Core components
	state     *session.State
	engine    *rotation.Engine
	standings standings.Store
	store     storage.Store
	writer    *storage.Writer

	// Configuration
	settings session.Settings

	// State
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		settings: session.DefaultSettings(),
		logger:   nil, // will be set when the service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components and, when a store is
// configured, restores the persisted session.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting session service...")

	if s.engine == nil {
		s.engine = rotation.New()
	}
	s.standings = standings.NewTreapStore(ctx)
	s.state = session.NewDefault(s.settings)

	if s.store != nil {
		if err := s.restore(ctx); err != nil {
			return err
		}
		s.writer = storage.NewWriter(s.store)
		go s.writer.Run(ctx)
	}

	if err := s.standings.Rebuild(ctx, s.state.History); err != nil {
		return fmt.Errorf("rebuild standings: %w", err)
	}

	s.started = true
	s.updateGauges()
	s.logger.Info(ctx, "session service started",
		logger.Int("players", s.state.Roster.Len()),
		logger.Int("courts", s.state.Settings.NumCourts),
		logger.Int("games", len(s.state.History)),
	)

	return nil
}

// restore replaces the fresh state with the stored session. A missing
// snapshot starts fresh; an unreadable one is logged and skipped, the
// way the paper sign-up sheet survives a torn page.
func (s *Service) restore(ctx context.Context) error {
	snap, err := s.store.LoadSnapshot(ctx)
	if errors.Is(err, storage.ErrNoSnapshot) {
		s.logger.Info(ctx, "no stored session, starting fresh")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	st, err := session.FromSnapshot(snap)
	if err != nil {
		s.logger.Warn(ctx, "stored session unusable, starting fresh", logger.Error(err))
		return nil
	}
	if err := st.Check(); err != nil {
		s.logger.Warn(ctx, "stored session fails invariants", logger.Error(err))
	}

	s.state = st
	s.settings = st.Settings
	s.logger.Info(ctx, "session restored",
		logger.Int("players", st.Roster.Len()),
		logger.Int("games", len(st.History)),
	)

	return nil
}

// Stop gracefully shuts down the service, flushing the final snapshot.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping session service...")

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	if s.writer != nil {
		if err := s.writer.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "snapshot writer shutdown", logger.Error(err))
		}
	}
	if closer, ok := s.standings.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	if s.store != nil {
		_ = s.store.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "session service stopped")
}

// Session returns a deep snapshot of the current session.
func (s *Service) Session(ctx context.Context) session.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state.Snapshot()
}

// RebuildQueue replaces the waiting line with the active, unseated
// roster players and returns the new queue.
func (s *Service) RebuildQueue(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.engine.RebuildQueue(s.state)
	s.persist()
	s.updateGauges()
	s.logger.Info(ctx, "queue rebuilt", logger.Int("waiting", n))

	return s.state.Queue.Names()
}

// AssignCourt fills one court from the front of the queue and returns
// the players placed.
func (s *Service) AssignCourt(ctx context.Context, courtID int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	placed, err := s.engine.AssignCourt(s.state, courtID)
	if err != nil {
		metrics.RecordErrorByComponent("service", "unknown_court")
		return nil, err
	}
	if len(placed) > 0 {
		metrics.RecordCourtAssignments(len(placed))
		s.persist()
		s.updateGauges()
	}
	s.logger.Info(ctx, "court assigned",
		logger.Int("court", courtID),
		logger.Any("placed", placed),
	)

	return placed, nil
}

// AssignAll fills every court in ascending id order. The result maps
// court id to the players placed there.
func (s *Service) AssignAll(ctx context.Context) map[int][]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	placed := s.engine.AssignAll(s.state)
	total := 0
	for _, names := range placed {
		total += len(names)
	}
	if total > 0 {
		metrics.RecordCourtAssignments(total)
		s.persist()
		s.updateGauges()
	}
	s.logger.Info(ctx, "all courts assigned", logger.Int("placed", total))

	return placed
}

// ProcessWin settles a finished game and rotates the court.
func (s *Service) ProcessWin(ctx context.Context, courtID int, winners []string) (rotation.Result, error) {
	start := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.engine.ProcessWin(s.state, courtID, winners)
	if err != nil {
		metrics.RecordInvalidResult(invalidReason(err))
		return rotation.Result{}, err
	}

	if err := s.standings.Apply(ctx, res.Record); err != nil {
		s.logger.Error(ctx, "standings update failed",
			logger.String("game", res.Record.ID),
			logger.Error(err),
		)
	}

	s.persist()
	s.updateGauges()

	metrics.RecordGameProcessed()
	metrics.RecordWinnersRetained(len(res.Kept))
	metrics.RecordWinnersRequeued(len(res.Requeued))
	metrics.RecordPairingsRecorded(res.NewPairings)
	metrics.RecordRotationLatency(float64(time.Since(start).Milliseconds()))

	s.logger.Info(ctx, "game processed",
		logger.Int("court", courtID),
		logger.Any("winners", winners),
		logger.Any("kept", res.Kept),
		logger.Any("placed", res.Placed),
	)

	return res, nil
}

// History returns the most recent games, newest first. A limit of zero
// or less returns everything.
func (s *Service) History(ctx context.Context, limit int) []model.GameRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.state.History)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]model.GameRecord, limit)
	for i := 0; i < limit; i++ {
		out[i] = s.state.History[n-1-i]
	}

	return out
}

// Standings returns the top n ranked players.
func (s *Service) Standings(ctx context.Context, n int) ([]standings.Entry, error) {
	return s.standings.TopN(ctx, n)
}

// PlayerRank returns one player's standing.
func (s *Service) PlayerRank(ctx context.Context, name string) (standings.Entry, error) {
	return s.standings.Rank(ctx, name)
}

// ReplacePlayers swaps the roster for the given names and returns the
// diff. Departed players leave the queue and courts immediately.
func (s *Service) ReplacePlayers(ctx context.Context, names []string) (added, removed []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	added, removed = s.state.ReplaceRoster(names)
	s.persist()
	s.updateGauges()
	s.logger.Info(ctx, "roster replaced",
		logger.Int("players", s.state.Roster.Len()),
		logger.Any("added", added),
		logger.Any("removed", removed),
	)

	return added, removed
}

// SetPlayerActive flips one player's active flag.
func (s *Service) SetPlayerActive(ctx context.Context, name string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.state.SetActive(name, active); err != nil {
		return err
	}
	s.persist()
	s.updateGauges()
	s.logger.Info(ctx, "player toggled",
		logger.String("player", name),
		logger.Bool("active", active),
	)

	return nil
}

// UpdateSettings applies new session settings, resetting courts,
// streaks, pairings, and the queue while keeping game history.
func (s *Service) UpdateSettings(ctx context.Context, next session.Settings) error {
	if err := next.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.ApplySettings(next)
	s.settings = next
	s.persist()
	s.updateGauges()
	s.logger.Info(ctx, "settings applied",
		logger.Int("courts", next.NumCourts),
		logger.Int("players", next.NumPlayers),
		logger.Int("maxConsecutiveGames", next.MaxConsecutiveGames),
	)

	return nil
}

// ResetSession wipes the session back to defaults built from the
// current settings. Stored state and standings are cleared too.
func (s *Service) ResetSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Reset(ctx); err != nil {
			return fmt.Errorf("reset storage: %w", err)
		}
	}

	s.state = s.state.Reset()
	if err := s.standings.Rebuild(ctx, nil); err != nil {
		s.logger.Error(ctx, "standings reset failed", logger.Error(err))
	}
	s.persist()
	s.updateGauges()
	s.logger.Info(ctx, "session reset",
		logger.Int("players", s.state.Roster.Len()),
		logger.Int("courts", s.state.Settings.NumCourts),
	)

	return nil
}

// Export renders the session in the requested format and returns the
// download filename with the document bytes.
func (s *Service) Export(ctx context.Context, format export.Format) (string, []byte, error) {
	s.mu.RLock()
	snap := s.state.Snapshot()
	s.mu.RUnlock()

	var (
		data []byte
		err  error
	)
	switch format {
	case export.FormatCSV:
		data, err = export.CSV(snap)
	default:
		format = export.FormatExcel
		data, err = export.Excel(snap)
	}
	if err != nil {
		return "", nil, err
	}

	metrics.RecordExport(string(format))
	s.logger.Info(ctx, "history exported",
		logger.String("format", string(format)),
		logger.Int("games", len(snap.History)),
	)

	return export.Filename(format, time.Now()), data, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started": s.started,
	}

	if s.started {
		stats["players"] = s.state.Roster.Len()
		stats["activePlayers"] = s.state.Roster.ActiveCount()
		stats["queueLength"] = s.state.Queue.Len()
		stats["seatedPlayers"] = len(s.state.Courts.Seated())
		stats["courts"] = s.state.Settings.NumCourts
		stats["gamesPlayed"] = len(s.state.History)
		stats["rankedPlayers"] = s.standings.Count(ctx)

		if cached, ok := s.standings.(interface{ Cached() *standings.Snapshot }); ok {
			if snap := cached.Cached(); snap != nil {
				stats["topPlayers"] = snap.TopCache
			}
		}

		s.updateGauges()
	}

	return stats
}

// persist hands the current state to the snapshot writer. Callers must
// hold the lock.
func (s *Service) persist() {
	if s.writer == nil {
		return
	}
	s.writer.Submit(s.state.Snapshot())
}

// updateGauges refreshes the session gauges. Callers must hold the
// lock.
func (s *Service) updateGauges() {
	metrics.UpdateQueueLength(s.state.Queue.Len())
	metrics.UpdateSeatedPlayers(len(s.state.Courts.Seated()))
	metrics.UpdateActivePlayers(s.state.Roster.ActiveCount())
	metrics.UpdateRosterSize(s.state.Roster.Len())

	inPlay := 0
	for _, c := range s.state.Courts.Courts() {
		if !c.Empty() {
			inPlay++
		}
	}
	metrics.UpdateCourtsInPlay(inPlay)
}

func invalidReason(err error) string {
	switch {
	case errors.Is(err, rotation.ErrUnknownCourt):
		return "unknown_court"
	case errors.Is(err, rotation.ErrInvalidWinnerCount):
		return "invalid_winner_count"
	case errors.Is(err, rotation.ErrInvalidWinners):
		return "invalid_winners"
	default:
		return "internal"
	}
}

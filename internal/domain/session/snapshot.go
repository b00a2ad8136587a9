package session

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/openplayhq/rally/internal/domain/court"
	"github.com/openplayhq/rally/internal/domain/model"
	"github.com/openplayhq/rally/internal/domain/pairing"
	"github.com/openplayhq/rally/internal/domain/queue"
	"github.com/openplayhq/rally/internal/domain/roster"
	"github.com/openplayhq/rally/internal/domain/streak"
)

// Snapshot is the serializable form of a session. Field names follow
// the stored JSON document, so snapshots written by earlier builds
// load unchanged. Court ids are string keys and empty strings mark
// vacant slots.
type Snapshot struct {
	Settings  Settings                `json:"config"`
	Players   []string                `json:"players"`
	Active    map[string]bool         `json:"active"`
	Queue     []string                `json:"queue"`
	Courts    map[string][]string     `json:"courts"`
	Streaks   map[string]streak.State `json:"streaks"`
	History   []model.GameRecord      `json:"history"`
	PastTeams map[string][]string     `json:"past_teams"`
}

// Snapshot captures the session as a deep copy safe to serialize while
// the live state keeps mutating.
func (s *State) Snapshot() Snapshot {
	names := s.Roster.Names()

	courts := make(map[string][]string, s.Courts.Count())
	for id, c := range s.Courts.Courts() {
		slots := make([]string, len(c))
		copy(slots, c[:])
		courts[strconv.Itoa(id)] = slots
	}

	history := make([]model.GameRecord, len(s.History))
	copy(history, s.History)

	return Snapshot{
		Settings:  s.Settings,
		Players:   names,
		Active:    s.Roster.ActiveFlags(),
		Queue:     s.Queue.Names(),
		Courts:    courts,
		Streaks:   s.Streaks.States(names...),
		History:   history,
		PastTeams: s.Pairings.PartnersByPlayer(names...),
	}
}

// FromSnapshot rebuilds a session from a stored snapshot. History
// records without an id are assigned one, so documents written before
// ids existed load cleanly. Returns ErrInvalidSnapshot when the
// document cannot describe a coherent session.
func FromSnapshot(snap Snapshot) (*State, error) {
	if snap.Settings.NumCourts < 1 {
		return nil, fmt.Errorf("%w: num_courts %d", ErrInvalidSnapshot, snap.Settings.NumCourts)
	}
	if snap.Settings.MaxConsecutiveGames < 1 {
		return nil, fmt.Errorf("%w: max_consec_games %d", ErrInvalidSnapshot, snap.Settings.MaxConsecutiveGames)
	}

	st := &State{
		Settings: snap.Settings,
		Roster:   roster.New(nil),
		Queue:    queue.New(),
		Courts:   court.NewBank(snap.Settings.NumCourts),
		Streaks:  streak.NewTracker(),
		Pairings: pairing.New(),
	}
	st.Roster.Restore(snap.Players, snap.Active)
	st.Queue.Rebuild(snap.Queue)
	st.Streaks.Restore(snap.Streaks)
	st.Pairings.Restore(snap.PastTeams)

	for key, slots := range snap.Courts {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("%w: court id %q", ErrInvalidSnapshot, key)
		}
		if !st.Courts.Valid(id) {
			return nil, fmt.Errorf("%w: court id %d outside 1..%d", ErrInvalidSnapshot, id, snap.Settings.NumCourts)
		}
		if len(slots) > model.CourtSlots {
			return nil, fmt.Errorf("%w: court %d has %d slots", ErrInvalidSnapshot, id, len(slots))
		}
		var c court.Court
		copy(c[:], slots)
		st.Courts.Set(id, c)
	}

	st.History = make([]model.GameRecord, len(snap.History))
	copy(st.History, snap.History)
	for i := range st.History {
		if st.History[i].ID == "" {
			st.History[i].ID = uuid.NewString()
		}
	}

	return st, nil
}

// Check verifies the placement and streak invariants: nobody is both
// waiting and seated or seated twice, every placed name is on the
// roster, queued players carry no streak, and seated streaks stay
// within the consecutive-games cap. Loaded snapshots from older builds
// may legitimately fail this; callers decide whether that is fatal.
func (s *State) Check() error {
	seen := make(map[string]string)

	for _, name := range s.Queue.Names() {
		if !s.Roster.Has(name) {
			return fmt.Errorf("queued player %s is not on the roster", name)
		}
		seen[name] = "queue"
		if got := s.Streaks.OnCourt(name); got != 0 {
			return fmt.Errorf("queued player %s has streak %d, want 0", name, got)
		}
	}

	for _, name := range s.Courts.Seated() {
		if !s.Roster.Has(name) {
			return fmt.Errorf("seated player %s is not on the roster", name)
		}
		if where, ok := seen[name]; ok {
			if where == "court" {
				return fmt.Errorf("player %s is seated twice", name)
			}

			return fmt.Errorf("player %s is both queued and seated", name)
		}
		seen[name] = "court"
		got := s.Streaks.OnCourt(name)
		if got < 1 || got > s.Settings.MaxConsecutiveGames {
			return fmt.Errorf("seated player %s has streak %d, want 1..%d",
				name, got, s.Settings.MaxConsecutiveGames)
		}
	}

	return nil
}

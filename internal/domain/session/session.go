// Package session holds the aggregate state of one open-play session
// and the shell-level operations that reshape it (settings, roster
// edits, reset). The rotation engine mutates this state but never owns
// it.
package session

import (
	"fmt"

	"github.com/openplayhq/rally/internal/domain/court"
	"github.com/openplayhq/rally/internal/domain/model"
	"github.com/openplayhq/rally/internal/domain/pairing"
	"github.com/openplayhq/rally/internal/domain/queue"
	"github.com/openplayhq/rally/internal/domain/roster"
	"github.com/openplayhq/rally/internal/domain/streak"
)

// Default session settings.
const (
	DefaultMaxConsecutiveGames = 2
	DefaultNumCourts           = 3
	DefaultNumPlayers          = 20
	DefaultScoreToWin          = 11
)

// Settings are the operator-tunable session parameters. ScoreToWin is
// carried for display and export only; no rotation rule reads it.
type Settings struct {
	MaxConsecutiveGames int `json:"max_consec_games"`
	NumCourts           int `json:"num_courts"`
	NumPlayers          int `json:"num_players"`
	ScoreToWin          int `json:"score_to_win"`
}

// DefaultSettings returns the out-of-the-box session parameters.
func DefaultSettings() Settings {
	return Settings{
		MaxConsecutiveGames: DefaultMaxConsecutiveGames,
		NumCourts:           DefaultNumCourts,
		NumPlayers:          DefaultNumPlayers,
		ScoreToWin:          DefaultScoreToWin,
	}
}

// Validate reports whether the settings can describe a session.
func (s Settings) Validate() error {
	if s.MaxConsecutiveGames < 1 {
		return fmt.Errorf("%w: max_consec_games %d", ErrInvalidSettings, s.MaxConsecutiveGames)
	}
	if s.NumCourts < 1 {
		return fmt.Errorf("%w: num_courts %d", ErrInvalidSettings, s.NumCourts)
	}
	if s.NumPlayers < 0 {
		return fmt.Errorf("%w: num_players %d", ErrInvalidSettings, s.NumPlayers)
	}
	if s.ScoreToWin < 0 {
		return fmt.Errorf("%w: score_to_win %d", ErrInvalidSettings, s.ScoreToWin)
	}

	return nil
}

// State is the complete mutable state of one session. It is a plain
// aggregate with no locking; the owner serializes access.
type State struct {
	Settings Settings
	Roster   *roster.Roster
	Queue    *queue.Queue
	Courts   *court.Bank
	Streaks  *streak.Tracker
	Pairings *pairing.History
	History  []model.GameRecord
}

// NewDefault builds a fresh session for the given settings: a generated
// roster of NumPlayers active players, all of them waiting in roster
// order, and NumCourts empty courts.
func NewDefault(s Settings) *State {
	st := &State{
		Settings: s,
		Roster:   roster.New(roster.Generate(s.NumPlayers)),
		Queue:    queue.New(),
		Courts:   court.NewBank(s.NumCourts),
		Streaks:  streak.NewTracker(),
		Pairings: pairing.New(),
	}
	st.Streaks.Init(st.Roster.Names())
	st.Queue.Rebuild(st.Roster.ActiveNames())

	return st
}

// Reset returns a brand-new default session keeping only the current
// settings. Roster names, queue order, courts, streaks, pairings, and
// history are all discarded.
func (s *State) Reset() *State {
	return NewDefault(s.Settings)
}

// ApplySettings replaces the settings and rebuilds the dynamic state
// around them: courts are re-created at the new count, streaks and
// pairing history start over, and the queue refills from active
// players. The roster is regenerated only when the player count
// changed; game history is kept.
func (s *State) ApplySettings(next Settings) {
	s.Settings = next
	if s.Roster.Len() != next.NumPlayers {
		s.Roster = roster.New(roster.Generate(next.NumPlayers))
	}
	s.Courts = court.NewBank(next.NumCourts)
	s.Streaks.Init(s.Roster.Names())
	s.Pairings.Reset()
	s.Queue.Rebuild(s.Roster.ActiveNames())
}

// ReplaceRoster swaps the player list. Kept players retain their active
// flag and all their session state. Departed players are purged from
// the queue, courts, streaks, and pairing history so no stale name can
// re-enter the rotation. The queue order of remaining players is
// preserved; callers wanting a fresh line rebuild it explicitly.
func (s *State) ReplaceRoster(names []string) (added, removed []string) {
	added, removed = s.Roster.Replace(names)
	for _, name := range removed {
		s.Queue.Remove(name)
		s.Courts.Remove(name)
		s.Streaks.Remove(name)
		s.Pairings.Forget(name)
	}

	return added, removed
}

// SetActive flips one player's active flag. The flag alone moves
// nobody: a deactivated player keeps their place in the queue or on
// court until the next queue rebuild filters them out.
func (s *State) SetActive(name string, active bool) error {
	return s.Roster.SetActive(name, active)
}

// Seated reports whether name currently occupies any court slot.
func (s *State) Seated(name string) bool {
	_, _, ok := s.Courts.SeatOf(name)

	return ok
}

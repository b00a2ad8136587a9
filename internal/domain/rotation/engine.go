// Package rotation implements the court rotation engine: filling court
// slots from the waiting queue and turning game results into the next
// layout. It consults pairing history to keep repeat teammates apart
// and the streak tracker to cap consecutive games, mutating session
// state handed in by the caller.
package rotation

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/openplayhq/rally/internal/domain/court"
	"github.com/openplayhq/rally/internal/domain/model"
	"github.com/openplayhq/rally/internal/domain/session"
)

// Engine drives queue-to-court transitions. It owns no session state
// and is safe to share across sessions as long as each session's calls
// are serialized by the caller.
type Engine struct {
	now   func() time.Time
	newID func() string
}

// New creates an engine with configuration options.
func New(opts ...Option) *Engine {
	e := &Engine{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Result describes the state changes of one processed game.
type Result struct {
	// Record is the appended history entry.
	Record model.GameRecord
	// Kept are the winners retained on the court, in slot order.
	Kept []string
	// Requeued are the players sent back to the waiting line, in
	// enqueue order: losers first, then winners over the streak cap.
	Requeued []string
	// Placed are the players seated from the queue into the new
	// layout, in placement order.
	Placed []string
	// NewPairings counts teammate pairs recorded for the first time.
	NewPairings int
}

// AssignCourt fills the court's empty slots from the front of the
// queue, in slot order, until the court is full or the queue runs dry.
// Newly seated players start a streak of one. No teammate avoidance
// applies on this path; it is a plain fill from the front of the line.
// Calling it on a full court is a no-op.
func (e *Engine) AssignCourt(st *session.State, courtID int) ([]string, error) {
	c, ok := st.Courts.Get(courtID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCourt, courtID)
	}

	var placed []string
	for slot := 0; slot < model.CourtSlots; slot++ {
		if c[slot] != "" {
			continue
		}
		name, err := st.Queue.DequeueFront()
		if err != nil {
			break
		}
		c[slot] = name
		st.Streaks.Seat(name)
		placed = append(placed, name)
	}
	st.Courts.Set(courtID, c)

	return placed, nil
}

// AssignAll applies AssignCourt to every court in ascending id order.
// The result maps court id to the players placed there; courts that
// gained nobody are omitted.
func (e *Engine) AssignAll(st *session.State) map[int][]string {
	out := make(map[int][]string)
	for _, id := range st.Courts.IDs() {
		placed, err := e.AssignCourt(st, id)
		if err != nil || len(placed) == 0 {
			continue
		}
		out[id] = placed
	}

	return out
}

// RebuildQueue replaces the waiting line with every active roster
// player who is not seated on a court, in roster order. It returns the
// new queue length.
func (e *Engine) RebuildQueue(st *session.State) int {
	names := make([]string, 0, st.Roster.Len())
	for _, name := range st.Roster.ActiveNames() {
		if !st.Seated(name) {
			names = append(names, name)
		}
	}
	st.Queue.Rebuild(names)

	return st.Queue.Len()
}

// ProcessWin settles a finished game: it validates the winners, logs
// the game, records teammate pairings, benches the losers, retains
// winners under the consecutive-games cap, and refills the court from
// the queue while steering past teammates apart. Validation failures
// mutate nothing.
func (e *Engine) ProcessWin(st *session.State, courtID int, winners []string) (Result, error) {
	c, ok := st.Courts.Get(courtID)
	if !ok {
		return Result{}, fmt.Errorf("%w: %d", ErrUnknownCourt, courtID)
	}

	distinct := make(map[string]struct{}, len(winners))
	for _, w := range winners {
		if !c.Contains(w) {
			return Result{}, fmt.Errorf("%w: %s is not on court %d", ErrInvalidWinners, w, courtID)
		}
		distinct[w] = struct{}{}
	}
	if len(distinct) != model.TeamSize {
		return Result{}, fmt.Errorf("%w: need %d distinct names, got %d",
			ErrInvalidWinnerCount, model.TeamSize, len(distinct))
	}

	var picked model.Team
	i := 0
	for w := range distinct {
		picked[i] = w
		i++
	}

	team1, team2 := c.Team1(), c.Team2()
	var winTeam, loseTeam model.Team
	switch {
	case picked.Equal(team1):
		winTeam, loseTeam = team1, team2
	case picked.Equal(team2):
		winTeam, loseTeam = team2, team1
	default:
		return Result{}, fmt.Errorf("%w: %s and %s are not a team on court %d",
			ErrInvalidWinners, picked[0], picked[1], courtID)
	}

	res := Result{
		Record: model.GameRecord{
			ID:       e.newID(),
			PlayedAt: e.now(),
			Court:    courtID,
			Team1:    team1,
			Team2:    team2,
			Winners:  winTeam,
		},
	}
	st.History = append(st.History, res.Record)

	if st.Pairings.Record(team1[0], team1[1]) {
		res.NewPairings++
	}
	if st.Pairings.Record(team2[0], team2[1]) {
		res.NewPairings++
	}

	for _, name := range res.Record.Participants() {
		st.Streaks.AddGame(name)
	}

	for _, loser := range loseTeam {
		if loser == "" {
			continue
		}
		st.Queue.Enqueue(loser)
		st.Streaks.Bench(loser)
		res.Requeued = append(res.Requeued, loser)
	}

	for _, winner := range winTeam {
		if winner == "" {
			continue
		}
		if st.Streaks.OnCourt(winner) < st.Settings.MaxConsecutiveGames {
			res.Kept = append(res.Kept, winner)
		} else {
			st.Queue.Enqueue(winner)
			st.Streaks.Bench(winner)
			res.Requeued = append(res.Requeued, winner)
		}
	}

	// Kept winners split across the new teams so a winning pair never
	// repeats as teammates automatically.
	var next court.Court
	switch len(res.Kept) {
	case model.TeamSize:
		next[0] = res.Kept[0]
		next[2] = res.Kept[1]
	case 1:
		next[0] = res.Kept[0]
	}

	for slot := 0; slot < model.CourtSlots; slot++ {
		if next[slot] != "" {
			continue
		}
		name := e.pickCandidate(st, next.SameHalf(slot))
		if name == "" {
			continue
		}
		next[slot] = name
		st.Streaks.Seat(name)
		res.Placed = append(res.Placed, name)
	}
	st.Courts.Set(courtID, next)

	return res, nil
}

// pickCandidate scans the queue once, front to back, for the first
// player who has never teamed with any provisional teammate, sending
// skipped players to the tail. When everyone conflicts it falls back
// to plainly dequeuing the front: avoidance is best effort, the
// rotation never stalls. Returns "" when the queue is empty.
func (e *Engine) pickCandidate(st *session.State, teammates []string) string {
	qlen := st.Queue.Len()
	for i := 0; i < qlen; i++ {
		name, err := st.Queue.DequeueFront()
		if err != nil {
			break
		}
		conflict := false
		for _, tm := range teammates {
			if st.Pairings.HasPaired(tm, name) {
				conflict = true

				break
			}
		}
		if !conflict {
			return name
		}
		st.Queue.Enqueue(name)
	}

	name, err := st.Queue.DequeueFront()
	if err != nil {
		return ""
	}

	return name
}

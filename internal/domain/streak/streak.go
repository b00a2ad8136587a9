// Package streak tracks how many consecutive games each player has
// stayed on court, plus a lifetime games counter.
package streak

// State is one player's counters. OnCourt is the consecutive-game
// streak the rotation rules consult; Overall counts games played across
// the whole session and feeds no rule.
type State struct {
	OnCourt int `json:"on_court"`
	Overall int `json:"overall"`
}

// Tracker holds per-player streak state. Players unknown to the tracker
// read as zero and are created on first write. Not safe for concurrent
// use; callers serialize access.
type Tracker struct {
	states map[string]State
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{states: make(map[string]State)}
}

// Init resets the tracker to zero state for exactly the given players.
func (t *Tracker) Init(names []string) {
	t.states = make(map[string]State, len(names))
	for _, name := range names {
		if name != "" {
			t.states[name] = State{}
		}
	}
}

// Get returns a player's counters, zero for unknown players.
func (t *Tracker) Get(name string) State {
	return t.states[name]
}

// OnCourt returns a player's consecutive-game streak.
func (t *Tracker) OnCourt(name string) int {
	return t.states[name].OnCourt
}

// Seat marks a player as newly placed into a court slot, starting a
// streak of one. Players who stay seated between games are not
// re-seated; their streak is left as is.
func (t *Tracker) Seat(name string) {
	if name == "" {
		return
	}
	s := t.states[name]
	s.OnCourt = 1
	t.states[name] = s
}

// Bench zeroes a player's consecutive-game streak.
func (t *Tracker) Bench(name string) {
	if name == "" {
		return
	}
	s := t.states[name]
	s.OnCourt = 0
	t.states[name] = s
}

// AddGame bumps a player's lifetime games counter.
func (t *Tracker) AddGame(name string) {
	if name == "" {
		return
	}
	s := t.states[name]
	s.Overall++
	t.states[name] = s
}

// Remove drops a player from the tracker.
func (t *Tracker) Remove(name string) {
	delete(t.states, name)
}

// States returns a copy of all tracked counters. Players passed in
// extra are present in the result even when untracked.
func (t *Tracker) States(extra ...string) map[string]State {
	out := make(map[string]State, len(t.states)+len(extra))
	for _, name := range extra {
		if name != "" {
			out[name] = State{}
		}
	}
	for name, s := range t.states {
		out[name] = s
	}

	return out
}

// Restore replaces all counters with previously saved state.
func (t *Tracker) Restore(states map[string]State) {
	t.states = make(map[string]State, len(states))
	for name, s := range states {
		if name != "" {
			t.states[name] = s
		}
	}
}

// Package roster maintains the session's ordered player list and each
// player's active flag.
package roster

import (
	"fmt"

	"github.com/openplayhq/rally/internal/domain/model"
)

// Roster is the set of known players in display order. Inactive players
// stay on the list but are skipped when the waiting queue is rebuilt.
// Not safe for concurrent use; callers serialize access.
type Roster struct {
	names  []string
	active map[string]bool
}

// New creates a roster from the given names, all active. Empty names
// and duplicates are dropped, keeping first occurrence order.
func New(names []string) *Roster {
	r := &Roster{
		names:  make([]string, 0, len(names)),
		active: make(map[string]bool, len(names)),
	}
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, ok := r.active[name]; ok {
			continue
		}
		r.names = append(r.names, name)
		r.active[name] = true
	}

	return r
}

// Generate returns n default player names, "Player 1" through "Player n".
func Generate(n int) []string {
	if n <= 0 {
		return nil
	}
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("Player %d", i+1)
	}

	return names
}

// Len returns the number of players on the roster.
func (r *Roster) Len() int {
	return len(r.names)
}

// Names returns the player names in roster order.
func (r *Roster) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)

	return out
}

// Players returns the roster as model players with active flags.
func (r *Roster) Players() []model.Player {
	out := make([]model.Player, len(r.names))
	for i, name := range r.names {
		out[i] = model.Player{Name: name, Active: r.active[name]}
	}

	return out
}

// Has reports whether name is on the roster.
func (r *Roster) Has(name string) bool {
	_, ok := r.active[name]

	return ok
}

// IsActive reports whether name is on the roster and active.
func (r *Roster) IsActive(name string) bool {
	return r.active[name]
}

// ActiveNames returns active players in roster order.
func (r *Roster) ActiveNames() []string {
	out := make([]string, 0, len(r.names))
	for _, name := range r.names {
		if r.active[name] {
			out = append(out, name)
		}
	}

	return out
}

// ActiveCount returns the number of active players.
func (r *Roster) ActiveCount() int {
	n := 0
	for _, name := range r.names {
		if r.active[name] {
			n++
		}
	}

	return n
}

// SetActive flips a player's active flag. Unknown names return
// ErrUnknownPlayer.
func (r *Roster) SetActive(name string, active bool) error {
	if _, ok := r.active[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, name)
	}
	r.active[name] = active

	return nil
}

// Replace swaps the roster for the given names. Players kept across the
// edit retain their active flag; new players start active. It returns
// the names that joined and the names that left, so callers can purge
// departed players from the rest of the session state.
func (r *Roster) Replace(names []string) (added, removed []string) {
	next := New(names)
	for _, name := range next.names {
		if flag, ok := r.active[name]; ok {
			next.active[name] = flag
		} else {
			added = append(added, name)
		}
	}
	for _, name := range r.names {
		if !next.Has(name) {
			removed = append(removed, name)
		}
	}
	r.names = next.names
	r.active = next.active

	return added, removed
}

// Restore replaces the roster with previously saved names and flags.
// Names missing from flags default to active.
func (r *Roster) Restore(names []string, flags map[string]bool) {
	next := New(names)
	for name, flag := range flags {
		if next.Has(name) {
			next.active[name] = flag
		}
	}
	r.names = next.names
	r.active = next.active
}

// ActiveFlags returns a copy of the per-player active flags.
func (r *Roster) ActiveFlags() map[string]bool {
	out := make(map[string]bool, len(r.active))
	for name, flag := range r.active {
		out[name] = flag
	}

	return out
}

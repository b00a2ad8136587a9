// Package court models the bank of courts and the four player slots on
// each. Slots 0 and 1 form team one, slots 2 and 3 team two.
package court

import "github.com/openplayhq/rally/internal/domain/model"

// Court is a single court's slots. An empty string marks a vacant slot.
type Court [model.CourtSlots]string

// Team1 returns the players in the first two slots.
func (c Court) Team1() model.Team {
	return model.Team{c[0], c[1]}
}

// Team2 returns the players in the last two slots.
func (c Court) Team2() model.Team {
	return model.Team{c[2], c[3]}
}

// Contains reports whether name occupies a slot on the court.
func (c Court) Contains(name string) bool {
	if name == "" {
		return false
	}
	for _, n := range c {
		if n == name {
			return true
		}
	}

	return false
}

// Full reports whether all four slots are occupied.
func (c Court) Full() bool {
	for _, n := range c {
		if n == "" {
			return false
		}
	}

	return true
}

// Empty reports whether no slot is occupied.
func (c Court) Empty() bool {
	for _, n := range c {
		if n != "" {
			return false
		}
	}

	return true
}

// Occupied returns the seated players in slot order.
func (c Court) Occupied() []string {
	out := make([]string, 0, len(c))
	for _, n := range c {
		if n != "" {
			out = append(out, n)
		}
	}

	return out
}

// EmptySlots returns the indexes of vacant slots in order.
func (c Court) EmptySlots() []int {
	out := make([]int, 0, len(c))
	for i, n := range c {
		if n == "" {
			out = append(out, i)
		}
	}

	return out
}

// SameHalf returns the occupied slots sharing a team with slot,
// excluding slot itself. Used to judge teammate repeats when filling a
// vacancy.
func (c Court) SameHalf(slot int) []string {
	if slot < 0 || slot >= len(c) {
		return nil
	}
	lo := 0
	if slot >= model.TeamSize {
		lo = model.TeamSize
	}
	out := make([]string, 0, model.TeamSize-1)
	for i := lo; i < lo+model.TeamSize; i++ {
		if i != slot && c[i] != "" {
			out = append(out, c[i])
		}
	}

	return out
}

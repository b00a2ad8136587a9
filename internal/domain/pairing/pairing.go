// Package pairing records which players have already been teammates so
// court assignment can steer repeat partners apart.
package pairing

import "sort"

// History is a symmetric index of past teammate pairs. It is not safe
// for concurrent use; callers serialize access.
type History struct {
	partners map[string]map[string]struct{}
	pairs    int
}

// New creates an empty pairing history.
func New() *History {
	return &History{
		partners: make(map[string]map[string]struct{}),
	}
}

// Record stores that a and b played on the same team. It returns true
// when the pair is new, false when it was already known or the pair is
// degenerate (empty name or a player paired with themselves).
func (h *History) Record(a, b string) bool {
	if a == "" || b == "" || a == b {
		return false
	}
	if h.hasPaired(a, b) {
		return false
	}
	h.link(a, b)
	h.link(b, a)
	h.pairs++

	return true
}

// HasPaired reports whether a and b have been teammates before.
func (h *History) HasPaired(a, b string) bool {
	if a == b {
		return false
	}

	return h.hasPaired(a, b)
}

// Partners returns the sorted list of players name has teamed with.
func (h *History) Partners(name string) []string {
	set, ok := h.partners[name]
	if !ok || len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)

	return out
}

// Forget removes a player and every pair they appear in. Used when a
// roster edit drops the player from the session.
func (h *History) Forget(name string) {
	set, ok := h.partners[name]
	if !ok {
		return
	}
	for p := range set {
		delete(h.partners[p], name)
		if len(h.partners[p]) == 0 {
			delete(h.partners, p)
		}
		h.pairs--
	}
	delete(h.partners, name)
}

// Len returns the number of distinct recorded pairs.
func (h *History) Len() int {
	return h.pairs
}

// Reset discards all recorded pairs.
func (h *History) Reset() {
	h.partners = make(map[string]map[string]struct{})
	h.pairs = 0
}

// PartnersByPlayer returns a deep copy of the history keyed by player,
// suitable for serialization. Players passed in extra are present in
// the result even when they have no recorded partners.
func (h *History) PartnersByPlayer(extra ...string) map[string][]string {
	out := make(map[string][]string, len(h.partners)+len(extra))
	for _, name := range extra {
		if name != "" {
			out[name] = []string{}
		}
	}
	for name := range h.partners {
		out[name] = h.Partners(name)
	}

	return out
}

// Restore replaces the history with the given partner lists. Links are
// symmetrized, so one-sided input is tolerated.
func (h *History) Restore(byPlayer map[string][]string) {
	h.Reset()
	for name, partners := range byPlayer {
		for _, p := range partners {
			h.Record(name, p)
		}
	}
}

func (h *History) hasPaired(a, b string) bool {
	set, ok := h.partners[a]
	if !ok {
		return false
	}
	_, seen := set[b]

	return seen
}

func (h *History) link(a, b string) {
	set, ok := h.partners[a]
	if !ok {
		set = make(map[string]struct{})
		h.partners[a] = set
	}
	set[b] = struct{}{}
}

package simulation

import (
	"fmt"
)

// verifySession checks the rotation invariants on a session snapshot:
// every player occupies at most one place, queued players carry no
// streak, seated streaks stay within the cap, and pairing history is
// symmetric. Returns one message per violation.
func verifySession(s *Session) []string {
	var violations []string

	seen := make(map[string]string)
	for _, name := range s.Queue {
		if where, ok := seen[name]; ok {
			violations = append(violations, fmt.Sprintf("%s appears in the queue and %s", name, where))
			continue
		}
		seen[name] = "the queue"
	}
	for courtID, slots := range s.Courts {
		for _, name := range slots {
			if name == "" {
				continue
			}
			if where, ok := seen[name]; ok {
				violations = append(violations, fmt.Sprintf("%s is on court %s and in %s", name, courtID, where))
				continue
			}
			seen[name] = "court " + courtID
		}
	}

	for _, name := range s.Queue {
		if st := s.Streaks[name]; st.OnCourt != 0 {
			violations = append(violations, fmt.Sprintf("queued player %s has streak %d", name, st.OnCourt))
		}
	}
	streakCap := s.Settings.MaxConsecutiveGames
	for courtID, slots := range s.Courts {
		for _, name := range slots {
			if name == "" {
				continue
			}
			st := s.Streaks[name]
			if st.OnCourt < 1 || st.OnCourt > streakCap {
				violations = append(violations, fmt.Sprintf(
					"player %s on court %s has streak %d, want 1..%d", name, courtID, st.OnCourt, streakCap))
			}
		}
	}

	for name, partners := range s.PastTeams {
		for _, partner := range partners {
			if !contains(s.PastTeams[partner], name) {
				violations = append(violations, fmt.Sprintf(
					"pairing %s->%s is not mirrored", name, partner))
			}
		}
	}

	return violations
}

func contains(names []string, want string) bool {
	for _, name := range names {
		if name == want {
			return true
		}
	}
	return false
}

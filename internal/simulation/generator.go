package simulation

import (
	"math/rand"
)

// round is one generated game result: a court and the winning team.
type round struct {
	courtID int
	winners []string
}

// generator picks randomized results from live court state.
type generator struct {
	rng *rand.Rand
}

// newGenerator creates a generator from a seed so runs can be replayed.
func newGenerator(seed int64) *generator {
	return &generator{rng: rand.New(rand.NewSource(seed))}
}

// pickRound chooses a random court with two complete teams and one of
// its teams as the winners. Returns false when no court can finish a
// game.
func (g *generator) pickRound(courts []Court) (round, bool) {
	playable := make([]Court, 0, len(courts))
	for _, c := range courts {
		if len(c.Team1) == 2 && len(c.Team2) == 2 {
			playable = append(playable, c)
		}
	}
	if len(playable) == 0 {
		return round{}, false
	}
	c := playable[g.rng.Intn(len(playable))]
	winners := c.Team1
	if g.rng.Intn(2) == 1 {
		winners = c.Team2
	}
	return round{courtID: c.ID, winners: winners}, true
}

// pickBogusRound fabricates an invalid result for a playable court:
// either a single winner or one player from each team. The service must
// reject it without touching state.
func (g *generator) pickBogusRound(courts []Court) (round, bool) {
	for _, c := range courts {
		if len(c.Team1) != 2 || len(c.Team2) != 2 {
			continue
		}
		if g.rng.Intn(2) == 0 {
			return round{courtID: c.ID, winners: c.Team1[:1]}, true
		}
		return round{courtID: c.ID, winners: []string{c.Team1[0], c.Team2[0]}}, true
	}
	return round{}, false
}

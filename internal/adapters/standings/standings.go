// Package standings maintains the session leaderboard: win and game
// tallies per player, ranked and queryable while games are processed.
package standings

import (
	"context"

	"github.com/openplayhq/rally/internal/domain/model"
)

// Entry represents one standings row.
type Entry struct {
	Rank   int    `json:"rank"`
	Player string `json:"player"`
	Wins   int    `json:"wins"`
	Games  int    `json:"games"`
}

// Store provides read/write access to the standings state.
type Store interface {
	// Apply folds one finished game into the tallies.
	Apply(ctx context.Context, rec model.GameRecord) error

	// Rebuild resets the tallies and replays the given history.
	Rebuild(ctx context.Context, history []model.GameRecord) error

	// Rank returns the current row for a player.
	// Returns ErrNotFound if the player has no recorded games.
	Rank(ctx context.Context, player string) (Entry, error)

	// TopN returns the top-N rows ordered by wins desc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of players with recorded games.
	Count(ctx context.Context) int
}

// Package simulation drives a live rotation service over HTTP: it
// configures a session, plays rounds of randomized results, and
// verifies the session invariants after every round.
package simulation

import "time"

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL   string        // Base URL of the service
	Rounds    int           // Number of game results to play
	Players   int           // Roster size to configure
	Courts    int           // Number of courts to configure
	MaxStreak int           // Consecutive-game cap to configure
	Seed      int64         // Random seed; 0 derives one from the clock
	Timeout   time.Duration // HTTP request timeout
	LogFile   string        // Log file for simulation output
	Verbose   bool          // Enable verbose logging
}

// Settings mirrors the session settings wire shape.
type Settings struct {
	MaxConsecutiveGames int `json:"max_consec_games"`
	NumCourts           int `json:"num_courts"`
	NumPlayers          int `json:"num_players"`
	ScoreToWin          int `json:"score_to_win"`
}

// Session mirrors the GET /session response.
type Session struct {
	Settings  Settings            `json:"config"`
	Players   []string            `json:"players"`
	Active    map[string]bool     `json:"active"`
	Queue     []string            `json:"queue"`
	Courts    map[string][]string `json:"courts"`
	Streaks   map[string]Streak   `json:"streaks"`
	PastTeams map[string][]string `json:"past_teams"`
}

// Streak mirrors one player's counters on the wire.
type Streak struct {
	OnCourt int `json:"on_court"`
	Overall int `json:"overall"`
}

// Court mirrors one GET /courts entry.
type Court struct {
	ID    int      `json:"id"`
	Slots []string `json:"slots"`
	Team1 []string `json:"team1"`
	Team2 []string `json:"team2"`
}

// Outcome mirrors the POST /courts/{id}/result response.
type Outcome struct {
	GameID   string   `json:"game_id"`
	Court    int      `json:"court"`
	Kept     []string `json:"kept"`
	Requeued []string `json:"requeued"`
	Placed   []string `json:"placed"`
}

// Entry mirrors one standings row.
type Entry struct {
	Rank   int    `json:"rank"`
	Player string `json:"player"`
	Wins   int    `json:"wins"`
	Games  int    `json:"games"`
}

// Stats holds simulation statistics.
type Stats struct {
	RoundsPlayed    int
	ResultsAccepted int
	ResultsRejected int
	PlayersRotated  int
	WinnersKept     int
	Violations      int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
	TotalLatency    time.Duration
	MaxLatency      time.Duration
}

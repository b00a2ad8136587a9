// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load() layers file and env.
// - External errors must be wrapped via this package's sentinel errors.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DBPath locates the SQLite session database. Empty disables persistence.
	DBPath string `koanf:"db_path"`

	// MaxConsecutiveGames caps how many games a player may stay on court.
	MaxConsecutiveGames int `koanf:"max_consecutive_games"`

	// NumCourts sets how many courts the session runs.
	NumCourts int `koanf:"num_courts"`

	// NumPlayers seeds the default roster size for a fresh session.
	NumPlayers int `koanf:"num_players"`

	// ScoreToWin is the target score shown to players. Informational.
	ScoreToWin int `koanf:"score_to_win"`

	// MaxHistoryLimit caps GET /history?limit.
	MaxHistoryLimit int `koanf:"max_history_limit"`

	// MaxStandingsLimit caps GET /standings?limit.
	MaxStandingsLimit int `koanf:"max_standings_limit"`

	// SnapshotQueueSize bounds the async snapshot writer backlog.
	SnapshotQueueSize int `koanf:"snapshot_queue_size"`
}

// New creates a Config with the service defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		DBPath:              "rally.db",
		MaxConsecutiveGames: 2,
		NumCourts:           3,
		NumPlayers:          20,
		ScoreToWin:          11,
		MaxHistoryLimit:     100,
		MaxStandingsLimit:   100,
		SnapshotQueueSize:   8,
	}
}

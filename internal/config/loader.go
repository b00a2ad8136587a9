package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if RALLY_CONFIG is set
//  3. env (prefix RALLY_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("RALLY_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: RALLY_ADDR, RALLY_NUM_COURTS, ...
	// Map env keys like RALLY_NUM_COURTS -> num_courts (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("RALLY_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "rally_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.MaxConsecutiveGames < 1 {
		return fmt.Errorf("%w: max_consecutive_games must be at least 1", ErrInvalidConfig)
	}
	if c.NumCourts < 1 {
		return fmt.Errorf("%w: num_courts must be at least 1", ErrInvalidConfig)
	}
	if c.NumPlayers < minRosterSize {
		return fmt.Errorf("%w: num_players must be at least %d", ErrInvalidConfig, minRosterSize)
	}
	if c.ScoreToWin < 1 {
		return fmt.Errorf("%w: score_to_win must be at least 1", ErrInvalidConfig)
	}
	if c.SnapshotQueueSize < 1 {
		return fmt.Errorf("%w: snapshot_queue_size must be at least 1", ErrInvalidConfig)
	}
	return nil
}

// A session needs at least one full court of players.
const minRosterSize = 4

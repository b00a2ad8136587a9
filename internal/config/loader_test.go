package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/openplayhq/rally/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.NumCourts, convey.ShouldEqual, 3)
				convey.So(cfg.MaxConsecutiveGames, convey.ShouldEqual, 2)
				convey.So(cfg.NumPlayers, convey.ShouldEqual, 20)
				convey.So(cfg.ScoreToWin, convey.ShouldEqual, 11)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("RALLY_ADDR", ":8080")
			_ = os.Setenv("RALLY_NUM_COURTS", "5")
			_ = os.Setenv("RALLY_MAX_CONSECUTIVE_GAMES", "3")
			_ = os.Setenv("RALLY_NUM_PLAYERS", "24")
			_ = os.Setenv("RALLY_DB_PATH", "/tmp/rally-test.db")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.NumCourts, convey.ShouldEqual, 5)
				convey.So(cfg.MaxConsecutiveGames, convey.ShouldEqual, 3)
				convey.So(cfg.NumPlayers, convey.ShouldEqual, 24)
				convey.So(cfg.DBPath, convey.ShouldEqual, "/tmp/rally-test.db")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
num_courts: 4
max_consecutive_games: 3
num_players: 16
score_to_win: 15
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("RALLY_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.NumCourts, convey.ShouldEqual, 4)
				convey.So(cfg.MaxConsecutiveGames, convey.ShouldEqual, 3)
				convey.So(cfg.NumPlayers, convey.ShouldEqual, 16)
				convey.So(cfg.ScoreToWin, convey.ShouldEqual, 15)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
num_courts: 4
num_players: 16
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("RALLY_CONFIG", tmpFile)
			_ = os.Setenv("RALLY_ADDR", ":8080")
			_ = os.Setenv("RALLY_NUM_COURTS", "6")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")  // Overridden by env
				convey.So(cfg.NumCourts, convey.ShouldEqual, 6)   // Overridden by env
				convey.So(cfg.NumPlayers, convey.ShouldEqual, 16) // From file
				convey.So(cfg.ScoreToWin, convey.ShouldEqual, 11) // From defaults
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			invalidYaml := `invalid: yaml: content: [`
			tmpFile := createTempConfigFile(invalidYaml)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("RALLY_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("RALLY_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigValidation(t *testing.T) {
	convey.Convey("Given config validation", t, func() {
		ctx := context.Background()

		cases := []struct {
			name  string
			key   string
			value string
		}{
			{"empty addr", "RALLY_ADDR", ""},
			{"zero courts", "RALLY_NUM_COURTS", "0"},
			{"negative courts", "RALLY_NUM_COURTS", "-1"},
			{"zero streak cap", "RALLY_MAX_CONSECUTIVE_GAMES", "0"},
			{"too few players", "RALLY_NUM_PLAYERS", "3"},
			{"zero score to win", "RALLY_SCORE_TO_WIN", "0"},
			{"zero snapshot queue", "RALLY_SNAPSHOT_QUEUE_SIZE", "0"},
		}

		for _, tc := range cases {
			convey.Convey("When "+tc.name, func() {
				_ = os.Setenv(tc.key, tc.value)
				defer clearConfigEnvVars()

				cfg, err := config.Load(ctx)

				convey.Convey("Then it should return a validation error", func() {
					convey.So(err, convey.ShouldNotBeNil)
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
					convey.So(cfg, convey.ShouldBeNil)
				})
			})
		}

		convey.Convey("When invalid numeric environment variables are set", func() {
			_ = os.Setenv("RALLY_NUM_COURTS", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"RALLY_CONFIG",
		"RALLY_ADDR",
		"RALLY_DB_PATH",
		"RALLY_LOG_LEVEL",
		"RALLY_MAX_CONSECUTIVE_GAMES",
		"RALLY_NUM_COURTS",
		"RALLY_NUM_PLAYERS",
		"RALLY_SCORE_TO_WIN",
		"RALLY_MAX_HISTORY_LIMIT",
		"RALLY_MAX_STANDINGS_LIMIT",
		"RALLY_SNAPSHOT_QUEUE_SIZE",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "rally-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}

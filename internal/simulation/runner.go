package simulation

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/openplayhq/rally/pkg/logger"
)

// How often the simulator injects a deliberately invalid result to
// exercise the validation path.
const bogusRoundInterval = 10

// Simulator target score carried in applied settings. Informational.
const simScoreToWin = 11

// Run executes a complete simulation: configure the session, seat
// everyone, play the configured number of rounds, and verify the
// session invariants after every round.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	logger.Get().Info(ctx, "starting rotation simulation",
		logger.String("baseURL", config.BaseURL),
		logger.Int("rounds", config.Rounds),
		logger.Int("players", config.Players),
		logger.Int("courts", config.Courts),
		logger.Int("maxStreak", config.MaxStreak),
		logger.Int64("seed", seed),
		logger.String("timeout", config.Timeout.String()))

	client := newHTTPClient(config.Timeout)
	gen := newGenerator(seed)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Configure a fresh session
	if err := setupSession(ctx, client, config); err != nil {
		return fmt.Errorf("session setup failed: %w", err)
	}

	// Step 3: Seat everyone
	if _, err := client.PostJSON(ctx, config.BaseURL+"/courts/assign", nil, nil); err != nil {
		return fmt.Errorf("initial assignment failed: %w", err)
	}

	// Step 4: Play rounds, verifying after each one
	if err := playRounds(ctx, client, gen, config, stats); err != nil {
		return fmt.Errorf("round play failed: %w", err)
	}

	// Step 5: Final verification and standings
	if err := finalChecks(ctx, client, config, stats); err != nil {
		return fmt.Errorf("final verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if stats.Violations > 0 {
		return fmt.Errorf("simulation found %d invariant violations", stats.Violations)
	}
	logger.Get().Info(ctx, "simulation completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient, config *Config) error {
	logger.Get().Info(ctx, "checking service health")
	if err := client.GetJSON(ctx, config.BaseURL+"/healthz", nil); err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// setupSession resets the session and applies the simulation settings.
func setupSession(ctx context.Context, client *HTTPClient, config *Config) error {
	if status, err := client.PostJSON(ctx, config.BaseURL+"/session/reset", nil, nil); err != nil {
		return err
	} else if status != http.StatusOK {
		return fmt.Errorf("session reset returned status %d", status)
	}

	settings := Settings{
		MaxConsecutiveGames: config.MaxStreak,
		NumCourts:           config.Courts,
		NumPlayers:          config.Players,
		ScoreToWin:          simScoreToWin,
	}
	status, err := client.PutJSON(ctx, config.BaseURL+"/session/settings", settings)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("settings apply returned status %d", status)
	}
	logger.Get().Info(ctx, "session configured",
		logger.Int("players", config.Players),
		logger.Int("courts", config.Courts))
	return nil
}

// playRounds drives the configured number of results through the
// service. Every bogusRoundInterval-th round posts an invalid result
// and expects a rejection.
func playRounds(ctx context.Context, client *HTTPClient, gen *generator, config *Config, stats *Stats) error {
	for i := 1; i <= config.Rounds; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var courts []Court
		if err := client.GetJSON(ctx, config.BaseURL+"/courts", &courts); err != nil {
			return err
		}

		if i%bogusRoundInterval == 0 {
			if r, ok := gen.pickBogusRound(courts); ok {
				status, err := client.PostJSON(ctx, resultURL(config.BaseURL, r.courtID), map[string]any{"winners": r.winners}, nil)
				if err != nil {
					return err
				}
				if status == http.StatusOK {
					stats.Violations++
					logger.Get().Error(ctx, "invalid result was accepted",
						logger.Int("court", r.courtID),
						logger.Any("winners", r.winners))
				} else {
					stats.ResultsRejected++
				}
			}
		}

		r, ok := gen.pickRound(courts)
		if !ok {
			logger.Get().Warn(ctx, "no playable court; stopping early", logger.Int("round", i))
			break
		}

		start := time.Now()
		var outcome Outcome
		status, err := client.PostJSON(ctx, resultURL(config.BaseURL, r.courtID), map[string]any{"winners": r.winners}, &outcome)
		if err != nil {
			return err
		}
		latency := time.Since(start)
		stats.TotalLatency += latency
		if latency > stats.MaxLatency {
			stats.MaxLatency = latency
		}
		if status != http.StatusOK {
			return fmt.Errorf("round %d: result returned status %d", i, status)
		}
		stats.RoundsPlayed++
		stats.ResultsAccepted++
		stats.WinnersKept += len(outcome.Kept)
		stats.PlayersRotated += len(outcome.Requeued)

		if err := verifyRound(ctx, client, config, stats, i); err != nil {
			return err
		}

		if config.Verbose {
			logger.Get().Info(ctx, "round played",
				logger.Int("round", i),
				logger.Int("court", r.courtID),
				logger.Any("winners", r.winners),
				logger.Any("kept", outcome.Kept),
				logger.Duration("latency", latency))
		}
	}
	return nil
}

// verifyRound fetches the session and logs every invariant violation.
func verifyRound(ctx context.Context, client *HTTPClient, config *Config, stats *Stats, roundNum int) error {
	var session Session
	if err := client.GetJSON(ctx, config.BaseURL+"/session", &session); err != nil {
		return err
	}
	for _, violation := range verifySession(&session) {
		stats.Violations++
		logger.Get().Error(ctx, "invariant violation",
			logger.Int("round", roundNum),
			logger.String("violation", violation))
	}
	return nil
}

// finalChecks verifies the end state and confirms the standings cover
// the games played.
func finalChecks(ctx context.Context, client *HTTPClient, config *Config, stats *Stats) error {
	if err := verifyRound(ctx, client, config, stats, stats.RoundsPlayed); err != nil {
		return err
	}

	var entries []Entry
	if err := client.GetJSON(ctx, fmt.Sprintf("%s/standings?limit=%d", config.BaseURL, config.Players), &entries); err != nil {
		return err
	}
	wins := 0
	for _, e := range entries {
		wins += e.Wins
	}
	if wins != stats.ResultsAccepted {
		stats.Violations++
		logger.Get().Error(ctx, "standings do not add up",
			logger.Int("totalWins", wins),
			logger.Int("resultsAccepted", stats.ResultsAccepted))
	}
	logger.Get().Info(ctx, "standings verified",
		logger.Int("rankedPlayers", len(entries)),
		logger.Int("totalWins", wins))
	return nil
}

func resultURL(baseURL string, courtID int) string {
	return fmt.Sprintf("%s/courts/%d/result", baseURL, courtID)
}

// displayFinalStats prints the final simulation statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var avgLatency time.Duration
	if stats.RoundsPlayed > 0 {
		avgLatency = stats.TotalLatency / time.Duration(stats.RoundsPlayed)
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("roundsPlayed", stats.RoundsPlayed),
		logger.Int("resultsAccepted", stats.ResultsAccepted),
		logger.Int("resultsRejected", stats.ResultsRejected),
		logger.Int("winnersKept", stats.WinnersKept),
		logger.Int("playersRotated", stats.PlayersRotated),
		logger.Int("violations", stats.Violations),
		logger.String("duration", stats.Duration.String()),
		logger.Duration("avgLatency", avgLatency),
		logger.Duration("maxLatency", stats.MaxLatency))
}

package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/openplayhq/rally/internal/simulation"
)

// Default configuration constants.
const (
	defaultRounds     = 200
	defaultPlayers    = 20
	defaultCourts     = 3
	defaultMaxStreak  = 2
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:9080", "Base URL of the service")
		rounds    = flag.Int("rounds", defaultRounds, "Number of game results to play")
		players   = flag.Int("players", defaultPlayers, "Roster size to configure")
		courts    = flag.Int("courts", defaultCourts, "Number of courts to configure")
		maxStreak = flag.Int("max-streak", defaultMaxStreak, "Consecutive-game cap to configure")
		seed      = flag.Int64("seed", 0, "Random seed; 0 derives one from the clock")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile   = flag.String("log", "", "Log file for simulation output (default: sim_log_TIMESTAMP.log)")
		verbose   = flag.Bool("verbose", false, "Log every round")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulation.ShowHelp()
		return
	}

	// Setup logging
	if err := simulation.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &simulation.Config{
		BaseURL:   *baseURL,
		Rounds:    *rounds,
		Players:   *players,
		Courts:    *courts,
		MaxStreak: *maxStreak,
		Seed:      *seed,
		Timeout:   *timeout,
		LogFile:   *logFile,
		Verbose:   *verbose,
	}

	if err := simulation.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}

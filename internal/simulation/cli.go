package simulation

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/openplayhq/rally/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "sim_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the simulator.
func ShowHelp() {
	os.Stdout.WriteString(`Rally Session Simulator
=======================

Drives a running rally service through a full open-play session and
verifies the rotation invariants after every game.

Usage:
  go run cmd/simulate/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -rounds int
        Number of game results to play (default 200)
  -players int
        Roster size to configure (default 20)
  -courts int
        Number of courts to configure (default 3)
  -max-streak int
        Consecutive-game cap to configure (default 2)
  -seed int
        Random seed; 0 derives one from the clock
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Log file for simulation output (default: sim_log_TIMESTAMP.log)
  -verbose
        Log every round
  -help
        Show this help message

Examples:
  # Simulate with default settings
  go run cmd/simulate/main.go

  # A long session on a bigger club night
  go run cmd/simulate/main.go -rounds 1000 -players 32 -courts 6

  # Replay a failing run
  go run cmd/simulate/main.go -seed 1718383980 -verbose
`)
}

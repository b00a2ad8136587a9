package config

import (
	"errors"
)

// Sentinel error kinds for this package, matchable with errors.Is.
var (
	// ErrInvalidConfig indicates configuration values outside their
	// legal ranges.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig indicates the layered load itself failed.
	ErrLoadConfig = errors.New("load config failed")
)

package storage

import (
	"time"

	"github.com/openplayhq/rally/pkg/logger"
)

// Option applies a configuration option to the Writer.
type Option func(*Writer)

// WithFlushTimeout sets the deadline for the final write on shutdown.
func WithFlushTimeout(d time.Duration) Option {
	return func(w *Writer) {
		if d > 0 {
			w.flushTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the writer.
func WithLogger(logger logger.Logger) Option {
	return func(w *Writer) {
		if logger != nil {
			w.logger = logger
		}
	}
}

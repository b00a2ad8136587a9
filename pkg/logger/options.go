package logger

import (
	"io"
	"os"
)

type options struct {
	out   io.Writer
	level string
	json  bool
}

// Option customizes Init.
type Option func(*options)

func defaultOptions() options {
	return options{out: os.Stdout, level: "info"}
}

// WithOutput directs log output to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithLevel sets the initial level by name (debug, info, warn, error).
func WithLevel(level string) Option {
	return func(o *options) { o.level = level }
}

// WithJSON switches the handler to JSON output.
func WithJSON() Option {
	return func(o *options) { o.json = true }
}

package rotation

import "time"

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithClock sets the timestamp source for game records. Tests inject a
// fixed clock here.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDSource sets the id generator for game records.
func WithIDSource(newID func() string) Option {
	return func(e *Engine) {
		if newID != nil {
			e.newID = newID
		}
	}
}

package service

import (
	"github.com/openplayhq/rally/internal/adapters/storage"
	"github.com/openplayhq/rally/internal/domain/rotation"
	"github.com/openplayhq/rally/internal/domain/session"
	"github.com/openplayhq/rally/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSettings sets the session parameters used when no stored session
// exists. Invalid settings are ignored in favor of the defaults.
func WithSettings(settings session.Settings) Option {
	return func(s *Service) {
		if settings.Validate() == nil {
			s.settings = settings
		}
	}
}

// WithStore sets the persistence store. The service takes ownership
// and closes it on Stop.
func WithStore(store storage.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithEngine sets a custom rotation engine.
func WithEngine(engine *rotation.Engine) Option {
	return func(s *Service) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

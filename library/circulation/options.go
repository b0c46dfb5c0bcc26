package circulation

import (
	"time"

	"github.com/google/uuid"

	"github.com/schoollibrary/circulation/library/shell"
)

// Observability holds the collectors the handler wrappers report to. Nil fields are skipped.
type Observability struct {
	Metrics          shell.MetricsCollector
	Tracing          shell.TracingCollector
	ContextualLogger shell.ContextualLogger
	Logger           shell.Logger
}

// Option configures a Service.
type Option func(*Service) error

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) error {
		if clock == nil {
			return ErrNilClock
		}

		s.clock = clock

		return nil
	}
}

// WithLocation sets the library's time zone. Calendar days are counted in it.
func WithLocation(location *time.Location) Option {
	return func(s *Service) error {
		if location == nil {
			return ErrNilLocation
		}

		s.location = location

		return nil
	}
}

// WithObservability instruments every handler.
func WithObservability(observability Observability) Option {
	return func(s *Service) error {
		s.observability = observability
		return nil
	}
}

// WithRetryOptions makes command handlers retry on concurrency conflicts.
func WithRetryOptions(retryOptions ...shell.RetryOption) Option {
	return func(s *Service) error {
		s.retryOptions = retryOptions
		return nil
	}
}

// WithIDGenerator replaces uuid.NewV7, for example to make IDs predictable in tests.
func WithIDGenerator(newID func() (uuid.UUID, error)) Option {
	return func(s *Service) error {
		if newID == nil {
			return ErrNilIDGenerator
		}

		s.newID = newID

		return nil
	}
}

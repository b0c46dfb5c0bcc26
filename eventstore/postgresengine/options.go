package postgresengine

import (
	"github.com/schoollibrary/circulation/eventstore"
)

// Option configures an EventStore.
type Option func(*EventStore) error

// WithTableName overrides the default "events" table.
func WithTableName(tableName string) Option {
	return func(es *EventStore) error {
		if tableName == "" {
			return eventstore.ErrEmptyEventsTableName
		}

		es.eventTableName = tableName

		return nil
	}
}

// WithLogger sets the logger. Levels used:
//
//	Debug: every SQL statement with its duration
//	Info:  event counts, durations, concurrency conflicts
//	Warn:  cleanup failures
//	Error: failures that abort the operation
func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) error {
		es.logger = logger
		return nil
	}
}

// WithMetrics records query/append durations and conflict counts.
func WithMetrics(collector eventstore.MetricsCollector) Option {
	return func(es *EventStore) error {
		es.metricsCollector = collector
		return nil
	}
}

// Package bootstrap opens the event store chosen by the configuration.
package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/eventstore/memengine"
	"github.com/schoollibrary/circulation/eventstore/postgresengine"
	"github.com/schoollibrary/circulation/internal/config"
	"github.com/schoollibrary/circulation/internal/database"
	"github.com/schoollibrary/circulation/library/shell"
)

// ErrUnknownBackend is returned for a backend name Load would have rejected.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Store is an opened event store and the handles behind it.
type Store struct {
	EventStore shell.EventStore
	// Readiness is nil for the memory backend.
	Readiness *database.ReadinessChecker
	close     func()
}

// Close releases the database handles.
func (s Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenEventStore applies migrations when configured and opens the backend. metrics may be nil.
func OpenEventStore(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics eventstore.MetricsCollector) (Store, error) {
	if cfg.Backend == config.BackendMemory {
		logger.Warn("using the in-memory event store; all data is lost on exit")

		return Store{EventStore: memengine.NewEventStore(memengine.WithLogger(logger))}, nil
	}

	if cfg.MigrateOnStart {
		if cfg.EventTable != "events" {
			logger.Warn("migrations create the events table only", slog.String("event_table", cfg.EventTable))
		}

		if err := database.Migrate(cfg.DatabaseDSN, logger); err != nil {
			return Store{}, err
		}
	}

	engineOptions := []postgresengine.Option{
		postgresengine.WithTableName(cfg.EventTable),
		postgresengine.WithLogger(logger),
	}
	if metrics != nil {
		engineOptions = append(engineOptions, postgresengine.WithMetrics(metrics))
	}

	switch cfg.Backend {
	case config.BackendPGXPool:
		pool, err := database.Connect(ctx, cfg.DatabaseDSN, int32(cfg.DBMaxConns), logger) //nolint:gosec
		if err != nil {
			return Store{}, err
		}

		es, err := postgresengine.NewEventStoreFromPGXPool(pool, engineOptions...)
		if err != nil {
			pool.Close()
			return Store{}, err
		}

		return Store{EventStore: es, Readiness: database.NewReadinessChecker(pool.Ping), close: pool.Close}, nil

	case config.BackendSQLDB:
		db, err := database.OpenSQL(ctx, cfg.DatabaseDSN)
		if err != nil {
			return Store{}, err
		}

		db.SetMaxOpenConns(cfg.DBMaxConns)

		es, err := postgresengine.NewEventStoreFromSQLDB(db, engineOptions...)
		if err != nil {
			_ = db.Close()
			return Store{}, err
		}

		return Store{EventStore: es, Readiness: database.NewReadinessChecker(db.PingContext), close: func() { _ = db.Close() }}, nil

	case config.BackendSQLX:
		db, err := database.OpenSQLX(ctx, cfg.DatabaseDSN)
		if err != nil {
			return Store{}, err
		}

		db.SetMaxOpenConns(cfg.DBMaxConns)

		es, err := postgresengine.NewEventStoreFromSQLX(db, engineOptions...)
		if err != nil {
			_ = db.Close()
			return Store{}, err
		}

		return Store{EventStore: es, Readiness: database.NewReadinessChecker(db.PingContext), close: func() { _ = db.Close() }}, nil
	}

	return Store{}, errors.Join(ErrUnknownBackend, errors.New(cfg.Backend))
}

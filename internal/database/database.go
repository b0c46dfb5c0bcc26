// Package database opens PostgreSQL connections for the event store and applies the
// embedded schema migrations.
package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // pgx5:// migrate driver
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // database/sql "postgres" driver
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const driverName = "postgres"

// Connect creates a pgx pool and pings it.
func Connect(ctx context.Context, dsn string, maxConns int32, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}

	if maxConns > 0 {
		poolCfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to PostgreSQL: %w", err)
	}

	logger.Info("connected to PostgreSQL",
		slog.String("host", poolCfg.ConnConfig.Host),
		slog.Int("port", int(poolCfg.ConnConfig.Port)),
		slog.String("database", poolCfg.ConnConfig.Database),
		slog.Int("max_conns", int(poolCfg.MaxConns)),
	)

	return pool, nil
}

// OpenSQL opens a database/sql handle through lib/pq.
func OpenSQL(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to PostgreSQL: %w", err)
	}

	return db, nil
}

// OpenSQLX opens a sqlx handle through lib/pq.
func OpenSQLX(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to PostgreSQL: %w", err)
	}

	return db, nil
}

// Migrate applies all embedded migrations. The DSN must be a postgres:// URL.
func Migrate(dsn string, logger *slog.Logger) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("creating migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, MigrateURL(dsn))
	if err != nil {
		return fmt.Errorf("initializing migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	logger.Info("migrations applied",
		slog.Uint64("version", uint64(version)),
		slog.Bool("dirty", dirty),
	)

	return nil
}

// MigrateURL rewrites a postgres:// or postgresql:// URL to the pgx5:// scheme golang-migrate expects.
func MigrateURL(dsn string) string {
	for _, scheme := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(dsn, scheme) {
			return "pgx5://" + strings.TrimPrefix(dsn, scheme)
		}
	}

	return dsn
}

// ReadinessChecker pings the database for the readiness endpoint.
type ReadinessChecker struct {
	ping func(ctx context.Context) error
}

// NewReadinessChecker takes pgxpool.Pool.Ping or sql.DB.PingContext.
func NewReadinessChecker(ping func(ctx context.Context) error) *ReadinessChecker {
	return &ReadinessChecker{ping: ping}
}

// CheckReady returns "ok" or "fail" and a message.
func (c *ReadinessChecker) CheckReady(ctx context.Context) (status string, message string) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := c.ping(ctx); err != nil {
		return "fail", fmt.Sprintf("PostgreSQL unavailable: %v", err)
	}

	return "ok", "connection active"
}

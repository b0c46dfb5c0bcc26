// Package adapters lets the postgres engine run its statements on pgxpool, database/sql or sqlx.
//
// *sql.Rows, *sqlx.Rows and sql.Result already satisfy DBRows and DBResult, so only pgx needs wrappers.
package adapters

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// DBAdapter is the subset of a database handle the event store needs.
type DBAdapter interface {
	Query(ctx context.Context, query string) (DBRows, error)
	Exec(ctx context.Context, query string) (DBResult, error)
}

type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type DBResult interface {
	RowsAffected() (int64, error)
}

// SQLAdapter runs statements on a *sql.DB, typically opened with the lib/pq driver.
type SQLAdapter struct {
	db *sql.DB
}

func NewSQLAdapter(db *sql.DB) SQLAdapter {
	return SQLAdapter{db: db}
}

func (a SQLAdapter) Query(ctx context.Context, query string) (DBRows, error) {
	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (a SQLAdapter) Exec(ctx context.Context, query string) (DBResult, error) {
	return a.db.ExecContext(ctx, query)
}

// SQLXAdapter runs statements on a *sqlx.DB.
type SQLXAdapter struct {
	db *sqlx.DB
}

func NewSQLXAdapter(db *sqlx.DB) SQLXAdapter {
	return SQLXAdapter{db: db}
}

func (a SQLXAdapter) Query(ctx context.Context, query string) (DBRows, error) {
	rows, err := a.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (a SQLXAdapter) Exec(ctx context.Context, query string) (DBResult, error) {
	return a.db.ExecContext(ctx, query)
}

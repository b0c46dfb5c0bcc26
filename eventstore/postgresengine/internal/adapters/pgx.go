package adapters

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schoollibrary/circulation/eventstore"
)

// PGXAdapter runs statements on a pgxpool.Pool.
// Queries whose context asks for eventual consistency are sent to the replica pool when there is one.
type PGXAdapter struct {
	primary *pgxpool.Pool
	replica *pgxpool.Pool
}

func NewPGXAdapter(primary *pgxpool.Pool) PGXAdapter {
	return PGXAdapter{primary: primary}
}

func NewPGXAdapterWithReplica(primary, replica *pgxpool.Pool) PGXAdapter {
	return PGXAdapter{primary: primary, replica: replica}
}

func (a PGXAdapter) poolFor(ctx context.Context) *pgxpool.Pool {
	if a.replica == nil || eventstore.ConsistencyLevelFrom(ctx) != eventstore.EventualConsistency {
		return a.primary
	}

	return a.replica
}

func (a PGXAdapter) Query(ctx context.Context, query string) (DBRows, error) {
	rows, err := a.poolFor(ctx).Query(ctx, query)
	if err != nil {
		return nil, err
	}

	return pgxRows{Rows: rows}, nil
}

// Exec always uses the primary.
func (a PGXAdapter) Exec(ctx context.Context, query string) (DBResult, error) {
	tag, err := a.primary.Exec(ctx, query)
	if err != nil {
		return nil, err
	}

	return commandTag(tag), nil
}

// pgxRows adapts pgx.Rows, whose Close reports nothing; failures surface through Err.
type pgxRows struct {
	pgx.Rows
}

func (r pgxRows) Close() error {
	r.Rows.Close()
	return nil
}

type commandTag pgconn.CommandTag

func (t commandTag) RowsAffected() (int64, error) {
	return pgconn.CommandTag(t).RowsAffected(), nil
}

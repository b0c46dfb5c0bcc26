// Package postgresengine stores circulation events in PostgreSQL.
//
// Filters are compiled to SQL with goqu. Payload predicates become JSONB containment checks
// (payload @> '{"BookID":"..."}'), which the GIN index created by the migrations serves.
// Append is a single INSERT ... SELECT guarded by a CTE that re-reads the filtered max
// sequence number, so the conditional write and the insert happen in one statement.
//
// Three connection types are supported:
//
//	store, err := postgresengine.NewEventStoreFromPGXPool(pool, postgresengine.WithLogger(logger))
//	store, err := postgresengine.NewEventStoreFromSQLDB(db)   // lib/pq
//	store, err := postgresengine.NewEventStoreFromSQLX(dbx)
package postgresengine

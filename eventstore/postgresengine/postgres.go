package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/eventstore/postgresengine/internal/adapters"
)

const (
	defaultEventTableName = "events"

	logMsgBuildSelectQueryFailed   = "failed to build select query"
	logMsgDBQueryFailed            = "database query execution failed"
	logMsgCloseRowsFailed          = "failed to close database rows"
	logMsgScanRowFailed            = "failed to scan database row"
	logMsgBuildStorableEventFailed = "failed to build storable event from database row"
	logMsgBuildInsertQueryFailed   = "failed to build insert query"
	logMsgDBExecFailed             = "database execution failed during event append"
	logMsgRowsAffectedFailed       = "failed to get rows affected count"
	logMsgQueryCompleted           = "eventstore operation: query completed"
	logMsgEventsAppended           = "eventstore operation: events appended"
	logMsgConcurrencyConflict      = "eventstore operation: concurrency conflict detected"
	logMsgSQLExecuted              = "executed sql for: "

	logAttrError            = "error"
	logAttrQuery            = "query"
	logAttrEventType        = "event_type"
	logAttrEventCount       = "event_count"
	logAttrDurationMS       = "duration_ms"
	logAttrExpectedEvents   = "expected_events"
	logAttrRowsAffected     = "rows_affected"
	logAttrExpectedSequence = "expected_sequence"

	logActionQuery  = "query"
	logActionAppend = "append"

	metricQueryDuration  = "eventstore_query_duration_seconds"
	metricAppendDuration = "eventstore_append_duration_seconds"
	metricConflicts      = "eventstore_concurrency_conflicts_total"
	labelOperation       = "operation"
	labelStatus          = "status"

	colEventType      = "event_type"
	colOccurredAt     = "occurred_at"
	colPayload        = "payload"
	colMetadata       = "metadata"
	colSequenceNumber = "sequence_number"
	cteContext        = "context"
	cteVals           = "vals"
	dialectPostgres   = "postgres"
	aliasMaxSeq       = "max_seq"
	castText          = "?::text"
	castTimestamp     = "?::timestamp with time zone"
	castJsonb         = "?::jsonb"
	payloadContains   = "payload @> ?::jsonb"
)

// EventStore appends and queries events in one PostgreSQL table.
type EventStore struct {
	db               adapters.DBAdapter
	eventTableName   string
	logger           eventstore.Logger
	metricsCollector eventstore.MetricsCollector
}

type queryResultRow struct {
	eventType         string
	payload           []byte
	metadata          []byte
	occurredAt        time.Time
	maxSequenceNumber eventstore.MaxSequenceNumberUint
}

// NewEventStoreFromPGXPool creates an EventStore on a pgx pool.
func NewEventStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (*EventStore, error) {
	return newEventStore(adapters.NewPGXAdapter(db), options...)
}

// NewEventStoreFromPGXPoolWithReplica routes eventually consistent reads to replica.
func NewEventStoreFromPGXPoolWithReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (*EventStore, error) {
	return newEventStore(adapters.NewPGXAdapterWithReplica(db, replica), options...)
}

// NewEventStoreFromSQLDB creates an EventStore on a database/sql handle.
func NewEventStoreFromSQLDB(db *sql.DB, options ...Option) (*EventStore, error) {
	return newEventStore(adapters.NewSQLAdapter(db), options...)
}

// NewEventStoreFromSQLX creates an EventStore on a sqlx handle.
func NewEventStoreFromSQLX(db *sqlx.DB, options ...Option) (*EventStore, error) {
	return newEventStore(adapters.NewSQLXAdapter(db), options...)
}

func newEventStore(db adapters.DBAdapter, options ...Option) (*EventStore, error) {
	es := &EventStore{
		db:             db,
		eventTableName: defaultEventTableName,
	}

	for _, option := range options {
		if err := option(es); err != nil {
			return nil, err
		}
	}

	return es, nil
}

// Query returns the events selected by filter ordered by sequence number, and the highest sequence number among them.
func (es *EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	var empty eventstore.StorableEvents

	sqlQuery, buildQueryErr := es.buildSelectQuery(filter)
	if buildQueryErr != nil {
		es.logError(logMsgBuildSelectQueryFailed, logAttrError, buildQueryErr.Error())
		return empty, 0, buildQueryErr
	}

	start := time.Now()
	rows, queryErr := es.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	es.logQueryWithDuration(sqlQuery, logActionQuery, duration)

	if queryErr != nil {
		es.logError(logMsgDBQueryFailed, logAttrError, queryErr.Error(), logAttrQuery, sqlQuery)
		es.recordDuration(metricQueryDuration, logActionQuery, "error", duration)

		return empty, 0, errors.Join(eventstore.ErrQueryingEventsFailed, queryErr)
	}
	defer es.closeRows(rows)

	events, maxSequenceNumber, scanErr := es.processQueryResults(rows)
	if scanErr != nil {
		return empty, 0, scanErr
	}

	es.recordDuration(metricQueryDuration, logActionQuery, "success", duration)
	es.logOperation(
		logMsgQueryCompleted,
		logAttrEventCount, len(events),
		logAttrDurationMS, durationToMilliseconds(duration),
	)

	return events, maxSequenceNumber, nil
}

func (es *EventStore) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil && es.logger != nil {
		es.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}

func (es *EventStore) processQueryResults(rows adapters.DBRows) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	result := queryResultRow{}
	events := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for rows.Next() {
		if err := rows.Scan(&result.eventType, &result.occurredAt, &result.payload, &result.metadata, &result.maxSequenceNumber); err != nil {
			es.logError(logMsgScanRowFailed, logAttrError, err.Error())
			return nil, 0, errors.Join(eventstore.ErrScanningDBRowFailed, err)
		}

		event, err := eventstore.BuildStorableEvent(result.eventType, result.occurredAt, result.payload, result.metadata)
		if err != nil {
			es.logError(logMsgBuildStorableEventFailed, logAttrError, err.Error(), logAttrEventType, result.eventType)
			return nil, 0, errors.Join(eventstore.ErrBuildingStorableEventFailed, err)
		}

		events = append(events, event)
		maxSequenceNumber = result.maxSequenceNumber
	}

	if err := rows.Err(); err != nil {
		es.logError(logMsgScanRowFailed, logAttrError, err.Error())
		return nil, 0, errors.Join(eventstore.ErrScanningDBRowFailed, err)
	}

	return events, maxSequenceNumber, nil
}

// Append inserts all events in one statement, but only if filter still selects expectedMaxSequenceNumber as
// its highest sequence number. The filter must be the one used for the Query the decision was based on.
func (es *EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	events ...eventstore.StorableEvent,
) error {

	if len(events) == 0 {
		return eventstore.ErrNoEventsToAppend
	}

	sqlQuery, buildQueryErr := es.buildAppendQuery(events, filter, expectedMaxSequenceNumber)
	if buildQueryErr != nil {
		es.logError(logMsgBuildInsertQueryFailed, logAttrError, buildQueryErr.Error(), logAttrEventCount, len(events))
		return buildQueryErr
	}

	start := time.Now()
	res, execErr := es.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	es.logQueryWithDuration(sqlQuery, logActionAppend, duration)

	if execErr != nil {
		es.logError(logMsgDBExecFailed, logAttrError, execErr.Error(), logAttrQuery, sqlQuery)
		es.recordDuration(metricAppendDuration, logActionAppend, "error", duration)

		return errors.Join(eventstore.ErrAppendingEventFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := res.RowsAffected()
	if rowsAffectedErr != nil {
		es.logError(logMsgRowsAffectedFailed, logAttrError, rowsAffectedErr.Error())
		return errors.Join(eventstore.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	if rowsAffected < int64(len(events)) {
		es.logOperation(
			logMsgConcurrencyConflict,
			logAttrExpectedEvents, len(events),
			logAttrRowsAffected, rowsAffected,
			logAttrExpectedSequence, expectedMaxSequenceNumber,
		)
		es.recordDuration(metricAppendDuration, logActionAppend, "conflict", duration)
		if es.metricsCollector != nil {
			es.metricsCollector.IncrementCounter(metricConflicts, map[string]string{labelOperation: logActionAppend})
		}

		return eventstore.ErrConcurrencyConflict
	}

	es.recordDuration(metricAppendDuration, logActionAppend, "success", duration)
	es.logOperation(
		logMsgEventsAppended,
		logAttrEventCount, len(events),
		logAttrDurationMS, durationToMilliseconds(duration),
	)

	return nil
}

func (es *EventStore) buildAppendQuery(
	events eventstore.StorableEvents,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (string, error) {

	if len(events) == 1 {
		return es.buildInsertQueryForSingleEvent(events[0], filter, expectedMaxSequenceNumber)
	}

	return es.buildInsertQueryForMultipleEvents(events, filter, expectedMaxSequenceNumber)
}

func (es *EventStore) buildSelectQuery(filter eventstore.Filter) (string, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(es.eventTableName).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Order(goqu.I(colSequenceNumber).Asc())

	selectStmt, err := es.addWhereClause(filter, selectStmt)
	if err != nil {
		return "", err
	}

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// maxSeqCTE selects the current max sequence number of the filtered stream.
func (es *EventStore) maxSeqCTE(builder goqu.DialectWrapper, filter eventstore.Filter) (*goqu.SelectDataset, error) {
	cteStmt := builder.
		From(es.eventTableName).
		Select(goqu.MAX(colSequenceNumber).As(aliasMaxSeq))

	return es.addWhereClause(filter, cteStmt)
}

func (es *EventStore) buildInsertQueryForSingleEvent(
	event eventstore.StorableEvent,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (string, error) {

	builder := goqu.Dialect(dialectPostgres)

	cteStmt, err := es.maxSeqCTE(builder, filter)
	if err != nil {
		return "", err
	}

	selectStmt := builder.
		From(cteContext).
		Select(
			goqu.L(castText, event.EventType),
			goqu.L(castTimestamp, event.OccurredAt),
			goqu.L(castJsonb, string(event.PayloadJSON)),
			goqu.L(castJsonb, string(event.MetadataJSON)),
		).
		Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber)))

	insertStmt := builder.
		Insert(es.eventTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		FromQuery(selectStmt).
		With(cteContext, cteStmt)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (es *EventStore) buildInsertQueryForMultipleEvents(
	events eventstore.StorableEvents,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (string, error) {

	builder := goqu.Dialect(dialectPostgres)

	cteStmt, err := es.maxSeqCTE(builder, filter)
	if err != nil {
		return "", err
	}

	var valuesStmt *goqu.SelectDataset
	for _, event := range events {
		row := builder.Select(
			goqu.L(castText, event.EventType).As(colEventType),
			goqu.L(castTimestamp, event.OccurredAt).As(colOccurredAt),
			goqu.L(castJsonb, string(event.PayloadJSON)).As(colPayload),
			goqu.L(castJsonb, string(event.MetadataJSON)).As(colMetadata),
		)

		if valuesStmt == nil {
			valuesStmt = row
			continue
		}

		valuesStmt = valuesStmt.UnionAll(row)
	}

	insertStmt := builder.
		Insert(es.eventTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		With(cteContext, cteStmt).
		With(cteVals, valuesStmt).
		FromQuery(
			builder.From(cteContext, cteVals).
				Select(
					fmt.Sprintf("%s.%s", cteVals, colEventType),
					fmt.Sprintf("%s.%s", cteVals, colOccurredAt),
					fmt.Sprintf("%s.%s", cteVals, colPayload),
					fmt.Sprintf("%s.%s", cteVals, colMetadata),
				).
				Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber))),
		)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// addWhereClause compiles the filter. Predicate values are passed as literals through goqu's
// interpolation, never concatenated into the SQL text.
func (es *EventStore) addWhereClause(filter eventstore.Filter, selectStmt *goqu.SelectDataset) (*goqu.SelectDataset, error) {
	if len(filter.Items()) == 0 {
		return selectStmt, nil
	}

	itemsExpressions := make([]exp.Expression, 0, len(filter.Items()))

	for _, item := range filter.Items() {
		itemExpressions := make([]exp.Expression, 0, 2)

		if len(item.EventTypes()) > 0 {
			itemExpressions = append(itemExpressions, goqu.C(colEventType).In(item.EventTypes()))
		}

		if len(item.Predicates()) > 0 {
			predicateExpressions := make([]exp.Expression, 0, len(item.Predicates()))
			for _, predicate := range item.Predicates() {
				containment, err := jsoniter.ConfigFastest.MarshalToString(map[string]string{predicate.Key(): predicate.Val()})
				if err != nil {
					return nil, errors.Join(eventstore.ErrBuildingQueryFailed, err)
				}

				predicateExpressions = append(predicateExpressions, goqu.L(payloadContains, containment))
			}

			if item.AllPredicatesMustMatch() {
				itemExpressions = append(itemExpressions, goqu.And(predicateExpressions...))
			} else {
				itemExpressions = append(itemExpressions, goqu.Or(predicateExpressions...))
			}
		}

		itemsExpressions = append(itemsExpressions, goqu.And(itemExpressions...))
	}

	return selectStmt.Where(goqu.Or(itemsExpressions...)), nil
}

func (es *EventStore) logQueryWithDuration(sqlQuery string, action string, duration time.Duration) {
	if es.logger != nil {
		es.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, durationToMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

func (es *EventStore) logOperation(msg string, args ...any) {
	if es.logger != nil {
		es.logger.Info(msg, args...)
	}
}

func (es *EventStore) logError(msg string, args ...any) {
	if es.logger != nil {
		es.logger.Error(msg, args...)
	}
}

func (es *EventStore) recordDuration(metric string, operation string, status string, d time.Duration) {
	if es.metricsCollector != nil {
		es.metricsCollector.RecordDuration(metric, d, map[string]string{labelOperation: operation, labelStatus: status})
	}
}

// durationToMilliseconds rounds to three decimal places.
func durationToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

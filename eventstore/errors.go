package eventstore

import (
	"errors"
)

var (
	// ErrConcurrencyConflict is returned by Append when the filtered history changed since it was queried.
	ErrConcurrencyConflict = errors.New("concurrency conflict: the event stream was modified concurrently")

	// ErrEmptyEventsTableName is returned when an engine is configured with an empty table name.
	ErrEmptyEventsTableName = errors.New("events table name must not be empty")

	// ErrNoEventsToAppend is returned when Append is called without events.
	ErrNoEventsToAppend = errors.New("no events to append")

	ErrQueryingEventsFailed        = errors.New("querying events failed")
	ErrScanningDBRowFailed         = errors.New("scanning db row failed")
	ErrBuildingStorableEventFailed = errors.New("building storable event failed")
	ErrBuildingQueryFailed         = errors.New("building query failed")
	ErrAppendingEventFailed        = errors.New("appending event failed")
	ErrGettingRowsAffectedFailed   = errors.New("getting rows affected failed")
)

// MaxSequenceNumberUint is the highest sequence number within the events selected by a Filter.
// Zero means the filter matched nothing yet.
type MaxSequenceNumberUint = uint

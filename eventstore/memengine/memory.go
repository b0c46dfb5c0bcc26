// Package memengine is an in-process eventstore engine. It honours the same contract as
// postgresengine (filtered queries, conditional multi-event append) and backs the unit tests
// and the daemon when no database is configured.
package memengine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/schoollibrary/circulation/eventstore"
)

const (
	logMsgQueryCompleted      = "eventstore operation: query completed"
	logMsgEventsAppended      = "eventstore operation: events appended"
	logMsgConcurrencyConflict = "eventstore operation: concurrency conflict detected"
	logAttrEventCount         = "event_count"
	logAttrExpectedSequence   = "expected_sequence"
	logAttrActualSequence     = "actual_sequence"
	logAttrFilter             = "filter"
)

type storedEvent struct {
	sequenceNumber uint
	event          eventstore.StorableEvent
	fields         map[string]string
}

// EventStore keeps all events in memory. The zero value is not usable, use NewEventStore.
type EventStore struct {
	mu     sync.RWMutex
	events []storedEvent
	logger eventstore.Logger
}

// Option configures an EventStore.
type Option func(*EventStore)

// WithLogger sets a logger that receives operational messages at info level.
func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) {
		es.logger = logger
	}
}

// NewEventStore creates an empty EventStore.
func NewEventStore(options ...Option) *EventStore {
	es := &EventStore{}

	for _, option := range options {
		option(es)
	}

	return es
}

// Query returns the events selected by filter in sequence order and the highest sequence number among them.
func (es *EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	if err := ctx.Err(); err != nil {
		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, err)
	}

	es.mu.RLock()
	defer es.mu.RUnlock()

	result := make(eventstore.StorableEvents, 0)
	maxSeq := eventstore.MaxSequenceNumberUint(0)

	for _, stored := range es.events {
		if filter.Matches(stored.event.EventType, stored.fields) {
			result = append(result, stored.event)
			maxSeq = stored.sequenceNumber
		}
	}

	es.logOperation(logMsgQueryCompleted, logAttrEventCount, len(result))

	return result, maxSeq, nil
}

// Append adds all events atomically, but only if filter still selects expectedMaxSequenceNumber as its
// highest sequence number. Otherwise it returns eventstore.ErrConcurrencyConflict and stores nothing.
func (es *EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	events ...eventstore.StorableEvent,
) error {

	if len(events) == 0 {
		return eventstore.ErrNoEventsToAppend
	}

	if err := ctx.Err(); err != nil {
		return errors.Join(eventstore.ErrAppendingEventFailed, err)
	}

	prepared := make([]storedEvent, 0, len(events))
	for _, event := range events {
		fields, err := event.PayloadFields()
		if err != nil {
			return errors.Join(eventstore.ErrAppendingEventFailed, err)
		}

		prepared = append(prepared, storedEvent{event: event, fields: fields})
	}

	es.mu.Lock()
	defer es.mu.Unlock()

	actual := es.maxSequenceNumberLocked(filter)
	if actual != expectedMaxSequenceNumber {
		es.logOperation(
			logMsgConcurrencyConflict,
			logAttrExpectedSequence, expectedMaxSequenceNumber,
			logAttrActualSequence, actual,
			logAttrFilter, filter.String(),
		)

		return eventstore.ErrConcurrencyConflict
	}

	next := uint(len(es.events))
	for i := range prepared {
		next++
		prepared[i].sequenceNumber = next
		if prepared[i].event.OccurredAt.IsZero() {
			prepared[i].event.OccurredAt = time.Now().UTC()
		}
	}

	es.events = append(es.events, prepared...)
	es.logOperation(logMsgEventsAppended, logAttrEventCount, len(prepared))

	return nil
}

// Len returns the number of stored events.
func (es *EventStore) Len() int {
	es.mu.RLock()
	defer es.mu.RUnlock()

	return len(es.events)
}

func (es *EventStore) maxSequenceNumberLocked(filter eventstore.Filter) eventstore.MaxSequenceNumberUint {
	maxSeq := eventstore.MaxSequenceNumberUint(0)

	for _, stored := range es.events {
		if filter.Matches(stored.event.EventType, stored.fields) {
			maxSeq = stored.sequenceNumber
		}
	}

	return maxSeq
}

func (es *EventStore) logOperation(msg string, args ...any) {
	if es.logger != nil {
		es.logger.Info(msg, args...)
	}
}

package shell

import (
	"context"

	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/library/core"
)

// QueryHistory runs the Query and Unmarshal phases of a command under strong consistency.
func QueryHistory(
	ctx context.Context,
	store QueriesEvents,
	filter eventstore.Filter,
) (core.DomainEvents, eventstore.MaxSequenceNumberUint, error) {

	ctx = eventstore.WithStrongConsistency(ctx)

	storableEvents, maxSequenceNumber, err := store.Query(ctx, filter)
	if err != nil {
		return nil, 0, StorageError(err)
	}

	history, err := DomainEventsFrom(storableEvents)
	if err != nil {
		return nil, 0, err
	}

	return history, maxSequenceNumber, nil
}

// AppendDecision runs the Append phase: it stores the events of result atomically, guarded by the same
// filter and max sequence number the decision was made on, and then returns the business error of result.
// Idempotent and rejected decisions append nothing.
func AppendDecision(
	ctx context.Context,
	store EventStore,
	filter eventstore.Filter,
	maxSequenceNumber eventstore.MaxSequenceNumberUint,
	result core.DecisionResult,
	staffID string,
) error {

	if !result.HasEventToAppend() {
		return result.HasError()
	}

	storableEvents, err := StorableEventsFrom(result.Events, BuildEventMetadata(ctx, staffID))
	if err != nil {
		return err
	}

	ctx = eventstore.WithStrongConsistency(ctx)

	if err := store.Append(ctx, filter, maxSequenceNumber, storableEvents...); err != nil {
		return StorageError(err)
	}

	return result.HasError()
}

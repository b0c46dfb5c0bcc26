package shell

import (
	"context"

	"github.com/schoollibrary/circulation/eventstore"
)

// QueriesEvents is what query handlers need from an event store.
type QueriesEvents interface {
	Query(ctx context.Context, filter eventstore.Filter) (
		eventstore.StorableEvents,
		eventstore.MaxSequenceNumberUint,
		error,
	)
}

// EventStore is what command handlers need from an event store.
type EventStore interface {
	QueriesEvents
	Append(
		ctx context.Context,
		filter eventstore.Filter,
		expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
		storableEvents ...eventstore.StorableEvent,
	) error
}

// Command is the contract for all command types. CommandType names the command in logs, metrics and spans.
type Command interface {
	CommandType() string
}

// Query is the contract for all query types.
type Query interface {
	QueryType() string
}

// CommandHandler processes one command type with pure business logic: Query -> Unmarshal -> Decide -> Append.
// R is the state the operation leaves behind, for example the borrow record after approval.
type CommandHandler[C Command, R any] interface {
	Handle(ctx context.Context, command C) (R, HandlerResult, error)
}

// QueryHandler processes one query type: Query -> Unmarshal -> Project.
type QueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}

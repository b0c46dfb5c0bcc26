// Package eventstore defines the storage contract the circulation service is built on:
// an append-only log of events with a dynamic consistency boundary.
//
// A Filter selects the events a decision depends on (by event type and by JSON payload
// predicates). Query returns those events together with the highest sequence number
// among them. Append writes new events only if the same Filter still yields that
// sequence number, so a decision based on stale history fails with ErrConcurrencyConflict
// instead of being applied.
//
// Typical use from a command handler:
//
//	filter := eventstore.BuildEventFilter().
//		Matching().
//		AnyEventTypeOf(core.BookAddedToCatalogEventType, core.BorrowRequestApprovedEventType).
//		AndAnyPredicateOf(eventstore.P("BookID", bookID.String())).
//		Finalize()
//
//	events, maxSeq, err := store.Query(ctx, filter)
//	// ... decide ...
//	err = store.Append(ctx, filter, maxSeq, newEvent)
//
// Engines live in sub-packages: memengine (in process) and postgresengine.
package eventstore

package shell

import (
	"context"

	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/library/core"
)

// Some consistency boundaries depend on data the command does not carry: approving a request must also
// guard the book it refers to. The lookups below resolve those keys before the boundary query.
// The keys they return never change, so reading them outside the boundary is safe.

// LookupBorrowRequest returns the event that opened the borrow record.
func LookupBorrowRequest(ctx context.Context, store QueriesEvents, borrowID string) (core.BorrowRequested, bool, error) {
	filter := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BorrowRequestedEventType).
		AndAnyPredicateOf(eventstore.P("BorrowID", borrowID)).
		Finalize()

	history, _, err := QueryHistory(ctx, store, filter)
	if err != nil {
		return core.BorrowRequested{}, false, err
	}

	for _, event := range history {
		if e, ok := event.(core.BorrowRequested); ok && e.BorrowID == borrowID {
			return e, true, nil
		}
	}

	return core.BorrowRequested{}, false, nil
}

// LookupBookAdded returns the event that added the book to the catalog.
func LookupBookAdded(ctx context.Context, store QueriesEvents, bookID string) (core.BookAddedToCatalog, bool, error) {
	filter := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BookAddedToCatalogEventType).
		AndAnyPredicateOf(eventstore.P("BookID", bookID)).
		Finalize()

	history, _, err := QueryHistory(ctx, store, filter)
	if err != nil {
		return core.BookAddedToCatalog{}, false, err
	}

	for _, event := range history {
		if e, ok := event.(core.BookAddedToCatalog); ok && e.BookID == bookID {
			return e, true, nil
		}
	}

	return core.BookAddedToCatalog{}, false, nil
}

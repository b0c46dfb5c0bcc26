package shell

import (
	"context"

	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/library/core"
)

// ReadHistory runs the Query and Unmarshal phases of a query. Unlike QueryHistory it keeps the
// consistency the caller put into ctx, so engines with a replica may serve it.
func ReadHistory(ctx context.Context, store QueriesEvents, filter eventstore.Filter) (core.DomainEvents, error) {
	storableEvents, _, err := store.Query(ctx, filter)
	if err != nil {
		return nil, StorageError(err)
	}

	return DomainEventsFrom(storableEvents)
}

// LookupCatalog projects the catalog entries of the given books, for example to show their titles.
// Copy counts are not tracked because loan events are not read.
func LookupCatalog(ctx context.Context, store QueriesEvents, bookIDs []core.BookIDString) (core.Catalog, error) {
	if len(bookIDs) == 0 {
		return core.ProjectCatalog(nil), nil
	}

	predicates := predicatesOf("BookID", bookIDs)
	filter := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BookAddedToCatalogEventType).
		AndAnyPredicateOf(predicates[0], predicates[1:]...).
		Finalize()

	history, err := ReadHistory(ctx, store, filter)
	if err != nil {
		return core.Catalog{}, err
	}

	return core.ProjectCatalog(history), nil
}

// LookupBorrowers projects the registrations of the given students.
func LookupBorrowers(ctx context.Context, store QueriesEvents, studentIDs []core.StudentIDString) (core.Borrowers, error) {
	if len(studentIDs) == 0 {
		return core.ProjectBorrowers(nil), nil
	}

	predicates := predicatesOf("StudentID", studentIDs)
	filter := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BorrowerRegisteredEventType).
		AndAnyPredicateOf(predicates[0], predicates[1:]...).
		Finalize()

	history, err := ReadHistory(ctx, store, filter)
	if err != nil {
		return core.Borrowers{}, err
	}

	return core.ProjectBorrowers(history), nil
}

func predicatesOf(key string, values []string) []eventstore.FilterPredicate {
	predicates := make([]eventstore.FilterPredicate, 0, len(values))
	for _, v := range values {
		predicates = append(predicates, eventstore.P(key, v))
	}

	return predicates
}

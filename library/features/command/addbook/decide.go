package addbook

import (
	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/library/core"
)

// Decide implements the business rules of adding a book:
//
//	GIVEN: a BookID that was never used and an ISBN that no active book has
//	THEN: BookAddedToCatalog
//	IDEMPOTENCY: the same BookID is already active
//	ERROR: ErrInvalidStateTransition if the BookID was archived or removed
//	ERROR: ErrDuplicateISBN if another active book has the ISBN
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	catalog := core.ProjectCatalog(history)
	bookID := command.BookID.String()

	if _, ok := catalog.Active(bookID); ok {
		return core.IdempotentDecision()
	}

	if catalog.Known(bookID) {
		return core.RejectedDecision(core.Violation(core.ErrInvalidStateTransition, "book "+bookID+" is no longer in the active catalog"))
	}

	if existing, ok := catalog.ActiveByISBN(command.Details.ISBN); ok {
		return core.RejectedDecision(core.Violation(core.ErrDuplicateISBN, "isbn "+existing.ISBN+" belongs to book "+existing.BookID))
	}

	return core.SuccessDecision(
		core.BuildBookAddedToCatalog(command.BookID, command.Details, command.AddedBy, command.OccurredAt),
	)
}

// BuildEventFilter selects the catalog events of the book and of every book with the same ISBN.
func BuildEventFilter(command Command) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.CatalogEventTypes[0], core.CatalogEventTypes[1:]...).
		AndAnyPredicateOf(
			eventstore.P("BookID", command.BookID.String()),
			eventstore.P("ISBN", command.Details.ISBN),
		).
		Finalize()
}

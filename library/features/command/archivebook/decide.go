package archivebook

import (
	"strconv"

	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/library/core"
)

// Decide implements the business rules of archiving:
//
//	GIVEN: a book in the active catalog without open loans
//	THEN: BookArchived, the retention period starts now
//	IDEMPOTENCY: the book is already archived
//	ERROR: ErrNotFound if the book is not in the active catalog
//	ERROR: ErrInvalidStateTransition if copies are lent out
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	catalog := core.ProjectCatalog(history)
	bookID := command.BookID.String()

	if _, ok := catalog.Archived(bookID); ok {
		return core.IdempotentDecision()
	}

	book, ok := catalog.Active(bookID)
	if !ok {
		return core.RejectedDecision(core.Violation(core.ErrNotFound, "book "+bookID+" is not in the active catalog"))
	}

	if loans := catalog.OpenLoans(bookID); loans > 0 {
		return core.RejectedDecision(core.Violation(core.ErrInvalidStateTransition, strconv.Itoa(loans)+" copies of "+book.Title+" are lent out"))
	}

	return core.SuccessDecision(core.BuildBookArchived(command.BookID, book.ISBN, command.StaffID, command.OccurredAt))
}

// BuildEventFilter selects the catalog and loan events of the book, so a concurrent approval
// and the archiving cannot both succeed.
func BuildEventFilter(bookID string) eventstore.Filter {
	eventTypes := append(append([]string{}, core.CatalogEventTypes...), core.LoanEventTypes...)

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(eventTypes[0], eventTypes[1:]...).
		AndAnyPredicateOf(eventstore.P("BookID", bookID)).
		Finalize()
}

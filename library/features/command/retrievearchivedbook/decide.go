package retrievearchivedbook

import (
	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/library/core"
)

// Decide retrieves the book if it is still archived and its ISBN is free in the active catalog.
// Both failures are rejections, nothing is recorded.
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	catalog := core.ProjectCatalog(history)
	bookID := command.BookID.String()

	archived, ok := catalog.Archived(bookID)
	if !ok {
		return core.RejectedDecision(core.Violation(core.ErrNotFound, "book "+bookID+" is not in the archive"))
	}

	if active, taken := catalog.ActiveByISBN(archived.ISBN); taken {
		return core.RejectedDecision(core.Violation(core.ErrDuplicateISBN, "isbn "+archived.ISBN+" belongs to active book "+active.BookID))
	}

	return core.SuccessDecision(
		core.BuildArchivedBookRetrieved(command.BookID, archived.ISBN, command.StaffID, command.OccurredAt),
	)
}

// BuildEventFilter selects the catalog events of the book and of every book with its ISBN,
// and the loan events of the book for its copy count.
func BuildEventFilter(bookID string, isbn string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.CatalogEventTypes[0], core.CatalogEventTypes[1:]...).
		AndAnyPredicateOf(eventstore.P("BookID", bookID), eventstore.P("ISBN", isbn)).
		OrMatching().
		AnyEventTypeOf(core.LoanEventTypes[0], core.LoanEventTypes[1:]...).
		AndAnyPredicateOf(eventstore.P("BookID", bookID)).
		Finalize()
}

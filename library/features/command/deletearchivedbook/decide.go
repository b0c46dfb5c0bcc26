package deletearchivedbook

import (
	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/library/core"
)

// Decide deletes an archived book. Active, deleted, purged and unknown books are not found.
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	bookID := command.BookID.String()

	archived, ok := core.ProjectCatalog(history).Archived(bookID)
	if !ok {
		return core.RejectedDecision(core.Violation(core.ErrNotFound, "book "+bookID+" is not in the archive"))
	}

	return core.SuccessDecision(
		core.BuildArchivedBookDeleted(command.BookID, archived.ISBN, command.StaffID, command.OccurredAt),
	)
}

// BuildEventFilter selects the catalog events of the book.
func BuildEventFilter(bookID string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.CatalogEventTypes[0], core.CatalogEventTypes[1:]...).
		AndAnyPredicateOf(eventstore.P("BookID", bookID)).
		Finalize()
}

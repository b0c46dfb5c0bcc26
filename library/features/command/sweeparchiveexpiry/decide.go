package sweeparchiveexpiry

import (
	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/library/core"
)

// Decide purges every expired archived book with one event each. Nothing to purge is idempotent.
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	purges := make(core.DomainEvents, 0)

	for _, book := range core.ProjectCatalog(history).ArchivedBooks() {
		if !book.IsExpired(command.Today) {
			continue
		}

		purges = append(purges, core.BuildArchivedBookPurged(book.BookID, book.ISBN, book.DateArchived, command.OccurredAt))
	}

	if len(purges) == 0 {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(purges[0], purges[1:]...)
}

// BuildEventFilter selects all catalog events. Loan events do not change archive membership.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.CatalogEventTypes[0], core.CatalogEventTypes[1:]...).
		Finalize()
}

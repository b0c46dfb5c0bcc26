package archivedbooks

import (
	"slices"

	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/library/core"
)

// ProjectArchivedBooks implements the query logic for the archive listing.
//
// Query Logic:
//
//	GIVEN: the catalog events and the loan events of all books
//	WHEN: ArchivedBooks query is executed
//	THEN: every archived book is returned with its days in the archive and days left
//	INCLUDES: expired books the sweep has not purged yet, flagged as Expired
//	EXCLUDES: active, retrieved, deleted and purged books
func ProjectArchivedBooks(history core.DomainEvents, query Query) ArchivedBookList {
	archived := core.ProjectCatalog(history).ArchivedBooks()
	views := make([]ArchivedBookView, 0, len(archived))

	for _, book := range archived {
		views = append(views, ArchivedBookView{
			ArchivedBook:  book,
			DaysInArchive: book.DaysInArchive(query.Today),
			DaysLeft:      max(book.DaysLeft(query.Today), 0),
			Expired:       book.IsExpired(query.Today),
		})
	}

	return ArchivedBookList{
		Books: views,
		Count: len(views),
	}
}

// BuildEventFilter selects the catalog events and the loan events, which the copy counts depend on.
func BuildEventFilter() eventstore.Filter {
	eventTypes := slices.Concat(core.CatalogEventTypes, core.LoanEventTypes)

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(eventTypes[0], eventTypes[1:]...).
		Finalize()
}

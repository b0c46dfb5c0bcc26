package borrowrecords

import (
	"context"

	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/shell"
)

// QueryHandler orchestrates the query: Query -> Unmarshal -> Lookup -> Project.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{eventStore: eventStore}
}

// Handle executes the query.
func (h QueryHandler) Handle(ctx context.Context, query Query) (BorrowRecordList, error) {
	history, err := shell.ReadHistory(ctx, h.eventStore, BuildEventFilter(query))
	if err != nil {
		return BorrowRecordList{}, err
	}

	bookIDs, studentIDs := referencedIDs(history)

	catalog, err := shell.LookupCatalog(ctx, h.eventStore, bookIDs)
	if err != nil {
		return BorrowRecordList{}, err
	}

	borrowers, err := shell.LookupBorrowers(ctx, h.eventStore, studentIDs)
	if err != nil {
		return BorrowRecordList{}, err
	}

	return ProjectBorrowRecordList(history, catalog, borrowers, query), nil
}

func referencedIDs(history core.DomainEvents) ([]core.BookIDString, []core.StudentIDString) {
	bookIDs := make([]core.BookIDString, 0)
	studentIDs := make([]core.StudentIDString, 0)
	seen := make(map[string]bool)

	for _, event := range history {
		e, ok := event.(core.BorrowRequested)
		if !ok {
			continue
		}

		if !seen["b:"+e.BookID] {
			seen["b:"+e.BookID] = true
			bookIDs = append(bookIDs, e.BookID)
		}

		if !seen["s:"+e.StudentID] {
			seen["s:"+e.StudentID] = true
			studentIDs = append(studentIDs, e.StudentID)
		}
	}

	return bookIDs, studentIDs
}

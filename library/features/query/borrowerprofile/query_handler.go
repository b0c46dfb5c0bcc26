package borrowerprofile

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

// Handle returns the profile or an error wrapping core.ErrNotFound.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Profile, error) {
	history, err := shell.ReadHistory(ctx, h.eventStore, BuildEventFilter(query))
	if err != nil {
		return Profile{}, err
	}

	bookIDs := make([]core.BookIDString, 0)
	for _, record := range core.ProjectBorrowRecords(history).All() {
		bookIDs = append(bookIDs, record.BookID)
	}

	catalog, err := shell.LookupCatalog(ctx, h.eventStore, bookIDs)
	if err != nil {
		return Profile{}, err
	}

	profile, ok := ProjectProfile(history, catalog, query)
	if !ok {
		return Profile{}, core.Violation(core.ErrNotFound, "borrower "+query.StudentID.String())
	}

	return profile, nil
}

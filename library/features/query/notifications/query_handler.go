package notifications

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
func (h QueryHandler) Handle(ctx context.Context, query Query) (Notifications, error) {
	history, err := shell.ReadHistory(ctx, h.eventStore, BuildEventFilter(query))
	if err != nil {
		return Notifications{}, err
	}

	bookIDs := make([]core.BookIDString, 0)
	for _, record := range core.ProjectBorrowRecords(history).All() {
		bookIDs = append(bookIDs, record.BookID)
	}

	catalog, err := shell.LookupCatalog(ctx, h.eventStore, bookIDs)
	if err != nil {
		return Notifications{}, err
	}

	return ProjectNotifications(history, catalog, query), nil
}

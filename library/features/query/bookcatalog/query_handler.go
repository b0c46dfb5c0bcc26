package bookcatalog

import (
	"context"

	"github.com/schoollibrary/circulation/library/shell"
)

// QueryHandler orchestrates the query: Query -> Unmarshal -> Project.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{eventStore: eventStore}
}

// Handle executes the query.
func (h QueryHandler) Handle(ctx context.Context, query Query) (BookList, error) {
	history, err := shell.ReadHistory(ctx, h.eventStore, BuildEventFilter())
	if err != nil {
		return BookList{}, err
	}

	return ProjectBookList(history, query), nil
}

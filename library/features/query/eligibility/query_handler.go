package eligibility

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

// Handle executes the query. An unknown student is simply not banned.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Eligibility, error) {
	history, err := shell.ReadHistory(ctx, h.eventStore, BuildEventFilter(query))
	if err != nil {
		return Eligibility{}, err
	}

	return ProjectEligibility(history, query), nil
}

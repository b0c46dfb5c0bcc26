package borrowrecord

import (
	"context"

	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/shell"
)

// QueryHandler orchestrates the query: Query -> Unmarshal -> Lookup -> Project.
// Metrics, tracing and logging are added by wrapping it in observable.QueryWrapper.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{eventStore: eventStore}
}

// Handle returns the record or an error wrapping core.ErrNotFound.
func (h QueryHandler) Handle(ctx context.Context, query Query) (BorrowRecordView, error) {
	history, err := shell.ReadHistory(ctx, h.eventStore, BuildEventFilter(query))
	if err != nil {
		return BorrowRecordView{}, err
	}

	record, ok := core.ProjectBorrowRecords(history).Get(query.BorrowID.String())
	if !ok {
		return BorrowRecordView{}, core.Violation(core.ErrNotFound, "borrow record "+query.BorrowID.String())
	}

	catalog, err := shell.LookupCatalog(ctx, h.eventStore, []core.BookIDString{record.BookID})
	if err != nil {
		return BorrowRecordView{}, err
	}

	borrowers, err := shell.LookupBorrowers(ctx, h.eventStore, []core.StudentIDString{record.StudentID})
	if err != nil {
		return BorrowRecordView{}, err
	}

	view, _ := ProjectBorrowRecord(history, catalog, borrowers, query)

	return view, nil
}

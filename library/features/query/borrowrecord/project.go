package borrowrecord

import (
	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/library/core"
)

// ProjectBorrowRecord builds the view of the queried record.
//
// Query Logic:
//
//	GIVEN: the lifecycle events of a borrow record, and the catalog and borrowers it refers to
//	WHEN: BorrowRecord query is executed
//	THEN: the record is returned with live overdue values for query.Today
//	INCLUDES: book title and student name, empty when unknown
//	EXCLUDES: nothing, a missing record yields false
func ProjectBorrowRecord(
	history core.DomainEvents,
	catalog core.Catalog,
	borrowers core.Borrowers,
	query Query,
) (BorrowRecordView, bool) {

	record, ok := core.ProjectBorrowRecords(history).Get(query.BorrowID.String())
	if !ok {
		return BorrowRecordView{}, false
	}

	return BorrowRecordView{
		BorrowRecord: record.Live(query.Today),
		BookTitle:    catalog.Title(record.BookID),
		StudentName:  borrowers.Name(record.StudentID),
	}, true
}

// BuildEventFilter creates the filter for the lifecycle events of one borrow record.
func BuildEventFilter(query Query) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BorrowLifecycleEventTypes[0], core.BorrowLifecycleEventTypes[1:]...).
		AndAnyPredicateOf(eventstore.P("BorrowID", query.BorrowID.String())).
		Finalize()
}

package borrowrecords

import (
	"slices"

	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/library/core"
)

// ProjectBorrowRecordList implements the listing.
//
// Query Logic:
//
//	GIVEN: lifecycle events, already narrowed to the student and book of the filters
//	WHEN: BorrowRecords query is executed
//	THEN: the matching records are returned with live overdue values, newest request first
//	INCLUDES: book title and student name of each record
//	EXCLUDES: records not matching the status or penalty status filter
func ProjectBorrowRecordList(
	history core.DomainEvents,
	catalog core.Catalog,
	borrowers core.Borrowers,
	query Query,
) BorrowRecordList {

	views := make([]BorrowRecordView, 0)

	for _, record := range core.ProjectBorrowRecords(history).All() {
		live := record.Live(query.Today)
		if !matches(live, query.Filters) {
			continue
		}

		views = append(views, BorrowRecordView{
			BorrowRecord: live,
			BookTitle:    catalog.Title(live.BookID),
			StudentName:  borrowers.Name(live.StudentID),
		})
	}

	slices.SortStableFunc(views, func(a, b BorrowRecordView) int {
		return b.RequestedAt.Compare(a.RequestedAt)
	})

	return BorrowRecordList{
		Records: views,
		Count:   len(views),
	}
}

func matches(record core.BorrowRecord, filters Filters) bool {
	if filters.StudentID != "" && record.StudentID != filters.StudentID {
		return false
	}

	if filters.BookID != "" && record.BookID != filters.BookID {
		return false
	}

	if filters.PenaltyStatus != "" && string(record.PenaltyStatus) != filters.PenaltyStatus {
		return false
	}

	switch filters.Status {
	case "":
		return true
	case StatusOverdue:
		return record.Status == core.BorrowStatusApproved && record.OverdueDays > 0
	default:
		return string(record.Status) == filters.Status
	}
}

// BuildEventFilter selects the lifecycle events, narrowed to the student and book when the filters name them.
func BuildEventFilter(query Query) eventstore.Filter {
	types := core.BorrowLifecycleEventTypes
	item := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(types[0], types[1:]...)

	predicates := make([]eventstore.FilterPredicate, 0, 2)
	if query.Filters.StudentID != "" {
		predicates = append(predicates, eventstore.P("StudentID", query.Filters.StudentID))
	}

	if query.Filters.BookID != "" {
		predicates = append(predicates, eventstore.P("BookID", query.Filters.BookID))
	}

	if len(predicates) == 0 {
		return item.Finalize()
	}

	return item.AndAllPredicatesOf(predicates[0], predicates[1:]...).Finalize()
}

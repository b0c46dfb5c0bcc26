package eligibility

import (
	"github.com/shopspring/decimal"

	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/library/core"
)

// ProjectEligibility decides the ban of a student as of query.Today.
//
// Query Logic:
//
//	GIVEN: the lifecycle events of all records of a student
//	WHEN: BorrowerEligibility query is executed
//	THEN: IsBanned is true if any record owes a penalty
//	INCLUDES: the offending records and what they owe together
//	EXCLUDES: paid penalties and loans that are not overdue
func ProjectEligibility(history core.DomainEvents, query Query) Eligibility {
	studentID := query.StudentID.String()
	records := core.ProjectBorrowRecords(history)
	offending := records.OffendingRecords(studentID, query.Today)

	outstanding := decimal.Zero
	for _, borrowID := range offending {
		record, _ := records.Get(borrowID)
		outstanding = outstanding.Add(record.Live(query.Today).PenaltyFee)
	}

	return Eligibility{
		StudentID:          studentID,
		IsBanned:           len(offending) > 0,
		OffendingBorrowIDs: offending,
		OutstandingPenalty: outstanding,
	}
}

// BuildEventFilter selects the lifecycle events of the student's records.
func BuildEventFilter(query Query) eventstore.Filter {
	types := core.BorrowLifecycleEventTypes

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(types[0], types[1:]...).
		AndAnyPredicateOf(eventstore.P("StudentID", query.StudentID.String())).
		Finalize()
}

package borrowerprofile

import (
	"slices"

	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/library/core"
)

// ProjectProfile implements the query logic for the profile.
//
// Query Logic:
//
//	GIVEN: the registration and the lifecycle events of a student, and the catalog entries of their books
//	WHEN: BorrowerProfile query is executed
//	THEN: the profile is returned, false if the student is not registered
//	INCLUDES: every record of the student with live overdue values
//	EXCLUDES: nothing
func ProjectProfile(history core.DomainEvents, catalog core.Catalog, query Query) (Profile, bool) {
	studentID := query.StudentID.String()

	borrower, ok := core.ProjectBorrowers(history).Get(studentID)
	if !ok {
		return Profile{}, false
	}

	records := core.ProjectBorrowRecords(history)
	offending := records.OffendingRecords(studentID, query.Today)
	profile := Profile{
		Borrower:           borrower,
		IsBanned:           len(offending) > 0,
		OffendingBorrowIDs: offending,
		History:            make([]HistoryEntry, 0, records.Len()),
	}

	for _, record := range records.All() {
		switch record.Status {
		case core.BorrowStatusPending:
			profile.PendingRequests++
		case core.BorrowStatusApproved:
			profile.ActiveLoans++
		}

		profile.History = append(profile.History, HistoryEntry{
			BorrowRecord: record.Live(query.Today),
			BookTitle:    catalog.Title(record.BookID),
		})
	}

	slices.SortStableFunc(profile.History, func(a, b HistoryEntry) int {
		return b.RequestedAt.Compare(a.RequestedAt)
	})

	return profile, true
}

// BuildEventFilter selects the student's registration and the lifecycle events of their records.
func BuildEventFilter(query Query) eventstore.Filter {
	eventTypes := append([]string{core.BorrowerRegisteredEventType}, core.BorrowLifecycleEventTypes...)

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(eventTypes[0], eventTypes[1:]...).
		AndAnyPredicateOf(eventstore.P("StudentID", query.StudentID.String())).
		Finalize()
}

package notifications

import (
	"fmt"
	"slices"

	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/library/core"
)

const dateLayout = "Jan 2, 2006"

// ProjectNotifications derives the notifications of a student.
//
// Query Logic:
//
//	GIVEN: the lifecycle events of the student's records and the catalog entries of their books
//	WHEN: StudentNotifications query is executed
//	THEN: one notification per record that is approved, declined, returned or lost
//	INCLUDES: an overdue reminder instead of the approval once an approved loan is past due
//	EXCLUDES: pending requests
func ProjectNotifications(history core.DomainEvents, catalog core.Catalog, query Query) Notifications {
	items := make([]Notification, 0)

	for _, record := range core.ProjectBorrowRecords(history).All() {
		live := record.Live(query.Today)

		kind, ok := kindOf(live)
		if !ok {
			continue
		}

		title := catalog.Title(live.BookID)
		items = append(items, Notification{
			BorrowID:   live.BorrowID,
			Kind:       kind,
			BookTitle:  title,
			Message:    messageFor(kind, title, live),
			DueDate:    live.DueDate,
			PenaltyFee: live.PenaltyFee,
			At:         live.UpdatedAt,
		})
	}

	slices.SortStableFunc(items, func(a, b Notification) int {
		return b.At.Compare(a.At)
	})

	return Notifications{
		StudentID: query.StudentID.String(),
		Items:     items,
		Count:     len(items),
	}
}

func kindOf(record core.BorrowRecord) (Kind, bool) {
	paid := record.PenaltyStatus == core.PenaltyStatusPaid

	switch record.Status {
	case core.BorrowStatusApproved:
		if record.OverdueDays > 0 {
			return KindOverdueReminder, true
		}
		return KindApproved, true
	case core.BorrowStatusDeclined:
		return KindDeclined, true
	case core.BorrowStatusReturned:
		if paid {
			return KindOverduePaid, true
		}
		return KindReturnedOK, true
	case core.BorrowStatusLost:
		if paid {
			return KindLostPaid, true
		}
		return KindLostUnpaid, true
	default:
		return "", false
	}
}

func messageFor(kind Kind, title string, r core.BorrowRecord) string {
	fee := r.PenaltyFee.StringFixed(2)

	switch kind {
	case KindApproved:
		return fmt.Sprintf("Your request for %q was approved. Please return it by %s.", title, r.DueDate.Format(dateLayout))
	case KindDeclined:
		return fmt.Sprintf("Your request for %q was declined.", title)
	case KindReturnedOK:
		return fmt.Sprintf("You returned %q on time. Thank you!", title)
	case KindOverduePaid:
		return fmt.Sprintf("You returned %q %d day(s) late and paid a penalty of %s.", title, r.OverdueDays, fee)
	case KindOverdueReminder:
		return fmt.Sprintf("%q was due on %s and is %d day(s) overdue. Your penalty so far is %s.",
			title, r.DueDate.Format(dateLayout), r.OverdueDays, fee)
	case KindLostUnpaid:
		return fmt.Sprintf("%q was marked as lost. Please settle the penalty of %s to borrow again.", title, fee)
	case KindLostPaid:
		return fmt.Sprintf("The penalty of %s for the lost book %q is settled.", fee, title)
	default:
		return ""
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

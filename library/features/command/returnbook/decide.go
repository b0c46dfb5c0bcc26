package returnbook

import (
	"strconv"

	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/penalty"
)

const operation = "returnBook"

// Decide implements the business rules of a return:
//
//	GIVEN: an approved record
//	THEN: BookReturned with the overdue days and fee of today, paid when the fee is positive
//	ERROR: ErrNotFound if the record does not exist (nothing recorded)
//	ERROR: ErrInvalidStateTransition if the record is not approved
//	ERROR: ErrPenaltyConfirmationRequired if the loan is overdue and the payment is not confirmed
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	borrowID := command.BorrowID.String()

	record, ok := core.ProjectBorrowRecords(history).Get(borrowID)
	if !ok {
		return core.RejectedDecision(core.Violation(core.ErrNotFound, "borrow record "+borrowID+" does not exist"))
	}

	if record.Status != core.BorrowStatusApproved {
		return failed(command, record, core.ErrInvalidStateTransition, "cannot return a "+string(record.Status)+" record")
	}

	status := penalty.ComputeOverdueStatus(command.Today, record.Loan())

	if status.IsOverdue() && !command.ConfirmPenaltyPaid {
		return failed(command, record, core.ErrPenaltyConfirmationRequired,
			"penalty of "+status.PenaltyFee.StringFixed(2)+" for "+strconv.Itoa(status.OverdueDays)+" overdue day(s) must be paid")
	}

	return core.SuccessDecision(
		core.BuildBookReturned(
			record.BorrowID,
			record.BookID,
			record.StudentID,
			command.StaffID,
			status.OverdueDays,
			status.PenaltyFee,
			command.OccurredAt,
		),
	)
}

func failed(command Command, record core.BorrowRecord, sentinel error, reason string) core.DecisionResult {
	err := core.Violation(sentinel, reason)

	return core.ErrorDecision(
		core.BuildBorrowingOperationFailed(record.BorrowID, record.StudentID, operation, err.Error(), command.OccurredAt),
		err,
	)
}

// BuildEventFilter selects the events of the record. The copy that comes back is part of the
// BookReturned event, so the book's events are not needed.
func BuildEventFilter(borrowID string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BorrowLifecycleEventTypes[0], core.BorrowLifecycleEventTypes[1:]...).
		AndAnyPredicateOf(eventstore.P("BorrowID", borrowID)).
		Finalize()
}

package settlepenalty

import (
	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/library/core"
)

const operation = "settlePenalty"

// Decide implements the business rules of a settlement:
//
//	GIVEN: a lost or returned record with a pending penalty
//	THEN: PenaltySettled for the full PenaltyFee
//	IDEMPOTENCY: the penalty is already paid
//	ERROR: ErrNotFound if the record does not exist (nothing recorded)
//	ERROR: ErrInvalidStateTransition if no penalty is owed
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	borrowID := command.BorrowID.String()

	record, ok := core.ProjectBorrowRecords(history).Get(borrowID)
	if !ok {
		return core.RejectedDecision(core.Violation(core.ErrNotFound, "borrow record "+borrowID+" does not exist"))
	}

	if record.PenaltyStatus == core.PenaltyStatusPaid {
		return core.IdempotentDecision()
	}

	settleable := record.Status == core.BorrowStatusLost || record.Status == core.BorrowStatusReturned
	if !settleable || record.PenaltyStatus != core.PenaltyStatusPending {
		err := core.Violation(core.ErrInvalidStateTransition, "no penalty owed on a "+string(record.Status)+" record")

		return core.ErrorDecision(
			core.BuildBorrowingOperationFailed(record.BorrowID, record.StudentID, operation, err.Error(), command.OccurredAt),
			err,
		)
	}

	return core.SuccessDecision(
		core.BuildPenaltySettled(record.BorrowID, record.BookID, record.StudentID, command.StaffID, record.PenaltyFee, command.OccurredAt),
	)
}

// BuildEventFilter selects the events of the record.
func BuildEventFilter(borrowID string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BorrowLifecycleEventTypes[0], core.BorrowLifecycleEventTypes[1:]...).
		AndAnyPredicateOf(eventstore.P("BorrowID", borrowID)).
		Finalize()
}

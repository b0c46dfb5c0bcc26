package declineborrow

import (
	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/library/core"
)

const operation = "declineRequest"

// Decide declines a pending record. Any other status is an invalid transition.
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	borrowID := command.BorrowID.String()

	record, ok := core.ProjectBorrowRecords(history).Get(borrowID)
	if !ok {
		return core.RejectedDecision(core.Violation(core.ErrNotFound, "borrow record "+borrowID+" does not exist"))
	}

	if record.Status != core.BorrowStatusPending {
		err := core.Violation(core.ErrInvalidStateTransition, "cannot decline a "+string(record.Status)+" request")

		return core.ErrorDecision(
			core.BuildBorrowingOperationFailed(record.BorrowID, record.StudentID, operation, err.Error(), command.OccurredAt),
			err,
		)
	}

	return core.SuccessDecision(
		core.BuildBorrowRequestDeclined(record.BorrowID, record.BookID, record.StudentID, command.StaffID, command.OccurredAt),
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

package registerborrower

import (
	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/library/core"
)

// Decide registers the borrower unless the StudentID is already registered (idempotent)
// or the LRN belongs to another student (rejected).
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	studentID := command.StudentID.String()

	for _, event := range history {
		e, ok := event.(core.BorrowerRegistered)
		if !ok {
			continue
		}

		if e.StudentID == studentID {
			return core.IdempotentDecision()
		}

		if command.Details.LRN != "" && e.LRN == command.Details.LRN {
			return core.RejectedDecision(core.Violation(core.ErrValidation, "LRN "+e.LRN+" is already registered"))
		}
	}

	return core.SuccessDecision(
		core.BuildBorrowerRegistered(command.StudentID, command.Details, command.OccurredAt),
	)
}

// BuildEventFilter selects the registrations with the same StudentID or LRN.
func BuildEventFilter(command Command) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BorrowerRegisteredEventType).
		AndAnyPredicateOf(
			eventstore.P("StudentID", command.StudentID.String()),
			eventstore.P("LRN", command.Details.LRN),
		).
		Finalize()
}

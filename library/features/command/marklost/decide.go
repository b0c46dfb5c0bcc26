package marklost

import (
	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/penalty"
)

const operation = "markLost"

// Decide implements the business rules of a loss:
//
//	GIVEN: an approved record
//	THEN: BookMarkedLost with PenaltyFee = overdue fee of today + book price
//	ERROR: ErrNotFound if the record or its book does not exist (nothing recorded)
//	ERROR: ErrInvalidStateTransition if the record is not approved
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	borrowID := command.BorrowID.String()

	record, ok := core.ProjectBorrowRecords(history).Get(borrowID)
	if !ok {
		return core.RejectedDecision(core.Violation(core.ErrNotFound, "borrow record "+borrowID+" does not exist"))
	}

	if record.Status != core.BorrowStatusApproved {
		err := core.Violation(core.ErrInvalidStateTransition, "cannot mark a "+string(record.Status)+" record as lost")

		return core.ErrorDecision(
			core.BuildBorrowingOperationFailed(record.BorrowID, record.StudentID, operation, err.Error(), command.OccurredAt),
			err,
		)
	}

	// The book may be archived or deleted by now, its price is still the replacement value.
	book, ok := core.ProjectCatalog(history).Book(record.BookID)
	if !ok {
		return core.RejectedDecision(core.Violation(core.ErrNotFound, "book "+record.BookID+" does not exist"))
	}

	overdue := penalty.ComputeOverdueStatus(command.Today, record.Loan())

	return core.SuccessDecision(
		core.BuildBookMarkedLost(
			record.BorrowID,
			record.BookID,
			record.StudentID,
			command.StaffID,
			overdue.OverdueDays,
			overdue.PenaltyFee,
			book.Price,
			penalty.LostPenalty(overdue, book.Price),
			command.OccurredAt,
		),
	)
}

// BuildEventFilter selects the events of the record and the catalog events of its book.
func BuildEventFilter(borrowID string, bookID string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BorrowLifecycleEventTypes[0], core.BorrowLifecycleEventTypes[1:]...).
		AndAnyPredicateOf(eventstore.P("BorrowID", borrowID)).
		OrMatching().
		AnyEventTypeOf(core.BookAddedToCatalogEventType).
		AndAnyPredicateOf(eventstore.P("BookID", bookID)).
		Finalize()
}

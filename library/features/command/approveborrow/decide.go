package approveborrow

import (
	"strconv"

	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/penalty"
)

const operation = "approveRequest"

// Decide implements the business rules of an approval:
//
//	GIVEN: a pending record and its book in the active catalog with at least one copy
//	THEN: BorrowRequestApproved, BorrowDate = today, DueDate = today + BorrowDays
//	ERROR: ErrNotFound if the record does not exist (nothing recorded)
//	ERROR: ErrInvalidStateTransition if the record is not pending
//	ERROR: ErrNotFound if the book left the active catalog
//	ERROR: ErrOutOfStock if no copy is on the shelf
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	borrowID := command.BorrowID.String()

	record, ok := core.ProjectBorrowRecords(history).Get(borrowID)
	if !ok {
		return core.RejectedDecision(core.Violation(core.ErrNotFound, "borrow record "+borrowID+" does not exist"))
	}

	if record.Status != core.BorrowStatusPending {
		return failed(command, record, core.ErrInvalidStateTransition, "cannot approve a "+string(record.Status)+" request")
	}

	book, ok := core.ProjectCatalog(history).Active(record.BookID)
	if !ok {
		return failed(command, record, core.ErrNotFound, "book "+record.BookID+" is not in the active catalog")
	}

	if book.Copies <= 0 {
		return failed(command, record, core.ErrOutOfStock, book.Title+" has "+strconv.Itoa(book.Copies)+" copies left")
	}

	return core.SuccessDecision(
		core.BuildBorrowRequestApproved(
			record.BorrowID,
			record.BookID,
			record.StudentID,
			command.StaffID,
			command.Today,
			penalty.DueDate(command.Today, record.BorrowDays),
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

// BuildEventFilter selects the events of the record, and the catalog and loan events of its book.
func BuildEventFilter(borrowID string, bookID string) eventstore.Filter {
	bookEventTypes := append(append([]string{}, core.CatalogEventTypes...), core.LoanEventTypes...)

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BorrowLifecycleEventTypes[0], core.BorrowLifecycleEventTypes[1:]...).
		AndAnyPredicateOf(eventstore.P("BorrowID", borrowID)).
		OrMatching().
		AnyEventTypeOf(bookEventTypes[0], bookEventTypes[1:]...).
		AndAnyPredicateOf(eventstore.P("BookID", bookID)).
		Finalize()
}

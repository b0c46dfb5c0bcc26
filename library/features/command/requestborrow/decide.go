package requestborrow

import (
	"strings"

	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/penalty"
)

const operation = "createBorrowRequest"

// Decide implements the business rules of a borrow request:
//
//	GIVEN: a registered student and a book in the active catalog
//	THEN: BorrowRequested with BorrowDate = today and DueDate = today + BorrowDays
//	IDEMPOTENCY: the BorrowID already exists
//	ERROR: ErrNotFound if the student is not registered or the book is not active (nothing recorded)
//	ERROR: ErrBanned if the student has a lost book or an overdue loan that is not paid
//	ERROR: ErrDuplicateOpenBorrow if the student has a pending or approved record for the book
//
// The number of copies is not checked here.
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	borrowID := command.BorrowID.String()
	bookID := command.BookID.String()
	studentID := command.StudentID.String()

	records := core.ProjectBorrowRecords(history)
	if _, ok := records.Get(borrowID); ok {
		return core.IdempotentDecision()
	}

	if _, ok := core.ProjectBorrowers(history).Get(studentID); !ok {
		return core.RejectedDecision(core.Violation(core.ErrNotFound, "borrower "+studentID+" is not registered"))
	}

	if _, ok := core.ProjectCatalog(history).Active(bookID); !ok {
		return core.RejectedDecision(core.Violation(core.ErrNotFound, "book "+bookID+" is not in the active catalog"))
	}

	if offending := records.OffendingRecords(studentID, command.Today); len(offending) > 0 {
		return failed(command, core.ErrBanned, "unpaid penalties on records "+strings.Join(offending, ", "))
	}

	if open, ok := records.OpenFor(bookID, studentID); ok {
		return failed(command, core.ErrDuplicateOpenBorrow, "record "+open.BorrowID+" is "+string(open.Status))
	}

	return core.SuccessDecision(
		core.BuildBorrowRequested(
			command.BorrowID,
			command.BookID,
			command.StudentID,
			command.BorrowDays,
			command.Today,
			penalty.DueDate(command.Today, command.BorrowDays),
			command.OccurredAt,
		),
	)
}

func failed(command Command, sentinel error, reason string) core.DecisionResult {
	err := core.Violation(sentinel, reason)
	event := core.BuildBorrowingOperationFailed(
		command.BorrowID.String(),
		command.StudentID.String(),
		operation,
		err.Error(),
		command.OccurredAt,
	)

	return core.ErrorDecision(event, err)
}

// BuildEventFilter selects all borrow events and the registration of the student,
// and the catalog events of the book.
func BuildEventFilter(command Command) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BorrowerRegisteredEventType, core.BorrowLifecycleEventTypes...).
		AndAnyPredicateOf(eventstore.P("StudentID", command.StudentID.String())).
		OrMatching().
		AnyEventTypeOf(core.CatalogEventTypes[0], core.CatalogEventTypes[1:]...).
		AndAnyPredicateOf(eventstore.P("BookID", command.BookID.String())).
		Finalize()
}

package core

import (
	"time"
)

// BorrowingOperationFailedEventType is the event type identifier.
const BorrowingOperationFailedEventType = "BorrowingOperationFailed"

// BorrowingOperationFailed is the audit trail of a lifecycle operation that broke a business rule.
// It never changes a borrow record or a book.
type BorrowingOperationFailed struct {
	BorrowID    BorrowIDString
	StudentID   StudentIDString
	Operation   string
	FailureInfo string
	OccurredAt  OccurredAtTS
}

// BuildBorrowingOperationFailed creates a new BorrowingOperationFailed event.
func BuildBorrowingOperationFailed(
	borrowID string,
	studentID string,
	operation string,
	failureInfo string,
	occurredAt time.Time,
) BorrowingOperationFailed {

	return BorrowingOperationFailed{
		BorrowID:    borrowID,
		StudentID:   studentID,
		Operation:   operation,
		FailureInfo: failureInfo,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

func (e BorrowingOperationFailed) EventType() string {
	return BorrowingOperationFailedEventType
}

func (e BorrowingOperationFailed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns true since this event represents a failed operation.
func (e BorrowingOperationFailed) IsErrorEvent() bool {
	return true
}

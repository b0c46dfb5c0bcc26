package core

import (
	"time"
)

// Instead of full value objects, alias types keep signatures readable.

// BookIDString identifies a book in the catalog.
type BookIDString = string

// StudentIDString identifies a borrower.
type StudentIDString = string

// BorrowIDString identifies a borrow record.
type BorrowIDString = string

// ISBNString is unique among the books of the active catalog.
type ISBNString = string

// StaffIDString identifies the librarian who processed an operation.
type StaffIDString = string

// OccurredAtTS is the UTC timestamp of an event.
type OccurredAtTS = time.Time

// ToOccurredAt normalizes to UTC with microsecond precision, which is what PostgreSQL keeps.
func ToOccurredAt(t time.Time) OccurredAtTS {
	return t.UTC().Truncate(time.Microsecond)
}

// ArchiveRetentionDays is how long an archived book can be retrieved before it is purged.
const ArchiveRetentionDays = 15

// BorrowStatus is the lifecycle state of a borrow record.
type BorrowStatus string

const (
	BorrowStatusPending  BorrowStatus = "pending"
	BorrowStatusApproved BorrowStatus = "approved"
	BorrowStatusDeclined BorrowStatus = "declined"
	BorrowStatusReturned BorrowStatus = "returned"
	BorrowStatusLost     BorrowStatus = "lost"
)

// IsOpen reports whether the record still blocks a new request for the same book and student.
func (s BorrowStatus) IsOpen() bool {
	return s == BorrowStatusPending || s == BorrowStatusApproved
}

// ParseBorrowStatus accepts the five lifecycle states.
func ParseBorrowStatus(s string) (BorrowStatus, bool) {
	switch status := BorrowStatus(s); status {
	case BorrowStatusPending, BorrowStatusApproved, BorrowStatusDeclined, BorrowStatusReturned, BorrowStatusLost:
		return status, true
	default:
		return "", false
	}
}

// PenaltyStatus tracks whether a penalty is owed.
type PenaltyStatus string

const (
	PenaltyStatusNone    PenaltyStatus = "none"
	PenaltyStatusPending PenaltyStatus = "pending"
	PenaltyStatusPaid    PenaltyStatus = "paid"
)

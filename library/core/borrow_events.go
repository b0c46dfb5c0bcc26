package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// BorrowRequestedEventType is the event type identifier.
	BorrowRequestedEventType = "BorrowRequested"
	// BorrowRequestApprovedEventType is the event type identifier.
	BorrowRequestApprovedEventType = "BorrowRequestApproved"
	// BorrowRequestDeclinedEventType is the event type identifier.
	BorrowRequestDeclinedEventType = "BorrowRequestDeclined"
	// BookReturnedEventType is the event type identifier.
	BookReturnedEventType = "BookReturned"
	// BookMarkedLostEventType is the event type identifier.
	BookMarkedLostEventType = "BookMarkedLost"
	// PenaltySettledEventType is the event type identifier.
	PenaltySettledEventType = "PenaltySettled"
)

// BorrowLifecycleEventTypes are all events that change a borrow record.
var BorrowLifecycleEventTypes = []string{
	BorrowRequestedEventType,
	BorrowRequestApprovedEventType,
	BorrowRequestDeclinedEventType,
	BookReturnedEventType,
	BookMarkedLostEventType,
	PenaltySettledEventType,
}

// LoanEventTypes open and close the loans of a book. Only approvals and returns change the number
// of copies on the shelf, a loss closes the loan without putting the copy back.
var LoanEventTypes = []string{
	BorrowRequestApprovedEventType,
	BookReturnedEventType,
	BookMarkedLostEventType,
}

/***** BorrowRequested *****/

// BorrowRequested opens a pending borrow record. BorrowDate and DueDate are provisional until approval.
type BorrowRequested struct {
	BorrowID   BorrowIDString
	BookID     BookIDString
	StudentID  StudentIDString
	BorrowDays int
	BorrowDate time.Time
	DueDate    time.Time
	OccurredAt OccurredAtTS
}

// BuildBorrowRequested creates a new BorrowRequested event.
func BuildBorrowRequested(
	borrowID uuid.UUID,
	bookID uuid.UUID,
	studentID uuid.UUID,
	borrowDays int,
	borrowDate time.Time,
	dueDate time.Time,
	occurredAt time.Time,
) BorrowRequested {

	return BorrowRequested{
		BorrowID:   borrowID.String(),
		BookID:     bookID.String(),
		StudentID:  studentID.String(),
		BorrowDays: borrowDays,
		BorrowDate: borrowDate,
		DueDate:    dueDate,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e BorrowRequested) EventType() string       { return BorrowRequestedEventType }
func (e BorrowRequested) HasOccurredAt() time.Time { return e.OccurredAt }
func (e BorrowRequested) IsErrorEvent() bool       { return false }

/***** BorrowRequestApproved *****/

// BorrowRequestApproved starts the loan: the due clock starts and one copy leaves the shelf.
type BorrowRequestApproved struct {
	BorrowID   BorrowIDString
	BookID     BookIDString
	StudentID  StudentIDString
	ApprovedBy StaffIDString
	BorrowDate time.Time
	DueDate    time.Time
	OccurredAt OccurredAtTS
}

// BuildBorrowRequestApproved creates a new BorrowRequestApproved event.
func BuildBorrowRequestApproved(
	borrowID string,
	bookID string,
	studentID string,
	approvedBy string,
	borrowDate time.Time,
	dueDate time.Time,
	occurredAt time.Time,
) BorrowRequestApproved {

	return BorrowRequestApproved{
		BorrowID:   borrowID,
		BookID:     bookID,
		StudentID:  studentID,
		ApprovedBy: approvedBy,
		BorrowDate: borrowDate,
		DueDate:    dueDate,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e BorrowRequestApproved) EventType() string       { return BorrowRequestApprovedEventType }
func (e BorrowRequestApproved) HasOccurredAt() time.Time { return e.OccurredAt }
func (e BorrowRequestApproved) IsErrorEvent() bool       { return false }

/***** BorrowRequestDeclined *****/

// BorrowRequestDeclined closes a pending record without touching the copies.
type BorrowRequestDeclined struct {
	BorrowID   BorrowIDString
	BookID     BookIDString
	StudentID  StudentIDString
	DeclinedBy StaffIDString
	OccurredAt OccurredAtTS
}

// BuildBorrowRequestDeclined creates a new BorrowRequestDeclined event.
func BuildBorrowRequestDeclined(borrowID, bookID, studentID, declinedBy string, occurredAt time.Time) BorrowRequestDeclined {
	return BorrowRequestDeclined{
		BorrowID:   borrowID,
		BookID:     bookID,
		StudentID:  studentID,
		DeclinedBy: declinedBy,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e BorrowRequestDeclined) EventType() string       { return BorrowRequestDeclinedEventType }
func (e BorrowRequestDeclined) HasOccurredAt() time.Time { return e.OccurredAt }
func (e BorrowRequestDeclined) IsErrorEvent() bool       { return false }

/***** BookReturned *****/

// BookReturned closes a loan and puts the copy back. An overdue fee is collected at the desk,
// so PenaltyStatus is paid when PenaltyFee is positive and none otherwise.
type BookReturned struct {
	BorrowID      BorrowIDString
	BookID        BookIDString
	StudentID     StudentIDString
	ProcessedBy   StaffIDString
	ReturnDate    time.Time
	OverdueDays   int
	PenaltyFee    decimal.Decimal
	PenaltyStatus PenaltyStatus
	OccurredAt    OccurredAtTS
}

// BuildBookReturned creates a new BookReturned event.
func BuildBookReturned(
	borrowID, bookID, studentID, processedBy string,
	overdueDays int,
	penaltyFee decimal.Decimal,
	occurredAt time.Time,
) BookReturned {

	status := PenaltyStatusNone
	if penaltyFee.IsPositive() {
		status = PenaltyStatusPaid
	}

	return BookReturned{
		BorrowID:      borrowID,
		BookID:        bookID,
		StudentID:     studentID,
		ProcessedBy:   processedBy,
		ReturnDate:    ToOccurredAt(occurredAt),
		OverdueDays:   overdueDays,
		PenaltyFee:    penaltyFee,
		PenaltyStatus: status,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

func (e BookReturned) EventType() string       { return BookReturnedEventType }
func (e BookReturned) HasOccurredAt() time.Time { return e.OccurredAt }
func (e BookReturned) IsErrorEvent() bool       { return false }

/***** BookMarkedLost *****/

// BookMarkedLost closes a loan without restoring the copy. The overdue days are frozen here and
// PenaltyFee is the overdue fee plus BookPrice.
type BookMarkedLost struct {
	BorrowID    BorrowIDString
	BookID      BookIDString
	StudentID   StudentIDString
	ProcessedBy StaffIDString
	OverdueDays int
	OverdueFee  decimal.Decimal
	BookPrice   decimal.Decimal
	PenaltyFee  decimal.Decimal
	OccurredAt  OccurredAtTS
}

// BuildBookMarkedLost creates a new BookMarkedLost event.
func BuildBookMarkedLost(
	borrowID, bookID, studentID, processedBy string,
	overdueDays int,
	overdueFee decimal.Decimal,
	bookPrice decimal.Decimal,
	penaltyFee decimal.Decimal,
	occurredAt time.Time,
) BookMarkedLost {

	return BookMarkedLost{
		BorrowID:    borrowID,
		BookID:      bookID,
		StudentID:   studentID,
		ProcessedBy: processedBy,
		OverdueDays: overdueDays,
		OverdueFee:  overdueFee,
		BookPrice:   bookPrice,
		PenaltyFee:  penaltyFee,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

func (e BookMarkedLost) EventType() string       { return BookMarkedLostEventType }
func (e BookMarkedLost) HasOccurredAt() time.Time { return e.OccurredAt }
func (e BookMarkedLost) IsErrorEvent() bool       { return false }

/***** PenaltySettled *****/

// PenaltySettled records the payment of a pending penalty.
type PenaltySettled struct {
	BorrowID   BorrowIDString
	BookID     BookIDString
	StudentID  StudentIDString
	SettledBy  StaffIDString
	Amount     decimal.Decimal
	OccurredAt OccurredAtTS
}

// BuildPenaltySettled creates a new PenaltySettled event.
func BuildPenaltySettled(borrowID, bookID, studentID, settledBy string, amount decimal.Decimal, occurredAt time.Time) PenaltySettled {
	return PenaltySettled{
		BorrowID:   borrowID,
		BookID:     bookID,
		StudentID:  studentID,
		SettledBy:  settledBy,
		Amount:     amount,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e PenaltySettled) EventType() string       { return PenaltySettledEventType }
func (e PenaltySettled) HasOccurredAt() time.Time { return e.OccurredAt }
func (e PenaltySettled) IsErrorEvent() bool       { return false }

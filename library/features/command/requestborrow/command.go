package requestborrow

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/penalty"
)

const commandType = "CreateBorrowRequest"

// Command represents the intent of a student to borrow a book.
// Today is the calendar day of OccurredAt in the library's time zone.
type Command struct {
	BorrowID   uuid.UUID
	BookID     uuid.UUID
	StudentID  uuid.UUID
	BorrowDays int
	OccurredAt core.OccurredAtTS
	Today      time.Time
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand rejects loan lengths outside [penalty.MinBorrowDays, penalty.MaxBorrowDays].
// now must be in the library's time zone.
func BuildCommand(borrowID, bookID, studentID uuid.UUID, borrowDays int, now time.Time) (Command, error) {
	if !penalty.ValidBorrowDays(borrowDays) {
		return Command{}, core.Violation(
			core.ErrValidation,
			fmt.Sprintf("borrow days must be between %d and %d, got %d", penalty.MinBorrowDays, penalty.MaxBorrowDays, borrowDays),
		)
	}

	return Command{
		BorrowID:   borrowID,
		BookID:     bookID,
		StudentID:  studentID,
		BorrowDays: borrowDays,
		OccurredAt: core.ToOccurredAt(now),
		Today:      penalty.CivilDate(now),
	}, nil
}

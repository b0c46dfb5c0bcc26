package returnbook

import (
	"time"

	"github.com/google/uuid"

	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/penalty"
)

const commandType = "ReturnBook"

// Command represents the intent of a librarian to take back a lent book.
type Command struct {
	BorrowID           uuid.UUID
	StaffID            core.StaffIDString
	ConfirmPenaltyPaid bool
	OccurredAt         core.OccurredAtTS
	Today              time.Time
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command. now must be in the library's time zone.
func BuildCommand(borrowID uuid.UUID, staffID string, confirmPenaltyPaid bool, now time.Time) Command {
	return Command{
		BorrowID:           borrowID,
		StaffID:            staffID,
		ConfirmPenaltyPaid: confirmPenaltyPaid,
		OccurredAt:         core.ToOccurredAt(now),
		Today:              penalty.CivilDate(now),
	}
}

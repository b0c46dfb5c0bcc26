package approveborrow

import (
	"time"

	"github.com/google/uuid"

	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/penalty"
)

const commandType = "ApproveBorrowRequest"

// Command represents the intent of a librarian to approve a pending request.
type Command struct {
	BorrowID   uuid.UUID
	StaffID    core.StaffIDString
	OccurredAt core.OccurredAtTS
	Today      time.Time
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command. now must be in the library's time zone.
func BuildCommand(borrowID uuid.UUID, staffID string, now time.Time) Command {
	return Command{
		BorrowID:   borrowID,
		StaffID:    staffID,
		OccurredAt: core.ToOccurredAt(now),
		Today:      penalty.CivilDate(now),
	}
}

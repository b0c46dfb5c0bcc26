package settlepenalty

import (
	"time"

	"github.com/google/uuid"

	"github.com/schoollibrary/circulation/library/core"
)

const commandType = "SettlePenalty"

// Command represents the intent of a librarian to record a penalty payment.
type Command struct {
	BorrowID   uuid.UUID
	StaffID    core.StaffIDString
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command.
func BuildCommand(borrowID uuid.UUID, staffID string, now time.Time) Command {
	return Command{
		BorrowID:   borrowID,
		StaffID:    staffID,
		OccurredAt: core.ToOccurredAt(now),
	}
}

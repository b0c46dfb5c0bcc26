package deletearchivedbook

import (
	"time"

	"github.com/google/uuid"

	"github.com/schoollibrary/circulation/library/core"
)

const commandType = "DeleteArchivedBook"

// Command represents the intent of a librarian to delete an archived book permanently.
type Command struct {
	BookID     uuid.UUID
	StaffID    core.StaffIDString
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command.
func BuildCommand(bookID uuid.UUID, staffID string, now time.Time) Command {
	return Command{
		BookID:     bookID,
		StaffID:    staffID,
		OccurredAt: core.ToOccurredAt(now),
	}
}

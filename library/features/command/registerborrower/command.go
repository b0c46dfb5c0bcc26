package registerborrower

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/schoollibrary/circulation/library/core"
)

const commandType = "RegisterBorrower"

// Command represents the intent to add a student to the borrower catalog.
type Command struct {
	StudentID  uuid.UUID
	Details    core.BorrowerDetails
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand trims the details and rejects a borrower without a name.
func BuildCommand(studentID uuid.UUID, details core.BorrowerDetails, now time.Time) (Command, error) {
	details.FullName = strings.TrimSpace(details.FullName)
	details.LRN = strings.TrimSpace(details.LRN)

	if studentID == uuid.Nil {
		return Command{}, core.Violation(core.ErrValidation, "student id is required")
	}

	if details.FullName == "" {
		return Command{}, core.Violation(core.ErrValidation, "full name is required")
	}

	return Command{
		StudentID:  studentID,
		Details:    details,
		OccurredAt: core.ToOccurredAt(now),
	}, nil
}

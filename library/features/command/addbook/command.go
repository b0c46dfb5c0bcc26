package addbook

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/schoollibrary/circulation/library/core"
)

const commandType = "AddBook"

// Command represents the intent to add a book to the catalog.
type Command struct {
	BookID     uuid.UUID
	Details    core.BookDetails
	AddedBy    core.StaffIDString
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand validates the book details.
func BuildCommand(bookID uuid.UUID, details core.BookDetails, addedBy string, now time.Time) (Command, error) {
	details.ISBN = strings.TrimSpace(details.ISBN)
	details.Title = strings.TrimSpace(details.Title)

	switch {
	case bookID == uuid.Nil:
		return Command{}, core.Violation(core.ErrValidation, "book id is required")
	case details.ISBN == "":
		return Command{}, core.Violation(core.ErrValidation, "isbn is required")
	case details.Title == "":
		return Command{}, core.Violation(core.ErrValidation, "title is required")
	case details.Copies < 0:
		return Command{}, core.Violation(core.ErrValidation, "copies must not be negative")
	case details.Price.IsNegative():
		return Command{}, core.Violation(core.ErrValidation, "price must not be negative")
	}

	return Command{
		BookID:     bookID,
		Details:    details,
		AddedBy:    addedBy,
		OccurredAt: core.ToOccurredAt(now),
	}, nil
}

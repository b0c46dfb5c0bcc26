package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// BookAddedToCatalogEventType is the event type identifier.
	BookAddedToCatalogEventType = "BookAddedToCatalog"
	// BookArchivedEventType is the event type identifier.
	BookArchivedEventType = "BookArchived"
	// ArchivedBookRetrievedEventType is the event type identifier.
	ArchivedBookRetrievedEventType = "ArchivedBookRetrieved"
	// ArchivedBookDeletedEventType is the event type identifier.
	ArchivedBookDeletedEventType = "ArchivedBookDeleted"
	// ArchivedBookPurgedEventType is the event type identifier.
	ArchivedBookPurgedEventType = "ArchivedBookPurged"
)

// CatalogEventTypes are all events that change the catalog membership of a book.
var CatalogEventTypes = []string{
	BookAddedToCatalogEventType,
	BookArchivedEventType,
	ArchivedBookRetrievedEventType,
	ArchivedBookDeletedEventType,
	ArchivedBookPurgedEventType,
}

// BookDetails are the descriptive fields of a catalog entry.
type BookDetails struct {
	ISBN        ISBNString
	Title       string
	Author      string
	Genre       string
	Year        int
	Copies      int
	Price       decimal.Decimal
	Description string
	Image       string
}

/***** BookAddedToCatalog *****/

// BookAddedToCatalog represents a new title with its initial number of copies.
type BookAddedToCatalog struct {
	BookID      BookIDString
	ISBN        ISBNString
	Title       string
	Author      string
	Genre       string
	Year        int
	Copies      int
	Price       decimal.Decimal
	Description string
	Image       string
	AddedBy     StaffIDString
	OccurredAt  OccurredAtTS
}

// BuildBookAddedToCatalog creates a new BookAddedToCatalog event.
func BuildBookAddedToCatalog(bookID uuid.UUID, details BookDetails, addedBy string, occurredAt time.Time) BookAddedToCatalog {
	return BookAddedToCatalog{
		BookID:      bookID.String(),
		ISBN:        details.ISBN,
		Title:       details.Title,
		Author:      details.Author,
		Genre:       details.Genre,
		Year:        details.Year,
		Copies:      details.Copies,
		Price:       details.Price,
		Description: details.Description,
		Image:       details.Image,
		AddedBy:     addedBy,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

func (e BookAddedToCatalog) EventType() string       { return BookAddedToCatalogEventType }
func (e BookAddedToCatalog) HasOccurredAt() time.Time { return e.OccurredAt }
func (e BookAddedToCatalog) IsErrorEvent() bool       { return false }

/***** BookArchived *****/

// BookArchived moves a book out of the active catalog. The archive keeps it retrievable for
// ArchiveRetentionDays.
type BookArchived struct {
	BookID     BookIDString
	ISBN       ISBNString
	ArchivedBy StaffIDString
	OccurredAt OccurredAtTS
}

// BuildBookArchived creates a new BookArchived event.
func BuildBookArchived(bookID uuid.UUID, isbn string, archivedBy string, occurredAt time.Time) BookArchived {
	return BookArchived{
		BookID:     bookID.String(),
		ISBN:       isbn,
		ArchivedBy: archivedBy,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e BookArchived) EventType() string       { return BookArchivedEventType }
func (e BookArchived) HasOccurredAt() time.Time { return e.OccurredAt }
func (e BookArchived) IsErrorEvent() bool       { return false }

/***** ArchivedBookRetrieved *****/

// ArchivedBookRetrieved puts an archived book back into the active catalog with all its fields.
type ArchivedBookRetrieved struct {
	BookID      BookIDString
	ISBN        ISBNString
	RetrievedBy StaffIDString
	OccurredAt  OccurredAtTS
}

// BuildArchivedBookRetrieved creates a new ArchivedBookRetrieved event.
func BuildArchivedBookRetrieved(bookID uuid.UUID, isbn string, retrievedBy string, occurredAt time.Time) ArchivedBookRetrieved {
	return ArchivedBookRetrieved{
		BookID:      bookID.String(),
		ISBN:        isbn,
		RetrievedBy: retrievedBy,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

func (e ArchivedBookRetrieved) EventType() string       { return ArchivedBookRetrievedEventType }
func (e ArchivedBookRetrieved) HasOccurredAt() time.Time { return e.OccurredAt }
func (e ArchivedBookRetrieved) IsErrorEvent() bool       { return false }

/***** ArchivedBookDeleted *****/

// ArchivedBookDeleted is a permanent delete requested by staff.
type ArchivedBookDeleted struct {
	BookID     BookIDString
	ISBN       ISBNString
	DeletedBy  StaffIDString
	OccurredAt OccurredAtTS
}

// BuildArchivedBookDeleted creates a new ArchivedBookDeleted event.
func BuildArchivedBookDeleted(bookID uuid.UUID, isbn string, deletedBy string, occurredAt time.Time) ArchivedBookDeleted {
	return ArchivedBookDeleted{
		BookID:     bookID.String(),
		ISBN:       isbn,
		DeletedBy:  deletedBy,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e ArchivedBookDeleted) EventType() string       { return ArchivedBookDeletedEventType }
func (e ArchivedBookDeleted) HasOccurredAt() time.Time { return e.OccurredAt }
func (e ArchivedBookDeleted) IsErrorEvent() bool       { return false }

/***** ArchivedBookPurged *****/

// ArchivedBookPurged is a permanent delete by the retention sweep.
type ArchivedBookPurged struct {
	BookID       BookIDString
	ISBN         ISBNString
	DateArchived time.Time
	OccurredAt   OccurredAtTS
}

// BuildArchivedBookPurged creates a new ArchivedBookPurged event.
func BuildArchivedBookPurged(bookID string, isbn string, dateArchived time.Time, occurredAt time.Time) ArchivedBookPurged {
	return ArchivedBookPurged{
		BookID:       bookID,
		ISBN:         isbn,
		DateArchived: dateArchived,
		OccurredAt:   ToOccurredAt(occurredAt),
	}
}

func (e ArchivedBookPurged) EventType() string       { return ArchivedBookPurgedEventType }
func (e ArchivedBookPurged) HasOccurredAt() time.Time { return e.OccurredAt }
func (e ArchivedBookPurged) IsErrorEvent() bool       { return false }

package core

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/schoollibrary/circulation/library/penalty"
)

// Book is an entry of the active catalog. Copies counts the copies on the shelf.
type Book struct {
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
	AddedAt     time.Time
}

// ArchivedBook is a book that left the active catalog but can still be retrieved.
type ArchivedBook struct {
	Book
	DateArchived time.Time
	ArchivedBy   StaffIDString
}

// DaysInArchive counts calendar days from the archive date to today, in today's time zone.
func (b ArchivedBook) DaysInArchive(today time.Time) int {
	return penalty.DaysBetween(b.DateArchived.In(today.Location()), today)
}

// DaysLeft is the number of days the book can still be retrieved. Zero or less means it expired.
func (b ArchivedBook) DaysLeft(today time.Time) int {
	return ArchiveRetentionDays - b.DaysInArchive(today)
}

// IsExpired reports whether the retention period is over.
func (b ArchivedBook) IsExpired(today time.Time) bool {
	return b.DaysLeft(today) <= 0
}

type catalogEntry struct {
	book         Book
	archived     bool
	dateArchived time.Time
	archivedBy   StaffIDString
	removed      bool
	openLoans    int
}

// Catalog is the projection of the active catalog and the archive.
type Catalog struct {
	order   []BookIDString
	entries map[BookIDString]*catalogEntry
}

// ProjectCatalog replays catalog and loan events in order. Loan events only count when the
// history also contains the book they refer to.
func ProjectCatalog(history DomainEvents) Catalog {
	c := Catalog{entries: make(map[BookIDString]*catalogEntry)}

	for _, event := range history {
		c.apply(event)
	}

	return c
}

func (c *Catalog) apply(event DomainEvent) { //nolint:gocyclo
	switch e := event.(type) {
	case BookAddedToCatalog:
		if _, ok := c.entries[e.BookID]; ok {
			return
		}

		c.order = append(c.order, e.BookID)
		c.entries[e.BookID] = &catalogEntry{book: Book{
			BookID:      e.BookID,
			ISBN:        e.ISBN,
			Title:       e.Title,
			Author:      e.Author,
			Genre:       e.Genre,
			Year:        e.Year,
			Copies:      e.Copies,
			Price:       e.Price,
			Description: e.Description,
			Image:       e.Image,
			AddedAt:     e.OccurredAt,
		}}

	case BookArchived:
		if entry, ok := c.entries[e.BookID]; ok {
			entry.archived = true
			entry.dateArchived = e.OccurredAt
			entry.archivedBy = e.ArchivedBy
		}

	case ArchivedBookRetrieved:
		if entry, ok := c.entries[e.BookID]; ok {
			entry.archived = false
			entry.dateArchived = time.Time{}
			entry.archivedBy = ""
		}

	case ArchivedBookDeleted:
		if entry, ok := c.entries[e.BookID]; ok {
			entry.removed = true
		}

	case ArchivedBookPurged:
		if entry, ok := c.entries[e.BookID]; ok {
			entry.removed = true
		}

	case BorrowRequestApproved:
		if entry, ok := c.entries[e.BookID]; ok {
			entry.book.Copies--
			entry.openLoans++
		}

	case BookReturned:
		if entry, ok := c.entries[e.BookID]; ok {
			entry.book.Copies++
			entry.openLoans--
		}

	case BookMarkedLost:
		if entry, ok := c.entries[e.BookID]; ok {
			entry.openLoans--
		}
	}
}

// Active returns the book if it is in the active catalog.
func (c Catalog) Active(bookID BookIDString) (Book, bool) {
	entry, ok := c.entries[bookID]
	if !ok || entry.removed || entry.archived {
		return Book{}, false
	}

	return entry.book, true
}

// Archived returns the book if it is in the archive.
func (c Catalog) Archived(bookID BookIDString) (ArchivedBook, bool) {
	entry, ok := c.entries[bookID]
	if !ok || entry.removed || !entry.archived {
		return ArchivedBook{}, false
	}

	return entry.archivedBook(), true
}

// Book returns the book in whatever state it is, including deleted and purged books.
func (c Catalog) Book(bookID BookIDString) (Book, bool) {
	entry, ok := c.entries[bookID]
	if !ok {
		return Book{}, false
	}

	return entry.book, true
}

// Known reports whether the book was ever added, including deleted and purged books.
func (c Catalog) Known(bookID BookIDString) bool {
	_, ok := c.entries[bookID]

	return ok
}

// ActiveByISBN returns the active book with the given ISBN.
func (c Catalog) ActiveByISBN(isbn ISBNString) (Book, bool) {
	for _, id := range c.order {
		entry := c.entries[id]
		if entry.book.ISBN == isbn && !entry.removed && !entry.archived {
			return entry.book, true
		}
	}

	return Book{}, false
}

// OpenLoans returns how many copies of the book are lent out.
func (c Catalog) OpenLoans(bookID BookIDString) int {
	entry, ok := c.entries[bookID]
	if !ok {
		return 0
	}

	return entry.openLoans
}

// ActiveBooks returns the active catalog in the order the books were added.
func (c Catalog) ActiveBooks() []Book {
	books := make([]Book, 0, len(c.order))
	for _, id := range c.order {
		if book, ok := c.Active(id); ok {
			books = append(books, book)
		}
	}

	return books
}

// ArchivedBooks returns the archive ordered by archive date, oldest first.
func (c Catalog) ArchivedBooks() []ArchivedBook {
	books := make([]ArchivedBook, 0)
	for _, id := range c.order {
		if book, ok := c.Archived(id); ok {
			books = append(books, book)
		}
	}

	slices.SortStableFunc(books, func(a, b ArchivedBook) int {
		return a.DateArchived.Compare(b.DateArchived)
	})

	return books
}

// Title returns the title of any book the projection has seen.
func (c Catalog) Title(bookID BookIDString) string {
	entry, ok := c.entries[bookID]
	if !ok {
		return ""
	}

	return entry.book.Title
}

func (e *catalogEntry) archivedBook() ArchivedBook {
	return ArchivedBook{
		Book:         e.book,
		DateArchived: e.dateArchived,
		ArchivedBy:   e.archivedBy,
	}
}

package circulation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/features/command/addbook"
	"github.com/schoollibrary/circulation/library/features/command/approveborrow"
	"github.com/schoollibrary/circulation/library/features/command/archivebook"
	"github.com/schoollibrary/circulation/library/features/command/declineborrow"
	"github.com/schoollibrary/circulation/library/features/command/deletearchivedbook"
	"github.com/schoollibrary/circulation/library/features/command/marklost"
	"github.com/schoollibrary/circulation/library/features/command/registerborrower"
	"github.com/schoollibrary/circulation/library/features/command/requestborrow"
	"github.com/schoollibrary/circulation/library/features/command/retrievearchivedbook"
	"github.com/schoollibrary/circulation/library/features/command/returnbook"
	"github.com/schoollibrary/circulation/library/features/command/settlepenalty"
	"github.com/schoollibrary/circulation/library/features/command/sweeparchiveexpiry"
	"github.com/schoollibrary/circulation/library/features/query/archivedbooks"
	"github.com/schoollibrary/circulation/library/features/query/bookcatalog"
	"github.com/schoollibrary/circulation/library/features/query/borrowerprofile"
	"github.com/schoollibrary/circulation/library/features/query/borrowrecord"
	"github.com/schoollibrary/circulation/library/features/query/borrowrecords"
	"github.com/schoollibrary/circulation/library/features/query/eligibility"
	"github.com/schoollibrary/circulation/library/features/query/notifications"
	"github.com/schoollibrary/circulation/library/features/query/penaltysummary"
	"github.com/schoollibrary/circulation/library/penalty"
	"github.com/schoollibrary/circulation/library/shell"
)

var (
	// ErrNilEventStore is returned when NewService is called without an event store.
	ErrNilEventStore = errors.New("event store must not be nil")

	// ErrNilClock is returned by WithClock(nil).
	ErrNilClock = errors.New("clock must not be nil")

	// ErrNilLocation is returned by WithLocation(nil).
	ErrNilLocation = errors.New("location must not be nil")

	// ErrNilIDGenerator is returned by WithIDGenerator(nil).
	ErrNilIDGenerator = errors.New("id generator must not be nil")
)

// Service exposes the operations of the borrowing and penalty domain.
type Service struct {
	handlers      handlerBundle
	clock         func() time.Time
	location      *time.Location
	newID         func() (uuid.UUID, error)
	observability Observability
	retryOptions  []shell.RetryOption
}

// NewService creates a Service on top of store. Without options it uses time.Now, time.Local and uuid.NewV7.
func NewService(store shell.EventStore, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, ErrNilEventStore
	}

	s := &Service{
		clock:    time.Now,
		location: time.Local,
		newID:    uuid.NewV7,
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	handlers, err := newHandlerBundle(store, s.observability, s.retryOptions)
	if err != nil {
		return nil, err
	}

	s.handlers = handlers

	return s, nil
}

// Now is the current time in the library's time zone.
func (s *Service) Now() time.Time {
	return s.clock().In(s.location)
}

// Location is the library's time zone.
func (s *Service) Location() *time.Location {
	return s.location
}

/***** borrowers and books *****/

// RegisterBorrower adds a student to the borrower catalog. A nil studentID gets a new ID.
// Registering the same student again returns the existing entry.
func (s *Service) RegisterBorrower(ctx context.Context, studentID uuid.UUID, details core.BorrowerDetails) (core.Borrower, error) {
	if studentID == uuid.Nil {
		id, err := s.newID()
		if err != nil {
			return core.Borrower{}, err
		}

		studentID = id
	}

	command, err := registerborrower.BuildCommand(studentID, details, s.Now())
	if err != nil {
		return core.Borrower{}, err
	}

	borrower, _, err := s.handlers.registerBorrower.Handle(ctx, command)

	return borrower, err
}

// AddBook adds a title to the active catalog.
func (s *Service) AddBook(ctx context.Context, staffID string, details core.BookDetails) (core.Book, error) {
	bookID, err := s.newID()
	if err != nil {
		return core.Book{}, err
	}

	command, err := addbook.BuildCommand(bookID, details, staffID, s.Now())
	if err != nil {
		return core.Book{}, err
	}

	book, _, err := s.handlers.addBook.Handle(ctx, command)

	return book, err
}

/***** borrow lifecycle *****/

// CreateBorrowRequest opens a pending record for a student. Copies are checked at approval, not here.
func (s *Service) CreateBorrowRequest(ctx context.Context, bookID, studentID uuid.UUID, borrowDays int) (core.BorrowRecord, error) {
	borrowID, err := s.newID()
	if err != nil {
		return core.BorrowRecord{}, err
	}

	command, err := requestborrow.BuildCommand(borrowID, bookID, studentID, borrowDays, s.Now())
	if err != nil {
		return core.BorrowRecord{}, err
	}

	record, _, err := s.handlers.requestBorrow.Handle(ctx, command)

	return record, err
}

// ApproveRequest starts the loan and takes one copy off the shelf.
func (s *Service) ApproveRequest(ctx context.Context, borrowID uuid.UUID, staffID string) (core.BorrowRecord, error) {
	record, _, err := s.handlers.approveBorrow.Handle(ctx, approveborrow.BuildCommand(borrowID, staffID, s.Now()))

	return record, err
}

// DeclineRequest closes a pending request.
func (s *Service) DeclineRequest(ctx context.Context, borrowID uuid.UUID, staffID string) (core.BorrowRecord, error) {
	record, _, err := s.handlers.declineBorrow.Handle(ctx, declineborrow.BuildCommand(borrowID, staffID, s.Now()))

	return record, err
}

// ReturnBook closes the loan and puts the copy back. An overdue loan needs confirmPenaltyPaid.
func (s *Service) ReturnBook(ctx context.Context, borrowID uuid.UUID, staffID string, confirmPenaltyPaid bool) (core.BorrowRecord, error) {
	command := returnbook.BuildCommand(borrowID, staffID, confirmPenaltyPaid, s.Now())
	record, _, err := s.handlers.returnBook.Handle(ctx, command)

	return record, err
}

// MarkLost closes the loan with a penalty of the overdue fee so far plus the book's price.
func (s *Service) MarkLost(ctx context.Context, borrowID uuid.UUID, staffID string) (core.BorrowRecord, error) {
	record, _, err := s.handlers.markLost.Handle(ctx, marklost.BuildCommand(borrowID, staffID, s.Now()))

	return record, err
}

// SettlePenalty marks a pending penalty as paid. alreadySettled is true when it was paid before.
func (s *Service) SettlePenalty(ctx context.Context, borrowID uuid.UUID, staffID string) (core.BorrowRecord, bool, error) {
	record, result, err := s.handlers.settlePenalty.Handle(ctx, settlepenalty.BuildCommand(borrowID, staffID, s.Now()))
	if err != nil {
		return core.BorrowRecord{}, false, err
	}

	return record, result.Idempotent, nil
}

// ComputeOverdueStatus derives the overdue days and fee of record as of now. It does not touch the store.
func (s *Service) ComputeOverdueStatus(record core.BorrowRecord) penalty.Status {
	return penalty.ComputeOverdueStatus(s.Now(), record.Loan())
}

// IsBanned evaluates the ban of a student as of now.
func (s *Service) IsBanned(ctx context.Context, studentID uuid.UUID) (eligibility.Eligibility, error) {
	return s.handlers.eligibility.Handle(ctx, eligibility.BuildQuery(studentID, s.Now()))
}

/***** archive *****/

// ArchiveBook moves an active book without open loans into the archive.
func (s *Service) ArchiveBook(ctx context.Context, bookID uuid.UUID, staffID string) (core.ArchivedBook, error) {
	book, _, err := s.handlers.archiveBook.Handle(ctx, archivebook.BuildCommand(bookID, staffID, s.Now()))

	return book, err
}

// RetrieveArchivedBook puts an archived book back into the active catalog.
func (s *Service) RetrieveArchivedBook(ctx context.Context, bookID uuid.UUID, staffID string) (core.Book, error) {
	book, _, err := s.handlers.retrieveArchivedBook.Handle(ctx, retrievearchivedbook.BuildCommand(bookID, staffID, s.Now()))

	return book, err
}

// DeleteArchivedBook removes an archived book for good and returns it as it was.
func (s *Service) DeleteArchivedBook(ctx context.Context, bookID uuid.UUID, staffID string) (core.ArchivedBook, error) {
	book, _, err := s.handlers.deleteArchivedBook.Handle(ctx, deletearchivedbook.BuildCommand(bookID, staffID, s.Now()))

	return book, err
}

// SweepArchiveExpiry purges every archived book past its retention and returns their IDs.
func (s *Service) SweepArchiveExpiry(ctx context.Context) ([]core.BookIDString, error) {
	purged, _, err := s.handlers.sweepArchiveExpiry.Handle(ctx, sweeparchiveexpiry.BuildCommand(s.Now()))

	return purged, err
}

// ListArchivedBooks sweeps the archive first, so the listing never shows an expired book.
func (s *Service) ListArchivedBooks(ctx context.Context) (archivedbooks.ArchivedBookList, error) {
	if _, err := s.SweepArchiveExpiry(ctx); err != nil {
		return archivedbooks.ArchivedBookList{}, err
	}

	return s.handlers.archivedBooks.Handle(ctx, archivedbooks.BuildQuery(s.Now()))
}

/***** read side *****/

// BorrowRecord returns one record with live overdue values.
func (s *Service) BorrowRecord(ctx context.Context, borrowID uuid.UUID) (borrowrecord.BorrowRecordView, error) {
	return s.handlers.borrowRecord.Handle(ctx, borrowrecord.BuildQuery(borrowID, s.Now()))
}

// BorrowRecords lists the records matching filters, newest first.
func (s *Service) BorrowRecords(ctx context.Context, filters borrowrecords.Filters) (borrowrecords.BorrowRecordList, error) {
	query, err := borrowrecords.BuildQuery(filters, s.Now())
	if err != nil {
		return borrowrecords.BorrowRecordList{}, err
	}

	return s.handlers.borrowRecords.Handle(ctx, query)
}

// Books lists the active catalog, optionally narrowed by a search term.
func (s *Service) Books(ctx context.Context, search string) (bookcatalog.BookList, error) {
	return s.handlers.bookCatalog.Handle(ctx, bookcatalog.BuildQuery(search))
}

// Borrower returns the profile of a registered student.
func (s *Service) Borrower(ctx context.Context, studentID uuid.UUID) (borrowerprofile.Profile, error) {
	return s.handlers.borrowerProfile.Handle(ctx, borrowerprofile.BuildQuery(studentID, s.Now()))
}

// Notifications returns the notification feed of a student.
func (s *Service) Notifications(ctx context.Context, studentID uuid.UUID) (notifications.Notifications, error) {
	return s.handlers.notifications.Handle(ctx, notifications.BuildQuery(studentID, s.Now()))
}

// PenaltySummary returns the dashboard figures as of now.
func (s *Service) PenaltySummary(ctx context.Context) (penaltysummary.Summary, error) {
	return s.handlers.penaltySummary.Handle(ctx, penaltysummary.BuildQuery(s.Now()))
}

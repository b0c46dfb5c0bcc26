package helper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/penalty"
	"github.com/schoollibrary/circulation/library/shell"
)

// Library is the time zone the fixtures use for calendar days.
var Library = time.FixedZone("PHT", 8*60*60)

// Day returns 09:00 library time on the given day of 2026.
func Day(month time.Month, day int) time.Time {
	return time.Date(2026, month, day, 9, 0, 0, 0, Library)
}

// Today is the calendar day of t in the library time zone.
func Today(t time.Time) time.Time {
	return penalty.CivilDate(t.In(Library))
}

func GivenUniqueID(t testing.TB) uuid.UUID {
	id, err := uuid.NewV7()
	require.NoError(t, err, "error in arranging test data")

	return id
}

// GivenEventsWereAppended stores the events as if earlier commands had decided them.
func GivenEventsWereAppended(t testing.TB, ctx context.Context, es shell.EventStore, events ...core.DomainEvent) {
	t.Helper()

	_, maxSequenceNumber, err := es.Query(ctx, eventstore.BuildEventFilter().MatchingAnyEvent())
	require.NoError(t, err, "error in arranging test data")

	storableEvents, err := shell.StorableEventsFrom(events, shell.BuildEventMetadata(ctx, "fixture"))
	require.NoError(t, err, "error in arranging test data")

	err = es.Append(ctx, eventstore.BuildEventFilter().MatchingAnyEvent(), maxSequenceNumber, storableEvents...)
	require.NoError(t, err, "error in arranging test data")
}

// AllEvents returns the whole log as domain events.
func AllEvents(t testing.TB, ctx context.Context, es shell.QueriesEvents) core.DomainEvents {
	t.Helper()

	storableEvents, _, err := es.Query(ctx, eventstore.BuildEventFilter().MatchingAnyEvent())
	require.NoError(t, err)

	events, err := shell.DomainEventsFrom(storableEvents)
	require.NoError(t, err)

	return events
}

// LastEvent returns the most recently appended event.
func LastEvent(t testing.TB, ctx context.Context, es shell.QueriesEvents) core.DomainEvent {
	t.Helper()

	events := AllEvents(t, ctx, es)
	require.NotEmpty(t, events)

	return events[len(events)-1]
}

/***** fixtures *****/

// FixtureBookDetails returns a book with the given copies and price and a unique ISBN.
func FixtureBookDetails(copies int, price int64) core.BookDetails {
	return core.BookDetails{
		ISBN:        "978-" + uuid.NewString()[:13],
		Title:       "Noli Me Tangere",
		Author:      "Jose Rizal",
		Genre:       "Novel",
		Year:        1887,
		Copies:      copies,
		Price:       decimal.NewFromInt(price),
		Description: "A novel about colonial society",
		Image:       "covers/noli.jpg",
	}
}

func FixtureBookAdded(bookID uuid.UUID, copies int, price int64, at time.Time) core.BookAddedToCatalog {
	return core.BuildBookAddedToCatalog(bookID, FixtureBookDetails(copies, price), "librarian-1", at)
}

func FixtureBookAddedWithISBN(bookID uuid.UUID, isbn string, at time.Time) core.BookAddedToCatalog {
	details := FixtureBookDetails(1, 250)
	details.ISBN = isbn

	return core.BuildBookAddedToCatalog(bookID, details, "librarian-1", at)
}

func FixtureBorrowerRegistered(studentID uuid.UUID, at time.Time) core.BorrowerRegistered {
	return core.BuildBorrowerRegistered(studentID, core.BorrowerDetails{
		FullName: "Juan Dela Cruz",
		LRN:      "123456789012",
		Grade:    "Grade 10",
		Section:  "Rizal",
		Contact:  "juan@example.com",
	}, at)
}

// FixtureBorrowRequested is a request made at "at" for borrowDays days.
func FixtureBorrowRequested(borrowID, bookID, studentID uuid.UUID, borrowDays int, at time.Time) core.BorrowRequested {
	today := Today(at)

	return core.BuildBorrowRequested(borrowID, bookID, studentID, borrowDays, today, penalty.DueDate(today, borrowDays), at)
}

// FixtureBorrowApproved starts the loan of req at "at".
func FixtureBorrowApproved(req core.BorrowRequested, at time.Time) core.BorrowRequestApproved {
	today := Today(at)

	return core.BuildBorrowRequestApproved(
		req.BorrowID, req.BookID, req.StudentID, "librarian-1", today, penalty.DueDate(today, req.BorrowDays), at,
	)
}

func FixtureBookReturned(req core.BorrowRequested, overdueDays int, at time.Time) core.BookReturned {
	return core.BuildBookReturned(req.BorrowID, req.BookID, req.StudentID, "librarian-1", overdueDays, penalty.Fee(overdueDays), at)
}

func FixtureBookMarkedLost(req core.BorrowRequested, overdueDays int, price int64, at time.Time) core.BookMarkedLost {
	overdueFee := penalty.Fee(overdueDays)
	bookPrice := decimal.NewFromInt(price)

	return core.BuildBookMarkedLost(
		req.BorrowID, req.BookID, req.StudentID, "librarian-1",
		overdueDays, overdueFee, bookPrice, overdueFee.Add(bookPrice), at,
	)
}

func FixturePenaltySettled(req core.BorrowRequested, amount decimal.Decimal, at time.Time) core.PenaltySettled {
	return core.BuildPenaltySettled(req.BorrowID, req.BookID, req.StudentID, "librarian-1", amount, at)
}

func FixtureBookArchived(bookID uuid.UUID, isbn string, at time.Time) core.BookArchived {
	return core.BuildBookArchived(bookID, isbn, "librarian-1", at)
}

/***** scenarios *****/

// Loan is a book lent to a registered student, as arranged by GivenApprovedLoan.
type Loan struct {
	BookID    uuid.UUID
	StudentID uuid.UUID
	BorrowID  uuid.UUID
	Request   core.BorrowRequested
}

// GivenApprovedLoan arranges a book with copies, a borrower, and a request for borrowDays days
// that was approved on approvedAt.
func GivenApprovedLoan(
	t testing.TB,
	ctx context.Context,
	es shell.EventStore,
	copies int,
	price int64,
	borrowDays int,
	approvedAt time.Time,
) Loan {

	t.Helper()

	loan := GivenPendingRequest(t, ctx, es, copies, price, borrowDays, approvedAt)
	GivenEventsWereAppended(t, ctx, es, FixtureBorrowApproved(loan.Request, approvedAt))

	return loan
}

// GivenPendingRequest arranges a book with copies, a borrower, and a pending request.
func GivenPendingRequest(
	t testing.TB,
	ctx context.Context,
	es shell.EventStore,
	copies int,
	price int64,
	borrowDays int,
	requestedAt time.Time,
) Loan {

	t.Helper()

	loan := Loan{
		BookID:    GivenUniqueID(t),
		StudentID: GivenUniqueID(t),
		BorrowID:  GivenUniqueID(t),
	}
	loan.Request = FixtureBorrowRequested(loan.BorrowID, loan.BookID, loan.StudentID, borrowDays, requestedAt)

	GivenEventsWereAppended(t, ctx, es,
		FixtureBookAdded(loan.BookID, copies, price, requestedAt.Add(-time.Hour)),
		FixtureBorrowerRegistered(loan.StudentID, requestedAt.Add(-time.Hour)),
		loan.Request,
	)

	return loan
}

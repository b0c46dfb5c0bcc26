package core_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/penalty"
)

var loc = time.FixedZone("PHT", 8*60*60)

func day(m time.Month, d int) time.Time {
	return time.Date(2026, m, d, 0, 0, 0, 0, loc)
}

func givenRequested(borrowID, bookID, studentID uuid.UUID, days int, on time.Time) core.BorrowRequested {
	return core.BuildBorrowRequested(borrowID, bookID, studentID, days, on, penalty.DueDate(on, days), on)
}

func givenApproved(req core.BorrowRequested, on time.Time) core.BorrowRequestApproved {
	return core.BuildBorrowRequestApproved(req.BorrowID, req.BookID, req.StudentID, "staff-1", on, penalty.DueDate(on, req.BorrowDays), on)
}

func Test_ProjectBorrowRecords_FollowsLifecycle_WhenApprovedAndReturnedLate(t *testing.T) {
	// arrange
	borrowID, bookID, studentID := uuid.New(), uuid.New(), uuid.New()
	req := givenRequested(borrowID, bookID, studentID, 3, day(time.March, 1))
	approved := givenApproved(req, day(time.March, 2))
	returned := core.BuildBookReturned(req.BorrowID, req.BookID, req.StudentID, "staff-2", 3, decimal.NewFromInt(30), day(time.March, 8))

	// act
	records := core.ProjectBorrowRecords(core.DomainEvents{req, approved, returned})

	// assert
	record, ok := records.Get(borrowID.String())
	require.True(t, ok)
	assert.Equal(t, core.BorrowStatusReturned, record.Status)
	assert.Equal(t, day(time.March, 2), record.BorrowDate)
	assert.Equal(t, day(time.March, 5), record.DueDate)
	assert.Equal(t, 3, record.OverdueDays)
	assert.True(t, decimal.NewFromInt(30).Equal(record.PenaltyFee))
	assert.Equal(t, core.PenaltyStatusPaid, record.PenaltyStatus)
	assert.Equal(t, "staff-2", record.ProcessedBy)
	assert.False(t, record.ReturnDate.IsZero())
}

func Test_BorrowRecord_Live_ComputesOverdueOnlyForOpenLoans(t *testing.T) {
	borrowID, bookID, studentID := uuid.New(), uuid.New(), uuid.New()
	req := givenRequested(borrowID, bookID, studentID, 2, day(time.April, 1))
	approved := givenApproved(req, day(time.April, 1))

	pending, _ := core.ProjectBorrowRecords(core.DomainEvents{req}).Get(borrowID.String())
	open, _ := core.ProjectBorrowRecords(core.DomainEvents{req, approved}).Get(borrowID.String())

	assert.Equal(t, 0, pending.Live(day(time.April, 20)).OverdueDays)

	live := open.Live(day(time.April, 6))
	assert.Equal(t, 3, live.OverdueDays)
	assert.True(t, decimal.NewFromInt(30).Equal(live.PenaltyFee))
	assert.Equal(t, core.PenaltyStatusPending, live.PenaltyStatus)
	assert.Equal(t, 0, open.OverdueDays, "persisted value stays untouched")
}

func Test_BorrowRecord_Live_KeepsFrozenValues_WhenLost(t *testing.T) {
	borrowID, bookID, studentID := uuid.New(), uuid.New(), uuid.New()
	req := givenRequested(borrowID, bookID, studentID, 1, day(time.May, 1))
	approved := givenApproved(req, day(time.May, 1))
	lost := core.BuildBookMarkedLost(req.BorrowID, req.BookID, req.StudentID, "staff", 5, decimal.NewFromInt(50),
		decimal.NewFromInt(250), decimal.NewFromInt(300), day(time.May, 7))

	record, _ := core.ProjectBorrowRecords(core.DomainEvents{req, approved, lost}).Get(borrowID.String())
	live := record.Live(day(time.June, 30))

	assert.Equal(t, core.BorrowStatusLost, live.Status)
	assert.Equal(t, 5, live.OverdueDays)
	assert.True(t, decimal.NewFromInt(300).Equal(live.PenaltyFee))
	assert.True(t, decimal.NewFromInt(250).Equal(live.BookPrice))
	assert.Equal(t, core.PenaltyStatusPending, live.PenaltyStatus)
}

func Test_BorrowRecords_OffendingRecords(t *testing.T) {
	studentID := uuid.New()
	today := day(time.June, 10)

	overdue := givenRequested(uuid.New(), uuid.New(), studentID, 1, day(time.June, 1))
	notYetDue := givenRequested(uuid.New(), uuid.New(), studentID, 7, day(time.June, 8))
	lostAndPaid := givenRequested(uuid.New(), uuid.New(), studentID, 1, day(time.May, 1))
	otherStudent := givenRequested(uuid.New(), uuid.New(), uuid.New(), 1, day(time.June, 1))

	history := core.DomainEvents{
		overdue, givenApproved(overdue, day(time.June, 1)),
		notYetDue, givenApproved(notYetDue, day(time.June, 8)),
		lostAndPaid, givenApproved(lostAndPaid, day(time.May, 1)),
		core.BuildBookMarkedLost(lostAndPaid.BorrowID, lostAndPaid.BookID, studentID.String(), "s", 0, decimal.Zero,
			decimal.NewFromInt(100), decimal.NewFromInt(100), day(time.May, 2)),
		core.BuildPenaltySettled(lostAndPaid.BorrowID, lostAndPaid.BookID, studentID.String(), "s", decimal.NewFromInt(100), day(time.May, 3)),
		otherStudent, givenApproved(otherStudent, day(time.June, 1)),
	}

	offending := core.ProjectBorrowRecords(history).OffendingRecords(studentID.String(), today)

	assert.Equal(t, []string{overdue.BorrowID}, offending)
}

func Test_BorrowRecords_OpenFor(t *testing.T) {
	bookID, studentID := uuid.New(), uuid.New()
	first := givenRequested(uuid.New(), bookID, studentID, 2, day(time.July, 1))
	declined := core.BuildBorrowRequestDeclined(first.BorrowID, first.BookID, first.StudentID, "s", day(time.July, 1))
	second := givenRequested(uuid.New(), bookID, studentID, 2, day(time.July, 2))

	records := core.ProjectBorrowRecords(core.DomainEvents{first, declined})
	_, ok := records.OpenFor(bookID.String(), studentID.String())
	assert.False(t, ok)

	records = core.ProjectBorrowRecords(core.DomainEvents{first, declined, second})
	open, ok := records.OpenFor(bookID.String(), studentID.String())
	assert.True(t, ok)
	assert.Equal(t, second.BorrowID, open.BorrowID)
	assert.Len(t, records.Where(func(r core.BorrowRecord) bool { return r.Status == core.BorrowStatusDeclined }), 1)
}

package penalty_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/schoollibrary/circulation/library/penalty"
)

var manila = time.FixedZone("PHT", 8*60*60)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, manila)
}

func Test_DueDate_IsBorrowDatePlusBorrowDays_ForEveryAllowedLength(t *testing.T) {
	borrowDate := time.Date(2026, time.February, 25, 15, 42, 0, 0, manila)

	for days := penalty.MinBorrowDays; days <= penalty.MaxBorrowDays; days++ {
		dueDate := penalty.DueDate(borrowDate, days)

		assert.Equal(t, days, penalty.DaysBetween(borrowDate, dueDate))
		assert.Equal(t, 0, dueDate.Hour())
	}
}

func Test_DueDate_CrossesMonthAndYearBoundaries(t *testing.T) {
	assert.Equal(t, day(2027, time.January, 3), penalty.DueDate(day(2026, time.December, 30), 4))
	assert.Equal(t, day(2028, time.March, 1), penalty.DueDate(day(2028, time.February, 28), 2))
}

func Test_CivilDate_IgnoresTimeOfDay(t *testing.T) {
	late := time.Date(2026, time.March, 10, 23, 59, 59, 999, manila)

	assert.Equal(t, day(2026, time.March, 10), penalty.CivilDate(late))
}

func Test_DaysBetween_UsesCalendarDaysOfEachLocation(t *testing.T) {
	// 2026-03-10 01:00 in Manila is still 2026-03-09 in UTC.
	earlyMorning := time.Date(2026, time.March, 10, 1, 0, 0, 0, manila)

	assert.Equal(t, 1, penalty.DaysBetween(day(2026, time.March, 9), earlyMorning))
	assert.Equal(t, 0, penalty.DaysBetween(day(2026, time.March, 9), earlyMorning.UTC()))
	assert.Equal(t, -3, penalty.DaysBetween(day(2026, time.March, 12), day(2026, time.March, 9)))
}

func Test_ComputeOverdueStatus(t *testing.T) {
	dueDate := day(2026, time.March, 10)

	testCases := []struct {
		name         string
		now          time.Time
		loan         penalty.Loan
		expectedDays int
		expectedFee  string
	}{
		{"before due date", day(2026, time.March, 8), penalty.Loan{Approved: true, DueDate: dueDate}, 0, "0"},
		{"on due date", day(2026, time.March, 10).Add(23 * time.Hour), penalty.Loan{Approved: true, DueDate: dueDate}, 0, "0"},
		{"one day late", day(2026, time.March, 11), penalty.Loan{Approved: true, DueDate: dueDate}, 1, "10"},
		{"three days late", day(2026, time.March, 13).Add(9 * time.Hour), penalty.Loan{Approved: true, DueDate: dueDate}, 3, "30"},
		{"not approved", day(2026, time.March, 20), penalty.Loan{Approved: false, DueDate: dueDate}, 0, "0"},
		{"no due date", day(2026, time.March, 20), penalty.Loan{Approved: true}, 0, "0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			status := penalty.ComputeOverdueStatus(tc.now, tc.loan)

			// assert
			assert.Equal(t, tc.expectedDays, status.OverdueDays)
			assert.True(t, decimal.RequireFromString(tc.expectedFee).Equal(status.PenaltyFee), "fee %s", status.PenaltyFee)
			assert.Equal(t, tc.expectedDays > 0, status.IsOverdue())
		})
	}
}

func Test_ComputeOverdueStatus_IsIdempotent(t *testing.T) {
	loan := penalty.Loan{Approved: true, DueDate: day(2026, time.April, 1)}
	now := day(2026, time.April, 9)

	first := penalty.ComputeOverdueStatus(now, loan)
	second := penalty.ComputeOverdueStatus(now, loan)

	assert.Equal(t, first.OverdueDays, second.OverdueDays)
	assert.True(t, first.PenaltyFee.Equal(second.PenaltyFee))
}

func Test_ComputeOverdueStatus_IsMonotonicInNow(t *testing.T) {
	loan := penalty.Loan{Approved: true, DueDate: day(2026, time.April, 1)}
	previous := penalty.ComputeOverdueStatus(day(2026, time.March, 20), loan)

	for now := day(2026, time.March, 21); now.Before(day(2026, time.May, 1)); now = now.AddDate(0, 0, 1) {
		current := penalty.ComputeOverdueStatus(now, loan)

		assert.GreaterOrEqual(t, current.OverdueDays, previous.OverdueDays)
		assert.True(t, current.PenaltyFee.GreaterThanOrEqual(previous.PenaltyFee))

		previous = current
	}
}

func Test_LostPenalty_AddsBookPriceToFrozenOverdueFee(t *testing.T) {
	// arrange
	loan := penalty.Loan{Approved: true, DueDate: day(2026, time.May, 1)}
	atLoss := penalty.ComputeOverdueStatus(day(2026, time.May, 6), loan)

	// act
	fee := penalty.LostPenalty(atLoss, decimal.NewFromInt(250))

	// assert
	assert.Equal(t, 5, atLoss.OverdueDays)
	assert.True(t, decimal.NewFromInt(300).Equal(fee), "fee %s", fee)
}

func Test_LostPenalty_IsBookPrice_WhenNotOverdue(t *testing.T) {
	fee := penalty.LostPenalty(penalty.Status{PenaltyFee: decimal.Zero}, decimal.RequireFromString("120.50"))

	assert.Equal(t, "120.5", fee.String())
}

func Test_ValidBorrowDays(t *testing.T) {
	assert.False(t, penalty.ValidBorrowDays(0))
	assert.True(t, penalty.ValidBorrowDays(1))
	assert.True(t, penalty.ValidBorrowDays(7))
	assert.False(t, penalty.ValidBorrowDays(8))
}

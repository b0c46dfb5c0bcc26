package penalty

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// MinBorrowDays and MaxBorrowDays bound the loan length a student can request.
	MinBorrowDays = 1
	MaxBorrowDays = 7
)

// DailyPenaltyRate is charged for every full calendar day past the due date.
var DailyPenaltyRate = decimal.NewFromInt(10)

// Loan is the part of a borrow record the calculator needs.
// Approved means the loan is approved and the book has not come back (returned or lost) yet.
type Loan struct {
	Approved bool
	DueDate  time.Time
}

// Status is the overdue state of a loan on a given day.
type Status struct {
	OverdueDays int
	PenaltyFee  decimal.Decimal
}

// IsOverdue reports whether at least one overdue day has accrued.
func (s Status) IsOverdue() bool {
	return s.OverdueDays > 0
}

// CivilDate returns midnight of t's calendar day in t's location.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DueDate is borrowDate plus borrowDays calendar days.
func DueDate(borrowDate time.Time, borrowDays int) time.Time {
	return CivilDate(borrowDate).AddDate(0, 0, borrowDays)
}

// DaysBetween counts calendar days from from to to, each taken in its own location.
// It is negative when to lies before from.
func DaysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()

	start := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	end := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)

	return int(end.Sub(start).Hours() / 24)
}

// ComputeOverdueStatus returns the overdue days and fee of loan as of now's calendar day.
// Loans that are not approved and open never accrue anything.
func ComputeOverdueStatus(now time.Time, loan Loan) Status {
	if !loan.Approved || loan.DueDate.IsZero() {
		return Status{PenaltyFee: decimal.Zero}
	}

	days := max(0, DaysBetween(loan.DueDate, now))

	return Status{
		OverdueDays: days,
		PenaltyFee:  Fee(days),
	}
}

// Fee is overdueDays times DailyPenaltyRate.
func Fee(overdueDays int) decimal.Decimal {
	if overdueDays <= 0 {
		return decimal.Zero
	}

	return DailyPenaltyRate.Mul(decimal.NewFromInt(int64(overdueDays)))
}

// LostPenalty is the overdue fee frozen at the moment of loss plus the replacement value of the book.
func LostPenalty(overdueAtLoss Status, bookPrice decimal.Decimal) decimal.Decimal {
	return overdueAtLoss.PenaltyFee.Add(bookPrice)
}

// ValidBorrowDays reports whether days is an allowed loan length.
func ValidBorrowDays(days int) bool {
	return days >= MinBorrowDays && days <= MaxBorrowDays
}

package penaltysummary

import (
	"github.com/shopspring/decimal"
)

// MonthlyTotal is the amount collected in one calendar month, formatted as 2006-01.
type MonthlyTotal struct {
	Month  string
	Amount decimal.Decimal
}

// Summary holds the dashboard figures as of the query day.
type Summary struct {
	PendingRequests   int
	ActiveLoans       int
	OverdueLoans      int
	LostUnpaid        int
	BannedStudents    int
	AccruingFees      decimal.Decimal // fees of overdue loans that are still out
	OutstandingLost   decimal.Decimal // penalties of lost books not paid yet
	Collected         decimal.Decimal
	CollectedPerMonth []MonthlyTotal // oldest month first
}

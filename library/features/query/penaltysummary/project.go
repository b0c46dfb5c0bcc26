package penaltysummary

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/library/core"
)

const monthLayout = "2006-01"

// ProjectSummary implements the query logic for the dashboard.
//
// Query Logic:
//
//	GIVEN: the lifecycle events of all borrow records
//	WHEN: PenaltySummary query is executed
//	THEN: the record counts and penalty sums as of query.Today are returned
//	INCLUDES: payments on return and settlements of lost books, by the month they were made
//	EXCLUDES: declined requests
func ProjectSummary(history core.DomainEvents, query Query) Summary {
	summary := Summary{
		AccruingFees:    decimal.Zero,
		OutstandingLost: decimal.Zero,
		Collected:       decimal.Zero,
	}
	perMonth := make(map[string]decimal.Decimal)
	banned := make(map[core.StudentIDString]bool)

	for _, record := range core.ProjectBorrowRecords(history).All() {
		live := record.Live(query.Today)

		if live.OwesPenalty(query.Today) {
			banned[live.StudentID] = true
		}

		switch live.Status {
		case core.BorrowStatusPending:
			summary.PendingRequests++

		case core.BorrowStatusApproved:
			summary.ActiveLoans++
			if live.OverdueDays > 0 {
				summary.OverdueLoans++
				summary.AccruingFees = summary.AccruingFees.Add(live.PenaltyFee)
			}

		case core.BorrowStatusLost:
			if live.PenaltyStatus != core.PenaltyStatusPaid {
				summary.LostUnpaid++
				summary.OutstandingLost = summary.OutstandingLost.Add(live.PenaltyFee)
			}
		}

		if live.PenaltyStatus == core.PenaltyStatusPaid {
			month := live.SettledAt.In(query.Today.Location()).Format(monthLayout)
			perMonth[month] = perMonth[month].Add(live.PenaltyFee)
			summary.Collected = summary.Collected.Add(live.PenaltyFee)
		}
	}

	summary.BannedStudents = len(banned)
	summary.CollectedPerMonth = make([]MonthlyTotal, 0, len(perMonth))
	for month, amount := range perMonth {
		summary.CollectedPerMonth = append(summary.CollectedPerMonth, MonthlyTotal{Month: month, Amount: amount})
	}

	slices.SortFunc(summary.CollectedPerMonth, func(a, b MonthlyTotal) int {
		return cmp.Compare(a.Month, b.Month)
	})

	return summary
}

// BuildEventFilter selects the lifecycle events of all borrow records.
func BuildEventFilter() eventstore.Filter {
	types := core.BorrowLifecycleEventTypes

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(types[0], types[1:]...).
		Finalize()
}

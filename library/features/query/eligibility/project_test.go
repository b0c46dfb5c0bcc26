package eligibility_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/features/query/eligibility"
	"github.com/schoollibrary/circulation/testutil/helper"
)

func Test_ProjectEligibility(t *testing.T) {
	studentID := helper.GivenUniqueID(t)
	bookID := helper.GivenUniqueID(t)
	loan := helper.FixtureBorrowRequested(helper.GivenUniqueID(t), bookID, studentID, 2, helper.Day(time.May, 1))
	approved := helper.FixtureBorrowApproved(loan, helper.Day(time.May, 1))

	testCases := []struct {
		name        string
		history     core.DomainEvents
		today       time.Time
		banned      bool
		outstanding int64
	}{
		{"no records", core.DomainEvents{}, helper.Day(time.May, 10), false, 0},
		{"pending request", core.DomainEvents{loan}, helper.Day(time.May, 10), false, 0},
		{"loan on the due date", core.DomainEvents{loan, approved}, helper.Day(time.May, 3), false, 0},
		{"overdue loan", core.DomainEvents{loan, approved}, helper.Day(time.May, 6), true, 30},
		{"returned late and paid", core.DomainEvents{loan, approved, helper.FixtureBookReturned(loan, 3, helper.Day(time.May, 6))}, helper.Day(time.May, 10), false, 0},
		{"lost and unpaid", core.DomainEvents{loan, approved, helper.FixtureBookMarkedLost(loan, 0, 120, helper.Day(time.May, 2))}, helper.Day(time.May, 10), true, 120},
		{
			"lost and settled",
			core.DomainEvents{
				loan, approved,
				helper.FixtureBookMarkedLost(loan, 0, 120, helper.Day(time.May, 2)),
				helper.FixturePenaltySettled(loan, decimal.NewFromInt(120), helper.Day(time.May, 4)),
			},
			helper.Day(time.May, 10), false, 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result := eligibility.ProjectEligibility(tc.history, eligibility.BuildQuery(studentID, tc.today))

			// assert
			assert.Equal(t, tc.banned, result.IsBanned)
			assert.True(t, decimal.NewFromInt(tc.outstanding).Equal(result.OutstandingPenalty), "outstanding %s", result.OutstandingPenalty)
			if tc.banned {
				assert.Equal(t, []core.BorrowIDString{loan.BorrowID}, result.OffendingBorrowIDs)
			}
		})
	}
}

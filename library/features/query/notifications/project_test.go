package notifications_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/features/query/notifications"
	"github.com/schoollibrary/circulation/testutil/helper"
)

func Test_ProjectNotifications_DerivesKindFromRecordState(t *testing.T) {
	bookID, studentID := helper.GivenUniqueID(t), helper.GivenUniqueID(t)
	request := helper.FixtureBorrowRequested(helper.GivenUniqueID(t), bookID, studentID, 2, helper.Day(time.August, 1))
	approved := helper.FixtureBorrowApproved(request, helper.Day(time.August, 1))
	catalog := core.ProjectCatalog(core.DomainEvents{helper.FixtureBookAdded(bookID, 1, 120, helper.Day(time.July, 1))})

	testCases := []struct {
		name     string
		history  core.DomainEvents
		today    time.Time
		expected notifications.Kind
		fee      int64
	}{
		{"approved", core.DomainEvents{request, approved}, helper.Day(time.August, 2), notifications.KindApproved, 0},
		{"declined", core.DomainEvents{request, core.BuildBorrowRequestDeclined(request.BorrowID, request.BookID, request.StudentID, "librarian-1", helper.Day(time.August, 1))}, helper.Day(time.August, 2), notifications.KindDeclined, 0},
		{"overdue reminder", core.DomainEvents{request, approved}, helper.Day(time.August, 6), notifications.KindOverdueReminder, 30},
		{"returned on time", core.DomainEvents{request, approved, helper.FixtureBookReturned(request, 0, helper.Day(time.August, 3))}, helper.Day(time.August, 9), notifications.KindReturnedOK, 0},
		{"returned late and paid", core.DomainEvents{request, approved, helper.FixtureBookReturned(request, 2, helper.Day(time.August, 5))}, helper.Day(time.August, 9), notifications.KindOverduePaid, 20},
		{"lost and unpaid", core.DomainEvents{request, approved, helper.FixtureBookMarkedLost(request, 0, 120, helper.Day(time.August, 2))}, helper.Day(time.August, 9), notifications.KindLostUnpaid, 120},
		{
			"lost and paid",
			core.DomainEvents{
				request, approved,
				helper.FixtureBookMarkedLost(request, 0, 120, helper.Day(time.August, 2)),
				helper.FixturePenaltySettled(request, decimal.NewFromInt(120), helper.Day(time.August, 3)),
			},
			helper.Day(time.August, 9), notifications.KindLostPaid, 120,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result := notifications.ProjectNotifications(tc.history, catalog, notifications.BuildQuery(studentID, tc.today))

			// assert
			require.Equal(t, 1, result.Count)
			assert.Equal(t, tc.expected, result.Items[0].Kind)
			assert.Equal(t, "Noli Me Tangere", result.Items[0].BookTitle)
			assert.Contains(t, result.Items[0].Message, "Noli Me Tangere")
			assert.True(t, decimal.NewFromInt(tc.fee).Equal(result.Items[0].PenaltyFee), "fee %s", result.Items[0].PenaltyFee)
		})
	}
}

func Test_ProjectNotifications_SkipsPendingAndSortsByRecency(t *testing.T) {
	// arrange
	bookID, studentID := helper.GivenUniqueID(t), helper.GivenUniqueID(t)
	older := helper.FixtureBorrowRequested(helper.GivenUniqueID(t), bookID, studentID, 7, helper.Day(time.August, 1))
	newer := helper.FixtureBorrowRequested(helper.GivenUniqueID(t), bookID, studentID, 7, helper.Day(time.August, 2))
	pending := helper.FixtureBorrowRequested(helper.GivenUniqueID(t), bookID, studentID, 7, helper.Day(time.August, 5))
	history := core.DomainEvents{
		older,
		newer,
		helper.FixtureBorrowApproved(newer, helper.Day(time.August, 3)),
		helper.FixtureBorrowApproved(older, helper.Day(time.August, 4)),
		pending,
	}

	// act
	result := notifications.ProjectNotifications(history, core.ProjectCatalog(nil), notifications.BuildQuery(studentID, helper.Day(time.August, 6)))

	// assert
	require.Equal(t, 2, result.Count)
	assert.Equal(t, older.BorrowID, result.Items[0].BorrowID, "approved last, shown first")
	assert.Equal(t, newer.BorrowID, result.Items[1].BorrowID)
}

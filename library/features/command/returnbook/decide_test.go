package returnbook_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/features/command/returnbook"
	"github.com/schoollibrary/circulation/testutil/helper"
)

// givenLoan is a 3 day loan approved on March 1, due March 4.
func givenLoan() (core.DomainEvents, uuid.UUID) {
	req := helper.FixtureBorrowRequested(uuid.New(), uuid.New(), uuid.New(), 3, helper.Day(time.March, 1))

	return core.DomainEvents{req, helper.FixtureBorrowApproved(req, helper.Day(time.March, 1))}, uuid.MustParse(req.BorrowID)
}

func Test_Decide_ReturnOutcomes(t *testing.T) {
	testCases := []struct {
		name            string
		returnedOn      time.Time
		confirm         bool
		expectedDays    int
		expectedFee     int64
		expectedPenalty core.PenaltyStatus
	}{
		{"on time", helper.Day(time.March, 3), false, 0, 0, core.PenaltyStatusNone},
		{"on the due date", helper.Day(time.March, 4), false, 0, 0, core.PenaltyStatusNone},
		{"three days late and paid", helper.Day(time.March, 7), true, 3, 30, core.PenaltyStatusPaid},
		{"confirmation is ignored when nothing is owed", helper.Day(time.March, 2), true, 0, 0, core.PenaltyStatusNone},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			history, borrowID := givenLoan()

			// act
			result := returnbook.Decide(history, returnbook.BuildCommand(borrowID, "librarian-3", tc.confirm, tc.returnedOn))

			// assert
			require.NoError(t, result.HasError())
			event, ok := result.Events[0].(core.BookReturned)
			require.True(t, ok)
			assert.Equal(t, tc.expectedDays, event.OverdueDays)
			assert.True(t, decimal.NewFromInt(tc.expectedFee).Equal(event.PenaltyFee), "fee %s", event.PenaltyFee)
			assert.Equal(t, tc.expectedPenalty, event.PenaltyStatus)
		})
	}
}

func Test_Decide_PenaltyConfirmationRequired_WhenOverdueAndNotConfirmed(t *testing.T) {
	// arrange
	history, borrowID := givenLoan()

	// act
	result := returnbook.Decide(history, returnbook.BuildCommand(borrowID, "librarian-3", false, helper.Day(time.March, 7)))

	// assert
	assert.ErrorIs(t, result.HasError(), core.ErrPenaltyConfirmationRequired)
	assert.Contains(t, result.HasError().Error(), "30.00")
	require.Len(t, result.Events, 1)
	assert.True(t, result.Events[0].IsErrorEvent())

	record, _ := core.ProjectBorrowRecords(append(history, result.Events...)).Get(borrowID.String())
	assert.Equal(t, core.BorrowStatusApproved, record.Status)
}

func Test_Decide_InvalidStateTransition_WhenNotApproved(t *testing.T) {
	req := helper.FixtureBorrowRequested(uuid.New(), uuid.New(), uuid.New(), 3, helper.Day(time.March, 1))
	approved := helper.FixtureBorrowApproved(req, helper.Day(time.March, 1))
	borrowID := uuid.MustParse(req.BorrowID)

	testCases := []struct {
		name    string
		history core.DomainEvents
	}{
		{"pending", core.DomainEvents{req}},
		{"already returned", core.DomainEvents{req, approved, helper.FixtureBookReturned(req, 0, helper.Day(time.March, 2))}},
		{"lost", core.DomainEvents{req, approved, helper.FixtureBookMarkedLost(req, 0, 250, helper.Day(time.March, 2))}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := returnbook.Decide(tc.history, returnbook.BuildCommand(borrowID, "librarian-3", true, helper.Day(time.March, 3)))

			assert.ErrorIs(t, result.HasError(), core.ErrInvalidStateTransition)
		})
	}
}

package settlepenalty_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/features/command/settlepenalty"
	"github.com/schoollibrary/circulation/testutil/helper"
)

func Test_Decide_Settlement(t *testing.T) {
	req := helper.FixtureBorrowRequested(uuid.New(), uuid.New(), uuid.New(), 3, helper.Day(time.April, 1))
	approved := helper.FixtureBorrowApproved(req, helper.Day(time.April, 1))
	lost := helper.FixtureBookMarkedLost(req, 5, 250, helper.Day(time.April, 9))
	borrowID := uuid.MustParse(req.BorrowID)
	now := helper.Day(time.April, 10)

	testCases := []struct {
		name       string
		history    core.DomainEvents
		idempotent bool
		expected   error
	}{
		{"lost and pending", core.DomainEvents{req, approved, lost}, false, nil},
		{"already settled", core.DomainEvents{req, approved, lost, helper.FixturePenaltySettled(req, decimal.NewFromInt(300), now)}, true, nil},
		{"paid at return", core.DomainEvents{req, approved, helper.FixtureBookReturned(req, 2, now)}, true, nil},
		{"returned on time", core.DomainEvents{req, approved, helper.FixtureBookReturned(req, 0, now)}, false, core.ErrInvalidStateTransition},
		{"still lent", core.DomainEvents{req, approved}, false, core.ErrInvalidStateTransition},
		{"pending request", core.DomainEvents{req}, false, core.ErrInvalidStateTransition},
		{"unknown record", nil, false, core.ErrNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result := settlepenalty.Decide(tc.history, settlepenalty.BuildCommand(borrowID, "librarian-5", now))

			// assert
			assert.ErrorIs(t, result.HasError(), tc.expected)
			assert.Equal(t, tc.idempotent, result.IsIdempotent())

			if tc.expected == nil && !tc.idempotent {
				event, ok := result.Events[0].(core.PenaltySettled)
				require.True(t, ok)
				assert.True(t, decimal.NewFromInt(300).Equal(event.Amount))
			}
		})
	}
}

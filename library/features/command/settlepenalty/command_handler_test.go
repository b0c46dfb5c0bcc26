package settlepenalty_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/eventstore/memengine"
	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/features/command/settlepenalty"
	"github.com/schoollibrary/circulation/testutil/helper"
)

func Test_CommandHandler_Handle_SettlesOnceThenReportsAlreadySettled(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewEventStore()
	loan := helper.GivenApprovedLoan(t, ctx, store, 1, 250, 3, helper.Day(time.April, 1))
	helper.GivenEventsWereAppended(t, ctx, store, helper.FixtureBookMarkedLost(loan.Request, 5, 250, helper.Day(time.April, 9)))
	handler := settlepenalty.NewCommandHandler(store)
	command := settlepenalty.BuildCommand(loan.BorrowID, "librarian-5", helper.Day(time.April, 10))

	// act
	first, firstResult, err := handler.Handle(ctx, command)
	require.NoError(t, err)
	second, secondResult, err := handler.Handle(ctx, command)
	require.NoError(t, err)

	// assert
	assert.False(t, firstResult.Idempotent)
	assert.True(t, secondResult.Idempotent)
	assert.Equal(t, core.PenaltyStatusPaid, first.PenaltyStatus)
	assert.Equal(t, core.PenaltyStatusPaid, second.PenaltyStatus)
	assert.True(t, first.SettledAt.Equal(second.SettledAt))
	assert.Equal(t, core.PenaltySettledEventType, helper.LastEvent(t, ctx, store).EventType())
}

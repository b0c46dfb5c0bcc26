package borrowrecord_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/eventstore/memengine"
	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/features/query/borrowrecord"
	"github.com/schoollibrary/circulation/testutil/helper"
)

func Test_QueryHandler_Handle_ShowsLiveOverdueValuesOfApprovedLoan(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewEventStore()
	loan := helper.GivenApprovedLoan(t, ctx, store, 2, 250, 3, helper.Day(time.March, 1))
	handler := borrowrecord.NewQueryHandler(store)

	// act
	view, err := handler.Handle(ctx, borrowrecord.BuildQuery(loan.BorrowID, helper.Day(time.March, 6)))

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.BorrowStatusApproved, view.Status)
	assert.Equal(t, 2, view.OverdueDays)
	assert.True(t, decimal.NewFromInt(20).Equal(view.PenaltyFee))
	assert.Equal(t, core.PenaltyStatusPending, view.PenaltyStatus)
	assert.Equal(t, "Noli Me Tangere", view.BookTitle)
	assert.Equal(t, "Juan Dela Cruz", view.StudentName)
}

func Test_QueryHandler_Handle_KeepsFrozenValuesOfReturnedLoan(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewEventStore()
	loan := helper.GivenApprovedLoan(t, ctx, store, 2, 250, 3, helper.Day(time.March, 1))
	helper.GivenEventsWereAppended(t, ctx, store, helper.FixtureBookReturned(loan.Request, 1, helper.Day(time.March, 5)))
	handler := borrowrecord.NewQueryHandler(store)

	// act
	view, err := handler.Handle(ctx, borrowrecord.BuildQuery(loan.BorrowID, helper.Day(time.April, 30)))

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.BorrowStatusReturned, view.Status)
	assert.Equal(t, 1, view.OverdueDays)
	assert.True(t, decimal.NewFromInt(10).Equal(view.PenaltyFee))
	assert.Equal(t, core.PenaltyStatusPaid, view.PenaltyStatus)
}

func Test_QueryHandler_Handle_ReturnsNotFound_WhenRecordIsUnknown(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewEventStore()
	handler := borrowrecord.NewQueryHandler(store)

	// act
	_, err := handler.Handle(ctx, borrowrecord.BuildQuery(helper.GivenUniqueID(t), helper.Day(time.March, 6)))

	// assert
	assert.ErrorIs(t, err, core.ErrNotFound)
}

package marklost_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/eventstore/memengine"
	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/features/command/marklost"
	"github.com/schoollibrary/circulation/testutil/helper"
)

func Test_CommandHandler_Handle_FreezesPenaltyAndKeepsCopyOffTheShelf(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewEventStore()
	loan := helper.GivenApprovedLoan(t, ctx, store, 2, 100, 2, helper.Day(time.April, 1))
	handler := marklost.NewCommandHandler(store)

	// act: due April 3, lost April 5
	record, _, err := handler.Handle(ctx, marklost.BuildCommand(loan.BorrowID, "librarian-4", helper.Day(time.April, 5)))

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.BorrowStatusLost, record.Status)
	assert.Equal(t, 2, record.OverdueDays)
	assert.True(t, decimal.NewFromInt(120).Equal(record.PenaltyFee))
	assert.Equal(t, core.PenaltyStatusPending, record.PenaltyStatus)
	assert.False(t, record.ReturnDate.IsZero())

	events := helper.AllEvents(t, ctx, store)
	book, _ := core.ProjectCatalog(events).Active(loan.BookID.String())
	assert.Equal(t, 1, book.Copies)
	assert.True(t, record.Live(helper.Today(helper.Day(time.May, 30))).PenaltyFee.Equal(decimal.NewFromInt(120)), "frozen after loss")
}

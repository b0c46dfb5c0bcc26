package borrowerprofile_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/eventstore/memengine"
	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/features/query/borrowerprofile"
	"github.com/schoollibrary/circulation/testutil/helper"
)

func Test_QueryHandler_Handle_BuildsProfileWithHistory(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewEventStore()
	loan := helper.GivenApprovedLoan(t, ctx, store, 2, 250, 2, helper.Day(time.April, 1))
	later := helper.FixtureBorrowRequested(helper.GivenUniqueID(t), loan.BookID, loan.StudentID, 3, helper.Day(time.April, 2))
	helper.GivenEventsWereAppended(t, ctx, store, later)
	handler := borrowerprofile.NewQueryHandler(store)

	// act
	profile, err := handler.Handle(ctx, borrowerprofile.BuildQuery(loan.StudentID, helper.Day(time.April, 5)))

	// assert
	require.NoError(t, err)
	assert.Equal(t, "Juan Dela Cruz", profile.FullName)
	assert.Equal(t, 1, profile.BorrowCount)
	assert.Equal(t, 1, profile.ActiveLoans)
	assert.Equal(t, 1, profile.PendingRequests)
	assert.True(t, profile.IsBanned, "the loan is two days overdue")
	require.Len(t, profile.History, 2)
	assert.Equal(t, later.BorrowID, profile.History[0].BorrowID)
	assert.Equal(t, "Noli Me Tangere", profile.History[1].BookTitle)
	assert.Equal(t, 2, profile.History[1].OverdueDays)
}

func Test_QueryHandler_Handle_ReturnsNotFound_WhenStudentIsNotRegistered(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewEventStore()
	handler := borrowerprofile.NewQueryHandler(store)

	// act
	_, err := handler.Handle(ctx, borrowerprofile.BuildQuery(helper.GivenUniqueID(t), helper.Day(time.April, 5)))

	// assert
	assert.ErrorIs(t, err, core.ErrNotFound)
}

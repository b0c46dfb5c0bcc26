package eligibility_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/eventstore/memengine"
	"github.com/schoollibrary/circulation/library/features/query/eligibility"
	"github.com/schoollibrary/circulation/testutil/helper"
)

func Test_QueryHandler_Handle_ReportsBan_WhenLoanIsOverdue(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewEventStore()
	loan := helper.GivenApprovedLoan(t, ctx, store, 1, 250, 1, helper.Day(time.May, 1))
	handler := eligibility.NewQueryHandler(store)

	// act
	result, err := handler.Handle(ctx, eligibility.BuildQuery(loan.StudentID, helper.Day(time.May, 4)))

	// assert
	require.NoError(t, err)
	assert.True(t, result.IsBanned)
	assert.Equal(t, []string{loan.BorrowID.String()}, result.OffendingBorrowIDs)
}

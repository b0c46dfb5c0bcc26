package notifications_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/eventstore/memengine"
	"github.com/schoollibrary/circulation/library/features/query/notifications"
	"github.com/schoollibrary/circulation/testutil/helper"
)

func Test_QueryHandler_Handle_ShowsOverdueReminderWithTitle(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewEventStore()
	loan := helper.GivenApprovedLoan(t, ctx, store, 1, 250, 1, helper.Day(time.August, 1))
	handler := notifications.NewQueryHandler(store)

	// act
	result, err := handler.Handle(ctx, notifications.BuildQuery(loan.StudentID, helper.Day(time.August, 4)))

	// assert
	require.NoError(t, err)
	require.Equal(t, 1, result.Count)
	assert.Equal(t, notifications.KindOverdueReminder, result.Items[0].Kind)
	assert.Equal(t, "Noli Me Tangere", result.Items[0].BookTitle)
	assert.Contains(t, result.Items[0].Message, "2 day(s) overdue")
	assert.Contains(t, result.Items[0].Message, "20.00")
}

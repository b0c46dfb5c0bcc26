package declineborrow_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/features/command/declineborrow"
	"github.com/schoollibrary/circulation/testutil/helper"
)

func Test_Decide_Success_WhenPending(t *testing.T) {
	// arrange
	req := helper.FixtureBorrowRequested(uuid.New(), uuid.New(), uuid.New(), 2, helper.Day(time.May, 1))

	// act
	result := declineborrow.Decide(core.DomainEvents{req}, declineborrow.BuildCommand(uuid.MustParse(req.BorrowID), "librarian-2", helper.Day(time.May, 2)))

	// assert
	require.NoError(t, result.HasError())
	event, ok := result.Events[0].(core.BorrowRequestDeclined)
	require.True(t, ok)
	assert.Equal(t, "librarian-2", event.DeclinedBy)
}

func Test_Decide_InvalidStateTransition_WhenNotPending(t *testing.T) {
	req := helper.FixtureBorrowRequested(uuid.New(), uuid.New(), uuid.New(), 2, helper.Day(time.May, 1))
	history := core.DomainEvents{req, helper.FixtureBorrowApproved(req, helper.Day(time.May, 1))}

	result := declineborrow.Decide(history, declineborrow.BuildCommand(uuid.MustParse(req.BorrowID), "librarian-2", helper.Day(time.May, 2)))

	assert.ErrorIs(t, result.HasError(), core.ErrInvalidStateTransition)
	require.Len(t, result.Events, 1)
	assert.True(t, result.Events[0].IsErrorEvent())
}

func Test_Decide_NotFound_WhenRecordIsUnknown(t *testing.T) {
	result := declineborrow.Decide(nil, declineborrow.BuildCommand(uuid.New(), "librarian-2", time.Now()))

	assert.ErrorIs(t, result.HasError(), core.ErrNotFound)
	assert.False(t, result.HasEventToAppend())
}

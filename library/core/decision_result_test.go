package core_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/schoollibrary/circulation/library/core"
)

func Test_DecisionResult_Outcomes(t *testing.T) {
	failed := core.BuildBorrowingOperationFailed("b", "s", "approveRequest", "no copies", time.Now())
	reason := core.Violation(core.ErrOutOfStock, "no copies")

	idempotent := core.IdempotentDecision()
	assert.True(t, idempotent.IsIdempotent())
	assert.False(t, idempotent.HasEventToAppend())
	assert.NoError(t, idempotent.HasError())

	success := core.SuccessDecision(failed, failed)
	assert.Len(t, success.Events, 2)
	assert.NoError(t, success.HasError())

	errorDecision := core.ErrorDecision(failed, reason)
	assert.True(t, errorDecision.HasEventToAppend())
	assert.ErrorIs(t, errorDecision.HasError(), core.ErrOutOfStock)

	rejected := core.RejectedDecision(core.Violation(core.ErrNotFound, "borrow record"))
	assert.False(t, rejected.HasEventToAppend())
	assert.ErrorIs(t, rejected.HasError(), core.ErrNotFound)
}

func Test_IsBusinessRuleViolation(t *testing.T) {
	assert.True(t, core.IsBusinessRuleViolation(core.Violation(core.ErrBanned, "unpaid penalty")))
	assert.True(t, core.IsBusinessRuleViolation(errors.Join(errors.New("x"), core.ErrDuplicateISBN)))
	assert.False(t, core.IsBusinessRuleViolation(errors.New("connection refused")))
	assert.Equal(t, "book is out of stock: no copies", core.Violation(core.ErrOutOfStock, "no copies").Error())
}

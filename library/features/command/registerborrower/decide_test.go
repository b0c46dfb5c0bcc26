package registerborrower_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/features/command/registerborrower"
)

func givenCommand(t *testing.T, studentID uuid.UUID, lrn string) registerborrower.Command {
	t.Helper()

	command, err := registerborrower.BuildCommand(studentID, core.BorrowerDetails{FullName: " Maria Clara ", LRN: lrn}, time.Now())
	require.NoError(t, err)

	return command
}

func Test_BuildCommand_Fails_WhenNameIsBlank(t *testing.T) {
	_, err := registerborrower.BuildCommand(uuid.New(), core.BorrowerDetails{FullName: "   "}, time.Now())

	assert.ErrorIs(t, err, core.ErrValidation)
}

func Test_Decide_Success_WhenStudentIsNew(t *testing.T) {
	// arrange
	studentID := uuid.New()
	command := givenCommand(t, studentID, "111")

	// act
	result := registerborrower.Decide(nil, command)

	// assert
	require.NoError(t, result.HasError())
	require.Len(t, result.Events, 1)
	event, ok := result.Events[0].(core.BorrowerRegistered)
	require.True(t, ok)
	assert.Equal(t, studentID.String(), event.StudentID)
	assert.Equal(t, "Maria Clara", event.FullName)
}

func Test_Decide_Idempotent_WhenStudentIsAlreadyRegistered(t *testing.T) {
	studentID := uuid.New()
	command := givenCommand(t, studentID, "111")
	history := core.DomainEvents{core.BuildBorrowerRegistered(studentID, command.Details, time.Now())}

	result := registerborrower.Decide(history, command)

	assert.True(t, result.IsIdempotent())
	assert.False(t, result.HasEventToAppend())
}

func Test_Decide_Rejected_WhenLRNBelongsToAnotherStudent(t *testing.T) {
	history := core.DomainEvents{
		core.BuildBorrowerRegistered(uuid.New(), core.BorrowerDetails{FullName: "Crisostomo Ibarra", LRN: "111"}, time.Now()),
	}

	result := registerborrower.Decide(history, givenCommand(t, uuid.New(), "111"))

	assert.ErrorIs(t, result.HasError(), core.ErrValidation)
	assert.False(t, result.HasEventToAppend())
}

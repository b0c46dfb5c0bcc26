package addbook_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/features/command/addbook"
	"github.com/schoollibrary/circulation/testutil/helper"
)

func givenCommand(t *testing.T, bookID uuid.UUID, isbn string) addbook.Command {
	t.Helper()

	details := helper.FixtureBookDetails(3, 250)
	details.ISBN = isbn

	command, err := addbook.BuildCommand(bookID, details, "librarian-1", time.Now())
	require.NoError(t, err)

	return command
}

func Test_BuildCommand_Validation(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*core.BookDetails)
	}{
		{"missing isbn", func(d *core.BookDetails) { d.ISBN = " " }},
		{"missing title", func(d *core.BookDetails) { d.Title = "" }},
		{"negative copies", func(d *core.BookDetails) { d.Copies = -1 }},
		{"negative price", func(d *core.BookDetails) { d.Price = decimal.NewFromInt(-5) }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			details := helper.FixtureBookDetails(1, 100)
			tc.mutate(&details)

			_, err := addbook.BuildCommand(uuid.New(), details, "librarian-1", time.Now())

			assert.ErrorIs(t, err, core.ErrValidation)
		})
	}
}

func Test_Decide_Success_WhenISBNIsFree(t *testing.T) {
	// arrange
	bookID := uuid.New()

	// act
	result := addbook.Decide(nil, givenCommand(t, bookID, "978-0"))

	// assert
	require.NoError(t, result.HasError())
	event, ok := result.Events[0].(core.BookAddedToCatalog)
	require.True(t, ok)
	assert.Equal(t, bookID.String(), event.BookID)
	assert.Equal(t, 3, event.Copies)
}

func Test_Decide_Rejected_WhenISBNIsActive(t *testing.T) {
	history := core.DomainEvents{helper.FixtureBookAddedWithISBN(uuid.New(), "978-0", time.Now())}

	result := addbook.Decide(history, givenCommand(t, uuid.New(), "978-0"))

	assert.ErrorIs(t, result.HasError(), core.ErrDuplicateISBN)
	assert.False(t, result.HasEventToAppend())
}

func Test_Decide_Success_WhenISBNIsOnlyArchived(t *testing.T) {
	oldBookID := uuid.New()
	history := core.DomainEvents{
		helper.FixtureBookAddedWithISBN(oldBookID, "978-0", time.Now()),
		helper.FixtureBookArchived(oldBookID, "978-0", time.Now()),
	}

	result := addbook.Decide(history, givenCommand(t, uuid.New(), "978-0"))

	assert.NoError(t, result.HasError())
	assert.True(t, result.HasEventToAppend())
}

func Test_Decide_Idempotent_WhenBookIsAlreadyActive(t *testing.T) {
	bookID := uuid.New()
	history := core.DomainEvents{helper.FixtureBookAddedWithISBN(bookID, "978-0", time.Now())}

	result := addbook.Decide(history, givenCommand(t, bookID, "978-0"))

	assert.True(t, result.IsIdempotent())
}

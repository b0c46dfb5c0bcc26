package deletearchivedbook_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/features/command/deletearchivedbook"
	"github.com/schoollibrary/circulation/testutil/helper"
)

func Test_Decide_Success_WhenArchived(t *testing.T) {
	// arrange
	bookID := uuid.New()
	history := core.DomainEvents{
		helper.FixtureBookAddedWithISBN(bookID, "978-2", helper.Day(time.January, 1)),
		helper.FixtureBookArchived(bookID, "978-2", helper.Day(time.January, 2)),
	}

	// act
	result := deletearchivedbook.Decide(history, deletearchivedbook.BuildCommand(bookID, "librarian-1", helper.Day(time.January, 3)))

	// assert
	require.NoError(t, result.HasError())
	event, ok := result.Events[0].(core.ArchivedBookDeleted)
	require.True(t, ok)
	assert.Equal(t, "978-2", event.ISBN)
}

func Test_Decide_NotFound_WhenBookIsActiveOrGone(t *testing.T) {
	bookID := uuid.New()
	added := helper.FixtureBookAddedWithISBN(bookID, "978-2", helper.Day(time.January, 1))
	archived := helper.FixtureBookArchived(bookID, "978-2", helper.Day(time.January, 2))
	deleted := core.BuildArchivedBookDeleted(bookID, "978-2", "librarian-1", helper.Day(time.January, 3))

	for _, history := range []core.DomainEvents{{added}, {added, archived, deleted}, nil} {
		result := deletearchivedbook.Decide(history, deletearchivedbook.BuildCommand(bookID, "librarian-1", helper.Day(time.January, 4)))

		assert.ErrorIs(t, result.HasError(), core.ErrNotFound)
		assert.False(t, result.HasEventToAppend())
	}
}

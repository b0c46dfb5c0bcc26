package retrievearchivedbook_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/eventstore/memengine"
	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/features/command/retrievearchivedbook"
	"github.com/schoollibrary/circulation/testutil/helper"
)

func Test_CommandHandler_Handle_RestoresAllFields(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewEventStore()
	bookID := helper.GivenUniqueID(t)
	added := helper.FixtureBookAdded(bookID, 3, 180, helper.Day(time.January, 1))
	helper.GivenEventsWereAppended(t, ctx, store, added, helper.FixtureBookArchived(bookID, added.ISBN, helper.Day(time.January, 2)))
	handler := retrievearchivedbook.NewCommandHandler(store)

	// act
	book, _, err := handler.Handle(ctx, retrievearchivedbook.BuildCommand(bookID, "librarian-1", helper.Day(time.January, 10)))

	// assert
	require.NoError(t, err)
	assert.Equal(t, added.Title, book.Title)
	assert.Equal(t, added.ISBN, book.ISBN)
	assert.Equal(t, 3, book.Copies)
	assert.True(t, added.Price.Equal(book.Price))

	catalog := core.ProjectCatalog(helper.AllEvents(t, ctx, store))
	_, stillArchived := catalog.Archived(bookID.String())
	assert.False(t, stillArchived)
}

func Test_CommandHandler_Handle_FailsClosed_WhenBookIsUnknown(t *testing.T) {
	store := memengine.NewEventStore()
	handler := retrievearchivedbook.NewCommandHandler(store)

	_, _, err := handler.Handle(context.Background(), retrievearchivedbook.BuildCommand(helper.GivenUniqueID(t), "librarian-1", time.Now()))

	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Equal(t, 0, store.Len())
}

package archivebook_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/eventstore/memengine"
	"github.com/schoollibrary/circulation/library/features/command/archivebook"
	"github.com/schoollibrary/circulation/testutil/helper"
)

func Test_CommandHandler_Handle_ArchivesBook(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewEventStore()
	bookID := helper.GivenUniqueID(t)
	helper.GivenEventsWereAppended(t, ctx, store, helper.FixtureBookAdded(bookID, 4, 250, helper.Day(time.February, 1)))
	handler := archivebook.NewCommandHandler(store)

	// act
	archived, result, err := handler.Handle(ctx, archivebook.BuildCommand(bookID, "librarian-6", helper.Day(time.February, 4)))

	// assert
	require.NoError(t, err)
	assert.False(t, result.Idempotent)
	assert.Equal(t, 4, archived.Copies)
	assert.Equal(t, "librarian-6", archived.ArchivedBy)
	assert.True(t, archived.DateArchived.Equal(helper.Day(time.February, 4)))
}

package archivedbooks_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/eventstore/memengine"
	"github.com/schoollibrary/circulation/library/features/query/archivedbooks"
	"github.com/schoollibrary/circulation/testutil/helper"
)

func Test_QueryHandler_Handle_ListsArchivedBooksOldestFirst(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewEventStore()
	first, second, active := helper.GivenUniqueID(t), helper.GivenUniqueID(t), helper.GivenUniqueID(t)
	firstAdded := helper.FixtureBookAdded(first, 3, 250, helper.Day(time.May, 1))
	secondAdded := helper.FixtureBookAdded(second, 2, 250, helper.Day(time.May, 1))
	helper.GivenEventsWereAppended(t, ctx, store,
		secondAdded,
		firstAdded,
		helper.FixtureBookAdded(active, 1, 250, helper.Day(time.May, 1)),
		helper.FixtureBookArchived(first, firstAdded.ISBN, helper.Day(time.June, 2)),
		helper.FixtureBookArchived(second, secondAdded.ISBN, helper.Day(time.June, 5)),
	)
	handler := archivedbooks.NewQueryHandler(store)

	// act
	list, err := handler.Handle(ctx, archivedbooks.BuildQuery(helper.Day(time.June, 6)))

	// assert
	require.NoError(t, err)
	require.Equal(t, 2, list.Count)
	assert.Equal(t, first.String(), list.Books[0].BookID)
	assert.Equal(t, 11, list.Books[0].DaysLeft)
	assert.Equal(t, 3, list.Books[0].Copies)
	assert.Equal(t, second.String(), list.Books[1].BookID)
	assert.Equal(t, 14, list.Books[1].DaysLeft)
}

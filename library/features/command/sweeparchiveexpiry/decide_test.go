package sweeparchiveexpiry_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/features/command/sweeparchiveexpiry"
	"github.com/schoollibrary/circulation/testutil/helper"
)

func givenArchivedOn(bookID uuid.UUID, on time.Time) core.DomainEvents {
	added := helper.FixtureBookAdded(bookID, 1, 100, on.AddDate(0, -1, 0))

	return core.DomainEvents{added, helper.FixtureBookArchived(bookID, added.ISBN, on)}
}

func Test_Decide_PurgesOnlyExpiredBooks(t *testing.T) {
	// arrange
	today := helper.Day(time.March, 16)
	expired := uuid.New()   // archived March 1, 15 days ago
	lastDay := uuid.New()   // archived March 2, 14 days ago
	retrieved := uuid.New() // archived Feb 1, then retrieved

	history := append(givenArchivedOn(expired, helper.Day(time.March, 1)), givenArchivedOn(lastDay, helper.Day(time.March, 2))...)
	history = append(history, givenArchivedOn(retrieved, helper.Day(time.February, 1))...)
	history = append(history, core.BuildArchivedBookRetrieved(retrieved, "isbn", "librarian-1", helper.Day(time.February, 2)))

	// act
	result := sweeparchiveexpiry.Decide(history, sweeparchiveexpiry.BuildCommand(today))

	// assert
	require.NoError(t, result.HasError())
	require.Len(t, result.Events, 1)
	purged, ok := result.Events[0].(core.ArchivedBookPurged)
	require.True(t, ok)
	assert.Equal(t, expired.String(), purged.BookID)
}

func Test_Decide_Idempotent_WhenNothingExpired(t *testing.T) {
	history := givenArchivedOn(uuid.New(), helper.Day(time.March, 2))

	result := sweeparchiveexpiry.Decide(history, sweeparchiveexpiry.BuildCommand(helper.Day(time.March, 16)))

	assert.True(t, result.IsIdempotent())
}

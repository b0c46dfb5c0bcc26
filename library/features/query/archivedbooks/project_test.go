package archivedbooks_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/features/query/archivedbooks"
	"github.com/schoollibrary/circulation/testutil/helper"
)

func Test_ProjectArchivedBooks_CountsDownRetention(t *testing.T) {
	archivedOn := helper.Day(time.June, 1)

	testCases := []struct {
		name          string
		today         time.Time
		daysInArchive int
		daysLeft      int
		expired       bool
	}{
		{"archived today", archivedOn, 0, 15, false},
		{"fourteen days in", helper.Day(time.June, 15), 14, 1, false},
		{"fifteen days in", helper.Day(time.June, 16), 15, 0, true},
		{"long expired", helper.Day(time.July, 20), 49, 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			bookID := helper.GivenUniqueID(t)
			added := helper.FixtureBookAdded(bookID, 1, 250, helper.Day(time.May, 1))
			history := core.DomainEvents{added, helper.FixtureBookArchived(bookID, added.ISBN, archivedOn)}

			// act
			list := archivedbooks.ProjectArchivedBooks(history, archivedbooks.BuildQuery(tc.today))

			// assert
			require.Equal(t, 1, list.Count)
			assert.Equal(t, tc.daysInArchive, list.Books[0].DaysInArchive)
			assert.Equal(t, tc.daysLeft, list.Books[0].DaysLeft)
			assert.Equal(t, tc.expired, list.Books[0].Expired)
		})
	}
}

func Test_ProjectArchivedBooks_LeavesOutRetrievedBooks(t *testing.T) {
	// arrange
	bookID := helper.GivenUniqueID(t)
	added := helper.FixtureBookAdded(bookID, 1, 250, helper.Day(time.May, 1))
	history := core.DomainEvents{
		added,
		helper.FixtureBookArchived(bookID, added.ISBN, helper.Day(time.June, 1)),
		core.BuildArchivedBookRetrieved(bookID, added.ISBN, "librarian-2", helper.Day(time.June, 3)),
	}

	// act
	list := archivedbooks.ProjectArchivedBooks(history, archivedbooks.BuildQuery(helper.Day(time.June, 4)))

	// assert
	assert.Empty(t, list.Books)
}

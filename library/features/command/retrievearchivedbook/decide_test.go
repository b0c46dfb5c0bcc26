package retrievearchivedbook_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/features/command/retrievearchivedbook"
	"github.com/schoollibrary/circulation/testutil/helper"
)

func Test_Decide_Retrieve(t *testing.T) {
	bookID := uuid.New()
	added := helper.FixtureBookAddedWithISBN(bookID, "978-1", helper.Day(time.January, 1))
	archived := helper.FixtureBookArchived(bookID, "978-1", helper.Day(time.January, 2))
	now := helper.Day(time.January, 5)

	testCases := []struct {
		name     string
		history  core.DomainEvents
		expected error
	}{
		{"archived", core.DomainEvents{added, archived}, nil},
		{"never archived", core.DomainEvents{added}, core.ErrNotFound},
		{"purged", core.DomainEvents{added, archived, core.BuildArchivedBookPurged(bookID.String(), "978-1", archived.OccurredAt, now)}, core.ErrNotFound},
		{"deleted", core.DomainEvents{added, archived, core.BuildArchivedBookDeleted(bookID, "978-1", "librarian-1", now)}, core.ErrNotFound},
		{"isbn taken", core.DomainEvents{added, archived, helper.FixtureBookAddedWithISBN(uuid.New(), "978-1", now)}, core.ErrDuplicateISBN},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result := retrievearchivedbook.Decide(tc.history, retrievearchivedbook.BuildCommand(bookID, "librarian-1", now))

			// assert
			assert.ErrorIs(t, result.HasError(), tc.expected)
			assert.Equal(t, tc.expected == nil, result.HasEventToAppend())
		})
	}
}

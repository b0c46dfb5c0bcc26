package borrowrecord

import (
	"time"

	"github.com/google/uuid"

	"github.com/schoollibrary/circulation/library/penalty"
)

const (
	queryType = "BorrowRecord"
)

// Query represents the intent to look at one borrow record.
type Query struct {
	BorrowID uuid.UUID
	Today    time.Time
}

// BuildQuery creates a new Query. now must be in the library's time zone.
func BuildQuery(borrowID uuid.UUID, now time.Time) Query {
	return Query{
		BorrowID: borrowID,
		Today:    penalty.CivilDate(now),
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}

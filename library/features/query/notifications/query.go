package notifications

import (
	"time"

	"github.com/google/uuid"

	"github.com/schoollibrary/circulation/library/penalty"
)

const (
	queryType = "StudentNotifications"
)

// Query represents the intent of a student to read their notifications.
type Query struct {
	StudentID uuid.UUID
	Today     time.Time
}

// BuildQuery creates a new Query. now must be in the library's time zone.
func BuildQuery(studentID uuid.UUID, now time.Time) Query {
	return Query{
		StudentID: studentID,
		Today:     penalty.CivilDate(now),
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}

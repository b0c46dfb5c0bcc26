package archivedbooks

import (
	"time"

	"github.com/schoollibrary/circulation/library/penalty"
)

const (
	queryType = "ArchivedBooks"
)

// Query represents the intent to list the archive.
type Query struct {
	Today time.Time
}

// BuildQuery creates a new Query. now must be in the library's time zone.
func BuildQuery(now time.Time) Query {
	return Query{Today: penalty.CivilDate(now)}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}

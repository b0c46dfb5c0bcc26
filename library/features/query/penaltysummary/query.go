package penaltysummary

import (
	"time"

	"github.com/schoollibrary/circulation/library/penalty"
)

const (
	queryType = "PenaltySummary"
)

// Query represents the intent to read the dashboard figures.
type Query struct {
	Today time.Time
}

// BuildQuery creates a new Query. now must be in the library's time zone, which also decides
// the month a payment is counted in.
func BuildQuery(now time.Time) Query {
	return Query{Today: penalty.CivilDate(now)}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}

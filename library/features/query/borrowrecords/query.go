package borrowrecords

import (
	"time"

	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/penalty"
)

const (
	queryType = "BorrowRecords"

	// StatusOverdue selects approved loans past their due date. It is never stored on a record.
	StatusOverdue = "overdue"
)

// Filters narrow the listing. Empty fields do not restrict.
type Filters struct {
	Status        string
	PenaltyStatus string
	StudentID     core.StudentIDString
	BookID        core.BookIDString
}

// Query represents the intent to list borrow records.
type Query struct {
	Filters Filters
	Today   time.Time
}

// BuildQuery creates a new Query. now must be in the library's time zone.
func BuildQuery(filters Filters, now time.Time) (Query, error) {
	if filters.Status != "" && filters.Status != StatusOverdue {
		if _, ok := core.ParseBorrowStatus(filters.Status); !ok {
			return Query{}, core.Violation(core.ErrValidation, "unknown status "+filters.Status)
		}
	}

	switch core.PenaltyStatus(filters.PenaltyStatus) {
	case "", core.PenaltyStatusNone, core.PenaltyStatusPending, core.PenaltyStatusPaid:
	default:
		return Query{}, core.Violation(core.ErrValidation, "unknown penalty status "+filters.PenaltyStatus)
	}

	return Query{
		Filters: filters,
		Today:   penalty.CivilDate(now),
	}, nil
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}

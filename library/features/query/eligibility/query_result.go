package eligibility

import (
	"github.com/shopspring/decimal"

	"github.com/schoollibrary/circulation/library/core"
)

// Eligibility tells whether the student may create a borrow request.
type Eligibility struct {
	StudentID          core.StudentIDString
	IsBanned           bool
	OffendingBorrowIDs []core.BorrowIDString
	OutstandingPenalty decimal.Decimal // sum of the fees owed as of the query day
}

package borrowerprofile

import (
	"github.com/schoollibrary/circulation/library/core"
)

// HistoryEntry is one borrow record of the student.
type HistoryEntry struct {
	core.BorrowRecord
	BookTitle string
}

// Profile is the student's dashboard.
type Profile struct {
	core.Borrower
	IsBanned           bool
	OffendingBorrowIDs []core.BorrowIDString
	PendingRequests    int
	ActiveLoans        int
	History            []HistoryEntry // newest request first
}

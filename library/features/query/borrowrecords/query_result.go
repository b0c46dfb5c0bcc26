package borrowrecords

import (
	"github.com/schoollibrary/circulation/library/core"
)

// BorrowRecordView is one line of the listing.
type BorrowRecordView struct {
	core.BorrowRecord
	BookTitle   string
	StudentName string
}

// BorrowRecordList is the result of the query, newest request first.
type BorrowRecordList struct {
	Records []BorrowRecordView
	Count   int
}

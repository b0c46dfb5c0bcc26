package borrowrecord

import (
	"github.com/schoollibrary/circulation/library/core"
)

// BorrowRecordView is a borrow record with the names a librarian needs to read it.
type BorrowRecordView struct {
	core.BorrowRecord
	BookTitle   string
	StudentName string
}

package notifications

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/schoollibrary/circulation/library/core"
)

// Kind classifies a notification.
type Kind string

const (
	KindApproved        Kind = "approved"
	KindDeclined        Kind = "declined"
	KindReturnedOK      Kind = "returned_ok"
	KindOverduePaid     Kind = "overdue_paid"
	KindOverdueReminder Kind = "overdue_reminder"
	KindLostUnpaid      Kind = "lost_unpaid"
	KindLostPaid        Kind = "lost_paid"
)

// Notification is one message for the student.
type Notification struct {
	BorrowID   core.BorrowIDString
	Kind       Kind
	BookTitle  string
	Message    string
	DueDate    time.Time
	PenaltyFee decimal.Decimal
	At         time.Time
}

// Notifications is the result of the query, most recent first.
type Notifications struct {
	StudentID core.StudentIDString
	Items     []Notification
	Count     int
}

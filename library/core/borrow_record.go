package core

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/schoollibrary/circulation/library/penalty"
)

// BorrowRecord is the read model of one borrow request and the loan that may follow it.
//
// OverdueDays and PenaltyFee are the persisted values: frozen at return or loss, zero while the loan is open.
// Use Live to get the values as of a given day.
type BorrowRecord struct {
	BorrowID      BorrowIDString
	BookID        BookIDString
	StudentID     StudentIDString
	Status        BorrowStatus
	RequestedAt   time.Time
	BorrowDate    time.Time
	BorrowDays    int
	DueDate       time.Time
	ReturnDate    time.Time // zero unless returned or lost
	OverdueDays   int
	PenaltyFee    decimal.Decimal
	PenaltyStatus PenaltyStatus
	ProcessedBy   StaffIDString
	BookPrice     decimal.Decimal // captured when the book is marked lost
	SettledAt     time.Time
	UpdatedAt     time.Time // time of the latest lifecycle event
}

// Loan returns the input of the penalty calculator.
func (r BorrowRecord) Loan() penalty.Loan {
	return penalty.Loan{
		Approved: r.Status == BorrowStatusApproved,
		DueDate:  r.DueDate,
	}
}

// Live returns the record with overdue values computed for today when the loan is open.
// Closed records keep their frozen values.
func (r BorrowRecord) Live(today time.Time) BorrowRecord {
	if r.Status != BorrowStatusApproved {
		return r
	}

	status := penalty.ComputeOverdueStatus(today, r.Loan())
	r.OverdueDays = status.OverdueDays
	r.PenaltyFee = status.PenaltyFee

	if status.IsOverdue() {
		r.PenaltyStatus = PenaltyStatusPending
	}

	return r
}

// OwesPenalty reports whether the record blocks its student from borrowing as of today.
func (r BorrowRecord) OwesPenalty(today time.Time) bool {
	if r.PenaltyStatus == PenaltyStatusPaid {
		return false
	}

	switch r.Status {
	case BorrowStatusLost:
		return true
	case BorrowStatusApproved:
		return penalty.ComputeOverdueStatus(today, r.Loan()).IsOverdue()
	default:
		return false
	}
}

// BorrowRecords is an ordered projection of borrow records.
type BorrowRecords struct {
	order []BorrowIDString
	byID  map[BorrowIDString]*BorrowRecord
}

// ProjectBorrowRecords replays the lifecycle events of history in order.
// Events of other types are ignored.
func ProjectBorrowRecords(history DomainEvents) BorrowRecords {
	records := BorrowRecords{byID: make(map[BorrowIDString]*BorrowRecord)}

	for _, event := range history {
		records.apply(event)
	}

	return records
}

func (rs *BorrowRecords) apply(event DomainEvent) { //nolint:gocognit
	switch e := event.(type) {
	case BorrowRequested:
		if _, ok := rs.byID[e.BorrowID]; ok {
			return
		}

		rs.order = append(rs.order, e.BorrowID)
		rs.byID[e.BorrowID] = &BorrowRecord{
			BorrowID:      e.BorrowID,
			BookID:        e.BookID,
			StudentID:     e.StudentID,
			Status:        BorrowStatusPending,
			RequestedAt:   e.OccurredAt,
			BorrowDate:    e.BorrowDate,
			BorrowDays:    e.BorrowDays,
			DueDate:       e.DueDate,
			PenaltyFee:    decimal.Zero,
			PenaltyStatus: PenaltyStatusNone,
			BookPrice:     decimal.Zero,
			UpdatedAt:     e.OccurredAt,
		}

	case BorrowRequestApproved:
		if r, ok := rs.byID[e.BorrowID]; ok {
			r.UpdatedAt = e.OccurredAt
			r.Status = BorrowStatusApproved
			r.BorrowDate = e.BorrowDate
			r.DueDate = e.DueDate
			r.ProcessedBy = e.ApprovedBy
		}

	case BorrowRequestDeclined:
		if r, ok := rs.byID[e.BorrowID]; ok {
			r.UpdatedAt = e.OccurredAt
			r.Status = BorrowStatusDeclined
			r.ProcessedBy = e.DeclinedBy
		}

	case BookReturned:
		if r, ok := rs.byID[e.BorrowID]; ok {
			r.UpdatedAt = e.OccurredAt
			r.Status = BorrowStatusReturned
			r.ReturnDate = e.ReturnDate
			r.OverdueDays = e.OverdueDays
			r.PenaltyFee = e.PenaltyFee
			r.PenaltyStatus = e.PenaltyStatus
			r.ProcessedBy = e.ProcessedBy

			if e.PenaltyStatus == PenaltyStatusPaid {
				r.SettledAt = e.OccurredAt
			}
		}

	case BookMarkedLost:
		if r, ok := rs.byID[e.BorrowID]; ok {
			r.UpdatedAt = e.OccurredAt
			r.Status = BorrowStatusLost
			r.ReturnDate = e.OccurredAt
			r.OverdueDays = e.OverdueDays
			r.PenaltyFee = e.PenaltyFee
			r.PenaltyStatus = PenaltyStatusPending
			r.BookPrice = e.BookPrice
			r.ProcessedBy = e.ProcessedBy
		}

	case PenaltySettled:
		if r, ok := rs.byID[e.BorrowID]; ok {
			r.UpdatedAt = e.OccurredAt
			r.PenaltyStatus = PenaltyStatusPaid
			r.SettledAt = e.OccurredAt
		}
	}
}

// Get returns a copy of the record with the given ID.
func (rs BorrowRecords) Get(borrowID BorrowIDString) (BorrowRecord, bool) {
	r, ok := rs.byID[borrowID]
	if !ok {
		return BorrowRecord{}, false
	}

	return *r, true
}

// All returns copies of all records in request order.
func (rs BorrowRecords) All() []BorrowRecord {
	all := make([]BorrowRecord, 0, len(rs.order))
	for _, id := range rs.order {
		all = append(all, *rs.byID[id])
	}

	return all
}

// Where returns the records, in request order, for which keep returns true.
func (rs BorrowRecords) Where(keep func(BorrowRecord) bool) []BorrowRecord {
	return slices.DeleteFunc(rs.All(), func(r BorrowRecord) bool { return !keep(r) })
}

// OpenFor returns the pending or approved record of a student for a book, if there is one.
func (rs BorrowRecords) OpenFor(bookID BookIDString, studentID StudentIDString) (BorrowRecord, bool) {
	for _, id := range rs.order {
		r := rs.byID[id]
		if r.BookID == bookID && r.StudentID == studentID && r.Status.IsOpen() {
			return *r, true
		}
	}

	return BorrowRecord{}, false
}

// OffendingRecords returns the IDs of the student's records that ban them from borrowing as of today:
// lost books or overdue loans whose penalty is not paid.
func (rs BorrowRecords) OffendingRecords(studentID StudentIDString, today time.Time) []BorrowIDString {
	offending := make([]BorrowIDString, 0)

	for _, id := range rs.order {
		r := rs.byID[id]
		if r.StudentID == studentID && r.OwesPenalty(today) {
			offending = append(offending, id)
		}
	}

	return offending
}

// Len returns the number of records.
func (rs BorrowRecords) Len() int {
	return len(rs.order)
}

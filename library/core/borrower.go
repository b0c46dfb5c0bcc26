package core

// Borrower is a registered student. BorrowCount counts approved loans.
type Borrower struct {
	StudentID   StudentIDString
	FullName    string
	LRN         string
	Grade       string
	Section     string
	Contact     string
	BorrowCount int
}

// Borrowers is the projection of the borrower catalog.
type Borrowers struct {
	order []StudentIDString
	byID  map[StudentIDString]*Borrower
}

// ProjectBorrowers replays registrations and approvals.
func ProjectBorrowers(history DomainEvents) Borrowers {
	bs := Borrowers{byID: make(map[StudentIDString]*Borrower)}

	for _, event := range history {
		switch e := event.(type) {
		case BorrowerRegistered:
			if _, ok := bs.byID[e.StudentID]; ok {
				continue
			}

			bs.order = append(bs.order, e.StudentID)
			bs.byID[e.StudentID] = &Borrower{
				StudentID: e.StudentID,
				FullName:  e.FullName,
				LRN:       e.LRN,
				Grade:     e.Grade,
				Section:   e.Section,
				Contact:   e.Contact,
			}

		case BorrowRequestApproved:
			if b, ok := bs.byID[e.StudentID]; ok {
				b.BorrowCount++
			}
		}
	}

	return bs
}

// Get returns the borrower with the given ID.
func (bs Borrowers) Get(studentID StudentIDString) (Borrower, bool) {
	b, ok := bs.byID[studentID]
	if !ok {
		return Borrower{}, false
	}

	return *b, true
}

// Name returns the full name of the student or an empty string.
func (bs Borrowers) Name(studentID StudentIDString) string {
	if b, ok := bs.byID[studentID]; ok {
		return b.FullName
	}

	return ""
}

// All returns the borrowers in registration order.
func (bs Borrowers) All() []Borrower {
	all := make([]Borrower, 0, len(bs.order))
	for _, id := range bs.order {
		all = append(all, *bs.byID[id])
	}

	return all
}

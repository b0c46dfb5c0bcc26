package core

import (
	"time"

	"github.com/google/uuid"
)

// BorrowerRegisteredEventType is the event type identifier.
const BorrowerRegisteredEventType = "BorrowerRegistered"

// BorrowerRegistered represents a student added to the borrower catalog.
type BorrowerRegistered struct {
	StudentID  StudentIDString
	FullName   string
	LRN        string
	Grade      string
	Section    string
	Contact    string
	OccurredAt OccurredAtTS
}

// BorrowerDetails are the descriptive fields of a borrower.
type BorrowerDetails struct {
	FullName string
	LRN      string
	Grade    string
	Section  string
	Contact  string
}

// BuildBorrowerRegistered creates a new BorrowerRegistered event.
func BuildBorrowerRegistered(studentID uuid.UUID, details BorrowerDetails, occurredAt time.Time) BorrowerRegistered {
	return BorrowerRegistered{
		StudentID:  studentID.String(),
		FullName:   details.FullName,
		LRN:        details.LRN,
		Grade:      details.Grade,
		Section:    details.Section,
		Contact:    details.Contact,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e BorrowerRegistered) EventType() string {
	return BorrowerRegisteredEventType
}

func (e BorrowerRegistered) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e BorrowerRegistered) IsErrorEvent() bool {
	return false
}

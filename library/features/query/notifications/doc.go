// Package notifications implements the Student Notifications query use case.
//
// Notifications are not stored. They are derived from the state of each borrow record of the student,
// one per record at most, and ordered by the time of the record's latest change. Pending requests
// produce no notification.
package notifications

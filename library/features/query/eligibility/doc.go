// Package eligibility implements the Borrower Eligibility query use case.
//
// A student is banned while they owe a penalty: a lost book that is not paid for, or an approved loan
// that is past its due date. The ban lifts by itself once every such record is settled or returned.
package eligibility

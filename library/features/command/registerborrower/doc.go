// Package registerborrower implements the Register Borrower use case.
//
// A student must be in the borrower catalog before they can request a book. Registering the same
// StudentID twice is a no-op. The LRN, when given, may belong to one student only.
package registerborrower

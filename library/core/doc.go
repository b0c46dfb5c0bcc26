// Package core contains the domain events and the read models of book circulation in a school library.
//
// Events describe what happened (BorrowRequestApproved, BookMarkedLost) instead of which row changed.
// A single event carries every effect of one business operation, so approving a request both changes the
// borrow record and takes one copy off the shelf.
//
// The read models (BorrowRecord, Book, ArchivedBook, Borrower) are pure projections over events.
// This is the 'domain' layer in hexagonal architecture terms: it has no infrastructure dependencies.
package core

// Package borrowerprofile implements the Borrower Profile query use case.
//
// The profile is what a student sees on their dashboard: the registration, the number of approved
// loans so far, whether they are banned, and their borrow history with book titles.
package borrowerprofile

// Package borrowrecords implements the Borrow Records listing query use case.
//
// The librarian's transaction list. Records can be narrowed by status, by penalty status, by
// student and by book. Besides the five stored statuses the status filter accepts "overdue",
// which selects approved loans past their due date as of the query day.
package borrowrecords

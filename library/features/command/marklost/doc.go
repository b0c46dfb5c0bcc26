// Package marklost implements the Mark Lost use case.
//
// A lost book closes the loan for good. The overdue days are frozen on the day of the loss and the
// penalty is the overdue fee plus the replacement value of the book. The copy is never restored,
// and the penalty stays pending until it is settled.
package marklost

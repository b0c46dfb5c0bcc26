// Package borrowrecord implements the Borrow Record query use case.
//
// It returns one borrow record with the book title and the student name. An approved loan shows the
// overdue days and fee as of the query day, closed records show their frozen values.
package borrowrecord

// Package addbook implements the Add Book use case: a new title enters the active catalog with its
// initial number of copies. The ISBN must not belong to another active book.
package addbook

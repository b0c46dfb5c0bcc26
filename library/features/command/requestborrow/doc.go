// Package requestborrow implements the Create Borrow Request use case.
//
// A registered student asks for a book of the active catalog for one to seven days. The request
// does not take a copy, copies are only checked at approval. A student who owes a penalty is banned
// from requesting, and a student can have at most one open request or loan per book.
//
// The consistency boundary covers every borrow event of the student and the catalog events of the
// book, so a concurrent loss or settlement changes the outcome of the ban check.
package requestborrow

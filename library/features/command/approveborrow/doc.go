// Package approveborrow implements the Approve Borrow Request use case.
//
// Approval starts the loan: BorrowDate becomes the approval day, DueDate is re-based on it, and one
// copy leaves the shelf. The record transition and the copy decrement are one event, appended under
// a boundary that covers the record and every loan of the book. Two librarians approving the last
// copy at the same time therefore cannot both succeed.
package approveborrow

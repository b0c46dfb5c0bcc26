// Package returnbook implements the Return Book use case.
//
// The overdue days and fee are computed for the return day. An overdue fee is collected at the desk,
// so the librarian has to confirm the payment before the return is accepted. Without confirmation
// the record stays approved. The returned copy goes back on the shelf with the same event.
package returnbook

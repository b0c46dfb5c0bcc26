// Package circulation is the entry point into the borrowing and penalty domain.
//
// Service bundles every command and query handler behind one method per operation. It owns the
// clock and the library's time zone, so every calendar day computed below it (due dates, overdue
// days, archive retention) is the same day a librarian sees on the wall. IDs of new records are
// UUIDv7, which sort by creation time.
//
// Every handler is wrapped by the observable package, so a Service built with WithObservability
// emits metrics, spans and logs for each call.
package circulation

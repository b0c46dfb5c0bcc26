// Package retrievearchivedbook implements the Retrieve Archived Book use case.
//
// Retrieval puts the book back into the active catalog with all its fields and removes it from the
// archive in one event. It fails without any change when the book was purged or deleted meanwhile,
// or when another active book took its ISBN.
package retrievearchivedbook

// Package deletearchivedbook implements the Delete Archived Book use case, the explicit permanent
// delete of a book before its retention period ends.
package deletearchivedbook

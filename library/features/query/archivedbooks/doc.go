// Package archivedbooks implements the Archived Books query use case.
//
// Archived books stay retrievable for fifteen days. The listing shows how many days each book has
// left. Callers that want expired books gone should run the archive sweep before querying.
package archivedbooks

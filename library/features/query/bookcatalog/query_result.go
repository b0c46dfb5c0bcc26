package bookcatalog

import (
	"github.com/schoollibrary/circulation/library/core"
)

// BookView is an active book. Copies counts the copies on the shelf.
type BookView struct {
	core.Book
	OpenLoans int
	Available bool
}

// BookList is the catalog in the order books were added.
type BookList struct {
	Books []BookView
	Count int
}

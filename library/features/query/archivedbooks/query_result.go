package archivedbooks

import (
	"github.com/schoollibrary/circulation/library/core"
)

// ArchivedBookView is an archived book with its retention countdown.
type ArchivedBookView struct {
	core.ArchivedBook
	DaysInArchive int
	DaysLeft      int
	Expired       bool
}

// ArchivedBookList is the archive, oldest archive date first.
type ArchivedBookList struct {
	Books []ArchivedBookView
	Count int
}

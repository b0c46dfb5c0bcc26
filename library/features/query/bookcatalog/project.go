package bookcatalog

import (
	"slices"
	"strings"

	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/library/core"
)

// ProjectBookList implements the query logic for the catalog.
//
// Query Logic:
//
//	GIVEN: the catalog events and the loan events of all books
//	WHEN: BookCatalog query is executed
//	THEN: the active books are returned with their shelf and loan counts
//	INCLUDES: books whose title, author, genre or ISBN contains the search term, ignoring case
//	EXCLUDES: archived books
func ProjectBookList(history core.DomainEvents, query Query) BookList {
	catalog := core.ProjectCatalog(history)
	search := strings.ToLower(query.Search)
	views := make([]BookView, 0)

	for _, book := range catalog.ActiveBooks() {
		if search != "" && !containsTerm(book, search) {
			continue
		}

		views = append(views, BookView{
			Book:      book,
			OpenLoans: catalog.OpenLoans(book.BookID),
			Available: book.Copies > 0,
		})
	}

	return BookList{
		Books: views,
		Count: len(views),
	}
}

func containsTerm(book core.Book, term string) bool {
	return slices.ContainsFunc([]string{book.Title, book.Author, book.Genre, book.ISBN}, func(field string) bool {
		return strings.Contains(strings.ToLower(field), term)
	})
}

// BuildEventFilter selects the catalog and loan events of all books.
func BuildEventFilter() eventstore.Filter {
	eventTypes := slices.Concat(core.CatalogEventTypes, core.LoanEventTypes)

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(eventTypes[0], eventTypes[1:]...).
		Finalize()
}

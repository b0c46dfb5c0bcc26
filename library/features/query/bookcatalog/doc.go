// Package bookcatalog implements the Book Catalog query use case: the active books with the copies on
// the shelf and the copies lent out, optionally narrowed by a search term.
package bookcatalog

package bookcatalog

import (
	"strings"
)

const (
	queryType = "BookCatalog"
)

// Query represents the intent to browse the active catalog.
type Query struct {
	Search string
}

// BuildQuery creates a new Query. An empty search returns the whole catalog.
func BuildQuery(search string) Query {
	return Query{Search: strings.TrimSpace(search)}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}

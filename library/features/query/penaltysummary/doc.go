// Package penaltysummary implements the Penalty Summary query use case: the KPIs of the librarian's
// dashboard and the penalties collected per calendar month.
package penaltysummary

// Package penalty derives overdue days and penalty fees for book loans.
//
// Everything here is a pure function of its inputs. Overdue values of an open loan are never stored,
// they are recomputed for the date of each read. Dates are civil dates: the time of day is ignored and
// the calendar day is taken in the location of the time value the caller passes.
package penalty

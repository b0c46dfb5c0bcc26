// Package declineborrow implements the Decline Borrow Request use case. Only pending requests can be
// declined. No copy was taken, so none is returned.
package declineborrow

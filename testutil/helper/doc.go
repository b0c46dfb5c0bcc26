// Package helper arranges event histories for handler, facade and transport tests.
package helper

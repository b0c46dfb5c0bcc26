package core

import (
	"time"
)

// DomainEvents is a slice of DomainEvent instances.
type DomainEvents = []DomainEvent

// DomainEvent is a business event that has occurred in the library.
type DomainEvent interface {
	// EventType returns the string identifier stored with the event.
	EventType() string

	// HasOccurredAt returns when the event occurred.
	HasOccurredAt() time.Time

	// IsErrorEvent returns true for audit events of rejected operations.
	IsErrorEvent() bool
}

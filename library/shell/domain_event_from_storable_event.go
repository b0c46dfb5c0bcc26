package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/library/core"
)

var (
	// ErrMappingToDomainEventFailed is returned when domain event conversion fails.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrMappingToDomainEventUnknownEventType is returned for unrecognized event types.
	ErrMappingToDomainEventUnknownEventType = errors.New("unknown event type")
)

// DomainEventsFrom converts multiple StorableEvents to DomainEvents.
func DomainEventsFrom(storableEvents eventstore.StorableEvents) (core.DomainEvents, error) {
	domainEvents := make(core.DomainEvents, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		domainEvent, err := DomainEventFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// DomainEventFrom converts a StorableEvent to its corresponding DomainEvent.
func DomainEventFrom(storableEvent eventstore.StorableEvent) (core.DomainEvent, error) { //nolint:gocyclo
	payload := storableEvent.PayloadJSON

	switch storableEvent.EventType {
	case core.BorrowerRegisteredEventType:
		return unmarshalAs[core.BorrowerRegistered](payload)
	case core.BookAddedToCatalogEventType:
		return unmarshalAs[core.BookAddedToCatalog](payload)
	case core.BookArchivedEventType:
		return unmarshalAs[core.BookArchived](payload)
	case core.ArchivedBookRetrievedEventType:
		return unmarshalAs[core.ArchivedBookRetrieved](payload)
	case core.ArchivedBookDeletedEventType:
		return unmarshalAs[core.ArchivedBookDeleted](payload)
	case core.ArchivedBookPurgedEventType:
		return unmarshalAs[core.ArchivedBookPurged](payload)
	case core.BorrowRequestedEventType:
		return unmarshalAs[core.BorrowRequested](payload)
	case core.BorrowRequestApprovedEventType:
		return unmarshalAs[core.BorrowRequestApproved](payload)
	case core.BorrowRequestDeclinedEventType:
		return unmarshalAs[core.BorrowRequestDeclined](payload)
	case core.BookReturnedEventType:
		return unmarshalAs[core.BookReturned](payload)
	case core.BookMarkedLostEventType:
		return unmarshalAs[core.BookMarkedLost](payload)
	case core.PenaltySettledEventType:
		return unmarshalAs[core.PenaltySettled](payload)
	case core.BorrowingOperationFailedEventType:
		return unmarshalAs[core.BorrowingOperationFailed](payload)
	}

	return nil, errors.Join(ErrMappingToDomainEventFailed, ErrMappingToDomainEventUnknownEventType)
}

func unmarshalAs[E core.DomainEvent](payloadJSON []byte) (core.DomainEvent, error) {
	var event E

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &event); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return event, nil
}

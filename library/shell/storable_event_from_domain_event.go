package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/library/core"
)

var (
	// ErrMappingToStorableEventFailedForDomainEvent is returned when domain event serialization fails.
	ErrMappingToStorableEventFailedForDomainEvent = errors.New("mapping to storable event failed for domain event")

	// ErrMappingToStorableEventFailedForMetadata is returned when metadata serialization fails.
	ErrMappingToStorableEventFailedForMetadata = errors.New("mapping to storable event failed for metadata")
)

// StorableEventFrom converts a DomainEvent and EventMetadata to a StorableEvent.
func StorableEventFrom(event core.DomainEvent, metadata EventMetadata) (eventstore.StorableEvent, error) {
	payloadJSON, err := jsoniter.ConfigFastest.Marshal(event)
	if err != nil {
		return eventstore.StorableEvent{}, errors.Join(ErrMappingToStorableEventFailedForDomainEvent, err)
	}

	metadataJSON, err := jsoniter.ConfigFastest.Marshal(metadata)
	if err != nil {
		return eventstore.StorableEvent{}, errors.Join(ErrMappingToStorableEventFailedForMetadata, err)
	}

	storableEvent, err := eventstore.BuildStorableEvent(
		event.EventType(),
		event.HasOccurredAt(),
		payloadJSON,
		metadataJSON,
	)
	if err != nil {
		return eventstore.StorableEvent{}, errors.Join(ErrMappingToStorableEventFailedForDomainEvent, err)
	}

	return storableEvent, nil
}

// StorableEventsFrom converts all events of one decision. Every event after the first gets its own
// message ID and names the first one as its cause.
func StorableEventsFrom(events core.DomainEvents, metadata EventMetadata) (eventstore.StorableEvents, error) {
	storableEvents := make(eventstore.StorableEvents, 0, len(events))

	for i, event := range events {
		eventMetadata := metadata
		if i > 0 {
			eventMetadata.MessageID = newMessageID()
		}

		storableEvent, err := StorableEventFrom(event, eventMetadata)
		if err != nil {
			return nil, err
		}

		storableEvents = append(storableEvents, storableEvent)
	}

	return storableEvents, nil
}

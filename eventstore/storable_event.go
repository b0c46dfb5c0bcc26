package eventstore

import (
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var ErrInvalidPayloadJSON = errors.New("payload json is not valid")
var ErrInvalidMetadataJSON = errors.New("metadata json is not valid")
var ErrEmptyEventType = errors.New("event type must not be empty")

// StorableEvents is a slice of StorableEvent.
type StorableEvents = []StorableEvent

// StorableEvent is what engines persist. It is built on scalars so the store stays agnostic of the
// domain event types; the mapping lives in library/shell.
//
// Construct it with BuildStorableEvent or BuildStorableEventWithEmptyMetadata.
type StorableEvent struct {
	EventType    string
	OccurredAt   time.Time
	PayloadJSON  []byte
	MetadataJSON []byte
}

// BuildStorableEvent validates both JSON documents and returns the event.
func BuildStorableEvent(eventType string, occurredAt time.Time, payloadJSON []byte, metadataJSON []byte) (StorableEvent, error) {
	if eventType == "" {
		return StorableEvent{}, ErrEmptyEventType
	}

	if !jsoniter.Valid(payloadJSON) {
		return StorableEvent{}, ErrInvalidPayloadJSON
	}

	if !jsoniter.Valid(metadataJSON) {
		return StorableEvent{}, ErrInvalidMetadataJSON
	}

	return StorableEvent{
		EventType:    eventType,
		OccurredAt:   occurredAt,
		PayloadJSON:  payloadJSON,
		MetadataJSON: metadataJSON,
	}, nil
}

// BuildStorableEventWithEmptyMetadata is BuildStorableEvent with "{}" as metadata.
func BuildStorableEventWithEmptyMetadata(eventType string, occurredAt time.Time, payloadJSON []byte) (StorableEvent, error) {
	return BuildStorableEvent(eventType, occurredAt, payloadJSON, []byte("{}"))
}

// PayloadFields extracts the top-level string fields of the payload, which is what
// filter predicates compare against. Non-string values are ignored.
func (e StorableEvent) PayloadFields() (map[string]string, error) {
	raw := make(map[string]any)
	if err := jsoniter.ConfigFastest.Unmarshal(e.PayloadJSON, &raw); err != nil {
		return nil, errors.Join(ErrInvalidPayloadJSON, err)
	}

	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			fields[k] = s
		}
	}

	return fields, nil
}

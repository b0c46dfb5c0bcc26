package shell

import (
	"context"
	"errors"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/schoollibrary/circulation/eventstore"
)

// ErrMappingToEventMetadataFailed is returned when metadata conversion fails.
var ErrMappingToEventMetadataFailed = errors.New("mapping to event metadata failed")

// EventMetadata is stored next to every event payload.
type EventMetadata struct {
	MessageID     string
	CausationID   string
	CorrelationID string
	StaffID       string `json:",omitempty"`
}

type correlationIDKey struct{}

// WithCorrelationID stores an ID that ties together all events appended while handling one request.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, correlationID)
}

// CorrelationIDFrom returns the correlation ID stored in ctx, if any.
func CorrelationIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(correlationIDKey{}).(string)

	return id, ok && id != ""
}

// BuildEventMetadata creates metadata for a newly decided event. The message ID is a time-ordered UUID,
// the correlation ID comes from ctx and defaults to the message ID.
func BuildEventMetadata(ctx context.Context, staffID string) EventMetadata {
	messageID := newMessageID()

	correlationID, ok := CorrelationIDFrom(ctx)
	if !ok {
		correlationID = messageID
	}

	return EventMetadata{
		MessageID:     messageID,
		CausationID:   messageID,
		CorrelationID: correlationID,
		StaffID:       staffID,
	}
}

func newMessageID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return id.String()
}

// EventMetadataFrom extracts EventMetadata from a StorableEvent.
func EventMetadataFrom(storableEvent eventstore.StorableEvent) (EventMetadata, error) {
	metadata := new(EventMetadata)

	err := jsoniter.ConfigFastest.Unmarshal(storableEvent.MetadataJSON, metadata)
	if err != nil {
		return EventMetadata{}, errors.Join(ErrMappingToEventMetadataFailed, err)
	}

	return *metadata, nil
}

package shell_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/shell"
)

func Test_StorableEventFrom_DomainEventFrom_KeepsMoneyAndDates(t *testing.T) {
	// arrange
	loc := time.FixedZone("PHT", 8*60*60)
	dueDate := time.Date(2026, time.March, 5, 0, 0, 0, 0, loc)
	event := core.BuildBookMarkedLost("b-1", "book-1", "s-1", "staff", 5, decimal.NewFromInt(50),
		decimal.RequireFromString("249.95"), decimal.RequireFromString("299.95"), dueDate.AddDate(0, 0, 5))

	// act
	storable, err := shell.StorableEventFrom(event, shell.BuildEventMetadata(context.Background(), "staff"))
	require.NoError(t, err)
	decoded, err := shell.DomainEventFrom(storable)

	// assert
	require.NoError(t, err)
	lost, ok := decoded.(core.BookMarkedLost)
	require.True(t, ok)
	assert.Equal(t, core.BookMarkedLostEventType, storable.EventType)
	assert.True(t, lost.PenaltyFee.Equal(decimal.RequireFromString("299.95")))
	assert.True(t, lost.OccurredAt.Equal(event.OccurredAt))
	assert.Equal(t, 5, lost.OverdueDays)
}

func Test_StorableEventFrom_ExposesKeysAsPayloadFields(t *testing.T) {
	bookID, studentID := uuid.New(), uuid.New()
	requested := core.BuildBorrowRequested(uuid.New(), bookID, studentID, 3, time.Now(), time.Now().AddDate(0, 0, 3), time.Now())

	storable, err := shell.StorableEventFrom(requested, shell.EventMetadata{})
	require.NoError(t, err)
	fields, err := storable.PayloadFields()

	require.NoError(t, err)
	assert.Equal(t, bookID.String(), fields["BookID"])
	assert.Equal(t, studentID.String(), fields["StudentID"])
	assert.Equal(t, requested.BorrowID, fields["BorrowID"])
}

func Test_DomainEventFrom_Fails_WhenEventTypeUnknown(t *testing.T) {
	storable, err := eventstore.BuildStorableEventWithEmptyMetadata("MagazineSubscribed", time.Now(), []byte(`{}`))
	require.NoError(t, err)

	_, err = shell.DomainEventFrom(storable)

	assert.ErrorIs(t, err, shell.ErrMappingToDomainEventUnknownEventType)
	assert.ErrorIs(t, err, shell.ErrMappingToDomainEventFailed)
}

func Test_BuildEventMetadata_UsesCorrelationIDFromContext(t *testing.T) {
	ctx := shell.WithCorrelationID(context.Background(), "req-42")

	metadata := shell.BuildEventMetadata(ctx, "staff-7")

	assert.Equal(t, "req-42", metadata.CorrelationID)
	assert.Equal(t, metadata.MessageID, metadata.CausationID)
	assert.Equal(t, "staff-7", metadata.StaffID)
	assert.NotEqual(t, shell.BuildEventMetadata(ctx, "staff-7").MessageID, metadata.MessageID)
}

func Test_StorableEventsFrom_ChainsCausation(t *testing.T) {
	first := core.BuildArchivedBookPurged("book-1", "isbn-1", time.Now(), time.Now())
	second := core.BuildArchivedBookPurged("book-2", "isbn-2", time.Now(), time.Now())

	storables, err := shell.StorableEventsFrom(core.DomainEvents{first, second}, shell.BuildEventMetadata(context.Background(), ""))
	require.NoError(t, err)
	require.Len(t, storables, 2)

	m1, err := shell.EventMetadataFrom(storables[0])
	require.NoError(t, err)
	m2, err := shell.EventMetadataFrom(storables[1])
	require.NoError(t, err)

	assert.NotEqual(t, m1.MessageID, m2.MessageID)
	assert.Equal(t, m1.MessageID, m2.CausationID)
	assert.Equal(t, m1.CorrelationID, m2.CorrelationID)
}

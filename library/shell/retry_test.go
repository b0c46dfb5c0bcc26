package shell

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/schoollibrary/circulation/eventstore"
)

func Test_RetryWithExponentialBackoff_Success_NoRetries(t *testing.T) {
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		return nil
	}

	meta, err := RetryWithExponentialBackoff(context.Background(), fn)

	assert.NoError(t, err)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, 1, meta.Attempts)
	assert.Equal(t, time.Duration(0), meta.TotalDelay)
	assert.Equal(t, "none", meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_ReturnsConflict_WhenDefaultsApply(t *testing.T) {
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		return eventstore.ErrConcurrencyConflict
	}

	meta, err := RetryWithExponentialBackoff(context.Background(), fn)

	assert.ErrorIs(t, err, ErrConcurrencyConflict)
	assert.Equal(t, 1, callCount)
	assert.True(t, meta.RetriesExhausted)
	assert.Equal(t, "concurrency_conflict", meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_RetriesConflicts_WhenMoreAttemptsAllowed(t *testing.T) {
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		if callCount < 3 {
			return eventstore.ErrConcurrencyConflict
		}

		return nil
	}

	meta, err := RetryWithExponentialBackoff(context.Background(), fn,
		WithMaxAttempts(4),
		WithBaseDelay(time.Millisecond),
		WithJitterFactor(0.1),
	)

	assert.NoError(t, err)
	assert.Equal(t, 3, callCount)
	assert.Equal(t, 3, meta.Attempts)
	assert.Greater(t, meta.TotalDelay, time.Duration(0))
	assert.Equal(t, "none", meta.LastErrorType)
	assert.False(t, meta.RetriesExhausted)
}

func Test_RetryWithExponentialBackoff_FailsFast_OnOtherErrors(t *testing.T) {
	callCount := 0
	boom := errors.New("boom")

	meta, err := RetryWithExponentialBackoff(context.Background(), func(_ context.Context) error {
		callCount++
		return boom
	}, WithMaxAttempts(5))

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, "other", meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_StopsWaiting_WhenContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	callCount := 0

	_, err := RetryWithExponentialBackoff(ctx, func(_ context.Context) error {
		callCount++
		cancel()
		return eventstore.ErrConcurrencyConflict
	}, WithMaxAttempts(3), WithBaseDelay(time.Hour))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, callCount)
}

func Test_RetryWithExponentialBackoff_InvalidOptions(t *testing.T) {
	fn := func(_ context.Context) error { return nil }

	_, err := RetryWithExponentialBackoff(context.Background(), fn, WithMaxAttempts(0))
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)

	_, err = RetryWithExponentialBackoff(context.Background(), fn, WithBaseDelay(-1*time.Second))
	assert.ErrorIs(t, err, ErrNegativeBaseDelay)

	_, err = RetryWithExponentialBackoff(context.Background(), fn, WithJitterFactor(1.5))
	assert.ErrorIs(t, err, ErrInvalidJitterFactor)
}

func Test_StorageError_KeepsConflictsAndContextErrorsDistinct(t *testing.T) {
	assert.NoError(t, StorageError(nil))
	assert.NotErrorIs(t, StorageError(eventstore.ErrConcurrencyConflict), ErrStorage)
	assert.NotErrorIs(t, StorageError(context.Canceled), ErrStorage)
	assert.ErrorIs(t, StorageError(errors.New("connection reset")), ErrStorage)
}

package shell

import (
	"context"
	"errors"

	"github.com/schoollibrary/circulation/eventstore"
)

var (
	// ErrConcurrencyConflict means another operation changed the consistency boundary first.
	// Nothing was appended; the caller may repeat the operation.
	ErrConcurrencyConflict = eventstore.ErrConcurrencyConflict

	// ErrStorage is joined onto every failure of the event store that is not a concurrency conflict.
	ErrStorage = errors.New("storage failure")
)

// StorageError classifies an error returned by the event store.
func StorageError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrConcurrencyConflict) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	return errors.Join(ErrStorage, err)
}

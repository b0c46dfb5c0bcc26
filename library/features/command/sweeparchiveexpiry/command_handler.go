package sweeparchiveexpiry

import (
	"context"

	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/shell"
)

// CommandHandler runs Query -> Unmarshal -> Decide -> Append for SweepArchiveExpiry.
type CommandHandler struct {
	eventStore   shell.EventStore
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(eventStore shell.EventStore, opts ...Option) CommandHandler {
	handler := CommandHandler{eventStore: eventStore}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle returns the IDs of the purged books, an empty slice when nothing expired.
func (h CommandHandler) Handle(ctx context.Context, command Command) ([]core.BookIDString, shell.HandlerResult, error) {
	var (
		purged     []core.BookIDString
		idempotent bool
	)

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(ctx context.Context) error {
		filter := BuildEventFilter()

		history, maxSequenceNumber, err := shell.QueryHistory(ctx, h.eventStore, filter)
		if err != nil {
			return err
		}

		result := Decide(history, command)

		if err := shell.AppendDecision(ctx, h.eventStore, filter, maxSequenceNumber, result, ""); err != nil {
			return err
		}

		purged = make([]core.BookIDString, 0, len(result.Events))
		for _, event := range result.Events {
			if e, ok := event.(core.ArchivedBookPurged); ok {
				purged = append(purged, e.BookID)
			}
		}

		idempotent = result.IsIdempotent()

		return nil
	}, h.retryOptions...)

	return purged, shell.NewHandlerResult(idempotent, retryMetrics), err
}

package declineborrow

import (
	"context"

	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/shell"
)

// CommandHandler runs Query -> Unmarshal -> Decide -> Append for DeclineBorrowRequest.
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

// Handle returns the declined record.
func (h CommandHandler) Handle(ctx context.Context, command Command) (core.BorrowRecord, shell.HandlerResult, error) {
	var record core.BorrowRecord

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(ctx context.Context) error {
		filter := BuildEventFilter(command.BorrowID.String())

		history, maxSequenceNumber, err := shell.QueryHistory(ctx, h.eventStore, filter)
		if err != nil {
			return err
		}

		result := Decide(history, command)

		if err := shell.AppendDecision(ctx, h.eventStore, filter, maxSequenceNumber, result, command.StaffID); err != nil {
			return err
		}

		record, _ = core.ProjectBorrowRecords(append(history, result.Events...)).Get(command.BorrowID.String())

		return nil
	}, h.retryOptions...)

	return record, shell.NewHandlerResult(false, retryMetrics), err
}

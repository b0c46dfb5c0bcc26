package deletearchivedbook

import (
	"context"

	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/shell"
)

// CommandHandler runs Query -> Unmarshal -> Decide -> Append for DeleteArchivedBook.
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

// Handle returns the archive entry as it was before the delete.
func (h CommandHandler) Handle(ctx context.Context, command Command) (core.ArchivedBook, shell.HandlerResult, error) {
	var deleted core.ArchivedBook

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(ctx context.Context) error {
		filter := BuildEventFilter(command.BookID.String())

		history, maxSequenceNumber, err := shell.QueryHistory(ctx, h.eventStore, filter)
		if err != nil {
			return err
		}

		result := Decide(history, command)

		if err := shell.AppendDecision(ctx, h.eventStore, filter, maxSequenceNumber, result, command.StaffID); err != nil {
			return err
		}

		deleted, _ = core.ProjectCatalog(history).Archived(command.BookID.String())

		return nil
	}, h.retryOptions...)

	return deleted, shell.NewHandlerResult(false, retryMetrics), err
}

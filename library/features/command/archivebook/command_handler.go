package archivebook

import (
	"context"

	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/shell"
)

// CommandHandler runs Query -> Unmarshal -> Decide -> Append for ArchiveBook.
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

// Handle returns the archived book.
func (h CommandHandler) Handle(ctx context.Context, command Command) (core.ArchivedBook, shell.HandlerResult, error) {
	var (
		archived   core.ArchivedBook
		idempotent bool
	)

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(ctx context.Context) error {
		var execErr error
		archived, idempotent, execErr = h.executeCommand(ctx, command)

		return execErr
	}, h.retryOptions...)

	return archived, shell.NewHandlerResult(idempotent, retryMetrics), err
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.ArchivedBook, bool, error) {
	filter := BuildEventFilter(command.BookID.String())

	history, maxSequenceNumber, err := shell.QueryHistory(ctx, h.eventStore, filter)
	if err != nil {
		return core.ArchivedBook{}, false, err
	}

	result := Decide(history, command)

	if err := shell.AppendDecision(ctx, h.eventStore, filter, maxSequenceNumber, result, command.StaffID); err != nil {
		return core.ArchivedBook{}, false, err
	}

	archived, _ := core.ProjectCatalog(append(history, result.Events...)).Archived(command.BookID.String())

	return archived, result.IsIdempotent(), nil
}

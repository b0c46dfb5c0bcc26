package addbook

import (
	"context"

	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/shell"
)

// CommandHandler runs Query -> Unmarshal -> Decide -> Append for AddBook.
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

// Handle returns the book as it was added. Copies is the initial count, loans are not part of the boundary.
func (h CommandHandler) Handle(ctx context.Context, command Command) (core.Book, shell.HandlerResult, error) {
	var (
		book       core.Book
		idempotent bool
	)

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(ctx context.Context) error {
		var execErr error
		book, idempotent, execErr = h.executeCommand(ctx, command)

		return execErr
	}, h.retryOptions...)

	return book, shell.NewHandlerResult(idempotent, retryMetrics), err
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.Book, bool, error) {
	filter := BuildEventFilter(command)

	history, maxSequenceNumber, err := shell.QueryHistory(ctx, h.eventStore, filter)
	if err != nil {
		return core.Book{}, false, err
	}

	result := Decide(history, command)

	if err := shell.AppendDecision(ctx, h.eventStore, filter, maxSequenceNumber, result, command.AddedBy); err != nil {
		return core.Book{}, false, err
	}

	book, _ := core.ProjectCatalog(append(history, result.Events...)).Book(command.BookID.String())

	return book, result.IsIdempotent(), nil
}

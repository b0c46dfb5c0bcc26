package retrievearchivedbook

import (
	"context"

	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/shell"
)

// CommandHandler runs Lookup -> Query -> Unmarshal -> Decide -> Append for RetrieveArchivedBook.
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

// Handle returns the book as it is back in the active catalog.
func (h CommandHandler) Handle(ctx context.Context, command Command) (core.Book, shell.HandlerResult, error) {
	var book core.Book

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(ctx context.Context) error {
		var execErr error
		book, execErr = h.executeCommand(ctx, command)

		return execErr
	}, h.retryOptions...)

	return book, shell.NewHandlerResult(false, retryMetrics), err
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.Book, error) {
	added, found, err := shell.LookupBookAdded(ctx, h.eventStore, command.BookID.String())
	if err != nil {
		return core.Book{}, err
	}

	if !found {
		return core.Book{}, core.Violation(core.ErrNotFound, "book "+command.BookID.String()+" is not in the archive")
	}

	filter := BuildEventFilter(added.BookID, added.ISBN)

	history, maxSequenceNumber, err := shell.QueryHistory(ctx, h.eventStore, filter)
	if err != nil {
		return core.Book{}, err
	}

	result := Decide(history, command)

	if err := shell.AppendDecision(ctx, h.eventStore, filter, maxSequenceNumber, result, command.StaffID); err != nil {
		return core.Book{}, err
	}

	book, _ := core.ProjectCatalog(append(history, result.Events...)).Active(added.BookID)

	return book, nil
}

package registerborrower

import (
	"context"

	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/shell"
)

// CommandHandler runs Query -> Unmarshal -> Decide -> Append for RegisterBorrower.
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

// Handle returns the registered borrower. BorrowCount is not part of the registration and stays zero.
func (h CommandHandler) Handle(ctx context.Context, command Command) (core.Borrower, shell.HandlerResult, error) {
	var (
		borrower   core.Borrower
		idempotent bool
	)

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(ctx context.Context) error {
		var execErr error
		borrower, idempotent, execErr = h.executeCommand(ctx, command)

		return execErr
	}, h.retryOptions...)

	return borrower, shell.NewHandlerResult(idempotent, retryMetrics), err
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.Borrower, bool, error) {
	filter := BuildEventFilter(command)

	history, maxSequenceNumber, err := shell.QueryHistory(ctx, h.eventStore, filter)
	if err != nil {
		return core.Borrower{}, false, err
	}

	result := Decide(history, command)

	if err := shell.AppendDecision(ctx, h.eventStore, filter, maxSequenceNumber, result, ""); err != nil {
		return core.Borrower{}, false, err
	}

	borrower, _ := core.ProjectBorrowers(append(history, result.Events...)).Get(command.StudentID.String())

	return borrower, result.IsIdempotent(), nil
}

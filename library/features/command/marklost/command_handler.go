package marklost

import (
	"context"

	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/shell"
)

// CommandHandler runs Lookup -> Query -> Unmarshal -> Decide -> Append for MarkLost.
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

// Handle returns the lost record with the frozen penalty.
func (h CommandHandler) Handle(ctx context.Context, command Command) (core.BorrowRecord, shell.HandlerResult, error) {
	var record core.BorrowRecord

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(ctx context.Context) error {
		var execErr error
		record, execErr = h.executeCommand(ctx, command)

		return execErr
	}, h.retryOptions...)

	return record, shell.NewHandlerResult(false, retryMetrics), err
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.BorrowRecord, error) {
	requested, found, err := shell.LookupBorrowRequest(ctx, h.eventStore, command.BorrowID.String())
	if err != nil {
		return core.BorrowRecord{}, err
	}

	if !found {
		return core.BorrowRecord{}, core.Violation(core.ErrNotFound, "borrow record "+command.BorrowID.String()+" does not exist")
	}

	filter := BuildEventFilter(requested.BorrowID, requested.BookID)

	history, maxSequenceNumber, err := shell.QueryHistory(ctx, h.eventStore, filter)
	if err != nil {
		return core.BorrowRecord{}, err
	}

	result := Decide(history, command)

	if err := shell.AppendDecision(ctx, h.eventStore, filter, maxSequenceNumber, result, command.StaffID); err != nil {
		return core.BorrowRecord{}, err
	}

	record, _ := core.ProjectBorrowRecords(append(history, result.Events...)).Get(requested.BorrowID)

	return record, nil
}

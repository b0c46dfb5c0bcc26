package observable

import (
	"context"
	"time"

	"github.com/schoollibrary/circulation/library/shell"
)

// CommandWrapper instruments any command handler with metrics, tracing and logging.
type CommandWrapper[C shell.Command, R any] struct {
	coreHandler      shell.CommandHandler[C, R]
	commandType      string
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// NewCommandWrapper creates an observable wrapper around coreHandler.
func NewCommandWrapper[C shell.Command, R any](
	coreHandler shell.CommandHandler[C, R],
	opts ...CommandOption[C, R],
) (*CommandWrapper[C, R], error) {

	var zeroCommand C

	wrapper := &CommandWrapper[C, R]{
		coreHandler: coreHandler,
		commandType: zeroCommand.CommandType(),
	}

	for _, opt := range opts {
		if err := opt(wrapper); err != nil {
			return nil, err
		}
	}

	return wrapper, nil
}

// Handle delegates to the wrapped handler and records the outcome it reports.
func (w *CommandWrapper[C, R]) Handle(ctx context.Context, command C) (R, shell.HandlerResult, error) {
	commandStart := time.Now()
	ctx, span := shell.StartCommandSpan(ctx, w.tracingCollector, w.commandType)
	shell.LogStart(ctx, w.logger, w.contextualLogger, shell.LogMsgCommandStarted, shell.LogAttrCommandType, w.commandType)

	output, result, err := w.coreHandler.Handle(ctx, command)
	duration := time.Since(commandStart)

	shell.RecordRetryMetrics(w.metricsCollector, w.commandType, result)

	if err != nil {
		status := shell.StatusOf(err)
		msg := shell.LogMsgCommandFailed
		if status == shell.StatusRejected {
			msg = shell.LogMsgCommandRejected
		}

		shell.RecordCommandMetrics(w.metricsCollector, w.commandType, status, duration)
		shell.FinishSpan(w.tracingCollector, span, status, duration, err)
		shell.LogError(ctx, w.logger, w.contextualLogger, msg, shell.LogAttrCommandType, w.commandType, err)

		return output, result, err
	}

	status := shell.StatusSuccess
	if result.Idempotent {
		status = shell.StatusIdempotent
	}

	shell.RecordCommandMetrics(w.metricsCollector, w.commandType, status, duration)
	shell.FinishSpan(w.tracingCollector, span, status, duration, nil)
	shell.LogSuccess(ctx, w.logger, w.contextualLogger, shell.LogMsgCommandCompleted, shell.LogAttrCommandType, w.commandType, status, duration)

	return output, result, nil
}

// CommandOption configures a CommandWrapper.
type CommandOption[C shell.Command, R any] func(*CommandWrapper[C, R]) error

// WithCommandMetrics sets the metrics collector.
func WithCommandMetrics[C shell.Command, R any](collector shell.MetricsCollector) CommandOption[C, R] {
	return func(w *CommandWrapper[C, R]) error {
		w.metricsCollector = collector
		return nil
	}
}

// WithCommandTracing sets the tracing collector.
func WithCommandTracing[C shell.Command, R any](collector shell.TracingCollector) CommandOption[C, R] {
	return func(w *CommandWrapper[C, R]) error {
		w.tracingCollector = collector
		return nil
	}
}

// WithCommandContextualLogging sets the contextual logger. It takes precedence over WithCommandLogging.
func WithCommandContextualLogging[C shell.Command, R any](logger shell.ContextualLogger) CommandOption[C, R] {
	return func(w *CommandWrapper[C, R]) error {
		w.contextualLogger = logger
		return nil
	}
}

// WithCommandLogging sets the basic logger.
func WithCommandLogging[C shell.Command, R any](logger shell.Logger) CommandOption[C, R] {
	return func(w *CommandWrapper[C, R]) error {
		w.logger = logger
		return nil
	}
}

package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/library/core"
)

const (
	// CommandHandlerDurationMetric tracks command handler execution duration.
	CommandHandlerDurationMetric = "commandhandler_handle_duration_seconds"

	// CommandHandlerCallsMetric tracks total command handler calls.
	CommandHandlerCallsMetric = "commandhandler_handle_calls_total"

	// CommandHandlerIdempotentMetric tracks idempotent operations.
	CommandHandlerIdempotentMetric = "commandhandler_idempotent_operations_total"

	// CommandHandlerRejectedMetric tracks operations refused by a business rule.
	CommandHandlerRejectedMetric = "commandhandler_rejected_operations_total"

	// CommandHandlerConcurrencyConflictMetric tracks operations that lost a race on their consistency boundary.
	CommandHandlerConcurrencyConflictMetric = "commandhandler_concurrency_conflicts_total"

	// CommandHandlerRetriesMetric tracks retried attempts.
	//
	// Labels: command_type, attempt_number, error_type.
	CommandHandlerRetriesMetric = "commandhandler_retries_total"

	// CommandHandlerRetryDelayMetric tracks the time spent waiting between attempts.
	CommandHandlerRetryDelayMetric = "commandhandler_retry_delay_seconds"

	// CommandHandlerMaxRetriesReachedMetric tracks commands that ran out of attempts.
	CommandHandlerMaxRetriesReachedMetric = "commandhandler_max_retries_reached_total"

	// QueryHandlerDurationMetric tracks query handler execution duration.
	QueryHandlerDurationMetric = "queryhandler_handle_duration_seconds"

	// QueryHandlerCallsMetric tracks total query handler calls.
	QueryHandlerCallsMetric = "queryhandler_handle_calls_total"

	StatusSuccess             = "success"
	StatusError               = "error"
	StatusIdempotent          = "idempotent"
	StatusRejected            = "rejected"
	StatusCanceled            = "canceled"
	StatusTimeout             = "timeout"
	StatusConcurrencyConflict = "concurrency_conflict"

	LogMsgCommandStarted   = "command handler started"
	LogMsgCommandCompleted = "command handler completed"
	LogMsgCommandRejected  = "command handler rejected"
	LogMsgCommandFailed    = "command handler failed"
	LogMsgQueryStarted     = "query handler started"
	LogMsgQueryCompleted   = "query handler completed"
	LogMsgQueryFailed      = "query handler failed"

	LogAttrCommandType     = "command_type"
	LogAttrQueryType       = "query_type"
	LogAttrStatus          = "status"
	LogAttrDurationMS      = "duration_ms"
	LogAttrBusinessOutcome = "business_outcome"
	LogAttrError           = "error"

	// SpanNameCommandHandle is the tracing span name for command handling.
	SpanNameCommandHandle = "commandhandler.handle"

	// SpanNameQueryHandle is the tracing span name for query handling.
	SpanNameQueryHandle = "queryhandler.handle"
)

// Aliases of the event store observability interfaces, so features depend on shell only.
type (
	MetricsCollector = eventstore.MetricsCollector
	TracingCollector = eventstore.TracingCollector
	SpanContext      = eventstore.SpanContext
	ContextualLogger = eventstore.ContextualLogger
	Logger           = eventstore.Logger
)

// BuildCommandLabels creates standard metric labels for command handler operations.
func BuildCommandLabels(commandType, status string) map[string]string {
	return map[string]string{
		LogAttrCommandType: commandType,
		LogAttrStatus:      status,
	}
}

// BuildQueryLabels creates standard metric labels for query handler operations.
func BuildQueryLabels(queryType, status string) map[string]string {
	return map[string]string{
		LogAttrQueryType: queryType,
		LogAttrStatus:    status,
	}
}

// BuildRetryLabels creates standard metric labels for retry operations.
func BuildRetryLabels(commandType string, attemptNumber int, errorType string) map[string]string {
	return map[string]string{
		LogAttrCommandType: commandType,
		"attempt_number":   strconv.Itoa(attemptNumber),
		"error_type":       errorType,
	}
}

// ToMilliseconds converts a time.Duration to float64 milliseconds.
func ToMilliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// StatusOf classifies the error of a finished operation. Business rule violations are "rejected",
// which keeps them apart from infrastructure failures in dashboards.
func StatusOf(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case IsCancellationError(err):
		return StatusCanceled
	case IsTimeoutError(err):
		return StatusTimeout
	case IsConcurrencyConflictError(err):
		return StatusConcurrencyConflict
	case core.IsBusinessRuleViolation(err):
		return StatusRejected
	default:
		return StatusError
	}
}

// RecordCommandMetrics records duration and call count, plus the per-outcome counters.
func RecordCommandMetrics(collector MetricsCollector, commandType string, status string, duration time.Duration) {
	if collector == nil {
		return
	}

	labels := BuildCommandLabels(commandType, status)
	collector.RecordDuration(CommandHandlerDurationMetric, duration, labels)
	collector.IncrementCounter(CommandHandlerCallsMetric, labels)

	switch status {
	case StatusIdempotent:
		collector.IncrementCounter(CommandHandlerIdempotentMetric, labels)
	case StatusRejected:
		collector.IncrementCounter(CommandHandlerRejectedMetric, labels)
	case StatusConcurrencyConflict:
		collector.IncrementCounter(CommandHandlerConcurrencyConflictMetric, labels)
	}
}

// RecordRetryMetrics records retry metadata of a handler result.
func RecordRetryMetrics(collector MetricsCollector, commandType string, result HandlerResult) {
	if collector == nil {
		return
	}

	if result.RetryAttempts > 1 {
		collector.IncrementCounter(
			CommandHandlerRetriesMetric,
			BuildRetryLabels(commandType, result.RetryAttempts-1, result.LastErrorType),
		)
		collector.RecordDuration(
			CommandHandlerRetryDelayMetric,
			result.TotalRetryDelay,
			map[string]string{LogAttrCommandType: commandType},
		)
	}

	if result.RetriesExhausted && result.RetryAttempts > 1 {
		collector.IncrementCounter(CommandHandlerMaxRetriesReachedMetric, map[string]string{LogAttrCommandType: commandType})
	}
}

// RecordQueryMetrics records duration and call count of a query.
func RecordQueryMetrics(collector MetricsCollector, queryType string, status string, duration time.Duration) {
	if collector == nil {
		return
	}

	labels := BuildQueryLabels(queryType, status)
	collector.RecordDuration(QueryHandlerDurationMetric, duration, labels)
	collector.IncrementCounter(QueryHandlerCallsMetric, labels)
}

// StartCommandSpan starts a span, or returns ctx and nil when tracing is disabled.
func StartCommandSpan(ctx context.Context, tracingCollector TracingCollector, commandType string) (context.Context, SpanContext) {
	if tracingCollector == nil {
		return ctx, nil
	}

	return tracingCollector.StartSpan(ctx, SpanNameCommandHandle, map[string]string{LogAttrCommandType: commandType})
}

// StartQuerySpan starts a span, or returns ctx and nil when tracing is disabled.
func StartQuerySpan(ctx context.Context, tracingCollector TracingCollector, queryType string) (context.Context, SpanContext) {
	if tracingCollector == nil {
		return ctx, nil
	}

	return tracingCollector.StartSpan(ctx, SpanNameQueryHandle, map[string]string{LogAttrQueryType: queryType})
}

// FinishSpan completes a span with the operation outcome.
func FinishSpan(tracingCollector TracingCollector, span SpanContext, status string, duration time.Duration, err error) {
	if tracingCollector == nil || span == nil {
		return
	}

	attrs := map[string]string{
		LogAttrStatus:     status,
		LogAttrDurationMS: fmt.Sprintf("%.2f", ToMilliseconds(duration)),
	}

	if err != nil {
		attrs[LogAttrError] = err.Error()
	}

	tracingCollector.FinishSpan(span, status, attrs)
}

// LogStart logs the beginning of an operation. kindAttr is LogAttrCommandType or LogAttrQueryType.
func LogStart(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg, kindAttr, kind string) {
	if contextualLogger != nil {
		contextualLogger.DebugContext(ctx, msg, kindAttr, kind)
	} else if logger != nil {
		logger.Debug(msg, kindAttr, kind)
	}
}

// LogSuccess logs a completed operation.
func LogSuccess(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	msg, kindAttr, kind, businessOutcome string,
	duration time.Duration,
) {
	args := []any{
		kindAttr, kind,
		LogAttrBusinessOutcome, businessOutcome,
		LogAttrDurationMS, ToMilliseconds(duration),
	}

	if contextualLogger != nil {
		contextualLogger.InfoContext(ctx, msg, args...)
	} else if logger != nil {
		logger.Info(msg, args...)
	}
}

// LogError logs a failed operation. Business rule rejections are logged at warn level.
func LogError(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	msg, kindAttr, kind string,
	err error,
) {
	args := []any{
		kindAttr, kind,
		LogAttrStatus, StatusOf(err),
		LogAttrError, err.Error(),
	}

	rejected := core.IsBusinessRuleViolation(err)

	switch {
	case contextualLogger != nil && rejected:
		contextualLogger.WarnContext(ctx, msg, args...)
	case contextualLogger != nil:
		contextualLogger.ErrorContext(ctx, msg, args...)
	case logger != nil && rejected:
		logger.Warn(msg, args...)
	case logger != nil:
		logger.Error(msg, args...)
	}
}

// IsCancellationError checks if an error is due to context cancellation.
func IsCancellationError(err error) bool {
	return errors.Is(err, context.Canceled)
}

// IsTimeoutError checks if an error is due to context deadline exceeded.
func IsTimeoutError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// IsConcurrencyConflictError checks if an error is due to optimistic concurrency control failure.
func IsConcurrencyConflictError(err error) bool {
	return errors.Is(err, ErrConcurrencyConflict)
}

package observable

import (
	"context"
	"time"

	"github.com/schoollibrary/circulation/library/shell"
)

// QueryWrapper instruments any query handler with metrics, tracing and logging.
type QueryWrapper[Q shell.Query, R any] struct {
	coreHandler      shell.QueryHandler[Q, R]
	queryType        string
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// NewQueryWrapper creates an observable wrapper around coreHandler.
func NewQueryWrapper[Q shell.Query, R any](
	coreHandler shell.QueryHandler[Q, R],
	opts ...QueryOption[Q, R],
) (*QueryWrapper[Q, R], error) {

	var zeroQuery Q

	wrapper := &QueryWrapper[Q, R]{
		coreHandler: coreHandler,
		queryType:   zeroQuery.QueryType(),
	}

	for _, opt := range opts {
		if err := opt(wrapper); err != nil {
			return nil, err
		}
	}

	return wrapper, nil
}

// Handle delegates to the wrapped handler.
func (w *QueryWrapper[Q, R]) Handle(ctx context.Context, query Q) (R, error) {
	queryStart := time.Now()
	ctx, span := shell.StartQuerySpan(ctx, w.tracingCollector, w.queryType)
	shell.LogStart(ctx, w.logger, w.contextualLogger, shell.LogMsgQueryStarted, shell.LogAttrQueryType, w.queryType)

	result, err := w.coreHandler.Handle(ctx, query)
	duration := time.Since(queryStart)
	status := shell.StatusOf(err)

	shell.RecordQueryMetrics(w.metricsCollector, w.queryType, status, duration)
	shell.FinishSpan(w.tracingCollector, span, status, duration, err)

	if err != nil {
		shell.LogError(ctx, w.logger, w.contextualLogger, shell.LogMsgQueryFailed, shell.LogAttrQueryType, w.queryType, err)
		return result, err
	}

	shell.LogSuccess(ctx, w.logger, w.contextualLogger, shell.LogMsgQueryCompleted, shell.LogAttrQueryType, w.queryType, status, duration)

	return result, nil
}

// QueryOption configures a QueryWrapper.
type QueryOption[Q shell.Query, R any] func(*QueryWrapper[Q, R]) error

// WithQueryMetrics sets the metrics collector.
func WithQueryMetrics[Q shell.Query, R any](collector shell.MetricsCollector) QueryOption[Q, R] {
	return func(w *QueryWrapper[Q, R]) error {
		w.metricsCollector = collector
		return nil
	}
}

// WithQueryTracing sets the tracing collector.
func WithQueryTracing[Q shell.Query, R any](collector shell.TracingCollector) QueryOption[Q, R] {
	return func(w *QueryWrapper[Q, R]) error {
		w.tracingCollector = collector
		return nil
	}
}

// WithQueryContextualLogging sets the contextual logger.
func WithQueryContextualLogging[Q shell.Query, R any](logger shell.ContextualLogger) QueryOption[Q, R] {
	return func(w *QueryWrapper[Q, R]) error {
		w.contextualLogger = logger
		return nil
	}
}

// WithQueryLogging sets the basic logger.
func WithQueryLogging[Q shell.Query, R any](logger shell.Logger) QueryOption[Q, R] {
	return func(w *QueryWrapper[Q, R]) error {
		w.logger = logger
		return nil
	}
}

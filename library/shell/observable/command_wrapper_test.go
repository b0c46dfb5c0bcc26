package observable_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/shell"
	"github.com/schoollibrary/circulation/library/shell/observable"
	"github.com/schoollibrary/circulation/testutil/spies"
)

type testCommand struct{}

func (testCommand) CommandType() string { return "TestCommand" }

type handlerStub struct {
	output string
	result shell.HandlerResult
	err    error
	calls  int
}

func (h *handlerStub) Handle(_ context.Context, _ testCommand) (string, shell.HandlerResult, error) {
	h.calls++
	return h.output, h.result, h.err
}

type observed struct {
	metrics *spies.MetricsCollectorSpy
	tracing *spies.TracingCollectorSpy
	logger  *spies.LoggerSpy
}

func givenWrappedCommandHandler(t *testing.T, handler *handlerStub) (*observable.CommandWrapper[testCommand, string], observed) {
	t.Helper()

	o := observed{
		metrics: spies.NewMetricsCollectorSpy(),
		tracing: spies.NewTracingCollectorSpy(),
		logger:  spies.NewLoggerSpy(),
	}

	wrapper, err := observable.NewCommandWrapper[testCommand, string](
		handler,
		observable.WithCommandMetrics[testCommand, string](o.metrics),
		observable.WithCommandTracing[testCommand, string](o.tracing),
		observable.WithCommandContextualLogging[testCommand, string](o.logger),
	)
	require.NoError(t, err)

	return wrapper, o
}

func Test_CommandWrapper_Handle_RecordsSuccess(t *testing.T) {
	// arrange
	handler := &handlerStub{output: "record", result: shell.HandlerResult{RetryAttempts: 1}}
	wrapper, o := givenWrappedCommandHandler(t, handler)

	// act
	output, _, err := wrapper.Handle(context.Background(), testCommand{})

	// assert
	require.NoError(t, err)
	assert.Equal(t, "record", output)
	assert.Equal(t, 1, handler.calls)
	assert.True(t, o.metrics.HasRecord(shell.CommandHandlerCallsMetric, map[string]string{"command_type": "TestCommand", "status": "success"}))
	assert.True(t, o.metrics.HasRecord(shell.CommandHandlerDurationMetric, map[string]string{"status": "success"}))
	require.Len(t, o.tracing.Spans(), 1)
	assert.Equal(t, shell.SpanNameCommandHandle, o.tracing.Spans()[0].Name)
	assert.Equal(t, "success", o.tracing.Spans()[0].Status)
	assert.True(t, o.logger.HasMessage("info", shell.LogMsgCommandCompleted))
}

func Test_CommandWrapper_Handle_RecordsIdempotent(t *testing.T) {
	wrapper, o := givenWrappedCommandHandler(t, &handlerStub{result: shell.HandlerResult{Idempotent: true, RetryAttempts: 1}})

	_, result, err := wrapper.Handle(context.Background(), testCommand{})

	require.NoError(t, err)
	assert.True(t, result.Idempotent)
	assert.True(t, o.metrics.HasRecord(shell.CommandHandlerIdempotentMetric, map[string]string{"status": "idempotent"}))
}

func Test_CommandWrapper_Handle_ClassifiesErrors(t *testing.T) {
	testCases := []struct {
		name           string
		err            error
		expectedStatus string
		expectedLevel  string
	}{
		{"business rule", core.Violation(core.ErrOutOfStock, "no copies left"), shell.StatusRejected, "warn"},
		{"conflict", shell.ErrConcurrencyConflict, shell.StatusConcurrencyConflict, "error"},
		{"canceled", context.Canceled, shell.StatusCanceled, "error"},
		{"timeout", context.DeadlineExceeded, shell.StatusTimeout, "error"},
		{"storage", errors.Join(shell.ErrStorage, errors.New("connection reset")), shell.StatusError, "error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			wrapper, o := givenWrappedCommandHandler(t, &handlerStub{err: tc.err, result: shell.HandlerResult{RetryAttempts: 1}})

			// act
			_, _, err := wrapper.Handle(context.Background(), testCommand{})

			// assert
			assert.ErrorIs(t, err, tc.err)
			assert.True(t, o.metrics.HasRecord(shell.CommandHandlerCallsMetric, map[string]string{"status": tc.expectedStatus}))
			assert.Equal(t, tc.expectedStatus, o.tracing.Spans()[0].Status)
			assert.Equal(t, tc.expectedLevel, o.logger.Records()[len(o.logger.Records())-1].Level)
		})
	}
}

func Test_CommandWrapper_Handle_RecordsRetries(t *testing.T) {
	handler := &handlerStub{result: shell.HandlerResult{RetryAttempts: 3, LastErrorType: "none"}}
	wrapper, o := givenWrappedCommandHandler(t, handler)

	_, _, err := wrapper.Handle(context.Background(), testCommand{})

	require.NoError(t, err)
	assert.True(t, o.metrics.HasRecord(shell.CommandHandlerRetriesMetric, map[string]string{"attempt_number": "2"}))
	assert.True(t, o.metrics.HasRecord(shell.CommandHandlerRetryDelayMetric, nil))
}

func Test_CommandWrapper_Handle_WorksWithoutCollectors(t *testing.T) {
	wrapper, err := observable.NewCommandWrapper[testCommand, string](&handlerStub{output: "ok"})
	require.NoError(t, err)

	output, _, err := wrapper.Handle(context.Background(), testCommand{})

	assert.NoError(t, err)
	assert.Equal(t, "ok", output)
}

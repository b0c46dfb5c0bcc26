package observable_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/shell"
	"github.com/schoollibrary/circulation/library/shell/observable"
	"github.com/schoollibrary/circulation/testutil/spies"
)

type testQuery struct{}

func (testQuery) QueryType() string { return "TestQuery" }

type queryHandlerFunc func(ctx context.Context, q testQuery) (int, error)

func (f queryHandlerFunc) Handle(ctx context.Context, q testQuery) (int, error) {
	return f(ctx, q)
}

func Test_QueryWrapper_Handle_RecordsSuccess(t *testing.T) {
	// arrange
	metrics := spies.NewMetricsCollectorSpy()
	logger := spies.NewLoggerSpy()
	wrapper, err := observable.NewQueryWrapper[testQuery, int](
		queryHandlerFunc(func(context.Context, testQuery) (int, error) { return 42, nil }),
		observable.WithQueryMetrics[testQuery, int](metrics),
		observable.WithQueryLogging[testQuery, int](logger),
	)
	require.NoError(t, err)

	// act
	result, err := wrapper.Handle(context.Background(), testQuery{})

	// assert
	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.True(t, metrics.HasRecord(shell.QueryHandlerCallsMetric, map[string]string{"query_type": "TestQuery", "status": "success"}))
	assert.True(t, logger.HasMessage("info", shell.LogMsgQueryCompleted))
}

func Test_QueryWrapper_Handle_RecordsNotFoundAsRejected(t *testing.T) {
	metrics := spies.NewMetricsCollectorSpy()
	tracing := spies.NewTracingCollectorSpy()
	wrapper, err := observable.NewQueryWrapper[testQuery, int](
		queryHandlerFunc(func(context.Context, testQuery) (int, error) { return 0, core.ErrNotFound }),
		observable.WithQueryMetrics[testQuery, int](metrics),
		observable.WithQueryTracing[testQuery, int](tracing),
	)
	require.NoError(t, err)

	_, err = wrapper.Handle(context.Background(), testQuery{})

	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.True(t, metrics.HasRecord(shell.QueryHandlerCallsMetric, map[string]string{"status": shell.StatusRejected}))
	assert.Equal(t, shell.StatusRejected, tracing.Spans()[0].Status)
}

package promadapters_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/eventstore/promadapters"
)

func Test_MetricsCollector_IncrementCounter_CountsPerLabelSet(t *testing.T) {
	// arrange
	registry := prometheus.NewRegistry()
	collector := promadapters.NewMetricsCollector(registry, promadapters.WithNamespace("library"))

	// act
	collector.IncrementCounter("commands_total", map[string]string{"command_type": "ReturnBook", "status": "success"})
	collector.IncrementCounter("commands_total", map[string]string{"command_type": "ReturnBook", "status": "success"})
	collector.IncrementCounter("commands_total", map[string]string{"command_type": "MarkLost", "status": "error"})

	// assert
	families, err := registry.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "library_commands_total", families[0].GetName())
	assert.Len(t, families[0].GetMetric(), 2)
	assert.Equal(t, 2, testutil.CollectAndCount(registry, "library_commands_total"))
}

func Test_MetricsCollector_RecordDuration_ObservesSeconds(t *testing.T) {
	// arrange
	registry := prometheus.NewRegistry()
	collector := promadapters.NewMetricsCollector(registry)

	// act
	collector.RecordDuration("eventstore_query_duration_seconds", 250*time.Millisecond, map[string]string{"status": "success"})

	// assert
	families, err := registry.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	histogram := families[0].GetMetric()[0].GetHistogram()
	assert.Equal(t, uint64(1), histogram.GetSampleCount())
	assert.InDelta(t, 0.25, histogram.GetSampleSum(), 0.0001)
}

func Test_MetricsCollector_RecordValue_KeepsLastValue(t *testing.T) {
	// arrange
	registry := prometheus.NewRegistry()
	collector := promadapters.NewMetricsCollector(registry)

	// act
	collector.RecordValue("overdue_loans", 4, nil)
	collector.RecordValue("overdue_loans", 2, nil)

	// assert
	families, err := registry.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.InDelta(t, 2.0, families[0].GetMetric()[0].GetGauge().GetValue(), 0.0001)
}

func Test_MetricsCollector_SharesVectors_WhenTwoCollectorsUseSameRegistry(t *testing.T) {
	// arrange
	registry := prometheus.NewRegistry()
	first := promadapters.NewMetricsCollector(registry)
	second := promadapters.NewMetricsCollector(registry)

	// act
	first.IncrementCounter("conflicts_total", map[string]string{"operation": "append"})
	second.IncrementCounter("conflicts_total", map[string]string{"operation": "append"})

	// assert
	families, err := registry.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.InDelta(t, 2.0, families[0].GetMetric()[0].GetCounter().GetValue(), 0.0001)
}

func Test_MetricsCollector_SanitizesMetricNames(t *testing.T) {
	// arrange
	registry := prometheus.NewRegistry()
	collector := promadapters.NewMetricsCollector(registry)

	// act
	collector.IncrementCounter("sweeper.runs-total", nil)

	// assert
	families, err := registry.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "sweeper_runs_total", families[0].GetName())
}

func Test_MetricsCollector_DoesNotPanic_WhenLabelSetChanges(t *testing.T) {
	collector := promadapters.NewMetricsCollector(prometheus.NewRegistry())
	collector.IncrementCounter("requests_total", map[string]string{"a": "1"})

	assert.NotPanics(t, func() {
		collector.IncrementCounter("requests_total", map[string]string{"b": "1"})
	})
}

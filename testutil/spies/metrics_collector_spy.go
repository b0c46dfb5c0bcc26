package spies

import (
	"maps"
	"sync"
	"time"
)

// MetricRecord is one captured call of a MetricsCollector method.
type MetricRecord struct {
	Kind     string // "duration", "counter" or "value"
	Metric   string
	Duration time.Duration
	Value    float64
	Labels   map[string]string
}

// MetricsCollectorSpy captures metrics calls.
type MetricsCollectorSpy struct {
	mu      sync.Mutex
	records []MetricRecord
}

func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{}
}

func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.add(MetricRecord{Kind: "duration", Metric: metric, Duration: duration, Labels: maps.Clone(labels)})
}

func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.add(MetricRecord{Kind: "counter", Metric: metric, Labels: maps.Clone(labels)})
}

func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.add(MetricRecord{Kind: "value", Metric: metric, Value: value, Labels: maps.Clone(labels)})
}

func (s *MetricsCollectorSpy) add(record MetricRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, record)
}

// Records returns a copy of all captured records.
func (s *MetricsCollectorSpy) Records() []MetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]MetricRecord, len(s.records))
	copy(out, s.records)

	return out
}

// HasRecord reports whether a record for metric exists whose labels contain all of the given labels.
func (s *MetricsCollectorSpy) HasRecord(metric string, labels map[string]string) bool {
	return s.Count(metric, labels) > 0
}

// Count returns how many records for metric contain all of the given labels.
func (s *MetricsCollectorSpy) Count(metric string, labels map[string]string) int {
	count := 0

	for _, r := range s.Records() {
		if r.Metric != metric {
			continue
		}

		matches := true
		for k, v := range labels {
			if r.Labels[k] != v {
				matches = false
				break
			}
		}

		if matches {
			count++
		}
	}

	return count
}

// LastValue returns the value of the latest RecordValue call for metric.
func (s *MetricsCollectorSpy) LastValue(metric string) (float64, bool) {
	records := s.Records()
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].Kind == "value" && records[i].Metric == metric {
			return records[i].Value, true
		}
	}

	return 0, false
}

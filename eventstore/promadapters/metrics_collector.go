// Package promadapters implements eventstore.MetricsCollector on the Prometheus client library.
package promadapters

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/schoollibrary/circulation/eventstore"
)

// MetricsCollector creates Prometheus vectors on first use of a metric name.
// Durations become histograms in seconds, counters become counters and values become gauges.
// The label names of a vector are fixed by the first observation.
type MetricsCollector struct {
	registerer prometheus.Registerer
	namespace  string

	mu         sync.Mutex
	histograms map[string]*prometheus.HistogramVec
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	logger     eventstore.Logger
}

type Option func(*MetricsCollector)

// WithNamespace prefixes every metric name.
func WithNamespace(namespace string) Option {
	return func(c *MetricsCollector) {
		c.namespace = namespace
	}
}

// WithLogger reports registration failures, for example a label set that differs from the first one.
func WithLogger(logger eventstore.Logger) Option {
	return func(c *MetricsCollector) {
		c.logger = logger
	}
}

// NewMetricsCollector registers its vectors on registerer. Pass prometheus.DefaultRegisterer to expose
// them through promhttp.Handler.
func NewMetricsCollector(registerer prometheus.Registerer, options ...Option) *MetricsCollector {
	c := &MetricsCollector{
		registerer: registerer,
		histograms: make(map[string]*prometheus.HistogramVec),
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
	}

	for _, option := range options {
		option(c)
	}

	return c
}

func (c *MetricsCollector) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	c.mu.Lock()
	vec, ok := c.histograms[metric]
	if !ok {
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: c.namespace,
			Name:      sanitizeName(metric),
			Help:      "Duration of " + metric,
			Buckets:   prometheus.DefBuckets,
		}, labelNames(labels))
		vec = registerOrExisting(c, vec)
		c.histograms[metric] = vec
	}
	c.mu.Unlock()

	if observer, err := vec.GetMetricWith(labels); err == nil {
		observer.Observe(duration.Seconds())
	} else {
		c.logError("observing duration failed", metric, err)
	}
}

func (c *MetricsCollector) IncrementCounter(metric string, labels map[string]string) {
	c.mu.Lock()
	vec, ok := c.counters[metric]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: c.namespace,
			Name:      sanitizeName(metric),
			Help:      "Count of " + metric,
		}, labelNames(labels))
		vec = registerOrExisting(c, vec)
		c.counters[metric] = vec
	}
	c.mu.Unlock()

	if counter, err := vec.GetMetricWith(labels); err == nil {
		counter.Inc()
	} else {
		c.logError("incrementing counter failed", metric, err)
	}
}

func (c *MetricsCollector) RecordValue(metric string, value float64, labels map[string]string) {
	c.mu.Lock()
	vec, ok := c.gauges[metric]
	if !ok {
		vec = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: c.namespace,
			Name:      sanitizeName(metric),
			Help:      "Last value of " + metric,
		}, labelNames(labels))
		vec = registerOrExisting(c, vec)
		c.gauges[metric] = vec
	}
	c.mu.Unlock()

	if gauge, err := vec.GetMetricWith(labels); err == nil {
		gauge.Set(value)
	} else {
		c.logError("recording value failed", metric, err)
	}
}

var _ eventstore.MetricsCollector = (*MetricsCollector)(nil)

// registerOrExisting returns the already registered collector when another MetricsCollector on the
// same registry created it first.
func registerOrExisting[V prometheus.Collector](c *MetricsCollector, vec V) V {
	if c.registerer == nil {
		return vec
	}

	if err := c.registerer.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(V); ok {
				return existing
			}
		}

		c.logError("registering metric failed", "", err)
	}

	return vec
}

func (c *MetricsCollector) logError(msg, metric string, err error) {
	if c.logger == nil {
		return
	}

	c.logger.Error(msg, "metric", metric, "error", err.Error())
}

func labelNames(labels map[string]string) []string {
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// sanitizeName replaces characters Prometheus rejects in metric names.
func sanitizeName(metric string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == ':':
			return r
		default:
			return '_'
		}
	}, metric)
}

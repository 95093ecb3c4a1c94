// Package metrics exposes batch run counters over Prometheus.
package metrics

import (
	"net/http"

	"github.com/Veraticus/taxonomist/internal/engine"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "taxonomist"

// Run results.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Ensure Collector implements engine.Observer.
var _ engine.Observer = (*Collector)(nil)

// Collector records batch runs. It is safe for concurrent use.
type Collector struct {
	registry *prometheus.Registry
	rows     *prometheus.CounterVec
	skips    *prometheus.CounterVec
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	ingested *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry, including the Go
// runtime and process collectors.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_total",
			Help:      "Rows processed by batch runs, by outcome.",
		}, []string{"procedure", "outcome"}),
		skips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_rows_total",
			Help:      "Skipped rows, by reason.",
		}, []string{"procedure", "reason"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed batch runs, by result.",
		}, []string{"procedure", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Batch run duration.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"procedure"}),
		ingested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_items_total",
			Help:      "Feed items seen during ingestion, by outcome.",
		}, []string{"outcome"}),
	}

	c.registry.MustRegister(
		c.rows, c.skips, c.runs, c.duration, c.ingested,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RunStarted implements engine.Observer.
func (c *Collector) RunStarted(engine.Procedure, int) {}

// RowProcessed implements engine.Observer.
func (c *Collector) RowProcessed(procedure engine.Procedure, result engine.RowResult) {
	c.rows.WithLabelValues(string(procedure), string(result.Outcome)).Inc()
	if result.Outcome == engine.OutcomeSkipped {
		c.skips.WithLabelValues(string(procedure), string(result.Reason)).Inc()
	}
}

// RunFinished implements engine.Observer.
func (c *Collector) RunFinished(report *engine.Report) {
	if report == nil {
		return
	}
	result := ResultSuccess
	if report.Failed() {
		result = ResultFailure
	}
	procedure := string(report.Procedure)
	c.runs.WithLabelValues(procedure, result).Inc()
	c.duration.WithLabelValues(procedure).Observe(report.Duration.Seconds())
}

// RecordIngest counts items from a feed ingestion run.
func (c *Collector) RecordIngest(inserted int, filled int64, failedChannels int) {
	c.ingested.WithLabelValues("inserted").Add(float64(inserted))
	c.ingested.WithLabelValues("filled").Add(float64(filled))
	c.ingested.WithLabelValues("channel_failed").Add(float64(failedChannels))
}

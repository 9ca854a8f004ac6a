// Package metrics exposes prometheus collectors for the engine and its API.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "rota"

// Metrics methods are safe on a nil receiver so callers may run without metrics.
type Metrics struct {
	Registry *prometheus.Registry

	analyses       *prometheus.CounterVec
	analysisTime   prometheus.Histogram
	fareResults    *prometheus.CounterVec
	catalogReloads *prometheus.CounterVec
	requests       *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Schedule analyses by outcome.",
		}, []string{"outcome"}),
		analysisTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Wall time of one analysis pass.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		fareResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fare_comparisons_total",
			Help:      "Fare comparisons by recommendation; none means nothing to calculate.",
		}, []string{"recommendation"}),
		catalogReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fare_catalog_reloads_total",
			Help:      "Fare catalog reload attempts by result.",
		}, []string{"result"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by path and status code.",
		}, []string{"path", "code"}),
	}
	reg.MustRegister(
		m.analyses, m.analysisTime, m.fareResults, m.catalogReloads, m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveAnalysis(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(outcome).Inc()
	m.analysisTime.Observe(d.Seconds())
}

func (m *Metrics) ObserveFare(recommendation string) {
	if m == nil {
		return
	}
	if recommendation == "" {
		recommendation = "none"
	}
	m.fareResults.WithLabelValues(recommendation).Inc()
}

func (m *Metrics) ObserveReload(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.catalogReloads.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveRequest(path string, status int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(path, strconv.Itoa(status)).Inc()
}

package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the Prometheus instruments exported by the API.
type Metrics struct {
	registry         *prometheus.Registry
	analysesTotal    *prometheus.CounterVec
	analysisDuration *prometheus.HistogramVec
}

// NewMetrics builds a Metrics instance backed by its own registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	analysesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ringtrace",
		Name:      "analyses_total",
		Help:      "Number of analysis requests by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	analysisDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ringtrace",
		Name:      "analysis_duration_seconds",
		Help:      "End-to-end duration of analysis requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})

	registry.MustRegister(analysesTotal, analysisDuration)

	return &Metrics{
		registry:         registry,
		analysesTotal:    analysesTotal,
		analysisDuration: analysisDuration,
	}
}

// Registry exposes the underlying registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveAnalysis records one analysis request.
func (m *Metrics) ObserveAnalysis(endpoint, outcome string, elapsed time.Duration) {
	m.analysesTotal.WithLabelValues(endpoint, outcome).Inc()
	m.analysisDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

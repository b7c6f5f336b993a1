// Package metrics exposes Prometheus collectors for solver runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bisect"

// Metrics groups the collectors of one registry.
type Metrics struct {
	runsTotal   *prometheus.CounterVec
	iterations  prometheus.Histogram
	runDuration *prometheus.HistogramVec
	runsActive  prometheus.Gauge
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of solver runs by outcome status",
			},
			[]string{"status"},
		),
		iterations: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "iterations",
				Help:      "Number of bisection iterations per run",
				Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
			},
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Histogram of solver run duration in seconds",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"status"},
		),
		runsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "runs_active",
				Help:      "Number of runs currently in progress",
			},
		),
	}

	reg.MustRegister(m.runsTotal, m.iterations, m.runDuration, m.runsActive)
	return m
}

// RunStarted marks a run in progress. Call the returned func with the
// final status and iteration count when it ends.
func (m *Metrics) RunStarted() func(status string, iters int) {
	start := time.Now()
	m.runsActive.Inc()
	return func(status string, iters int) {
		m.runsActive.Dec()
		m.runsTotal.WithLabelValues(status).Inc()
		m.iterations.Observe(float64(iters))
		m.runDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	}
}

// Package observability exposes cascade runs as Prometheus metrics, wired in
// through the engine's run hooks.
package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/oxygn-cloud-ai/cascade/pkg/domain"
)

// Metrics holds the Prometheus collectors for cascade activity.
type Metrics struct {
	runsTotal          *prometheus.CounterVec
	nodesTotal         *prometheus.CounterVec
	generationDuration prometheus.Histogram
	activeRuns         prometheus.Gauge
}

// NewMetrics creates and registers the collectors. Pass
// prometheus.DefaultRegisterer for the ambient registry, or a private
// registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cascade_runs_total",
				Help: "Total cascade runs, by terminal status",
			},
			[]string{"status"},
		),
		nodesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cascade_nodes_total",
				Help: "Total nodes processed, by result",
			},
			[]string{"result"},
		),
		generationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cascade_generation_duration_seconds",
				Help:    "Duration of individual generation calls",
				Buckets: prometheus.DefBuckets,
			},
		),
		activeRuns: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "cascade_active_runs",
				Help: "Whether a cascade run is live (0 or 1)",
			},
		),
	}
	reg.MustRegister(m.runsTotal, m.nodesTotal, m.generationDuration, m.activeRuns)
	return m
}

// RunsTotal exposes the run counter, mainly for tests.
func (m *Metrics) RunsTotal() *prometheus.CounterVec { return m.runsTotal }

// NodesTotal exposes the node counter, mainly for tests.
func (m *Metrics) NodesTotal() *prometheus.CounterVec { return m.nodesTotal }

// ActiveRuns exposes the live-run gauge, mainly for tests.
func (m *Metrics) ActiveRuns() prometheus.Gauge { return m.activeRuns }

// Hooks returns run hooks that feed the collectors. Merge them with any
// application hooks when constructing the engine.
func (m *Metrics) Hooks() domain.RunHooks {
	return domain.RunHooks{
		OnRunStart: func(_ context.Context, _ *domain.RunEvent) {
			m.activeRuns.Set(1)
		},
		OnRunEnd: func(_ context.Context, ev *domain.RunEvent) {
			m.activeRuns.Set(0)
			m.runsTotal.WithLabelValues(string(ev.Snapshot.Status)).Inc()
		},
		OnNodeComplete: func(_ context.Context, ev *domain.NodeEvent) {
			m.nodesTotal.WithLabelValues("completed").Inc()
			if ev.Output != nil {
				m.generationDuration.Observe(ev.Output.Usage.Latency.Seconds())
			}
		},
		OnNodeFailed: func(_ context.Context, _ *domain.NodeEvent) {
			m.nodesTotal.WithLabelValues("failed").Inc()
		},
		OnNodeSkipped: func(_ context.Context, _ *domain.NodeEvent) {
			m.nodesTotal.WithLabelValues("skipped").Inc()
		},
	}
}

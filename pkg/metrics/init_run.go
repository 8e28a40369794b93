package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initRunMetrics() {
	r.RunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipenet_runs_total",
			Help: "Total number of network solve runs",
		},
		[]string{"status"},
	)

	r.RunDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pipenet_run_duration_seconds",
			Help:    "Duration of a full network solve in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0, 60.0},
		},
	)

	r.NetworkEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "pipenet_network_edges",
			Help: "Number of edges in the last solved network",
		},
	)

	r.NetworkNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "pipenet_network_nodes",
			Help: "Number of nodes in the last solved network",
		},
	)

	r.SkippedEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "pipenet_skipped_edges",
			Help: "Edges with an unresolved endpoint in the last solved network",
		},
	)

	r.LargestSubnet = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "pipenet_largest_subnet_share",
			Help: "Share of edges held by the largest subnet of the last run",
		},
	)

	r.WorkersBusy = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "pipenet_workers_busy",
			Help: "Number of workers currently solving a subnet",
		},
	)

	r.WorkerPanics = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "pipenet_worker_panics_total",
			Help: "Total number of panics recovered from subnet workers",
		},
	)
}

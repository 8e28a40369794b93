package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSolverMetrics() {
	r.SubnetsSolvedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipenet_subnets_solved_total",
			Help: "Total number of subnets solved",
		},
		[]string{"outcome"},
	)

	r.SubnetSolveDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pipenet_subnet_solve_duration_seconds",
			Help:    "Time spent solving one subnet in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1.0},
		},
	)

	r.SubnetEdges = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pipenet_subnet_edges",
			Help:    "Number of edges per solved subnet",
			Buckets: []float64{1, 10, 100, 1000, 10000},
		},
	)

	r.UnresolvedNodes = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "pipenet_unresolved_nodes_total",
			Help: "Total number of subnet nodes left without a determined pressure",
		},
	)

	r.EdgeStatusTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipenet_edge_status_total",
			Help: "Final edge classifications by status",
		},
		[]string{"status"},
	)

	r.PhysicsCallsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipenet_physics_calls_total",
			Help: "Total number of pressure drop calculations",
		},
		[]string{"result"},
	)

	r.PhysicsCallDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pipenet_physics_call_duration_seconds",
			Help:    "Duration of one pressure drop calculation in seconds",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
		},
	)
}

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Run Metrics
	RunsTotal     *prometheus.CounterVec
	RunDuration   prometheus.Histogram
	NetworkEdges  prometheus.Gauge
	NetworkNodes  prometheus.Gauge
	SkippedEdges  prometheus.Gauge
	LargestSubnet prometheus.Gauge
	WorkersBusy   prometheus.Gauge
	WorkerPanics  prometheus.Counter

	// Solver Metrics
	SubnetsSolvedTotal  *prometheus.CounterVec
	SubnetSolveDuration prometheus.Histogram
	SubnetEdges         prometheus.Histogram
	UnresolvedNodes     prometheus.Counter
	EdgeStatusTotal     *prometheus.CounterVec
	PhysicsCallsTotal   *prometheus.CounterVec
	PhysicsCallDuration prometheus.Histogram

	// Process Metrics
	WallSeconds    prometheus.Gauge
	HeapPeakBytes  prometheus.Gauge
	GoroutinesPeak prometheus.Gauge
	GCCycles       prometheus.Gauge
	MemorySysBytes prometheus.Gauge

	heapPeak      uint64
	goroutinePeak int
	registry      *prometheus.Registry
	mu            sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	// Initialize all metrics
	r.initRunMetrics()
	r.initSolverMetrics()
	r.initProcessMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Process gauges describe the resources of the current run. Peaks are the
// largest values seen at any sample point, not only at the end.
func (r *Registry) initProcessMetrics() {
	r.WallSeconds = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "pipenet_process_wall_seconds",
			Help: "Wall time from command start to the last sample in seconds",
		},
	)

	r.HeapPeakBytes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "pipenet_heap_peak_bytes",
			Help: "Largest in-use heap observed after a subnet solve",
		},
	)

	r.GoroutinesPeak = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "pipenet_goroutines_peak",
			Help: "Largest goroutine count observed after a subnet solve",
		},
	)

	r.GCCycles = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "pipenet_gc_cycles",
			Help: "Completed garbage collection cycles at the last sample",
		},
	)

	r.MemorySysBytes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "pipenet_memory_sys_bytes",
			Help: "Total bytes of memory obtained from the OS",
		},
	)
}

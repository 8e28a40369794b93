package metrics

import (
	"runtime"
	"time"
)

// RecordRun records a finished network solve
func (r *Registry) RecordRun(status string, duration time.Duration, edges, nodes int) {
	r.RunsTotal.WithLabelValues(status).Inc()
	r.RunDuration.Observe(duration.Seconds())
	r.NetworkEdges.Set(float64(edges))
	r.NetworkNodes.Set(float64(nodes))
}

// RecordPartition records the shape of the subnet decomposition
func (r *Registry) RecordPartition(skippedEdges int, largestShare float64) {
	r.SkippedEdges.Set(float64(skippedEdges))
	r.LargestSubnet.Set(largestShare)
}

// RecordSubnet records one solved subnet
func (r *Registry) RecordSubnet(outcome string, edges, unresolved int, duration time.Duration) {
	r.SubnetsSolvedTotal.WithLabelValues(outcome).Inc()
	r.SubnetSolveDuration.Observe(duration.Seconds())
	r.SubnetEdges.Observe(float64(edges))
	r.UnresolvedNodes.Add(float64(unresolved))
}

// RecordEdgeStatuses adds the final classification counts of a run
func (r *Registry) RecordEdgeStatuses(counts map[string]int) {
	for status, n := range counts {
		r.EdgeStatusTotal.WithLabelValues(status).Add(float64(n))
	}
}

// RecordPhysicsCall records one pressure drop calculation
func (r *Registry) RecordPhysicsCall(failed bool, duration time.Duration) {
	result := "ok"
	if failed {
		result = "error"
	}
	r.PhysicsCallsTotal.WithLabelValues(result).Inc()
	r.PhysicsCallDuration.Observe(duration.Seconds())
}

// WorkerStarted marks a worker as busy
func (r *Registry) WorkerStarted() {
	r.WorkersBusy.Inc()
}

// WorkerDone marks a worker as idle
func (r *Registry) WorkerDone() {
	r.WorkersBusy.Dec()
}

// RecordWorkerPanic counts a panic recovered from a worker
func (r *Registry) RecordWorkerPanic() {
	r.WorkerPanics.Inc()
}

// SampleProcess raises the heap and goroutine peaks to the current values
func (r *Registry) SampleProcess() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	goroutines := runtime.NumGoroutine()

	r.mu.Lock()
	defer r.mu.Unlock()

	if m.HeapInuse > r.heapPeak {
		r.heapPeak = m.HeapInuse
		r.HeapPeakBytes.Set(float64(m.HeapInuse))
	}
	if goroutines > r.goroutinePeak {
		r.goroutinePeak = goroutines
		r.GoroutinesPeak.Set(float64(goroutines))
	}
	r.GCCycles.Set(float64(m.NumGC))
	r.MemorySysBytes.Set(float64(m.Sys))
}

// UpdateProcessMetrics takes a final sample and records the wall time since start
func (r *Registry) UpdateProcessMetrics(start time.Time) {
	r.SampleProcess()
	r.WallSeconds.Set(time.Since(start).Seconds())
}

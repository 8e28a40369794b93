package hydraulics

import (
	"math"

	"github.com/dd0wney/cluso-pipenet/pkg/network"
)

// DataKind records how a solved value was obtained
type DataKind int

const (
	DataUnknown DataKind = iota
	DataInput            // Measured boundary data
	DataEstimated        // Computed by the physics call
	DataPropagated       // Carried forward along a chain or a dead end
	DataAveraged         // Meter pressure averaged over disagreeing wells
)

func (k DataKind) String() string {
	switch k {
	case DataInput:
		return "input"
	case DataEstimated:
		return "estimated"
	case DataPropagated:
		return "propagated"
	case DataAveraged:
		return "averaged"
	default:
		return "unknown"
	}
}

// EdgeInfo is the resolved flow on one subnet edge
type EdgeInfo struct {
	LiquidRate float64 // m3/day
	Watercut   float64
	Fluid      *network.FluidInfo // nil when the fluid is undetermined
	Kind       DataKind
}

// OilRate returns the oil part of the liquid rate
func (e *EdgeInfo) OilRate() float64 {
	return e.LiquidRate * (1 - e.Watercut)
}

// WaterRate returns the water part of the liquid rate
func (e *EdgeInfo) WaterRate() float64 {
	return e.LiquidRate * e.Watercut
}

// NodeInfo is the resolved pressure at one subnet node
type NodeInfo struct {
	Pressure float64 // atm, NaN when undetermined
	Kind     DataKind
}

// Known reports whether the pressure is determined
func (n *NodeInfo) Known() bool {
	return n != nil && !math.IsNaN(n.Pressure)
}

// Update applies the minimum-wins rule: a determined pressure replaces an
// undetermined one or a higher one. Returns true when the stored value changed.
func (n *NodeInfo) Update(p float64, kind DataKind) bool {
	if math.IsNaN(p) {
		return false
	}
	if math.IsNaN(n.Pressure) || p < n.Pressure {
		n.Pressure = p
		n.Kind = kind
		return true
	}
	return false
}

// MeterNodeInfo accumulates the line pressures of the wells measured at a
// meter or cluster node
type MeterNodeInfo struct {
	Kind DataKind

	sumWeighted float64 // sum of pressure * rate
	sumRate     float64
	sumPlain    float64
	count       int
}

// Pressure returns the flow-weighted average line pressure. Wells without rate
// only count when no well has a rate. NaN when no pressure was merged.
func (m *MeterNodeInfo) Pressure() float64 {
	switch {
	case m.count == 0:
		return math.NaN()
	case m.sumRate > 0:
		return m.sumWeighted / m.sumRate
	default:
		return m.sumPlain / float64(m.count)
	}
}

// Wells returns how many line pressures were merged
func (m *MeterNodeInfo) Wells() int {
	return m.count
}

// Merge adds a well's line pressure. An undetermined pressure is ignored.
// Returns the average before merging and whether the new pressure disagreed
// with it beyond tolerance; a disagreement switches the node to DataAveraged.
func (m *MeterNodeInfo) Merge(p, rate, tolerance float64) (prev float64, mismatch bool) {
	prev = m.Pressure()
	if math.IsNaN(p) {
		return prev, false
	}

	if m.count == 0 {
		m.Kind = DataInput
	} else if math.Abs(p-prev) > tolerance {
		m.Kind = DataAveraged
		mismatch = true
	}

	if rate > 0 {
		m.sumWeighted += p * rate
		m.sumRate += rate
	}
	m.sumPlain += p
	m.count++
	return prev, mismatch
}

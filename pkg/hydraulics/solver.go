// Package hydraulics resolves pressures and flows over one subnet by
// propagating boundary data (well rates, line pressures) from node to node.
// Pressure drop physics is delegated to a PressureDropper.
package hydraulics

import (
	"math"
	"sort"

	"github.com/dd0wney/cluso-pipenet/pkg/logging"
	"github.com/dd0wney/cluso-pipenet/pkg/network"
)

// Default solver settings
const (
	DefaultRoughness         = 0.015 // mm
	DefaultMaxWellHops       = 16
	DefaultPressureTolerance = 0.01 // atm
)

// Options tunes a solve
type Options struct {
	Roughness         float64 // Absolute pipe roughness passed to the physics call, mm
	MaxWellHops       int     // Longest well-to-meter chain followed
	PressureTolerance float64 // Line pressures further apart than this are reported as a mismatch

	Observer Observer       // Optional progress receiver
	Logger   logging.Logger // Defaults to a NopLogger
}

// DefaultOptions returns the default solver settings
func DefaultOptions() Options {
	return Options{
		Roughness:         DefaultRoughness,
		MaxWellHops:       DefaultMaxWellHops,
		PressureTolerance: DefaultPressureTolerance,
	}
}

// Impl solves one subnet. It is not safe for concurrent use; run one Impl per subnet.
type Impl struct {
	net     *network.Network
	subnet  []int
	wells   map[int]*network.WellInfo
	dropper PressureDropper
	opts    Options
	logger  logging.Logger

	incidence map[int][]int // node -> subnet edges, duplicates removed
	nodeOrder []int         // subnet nodes in ascending order
	skipped   []int         // duplicate edges and self-loops

	edges  map[int]*EdgeInfo
	nodes  map[int]*NodeInfo
	meters map[int]*MeterNodeInfo
	chains []wellChain
}

// NewImpl prepares a solver for the given subnet edges
func NewImpl(net *network.Network, subnet []int, wells map[int]*network.WellInfo, dropper PressureDropper, opts Options) *Impl {
	if opts.MaxWellHops <= 0 {
		opts.MaxWellHops = DefaultMaxWellHops
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}

	s := &Impl{
		net:       net,
		subnet:    subnet,
		wells:     wells,
		dropper:   dropper,
		opts:      opts,
		logger:    opts.Logger,
		incidence: make(map[int][]int),
		edges:     make(map[int]*EdgeInfo),
		nodes:     make(map[int]*NodeInfo),
		meters:    make(map[int]*MeterNodeInfo),
	}
	s.buildIncidence()
	return s
}

// buildIncidence collects the incident edges of every subnet node, keeping one
// edge out of each group of geometrically identical ones
func (s *Impl) buildIncidence() {
	for _, ei := range s.subnet {
		if !s.net.ValidEdge(ei) {
			continue
		}
		e := s.net.Edges[ei]
		if e.NodeA == e.NodeB || s.hasTwin(e) {
			s.skipped = append(s.skipped, ei)
			continue
		}
		s.incidence[e.NodeA] = append(s.incidence[e.NodeA], ei)
		s.incidence[e.NodeB] = append(s.incidence[e.NodeB], ei)
	}

	s.nodeOrder = make([]int, 0, len(s.incidence))
	for v := range s.incidence {
		s.nodeOrder = append(s.nodeOrder, v)
	}
	sort.Ints(s.nodeOrder)

	if len(s.skipped) > 0 {
		s.logger.Debug("duplicate edges excluded from solve", logging.Count(len(s.skipped)))
	}
}

func (s *Impl) hasTwin(e network.Edge) bool {
	for _, other := range s.incidence[e.NodeA] {
		if s.net.Edges[other].IsIdentical(e) {
			return true
		}
	}
	return false
}

// Solve runs the three propagation phases. It never fails: data that cannot be
// resolved is left undetermined.
func (s *Impl) Solve() {
	s.fromWells()
	s.fromDeadEnds()
	s.calcNextNodes()

	if unresolved := s.Unresolved(); len(unresolved) > 0 {
		s.logger.Debug("subnet solved with undetermined nodes",
			logging.Count(len(unresolved)),
			logging.Int("nodes", len(s.nodeOrder)),
			logging.Int("resolved_edges", len(s.edges)))
	}
}

// EdgeInfos returns the resolved edges by edge index
func (s *Impl) EdgeInfos() map[int]*EdgeInfo {
	return s.edges
}

// NodeInfos returns the touched nodes by node index
func (s *Impl) NodeInfos() map[int]*NodeInfo {
	return s.nodes
}

// MeterInfos returns the meter nodes that received well data
func (s *Impl) MeterInfos() map[int]*MeterNodeInfo {
	return s.meters
}

// Skipped returns the subnet edges left out of the solve as duplicates or self-loops
func (s *Impl) Skipped() []int {
	return s.skipped
}

// NodePressure returns the resolved pressure of a node, NaN when undetermined
func (s *Impl) NodePressure(v int) float64 {
	if info, ok := s.nodes[v]; ok {
		return info.Pressure
	}
	return math.NaN()
}

// Unresolved lists subnet nodes that ended without a determined pressure
func (s *Impl) Unresolved() []int {
	var out []int
	for _, v := range s.nodeOrder {
		if !s.nodes[v].Known() {
			out = append(out, v)
		}
	}
	return out
}

// updateNode applies the minimum-wins rule, creating the node entry on first touch
func (s *Impl) updateNode(v int, p float64, kind DataKind) {
	info, ok := s.nodes[v]
	if !ok {
		info = &NodeInfo{Pressure: math.NaN(), Kind: kind}
		s.nodes[v] = info
	}
	info.Update(p, kind)
}

// calcEdge runs the physics call over one edge starting at node from and
// applies the outlet pressure to the far node. Returns the outlet pressure,
// NaN when it could not be computed.
func (s *Impl) calcEdge(ei, from int, pIn float64, flow *EdgeInfo, calcReversed bool, kind DataKind) float64 {
	e := s.net.Edges[ei]
	to, sign := e.Next(from)

	if math.IsNaN(pIn) || flow.Fluid.IsEmpty() {
		s.updateNode(to, math.NaN(), DataPropagated)
		return math.NaN()
	}

	direction := 1
	if calcReversed {
		direction = -1
	}
	cookie := Cookie{Edge: ei, EdgeReversed: sign < 0, CalcReversed: calcReversed}
	req := &DropRequest{
		InletPressure: pIn,
		Diameter:      e.Diameter,
		Length:        e.Length,
		Roughness:     s.opts.Roughness,
		AngleDeg:      e.GetAngleDeg(s.net.Nodes) * float64(sign),
		Direction:     direction,
		LiquidRate:    flow.LiquidRate,
		Watercut:      flow.Watercut,
		GasFactor:     flow.Fluid.GasFactor,
		Fluid:         flow.Fluid,
		Cookie:        cookie,
	}

	pOut, err := s.dropper.DropLiquid(req, s.step)
	if err != nil {
		cerr := &CalcError{Edge: ei, FromID: s.net.Nodes[from].ID, ToID: s.net.Nodes[to].ID, Cause: err}
		s.logger.Warn("pressure drop calculation failed",
			logging.EdgeIndex(ei),
			logging.String("from_id", cerr.FromID),
			logging.String("to_id", cerr.ToID),
			logging.Pressure("inlet_pressure", pIn),
			logging.Error(err))
		if s.opts.Observer != nil {
			s.opts.Observer.Failed(cookie, cerr)
		}
		pOut = math.NaN()
	}

	s.updateNode(to, pOut, kind)
	return pOut
}

func (s *Impl) step(pos StepPosition, sample *Sample, c Cookie) {
	if s.opts.Observer != nil {
		s.opts.Observer.Step(pos, sample, c)
	}
}

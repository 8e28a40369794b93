package hydraulics

import (
	"math"

	"github.com/dd0wney/cluso-pipenet/pkg/logging"
	"github.com/dd0wney/cluso-pipenet/pkg/network"
)

// particleEpsilon is the smallest particle content change that causes the
// mixed fluid to be cloned
const particleEpsilon = 1e-9

// fromDeadEnds closes transparent nodes with a single edge that no data
// reached: the node gets an undetermined pressure, its edge zero flow, and the
// node on the other side is seeded as undetermined so propagation continues.
// A meter or cluster leaf stays open when its neighbour will feed it.
func (s *Impl) fromDeadEnds() {
	for _, v := range s.nodeOrder {
		inc := s.incidence[v]
		if len(inc) != 1 || !s.net.Nodes[v].IsTransparent() {
			continue
		}
		if _, ok := s.nodes[v]; ok {
			continue
		}
		ei := inc[0]
		if _, ok := s.edges[ei]; ok {
			continue
		}
		far, _ := s.net.Edges[ei].Next(v)
		if s.net.Nodes[v].IsMeterOrClust() && s.feeds(far, ei) {
			continue
		}

		s.nodes[v] = &NodeInfo{Pressure: math.NaN(), Kind: DataUnknown}
		s.edges[ei] = &EdgeInfo{Kind: DataUnknown}
		s.updateNode(far, math.NaN(), DataPropagated)

		s.logger.Debug("dead end closed with zero flow",
			logging.NodeIndex(v), logging.NodeID(s.net.Nodes[v].ID), logging.EdgeIndex(ei))
	}
}

// feeds reports whether node v already has a pressure and ei is its only
// edge without data, so forward propagation will carry real flow into ei
func (s *Impl) feeds(v, ei int) bool {
	if !s.nodes[v].Known() {
		return false
	}
	for _, e := range s.incidence[v] {
		if _, ok := s.edges[e]; !ok && e != ei {
			return false
		}
	}
	return true
}

// calcNextNodes propagates from every node whose incident edges are all known
// except one. Each successful step resolves one edge, so the loop ends.
func (s *Impl) calcNextNodes() {
	queue := make([]int, 0, len(s.nodes))
	for _, v := range s.nodeOrder {
		if _, ok := s.nodes[v]; ok {
			queue = append(queue, v)
		}
	}

	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]

		inc := s.incidence[v]
		open, opens := -1, 0
		for _, ei := range inc {
			if _, ok := s.edges[ei]; !ok {
				open = ei
				opens++
			}
		}
		if opens != 1 {
			if opens > 1 {
				s.logger.Debug("node has several unknown edges, deferred",
					logging.NodeIndex(v), logging.Count(opens))
			}
			continue
		}

		mix := s.mixInflow(inc)
		far, _ := s.net.Edges[open].Next(v)
		node := s.nodes[v]

		switch {
		case !node.Known():
			s.edges[open] = &EdgeInfo{Kind: DataPropagated}
			s.updateNode(far, math.NaN(), DataPropagated)
			queue = append(queue, far)

		case mix.liquid > 0 && mix.fluid != nil:
			flow := &EdgeInfo{
				LiquidRate: mix.liquid,
				Watercut:   mix.water / mix.liquid,
				Fluid:      mix.fluid,
				Kind:       DataEstimated,
			}
			s.edges[open] = flow
			s.calcEdge(open, v, node.Pressure, flow, false, DataEstimated)
			queue = append(queue, far)

		default:
			s.logger.Debug("node has no inflow to propagate, left unresolved",
				logging.NodeIndex(v), logging.NodeID(s.net.Nodes[v].ID),
				logging.EdgeIndex(open))
		}
	}
}

// inflow is the aggregate of the known edges at a node
type inflow struct {
	oil    float64
	water  float64
	liquid float64
	fluid  *network.FluidInfo
}

// mixInflow sums the known edges at a node. The fluid of the edge with the
// largest oil rate (then water rate) represents the mix; its particle content
// is replaced by the rate-weighted content of all known fluids.
func (s *Impl) mixInflow(inc []int) inflow {
	var (
		m             inflow
		best          *EdgeInfo
		particleMass  float64
		particleRates float64
	)

	for _, ei := range inc {
		info, ok := s.edges[ei]
		if !ok {
			continue
		}
		oil, water := info.OilRate(), info.WaterRate()
		m.oil += oil
		m.water += water

		if info.Fluid.IsEmpty() {
			continue
		}
		if best == nil || oil > best.OilRate() || (oil == best.OilRate() && water > best.WaterRate()) {
			best = info
		}
		particleMass += info.Fluid.ParticleContent * info.LiquidRate
		particleRates += info.LiquidRate
	}

	m.liquid = m.oil + m.water
	if best == nil {
		return m
	}

	m.fluid = best.Fluid
	if particleRates > 0 {
		pc := particleMass / particleRates
		if math.Abs(pc-m.fluid.ParticleContent) > particleEpsilon {
			m.fluid = m.fluid.WithParticleContent(pc)
		}
	}
	return m
}

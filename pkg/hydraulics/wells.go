package hydraulics

import (
	"sort"

	"github.com/dd0wney/cluso-pipenet/pkg/logging"
	"github.com/dd0wney/cluso-pipenet/pkg/network"
)

// wellChain is the path from a well to the node where it is measured
type wellChain struct {
	well  int
	info  *network.WellInfo
	edges []int // Ordered from the well outward; the last one is the meter edge
	meter int   // Far node of the meter edge
}

// fromWells seeds the solve with well data: every well is traced to its
// meter node, line pressures are averaged there, and the chain is calculated
// backward from the meter toward the well.
func (s *Impl) fromWells() {
	for _, v := range s.nodeOrder {
		node := s.net.Nodes[v]
		if node.Kind != network.KindWell {
			continue
		}

		info := s.wells[v]
		if info == nil {
			s.logger.Warn("no data for well, assuming unknown well",
				logging.NodeIndex(v), logging.WellID(node.ID))
			info = network.UnknownWell()
		}

		chain, ok := s.traceWell(v)
		if !ok {
			continue
		}
		chain.info = info
		s.chains = append(s.chains, chain)

		s.mergeLinePressure(chain)

		fluid := info.Fluid()
		for i, ei := range chain.edges {
			kind := DataPropagated
			if i == len(chain.edges)-1 {
				kind = DataInput
			}
			s.edges[ei] = &EdgeInfo{
				LiquidRate: info.LiquidRate,
				Watercut:   info.Watercut,
				Fluid:      fluid,
				Kind:       kind,
			}
		}
	}

	meters := make([]int, 0, len(s.meters))
	for v := range s.meters {
		meters = append(meters, v)
	}
	sort.Ints(meters)
	for _, v := range meters {
		m := s.meters[v]
		s.updateNode(v, m.Pressure(), m.Kind)
	}

	for _, chain := range s.chains {
		node := chain.meter
		p := s.nodes[node].Pressure
		for i := len(chain.edges) - 1; i >= 0; i-- {
			ei := chain.edges[i]
			prev, _ := s.net.Edges[ei].Next(node)
			p = s.calcEdge(ei, node, p, s.edges[ei], true, DataEstimated)
			node = prev
		}
	}
}

func (s *Impl) mergeLinePressure(chain wellChain) {
	m, ok := s.meters[chain.meter]
	if !ok {
		m = &MeterNodeInfo{}
		s.meters[chain.meter] = m
	}

	prev, mismatch := m.Merge(chain.info.LinePressure, chain.info.LiquidRate, s.opts.PressureTolerance)
	if mismatch {
		s.logger.Warn("well line pressure disagrees with meter node, averaging",
			logging.NodeIndex(chain.meter),
			logging.NodeID(s.net.Nodes[chain.meter].ID),
			logging.WellID(s.net.Nodes[chain.well].ID),
			logging.Pressure("line_pressure", chain.info.LinePressure),
			logging.Pressure("previous_average", prev),
			logging.Pressure("average", m.Pressure()))
	}
}

// traceWell walks from the well through nodes with a single way on until a
// meter or cluster node is reached. Every incident edge except the one just
// used counts as a way, so a junction shared with another well or branch ends
// the walk there. Opaque nodes and edges claimed by an earlier chain are
// never entered.
func (s *Impl) traceWell(well int) (wellChain, bool) {
	chain := wellChain{well: well, meter: -1}
	visited := map[int]bool{well: true}
	cur, prevEdge := well, -1
	branched := false

	for hop := 0; ; hop++ {
		if hop >= s.opts.MaxWellHops {
			s.logger.Warn("well chain exceeds hop limit, stopping",
				logging.WellID(s.net.Nodes[well].ID),
				logging.Int("hops", hop))
			break
		}

		next, nextEdge, ways := -1, -1, 0
		for _, ei := range s.incidence[cur] {
			if ei == prevEdge {
				continue
			}
			to, _ := s.net.Edges[ei].Next(cur)
			if visited[to] {
				continue
			}
			ways++
			next, nextEdge = to, ei
		}
		_, claimed := s.edges[nextEdge]
		if ways != 1 || claimed || !s.net.Nodes[next].IsTransparent() {
			if len(chain.edges) == 0 {
				s.logger.Warn("well has no unique outlet",
					logging.WellID(s.net.Nodes[well].ID),
					logging.Int("outlets", ways))
			}
			branched = ways > 1 || claimed
			break
		}

		chain.edges = append(chain.edges, nextEdge)
		chain.meter = next
		if s.net.Nodes[next].IsMeterOrClust() {
			return chain, true
		}
		visited[next] = true
		cur, prevEdge = next, nextEdge
	}

	if len(chain.edges) == 0 {
		return chain, false
	}
	if branched {
		s.logger.Debug("well chain stops at a junction",
			logging.WellID(s.net.Nodes[well].ID),
			logging.NodeID(s.net.Nodes[chain.meter].ID),
			logging.Int("hops", len(chain.edges)))
		return chain, true
	}
	s.logger.Warn("well chain ends before a meter node",
		logging.WellID(s.net.Nodes[well].ID),
		logging.NodeID(s.net.Nodes[chain.meter].ID),
		logging.Int("hops", len(chain.edges)))
	return chain, true
}

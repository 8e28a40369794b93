package partition

import (
	"github.com/dd0wney/cluso-pipenet/pkg/network"
)

// SubnetInfo summarizes one subnet
type SubnetInfo struct {
	ID        int
	Commodity network.Commodity
	Edges     int
	Nodes     int
	Wells     int
}

// PartitionMetrics contains partitioning quality metrics
type PartitionMetrics struct {
	Subnets      []SubnetInfo
	SkippedEdges int     // Edges with unresolved endpoints
	LargestShare float64 // Fraction of valid edges in the largest subnet (0-1)
}

// ComputePartitionMetrics describes a finished partitioning
func ComputePartitionMetrics(net *network.Network, subnets [][]int) *PartitionMetrics {
	m := &PartitionMetrics{
		Subnets: make([]SubnetInfo, 0, len(subnets)),
	}

	for i := range net.Edges {
		if !net.ValidEdge(i) {
			m.SkippedEdges++
		}
	}

	total, largest := 0, 0
	for id, edges := range subnets {
		info := SubnetInfo{ID: id, Edges: len(edges)}
		if len(edges) > 0 {
			info.Commodity = net.Edges[edges[0]].Commodity
		}
		nodes := net.SubnetNodes(edges)
		info.Nodes = len(nodes)
		for _, v := range nodes {
			if net.Nodes[v].Kind == network.KindWell {
				info.Wells++
			}
		}

		total += len(edges)
		if len(edges) > largest {
			largest = len(edges)
		}
		m.Subnets = append(m.Subnets, info)
	}

	if total > 0 {
		m.LargestShare = float64(largest) / float64(total)
	}
	return m
}

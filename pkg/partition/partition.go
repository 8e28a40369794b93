package partition

import (
	"iter"
	"sort"

	"github.com/dd0wney/cluso-pipenet/pkg/network"
)

// Partitioner splits a network into subnets: maximal groups of same-commodity
// edges connected through transparent nodes.
//
// A Partitioner is single-use. Every edge is handed out at most once across all
// calls to Subnets, which is what bounds the expansion.
type Partitioner struct {
	net  *network.Network
	adj  [][]int
	used []bool
	next int // First index that may still be unused
}

// New creates a partitioner over the network.
// Edges with an unresolved endpoint are marked used up front and never appear in a subnet.
func New(net *network.Network) *Partitioner {
	used := make([]bool, len(net.Edges))
	for i := range net.Edges {
		if !net.ValidEdge(i) {
			used[i] = true
		}
	}

	return &Partitioner{
		net:  net,
		adj:  net.Incidence(),
		used: used,
	}
}

// Subnets returns a lazy sequence of subnets, each a sorted slice of edge indices.
// With seeds, only subnets containing one of the seed edges are produced (in seed order);
// without seeds every remaining edge is covered.
func (p *Partitioner) Subnets(seeds ...int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		if len(seeds) > 0 {
			for _, seed := range seeds {
				if seed < 0 || seed >= len(p.used) || p.used[seed] {
					continue
				}
				if !yield(p.expand(seed)) {
					return
				}
			}
			return
		}

		for {
			seed := p.firstUnused()
			if seed < 0 {
				return
			}
			if !yield(p.expand(seed)) {
				return
			}
		}
	}
}

// All drains the partitioner and returns every remaining subnet
func (p *Partitioner) All() [][]int {
	subnets := make([][]int, 0)
	for s := range p.Subnets() {
		subnets = append(subnets, s)
	}
	return subnets
}

// firstUnused scans for the first edge not yet assigned, -1 when none is left
func (p *Partitioner) firstUnused() int {
	for ; p.next < len(p.used); p.next++ {
		if !p.used[p.next] {
			return p.next
		}
	}
	return -1
}

// expand grows a subnet breadth-first from the seed edge
func (p *Partitioner) expand(seed int) []int {
	commodity := p.net.Edges[seed].Commodity
	p.used[seed] = true

	subnet := []int{seed}
	frontier := []int{seed}

	for len(frontier) > 0 {
		// Transparent endpoints touched by the frontier, in discovery order
		touched := make([]int, 0, len(frontier)*2)
		seen := make(map[int]bool, len(frontier)*2)
		for _, ei := range frontier {
			e := p.net.Edges[ei]
			for _, v := range [2]int{e.NodeA, e.NodeB} {
				if seen[v] || !p.net.Nodes[v].IsTransparent() {
					continue
				}
				seen[v] = true
				touched = append(touched, v)
			}
		}

		next := make([]int, 0)
		for _, v := range touched {
			for _, ei := range p.adj[v] {
				if p.used[ei] || p.net.Edges[ei].Commodity != commodity {
					continue
				}
				p.used[ei] = true
				next = append(next, ei)
			}
		}

		subnet = append(subnet, next...)
		frontier = next
	}

	sort.Ints(subnet)
	return subnet
}

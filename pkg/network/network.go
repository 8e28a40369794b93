package network

import (
	"errors"
	"fmt"
	"sort"
)

// Common sentinel errors
var (
	ErrUnknownNodeKind  = errors.New("unknown node kind")
	ErrEndpointRange    = errors.New("edge endpoint out of range")
	ErrNonPositiveValue = errors.New("value must be positive")
)

// Network is the immutable edge and node table of a pipeline system
type Network struct {
	Edges []Edge
	Nodes []Node
}

// New creates a network over the given tables. The slices are not copied.
func New(edges []Edge, nodes []Node) *Network {
	return &Network{Edges: edges, Nodes: nodes}
}

// ValidEdge reports whether the edge at index i references two existing nodes
func (n *Network) ValidEdge(i int) bool {
	e := n.Edges[i]
	return e.Valid() && e.NodeA < len(n.Nodes) && e.NodeB < len(n.Nodes)
}

// Incidence builds the node -> incident edge index list over all valid edges
func (n *Network) Incidence() [][]int {
	adj := make([][]int, len(n.Nodes))
	for i, e := range n.Edges {
		if !n.ValidEdge(i) {
			continue
		}
		adj[e.NodeA] = append(adj[e.NodeA], i)
		if e.NodeB != e.NodeA {
			adj[e.NodeB] = append(adj[e.NodeB], i)
		}
	}
	return adj
}

// SubnetNodes returns the sorted, distinct node indices touched by the given edges
func (n *Network) SubnetNodes(edges []int) []int {
	seen := make(map[int]bool, len(edges)+1)
	nodes := make([]int, 0, len(edges)+1)
	for _, ei := range edges {
		if !n.ValidEdge(ei) {
			continue
		}
		e := n.Edges[ei]
		for _, v := range [2]int{e.NodeA, e.NodeB} {
			if !seen[v] {
				seen[v] = true
				nodes = append(nodes, v)
			}
		}
	}
	sort.Ints(nodes)
	return nodes
}

// Validate checks geometry of every edge. Unresolved endpoints (negative index)
// are allowed, they are skipped by the partitioner.
func (n *Network) Validate() error {
	var errs []error
	for i, e := range n.Edges {
		if e.NodeA >= len(n.Nodes) || e.NodeB >= len(n.Nodes) {
			errs = append(errs, fmt.Errorf("edge %d: %w (%d-%d of %d nodes)", i, ErrEndpointRange, e.NodeA, e.NodeB, len(n.Nodes)))
		}
		if !(e.Diameter > 0) {
			errs = append(errs, fmt.Errorf("edge %d: diameter: %w", i, ErrNonPositiveValue))
		}
	}
	return errors.Join(errs...)
}

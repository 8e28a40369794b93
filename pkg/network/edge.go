package network

import (
	"fmt"
	"math"
)

// MinLength is the floor applied to pipe lengths so that no edge is exactly zero long
const MinLength = 1e-6

// Commodity tags the physical network a pipe belongs to (oil gathering, water injection, ...)
type Commodity int

// Edge is a pipe segment between two nodes.
// NodeA and NodeB index into the node table; a negative index means the
// endpoint could not be resolved.
type Edge struct {
	NodeA     int
	NodeB     int
	Commodity Commodity
	Diameter  float64 // Inner diameter, mm
	Length    float64 // Meters, never below MinLength
}

// NewEdge creates an edge, flooring the length to MinLength
func NewEdge(a, b int, commodity Commodity, diameter, length float64) Edge {
	if !(length > MinLength) {
		length = MinLength
	}
	return Edge{
		NodeA:     a,
		NodeB:     b,
		Commodity: commodity,
		Diameter:  diameter,
		Length:    length,
	}
}

// Valid reports whether both endpoints reference a node
func (e Edge) Valid() bool {
	return e.NodeA >= 0 && e.NodeB >= 0
}

// Next returns the opposite endpoint when leaving the edge from the given node,
// and +1 when the traversal is A->B or -1 when it is B->A.
// Calling Next with a node that is not an endpoint is a data-model violation and panics.
func (e Edge) Next(from int) (to int, sign int) {
	switch from {
	case e.NodeA:
		return e.NodeB, 1
	case e.NodeB:
		return e.NodeA, -1
	}
	panic(fmt.Sprintf("network: node %d is not an endpoint of edge %d-%d", from, e.NodeA, e.NodeB))
}

// IsIdentical reports whether two edges are parallel duplicates: same endpoints,
// diameter and length
func (e Edge) IsIdentical(o Edge) bool {
	sameEnds := (e.NodeA == o.NodeA && e.NodeB == o.NodeB) || (e.NodeA == o.NodeB && e.NodeB == o.NodeA)
	return sameEnds && e.Diameter == o.Diameter && e.Length == o.Length
}

// GetAngleDeg returns the inclination of the edge from A to B in degrees.
// Returns 0 when either altitude is unknown.
func (e Edge) GetAngleDeg(nodes []Node) float64 {
	if !e.Valid() || e.NodeA >= len(nodes) || e.NodeB >= len(nodes) {
		return 0
	}
	a, b := nodes[e.NodeA], nodes[e.NodeB]
	if !a.HasAltitude() || !b.HasAltitude() {
		return 0
	}
	ratio := (b.Altitude - a.Altitude) / e.Length
	ratio = math.Max(-1, math.Min(1, ratio))
	return math.Asin(ratio) * 180 / math.Pi
}

package network

import (
	"fmt"
	"math"
	"strings"
)

// NodeKind classifies a network node
type NodeKind int

const (
	KindUnknown NodeKind = iota
	KindCluster
	KindWell
	KindPoint
	KindMeter
	KindInjFork
)

var kindNames = [...]string{
	KindUnknown: "unknown",
	KindCluster: "cluster",
	KindWell:    "well",
	KindPoint:   "point",
	KindMeter:   "meter",
	KindInjFork: "injfork",
}

// String returns the lower-case name of the kind
func (k NodeKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseNodeKind converts a kind name (case-insensitive) to a NodeKind
func ParseNodeKind(s string) (NodeKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return NodeKind(k), nil
		}
	}
	return KindUnknown, fmt.Errorf("%w: %q", ErrUnknownNodeKind, s)
}

// Node is a vertex of the pipeline network
type Node struct {
	Kind     NodeKind
	ID       string  // External identifier
	Altitude float64 // Meters above datum, NaN when unknown
}

// NewNode creates a node with unknown altitude
func NewNode(kind NodeKind, id string) Node {
	return Node{Kind: kind, ID: id, Altitude: math.NaN()}
}

// IsTransparent reports whether the node lets a subnet (and a flow path) pass through it.
// Wells and unknown nodes terminate both.
func (n Node) IsTransparent() bool {
	switch n.Kind {
	case KindCluster, KindPoint, KindMeter, KindInjFork:
		return true
	default:
		return false
	}
}

// IsMeterOrClust reports whether well production is measured and aggregated at this node
func (n Node) IsMeterOrClust() bool {
	return n.Kind == KindMeter || n.Kind == KindCluster
}

// HasAltitude reports whether the altitude is known
func (n Node) HasAltitude() bool {
	return !math.IsNaN(n.Altitude)
}

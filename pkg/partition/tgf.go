package partition

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/dd0wney/cluso-pipenet/pkg/network"
)

// Annotator supplies optional trailing text for TGF node and edge lines.
// Either function may be nil.
type Annotator struct {
	Node func(node int) string
	Edge func(edge int) string
}

// WriteTGF writes the nodes and edges of one subnet in Trivial Graph Format:
//
//	<index> <kind>:<label><extra>
//	#
//	<nodeA> <nodeB> d<diameter>/L<length><extra>
func WriteTGF(w io.Writer, net *network.Network, subnet []int, ann Annotator) error {
	bw := bufio.NewWriter(w)

	for _, v := range net.SubnetNodes(subnet) {
		node := net.Nodes[v]
		extra := ""
		if ann.Node != nil {
			extra = ann.Node(v)
		}
		if _, err := fmt.Fprintf(bw, "%d %d:%s%s\n", v, int(node.Kind), node.ID, extra); err != nil {
			return err
		}
	}

	if _, err := bw.WriteString("#\n"); err != nil {
		return err
	}

	for _, ei := range subnet {
		if !net.ValidEdge(ei) {
			continue
		}
		e := net.Edges[ei]
		extra := ""
		if ann.Edge != nil {
			extra = ann.Edge(ei)
		}
		if _, err := fmt.Fprintf(bw, "%d %d d%s/L%s%s\n", e.NodeA, e.NodeB, formatNum(e.Diameter), formatNum(e.Length), extra); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

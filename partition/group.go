// Package partition implements component I: arc-group discovery at
// partition crossings, thread-crossing FIFO insertion, delay absorption,
// FIFO initial-condition reshaping, and FIFO merging (spec §4.2-§4.4).
package partition

import (
	"github.com/sarchlab/dfcompile/graph"
	"github.com/sarchlab/dfcompile/ir"
)

// ArcGroup is the maximal set of arcs sharing a source output port,
// destination partition, destination base sub-blocking length,
// destination blocking-domain stack, and destination clock domain
// (spec §4.2): one thread-crossing FIFO or blocking-domain bridge serves
// the whole group.
type ArcGroup struct {
	SrcNode ir.NodeID
	SrcPort int

	DstPartition  int
	DstBaseSub    int
	DstBlockingID ir.NodeID
	DstClockID    ir.NodeID

	Arcs []ir.ArcID
}

// GroupKey is the grouping identity shared by every arc in an ArcGroup.
type GroupKey struct {
	SrcNode       ir.NodeID
	SrcPort       int
	DstPartition  int
	DstBaseSub    int
	DstBlockingID ir.NodeID
	DstClockID    ir.NodeID
}

// GroupArcsAtPartitionCrossings implements §4.2: it returns every
// arc-group keyed by (src partition, dst partition), restricted to arcs
// whose endpoints disagree on partition (a same-partition arc needs no
// FIFO).
func GroupArcsAtPartitionCrossings(g *graph.Graph) map[[2]int][]*ArcGroup {
	byKey := make(map[GroupKey]*ArcGroup)
	var order []GroupKey

	for _, a := range g.AllArcs() {
		srcNode, err := g.Node(a.SrcNode)
		if err != nil {
			continue
		}
		dstNode, err := g.Node(a.DstNode)
		if err != nil {
			continue
		}
		if srcNode.Partition() == dstNode.Partition() {
			continue
		}

		k := GroupKey{
			SrcNode:       a.SrcNode,
			SrcPort:       a.SrcPort,
			DstPartition:  dstNode.Partition(),
			DstBaseSub:    dstNode.BaseSubBlockingLength(),
			DstBlockingID: g.EnclosingOfKind(a.DstNode, ir.KindBlockingDomain),
			DstClockID:    g.EnclosingOfKind(a.DstNode, ir.KindClockDomain, ir.KindDownsampleClockDomain, ir.KindUpsampleClockDomain),
		}
		grp, ok := byKey[k]
		if !ok {
			grp = &ArcGroup{
				SrcNode: k.SrcNode, SrcPort: k.SrcPort,
				DstPartition: k.DstPartition, DstBaseSub: k.DstBaseSub,
				DstBlockingID: k.DstBlockingID, DstClockID: k.DstClockID,
			}
			byKey[k] = grp
			order = append(order, k)
		}
		grp.Arcs = append(grp.Arcs, a.ID)
	}

	out := make(map[[2]int][]*ArcGroup)
	for _, k := range order {
		grp := byKey[k]
		srcNode, _ := g.Node(grp.SrcNode)
		pair := [2]int{srcNode.Partition(), grp.DstPartition}
		out[pair] = append(out[pair], grp)
	}
	return out
}

package blocking

import (
	"fmt"

	"github.com/sarchlab/dfcompile/graph"
	"github.com/sarchlab/dfcompile/ir"
)

// ResolveBridges implements §4.8.7: after every blocking/global domain
// has been inserted, any arc whose source and destination disagree on
// base sub-blocking length must cross a sub-blocking-length boundary. A
// blocking-domain bridge is inserted in the source's partition,
// reconciling src_base_sub and dst_base_sub; arcs are grouped by (source
// port, destination partition, destination base sub length, destination
// blocking domain) so one bridge serves every arc sharing those four,
// following the FIFO grouping rule of §4.2 without its clock-domain term.
func ResolveBridges(g *graph.Graph) error {
	type key struct {
		srcNode, srcPort, dstPartition, dstSub, dstDomain int
	}
	groups := make(map[key][]ir.ArcID)
	subOf := make(map[ir.NodeID]int)

	for _, a := range g.AllArcs() {
		if isBoundaryOrBridge(g, a.SrcNode) || isBoundaryOrBridge(g, a.DstNode) {
			continue
		}
		srcSub, ok := nodeBaseSub(g, a.SrcNode, subOf)
		if !ok {
			continue
		}
		dstSub, ok := nodeBaseSub(g, a.DstNode, subOf)
		if !ok {
			continue
		}
		if srcSub == dstSub {
			continue
		}
		dstNode, err := g.Node(a.DstNode)
		if err != nil {
			continue
		}
		dstDomain := g.EnclosingOfKind(a.DstNode, ir.KindBlockingDomain)
		k := key{int(a.SrcNode), a.SrcPort, dstNode.Partition(), dstSub, int(dstDomain)}
		groups[k] = append(groups[k], a.ID)
	}

	for k, arcIDs := range groups {
		if err := insertBridge(g, ir.NodeID(k.srcNode), k.srcPort, arcIDs); err != nil {
			return err
		}
	}
	return nil
}

func isBoundaryOrBridge(g *graph.Graph, id ir.NodeID) bool {
	n, err := g.Node(id)
	if err != nil {
		return false
	}
	switch n.Kind() {
	case ir.KindBlockingInput, ir.KindBlockingOutput, ir.KindBlockingBridge:
		return true
	}
	return false
}

// nodeBaseSub resolves a node's effective base sub-blocking length for
// bridge-eligibility purposes: the sub_blocking_length of its nearest
// enclosing blocking domain, or its own BaseSubBlockingLength if it is
// not inside one.
func nodeBaseSub(g *graph.Graph, id ir.NodeID, cache map[ir.NodeID]int) (int, bool) {
	if v, ok := cache[id]; ok {
		return v, true
	}
	n, err := g.Node(id)
	if err != nil {
		return 0, false
	}
	sub := n.BaseSubBlockingLength()
	if sub <= 0 {
		sub = 1
	}
	if bdID := g.EnclosingOfKind(id, ir.KindBlockingDomain); bdID != ir.InvalidNodeID {
		if bd, err := g.Node(bdID); err == nil {
			sub = bd.(*ir.BlockingDomain).SubBlockingLength
		}
	}
	cache[id] = sub
	return sub, true
}

func insertBridge(g *graph.Graph, srcNodeID ir.NodeID, srcPort int, arcIDs []ir.ArcID) error {
	if len(arcIDs) == 0 {
		return nil
	}
	first, err := g.Arc(arcIDs[0])
	if err != nil {
		return err
	}
	srcSub, _ := nodeBaseSub(g, srcNodeID, map[ir.NodeID]int{})
	dstSub, _ := nodeBaseSub(g, first.DstNode, map[ir.NodeID]int{})

	srcNode, err := g.Node(srcNodeID)
	if err != nil {
		return err
	}

	bridge := ir.NewBlockingDomainBridge(fmt.Sprintf("bridge_%d_%d", srcNodeID, srcPort), srcSub, dstSub)
	bridge.SetParent(srcNode.Parent())
	bridge.SetPartition(srcNode.Partition())
	bridge.AddInput("in", first.Type.WithOuterDim(srcSub))
	bridge.AddOutput("out", first.Type.WithOuterDim(dstSub))

	ids, _, err := g.AddRemoveNodesAndArcs(graph.Mutation{AddNodes: []ir.Node{bridge}})
	if err != nil {
		return err
	}
	bridgeID := ids[0]

	feedArc := &ir.Arc{SrcNode: srcNodeID, SrcPort: srcPort, DstNode: bridgeID, DstPort: 0, Type: first.Type.WithOuterDim(srcSub)}
	_, _, err = g.AddRemoveNodesAndArcs(graph.Mutation{AddArcs: []*ir.Arc{feedArc}})
	if err != nil {
		return err
	}

	for _, arcID := range arcIDs {
		a, err := g.Arc(arcID)
		if err != nil {
			return err
		}
		if err := a.SetSrc(g, bridgeID, 0); err != nil {
			return err
		}
	}
	return nil
}

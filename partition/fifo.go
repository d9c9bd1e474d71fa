package partition

import (
	"fmt"

	"github.com/sarchlab/dfcompile/graph"
	"github.com/sarchlab/dfcompile/ir"
)

// InsertFIFOs implements §4.3: for each arc group, place a
// ThreadCrossingFIFO in the source's partition/context (one level out
// when the source is a rate-change output), wire one arc from the source
// to the FIFO, and rewire every arc in the group to originate at the
// FIFO's output.
func InsertFIFOs(g *graph.Graph, groups map[[2]int][]*ArcGroup, capacity int) ([]ir.NodeID, error) {
	var created []ir.NodeID
	for _, list := range groups {
		for _, grp := range list {
			id, err := insertFIFOForGroup(g, grp, capacity)
			if err != nil {
				return created, err
			}
			created = append(created, id)
		}
	}
	return created, nil
}

func insertFIFOForGroup(g *graph.Graph, grp *ArcGroup, capacity int) (ir.NodeID, error) {
	if len(grp.Arcs) == 0 {
		return ir.InvalidNodeID, fmt.Errorf("partition: empty arc group for node %d port %d", grp.SrcNode, grp.SrcPort)
	}

	first, err := g.Arc(grp.Arcs[0])
	if err != nil {
		return ir.InvalidNodeID, err
	}
	for _, arcID := range grp.Arcs[1:] {
		a, aerr := g.Arc(arcID)
		if aerr != nil {
			return ir.InvalidNodeID, aerr
		}
		if a.SrcNode != grp.SrcNode || a.SrcPort != grp.SrcPort {
			return ir.InvalidNodeID, fmt.Errorf("partition: arc source mismatch within group at node %d port %d", grp.SrcNode, grp.SrcPort)
		}
		dstNode, derr := g.Node(a.DstNode)
		if derr != nil {
			return ir.InvalidNodeID, derr
		}
		if dstNode.Partition() != grp.DstPartition {
			return ir.InvalidNodeID, fmt.Errorf("partition: destination partition mismatch within group at node %d port %d", grp.SrcNode, grp.SrcPort)
		}
	}

	srcNode, err := g.Node(grp.SrcNode)
	if err != nil {
		return ir.InvalidNodeID, err
	}

	parent := srcNode.Parent()
	if _, isRCOut := srcNode.(*ir.RateChangeOutput); isRCOut {
		if p, perr := g.Node(parent); perr == nil {
			parent = p.Parent()
		}
	}

	blockSize := first.Type.OuterDim()
	if blockSize <= 0 {
		blockSize = 1
	}
	fifoNode := ir.NewThreadCrossingFIFO(fmt.Sprintf("fifo_%d_%d", grp.SrcNode, grp.SrcPort), capacity, blockSize, nil)
	fifoNode.SrcPartition = srcNode.Partition()
	fifoNode.DstPartition = grp.DstPartition
	fifoNode.TargetClockDomain = grp.DstClockID
	fifoNode.SetParent(parent)
	fifoNode.SetPartition(srcNode.Partition())
	fifoNode.AddInput("in", first.Type)
	fifoNode.AddOutput("out", first.Type)

	ids, _, err := g.AddRemoveNodesAndArcs(graph.Mutation{AddNodes: []ir.Node{fifoNode}})
	if err != nil {
		return ir.InvalidNodeID, err
	}
	fifoID := ids[0]

	feedArc := &ir.Arc{SrcNode: grp.SrcNode, SrcPort: grp.SrcPort, DstNode: fifoID, DstPort: 0, Type: first.Type, SampleTime: first.SampleTime}
	if _, _, err := g.AddRemoveNodesAndArcs(graph.Mutation{AddArcs: []*ir.Arc{feedArc}}); err != nil {
		return ir.InvalidNodeID, err
	}

	for _, arcID := range grp.Arcs {
		a, aerr := g.Arc(arcID)
		if aerr != nil {
			return fifoID, aerr
		}
		if err := a.SetSrc(g, fifoID, 0); err != nil {
			return fifoID, err
		}
	}

	return fifoID, nil
}

package blocking

import (
	"fmt"

	"github.com/sarchlab/dfcompile/graph"
	"github.com/sarchlab/dfcompile/ir"
)

// MaterializeGroup implements §4.8.5: a singleton group is specialized
// directly via the node's own SpecializeForBlocking; a non-singleton
// group is wrapped in a freshly-created blocking domain
// (blocking_length=grp.SubBlock, sub_blocking_length=1) placed at the
// deepest common ancestor of its envelope, with a blocking-input or
// -output node inserted on every arc crossing the new domain's boundary.
func MaterializeGroup(g *graph.Graph, grp *Group) (domainID ir.NodeID, err error) {
	if len(grp.Nodes) == 1 {
		n, nerr := g.Node(grp.Nodes[0])
		if nerr != nil {
			return ir.InvalidNodeID, nerr
		}
		return ir.InvalidNodeID, n.SpecializeForBlocking(grp.SubBlock)
	}

	ancestor := g.CommonAncestor(grp.Envelope)

	domain := ir.NewBlockingDomain(fmt.Sprintf("blocking_%d", grp.Nodes[0]), grp.SubBlock, 1)
	domain.SetParent(ancestor)
	ids, _, err := g.AddRemoveNodesAndArcs(graph.Mutation{AddNodes: []ir.Node{domain}})
	if err != nil {
		return ir.InvalidNodeID, err
	}
	domainID = ids[0]

	inGroup := make(map[ir.NodeID]bool, len(grp.Nodes))
	for _, id := range grp.Nodes {
		inGroup[id] = true
	}

	dn, err := g.Node(domainID)
	if err != nil {
		return domainID, err
	}
	bd := dn.(*ir.BlockingDomain)

	for _, id := range grp.Envelope {
		n, nerr := g.Node(id)
		if nerr != nil {
			return domainID, nerr
		}
		n.SetParent(domainID)
		bd.AssignToSubContext(0, id)
	}

	if err := insertBoundaryNodes(g, grp.SubBlock, inGroup); err != nil {
		return domainID, err
	}

	return domainID, nil
}

// insertBoundaryNodes implements the boundary half of §4.8.5: every arc
// with exactly one endpoint inside the group gets a blocking-input
// (entering) or blocking-output (leaving) node spliced in, reshaping the
// outer dimension between subBlock (outside) and 1 (inside, since the
// new domain's sub_blocking_length is always 1 per §4.8.5).
func insertBoundaryNodes(g *graph.Graph, subBlock int, inGroup map[ir.NodeID]bool) error {
	var toAdd []ir.Node
	var toAddArcs []*ir.Arc
	var toRemoveArcs []ir.ArcID

	for _, a := range g.AllArcs() {
		srcIn, dstIn := inGroup[a.SrcNode], inGroup[a.DstNode]
		if srcIn == dstIn {
			continue
		}

		if dstIn {
			boundary := ir.NewBlockingInput(fmt.Sprintf("blk_in_%d", a.ID), subBlock, 1)
			boundary.AddInput("in", a.Type.WithOuterDim(subBlock))
			boundary.AddOutput("out", a.Type.WithOuterDim(1))
			toAdd = append(toAdd, boundary)
			toRemoveArcs = append(toRemoveArcs, a.ID)
			toAddArcs = append(toAddArcs,
				&ir.Arc{SrcNode: a.SrcNode, SrcPort: a.SrcPort, Type: a.Type.WithOuterDim(subBlock), SampleTime: a.SampleTime},
				&ir.Arc{DstNode: a.DstNode, DstPort: a.DstPort, Type: a.Type.WithOuterDim(1), SampleTime: a.SampleTime},
			)
			continue
		}

		boundary := ir.NewBlockingOutput(fmt.Sprintf("blk_out_%d", a.ID), 1, subBlock)
		boundary.AddInput("in", a.Type.WithOuterDim(1))
		boundary.AddOutput("out", a.Type.WithOuterDim(subBlock))
		toAdd = append(toAdd, boundary)
		toRemoveArcs = append(toRemoveArcs, a.ID)
		toAddArcs = append(toAddArcs,
			&ir.Arc{SrcNode: a.SrcNode, SrcPort: a.SrcPort, Type: a.Type.WithOuterDim(1), SampleTime: a.SampleTime},
			&ir.Arc{DstNode: a.DstNode, DstPort: a.DstPort, Type: a.Type.WithOuterDim(subBlock), SampleTime: a.SampleTime},
		)
	}

	if len(toAdd) == 0 {
		return nil
	}

	ids, _, err := g.AddRemoveNodesAndArcs(graph.Mutation{AddNodes: toAdd, RemoveArcs: toRemoveArcs})
	if err != nil {
		return err
	}

	// Wire each newly-added boundary node's in/out arcs: the two
	// half-arcs recorded above are completed once the boundary node has
	// an id (its input port is index 0, output port index 0).
	for i, id := range ids {
		in := toAddArcs[2*i]
		out := toAddArcs[2*i+1]
		in.DstNode, in.DstPort = id, 0
		out.SrcNode, out.SrcPort = id, 0
	}
	_, _, err = g.AddRemoveNodesAndArcs(graph.Mutation{AddArcs: toAddArcs})
	return err
}

// InsertGlobalBlockingDomain implements §4.8.6: partitions the remaining
// top-level nodes (those not already under a blocking domain) by base
// sub-blocking length and wraps each partition in a global blocking
// domain with blocking_length=baseBlockLength. Per boundary behavior B2,
// a baseBlockLength of 1 short-circuits entirely: no domains are
// inserted.
func InsertGlobalBlockingDomain(g *graph.Graph, baseBlockLength int) error {
	if baseBlockLength <= 1 {
		return nil
	}

	byBaseSub := make(map[int][]ir.NodeID)
	for _, id := range g.TopLevelNodes() {
		n, err := g.Node(id)
		if err != nil {
			continue
		}
		if isContextRootKind(n.Kind()) {
			continue // already its own blocking/clock domain
		}
		sub := n.BaseSubBlockingLength()
		if sub <= 0 {
			sub = 1
		}
		byBaseSub[sub] = append(byBaseSub[sub], id)
	}

	for sub, nodes := range byBaseSub {
		if len(nodes) == 0 {
			continue
		}
		domain := ir.NewBlockingDomain(fmt.Sprintf("global_blocking_sub%d", sub), baseBlockLength, sub)
		ids, _, err := g.AddRemoveNodesAndArcs(graph.Mutation{AddNodes: []ir.Node{domain}})
		if err != nil {
			return err
		}
		domainID := ids[0]
		dn, err := g.Node(domainID)
		if err != nil {
			return err
		}
		bd := dn.(*ir.BlockingDomain)

		inGroup := make(map[ir.NodeID]bool, len(nodes))
		for _, id := range nodes {
			inGroup[id] = true
		}
		for _, id := range nodes {
			n, nerr := g.Node(id)
			if nerr != nil {
				return nerr
			}
			n.SetParent(domainID)
			bd.AssignToSubContext(0, id)
		}

		if err := insertBoundaryNodes(g, baseBlockLength, inGroup); err != nil {
			return err
		}
	}
	return nil
}

func isContextRootKind(k ir.NodeKind) bool {
	switch k {
	case ir.KindBlockingDomain, ir.KindClockDomain, ir.KindDownsampleClockDomain, ir.KindUpsampleClockDomain:
		return true
	}
	return false
}

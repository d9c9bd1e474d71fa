package graph

import (
	"fmt"

	"github.com/sarchlab/dfcompile/ir"
)

// Graph is the arena that exclusively owns every node and arc (spec §3
// "Ownership & lifecycle": "The Graph exclusively owns all nodes and
// arcs"). Per DESIGN NOTES §9, it is implemented as a slice-backed arena
// keyed by small integer handles rather than a cyclic pointer graph with
// shared ownership: parent/context/rate-change references are all
// ir.NodeID handles, and removal is a tombstone (nil slot) rather than a
// traced collection.
type Graph struct {
	nodes []ir.Node // index == ir.NodeID; nil entries are tombstones
	arcs  []*ir.Arc // index == ir.ArcID; nil entries are tombstones

	topLevel []ir.NodeID
}

// NewGraph constructs an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// Node resolves a NodeID to its Node, or an error if it has been removed
// or never existed.
func (g *Graph) Node(id ir.NodeID) (ir.Node, error) {
	if id < 0 || int(id) >= len(g.nodes) || g.nodes[id] == nil {
		return nil, &ErrNodeNotFound{int32(id)}
	}
	return g.nodes[id], nil
}

// Arc resolves an ArcID.
func (g *Graph) Arc(id ir.ArcID) (*ir.Arc, error) {
	if id < 0 || int(id) >= len(g.arcs) || g.arcs[id] == nil {
		return nil, fmt.Errorf("graph: arc #%d not found", id)
	}
	return g.arcs[id], nil
}

// TopLevelNodes returns the ids of nodes with no parent.
func (g *Graph) TopLevelNodes() []ir.NodeID {
	out := make([]ir.NodeID, len(g.topLevel))
	copy(out, g.topLevel)
	return out
}

// AllNodes returns every live node id in arena order. Arena order is
// stable within one Graph's lifetime but is an implementation detail,
// not a schedule order — callers needing a deterministic emission order
// must use graph.TopologicalOrder.
func (g *Graph) AllNodes() []ir.NodeID {
	out := make([]ir.NodeID, 0, len(g.nodes))
	for i, n := range g.nodes {
		if n != nil {
			out = append(out, ir.NodeID(i))
		}
	}
	return out
}

// AllArcs returns every live arc in arena order.
func (g *Graph) AllArcs() []*ir.Arc {
	out := make([]*ir.Arc, 0, len(g.arcs))
	for _, a := range g.arcs {
		if a != nil {
			out = append(out, a)
		}
	}
	return out
}

// ResolvePort implements ir.PortResolver so ir.Arc.SetSrc/SetDst can be
// called directly against a Graph. The order-constraint kinds resolve to
// a node's single OrderConstraintIn/Out port (§4.10) rather than an
// indexed slice; index is ignored for them.
func (g *Graph) ResolvePort(nodeID ir.NodeID, kind ir.PortKind, index int) (*ir.Port, error) {
	n, err := g.Node(nodeID)
	if err != nil {
		return nil, err
	}

	switch kind {
	case ir.InputPort, ir.OutputPort:
		var ports []*ir.Port
		if kind == ir.InputPort {
			ports = n.InputPorts()
		} else {
			ports = n.OutputPorts()
		}
		if index < 0 || index >= len(ports) {
			return nil, &ErrPortNotFound{n.Name(), index}
		}
		return ports[index], nil
	case ir.OrderConstraintInputPort:
		if p := n.OrderConstraintIn(); p != nil {
			return p, nil
		}
		return nil, &ErrPortNotFound{n.Name(), index}
	case ir.OrderConstraintOutputPort:
		if p := n.OrderConstraintOut(); p != nil {
			return p, nil
		}
		return nil, &ErrPortNotFound{n.Name(), index}
	default:
		return nil, fmt.Errorf("graph: ResolvePort: unsupported kind %v", kind)
	}
}

// NewNodeID allocates a fresh arena slot for ctx.CloneChild and similar
// callers, implementing ir.CloneContext.
func (g *Graph) NewNodeID() ir.NodeID {
	g.nodes = append(g.nodes, nil)
	return ir.NodeID(len(g.nodes) - 1)
}

// Mutation is one batch of graph edits: nodes/arcs to add and remove.
// Every transformation pass builds one of these and commits it through
// AddRemoveNodesAndArcs (spec §4.1), so a failed pass never leaves the
// graph half-mutated (§5 "Compiler-side resource scope").
type Mutation struct {
	AddNodes    []ir.Node
	RemoveNodes []ir.NodeID
	AddArcs     []*ir.Arc
	RemoveArcs  []ir.ArcID
}

// AddRemoveNodesAndArcs commits one Mutation atomically: it assigns ids
// to added nodes/arcs, wires up parent/port state, and detaches removed
// nodes/arcs from every cached reference, failing fast with
// ErrReferentialIntegrity if a removal is impossible.
func (g *Graph) AddRemoveNodesAndArcs(m Mutation) (nodeIDs []ir.NodeID, arcIDs []ir.ArcID, err error) {
	if err := g.checkRemovalsAreSafe(m); err != nil {
		return nil, nil, err
	}

	for _, a := range m.RemoveArcs {
		if err := g.removeArc(a); err != nil {
			return nil, nil, err
		}
	}

	for _, id := range m.RemoveNodes {
		if err := g.removeNode(id); err != nil {
			return nil, nil, err
		}
	}

	for _, n := range m.AddNodes {
		id := g.addNode(n)
		nodeIDs = append(nodeIDs, id)
	}

	for _, a := range m.AddArcs {
		id := g.addArc(a)
		arcIDs = append(arcIDs, id)
	}

	return nodeIDs, arcIDs, nil
}

// checkRemovalsAreSafe implements §4.1's referential-integrity guard: a
// removal fails if any arc not also scheduled for removal still touches
// the node.
func (g *Graph) checkRemovalsAreSafe(m Mutation) error {
	removing := make(map[ir.NodeID]bool, len(m.RemoveNodes))
	for _, id := range m.RemoveNodes {
		removing[id] = true
	}
	removingArcs := make(map[ir.ArcID]bool, len(m.RemoveArcs))
	for _, id := range m.RemoveArcs {
		removingArcs[id] = true
	}

	for i, a := range g.arcs {
		if a == nil || removingArcs[ir.ArcID(i)] {
			continue
		}
		if removing[a.SrcNode] || removing[a.DstNode] {
			return &ErrReferentialIntegrity{
				Node:   fmt.Sprintf("#%d or #%d", a.SrcNode, a.DstNode),
				Reason: fmt.Sprintf("arc #%d still references a node scheduled for removal", a.ID),
			}
		}
	}
	return nil
}

// addNode assigns a fresh arena id to n (spec §4.1: "Nodes created by
// transformations are added through a single batch operation ... that
// assigns ids") and wires it into its parent's child list, if any.
func (g *Graph) addNode(n ir.Node) ir.NodeID {
	id := g.NewNodeID()
	n.SetID(id)
	g.nodes[id] = n

	if n.Parent() == ir.InvalidNodeID {
		g.topLevel = append(g.topLevel, id)
	} else if parent, err := g.Node(n.Parent()); err == nil {
		if s, ok := parent.(interface{ AddChild(ir.NodeID) }); ok {
			s.AddChild(id)
		}
	}

	return id
}

// addArc assigns a fresh id to a (whose SrcNode/SrcPort/DstNode/DstPort
// already name its final endpoints) and attaches it to both ports.
func (g *Graph) addArc(a *ir.Arc) ir.ArcID {
	id := ir.ArcID(len(g.arcs))
	a.ID = id
	g.arcs = append(g.arcs, a)

	srcKind, dstKind := ir.OutputPort, ir.InputPort
	if a.OrderOnly {
		srcKind, dstKind = ir.OrderConstraintOutputPort, ir.OrderConstraintInputPort
	}
	if p, err := g.ResolvePort(a.SrcNode, srcKind, a.SrcPort); err == nil {
		p.Attach(id)
	}
	if p, err := g.ResolvePort(a.DstNode, dstKind, a.DstPort); err == nil {
		p.Attach(id)
	}

	return id
}

func (g *Graph) removeNode(id ir.NodeID) error {
	n, err := g.Node(id)
	if err != nil {
		return err
	}

	if parent, perr := g.Node(n.Parent()); perr == nil {
		if r, ok := parent.(ir.ReferenceReleaser); ok {
			r.ReleaseReference(id)
		}
	} else {
		g.topLevel = removeID(g.topLevel, id)
	}

	for _, other := range g.nodes {
		if other == nil || other.ID() == id {
			continue
		}
		if r, ok := other.(ir.ReferenceReleaser); ok {
			r.ReleaseReference(id)
		}
	}

	g.nodes[id] = nil
	return nil
}

func (g *Graph) removeArc(id ir.ArcID) error {
	a, err := g.Arc(id)
	if err != nil {
		return err
	}

	srcKind, dstKind := ir.OutputPort, ir.InputPort
	if a.OrderOnly {
		srcKind, dstKind = ir.OrderConstraintOutputPort, ir.OrderConstraintInputPort
	}
	if p, perr := g.ResolvePort(a.SrcNode, srcKind, a.SrcPort); perr == nil {
		p.Detach(id)
	}
	if p, perr := g.ResolvePort(a.DstNode, dstKind, a.DstPort); perr == nil {
		p.Detach(id)
	}

	g.arcs[id] = nil
	return nil
}

func removeID(list []ir.NodeID, id ir.NodeID) []ir.NodeID {
	out := list[:0]
	for _, n := range list {
		if n != id {
			out = append(out, n)
		}
	}
	return out
}

package graph

import "github.com/sarchlab/dfcompile/ir"

// CopyMaps is the pair of bijective orig<->copy maps CopyGraph returns
// alongside the new graph, per spec §4.1 "copyGraph produces a
// structurally equivalent independent graph along with two bijective
// maps (orig<->copy) for both nodes and arcs".
type CopyMaps struct {
	NodeOrigToCopy map[ir.NodeID]ir.NodeID
	NodeCopyToOrig map[ir.NodeID]ir.NodeID
	ArcOrigToCopy  map[ir.ArcID]ir.ArcID
	ArcCopyToOrig  map[ir.ArcID]ir.ArcID
}

// CloneChild clones orig within g itself, satisfying ir.CloneContext so
// a bare *Graph can be passed directly to Node.ShallowCloneWithChildren
// (context.ReplicateDriver's single-node same-graph clone, as opposed to
// CopyGraph's whole-arena cross-graph clone via cloneCtx below). The
// clone is left parentless; callers that need it wired into the
// hierarchy add it through a Mutation afterward, which assigns its real
// id parentage via addNode.
func (g *Graph) CloneChild(orig ir.NodeID) (ir.NodeID, error) {
	n, err := g.Node(orig)
	if err != nil {
		return ir.InvalidNodeID, err
	}
	clone, err := n.ShallowCloneWithChildren(g)
	if err != nil {
		return ir.InvalidNodeID, err
	}
	id := g.NewNodeID()
	clone.SetID(id)
	clone.SetParent(ir.InvalidNodeID)
	g.nodes[id] = clone
	return id, nil
}

// cloneCtx adapts a destination Graph into an ir.CloneContext, resolving
// child clones lazily through a visited-id cache so a subsystem cloning
// its children doesn't re-clone a node CopyGraph's own top-level walk
// already cloned.
type cloneCtx struct {
	dst     *Graph
	visited map[ir.NodeID]ir.NodeID
	src     *Graph
}

func (c *cloneCtx) NewNodeID() ir.NodeID { return c.dst.NewNodeID() }

func (c *cloneCtx) ResolvePort(node ir.NodeID, kind ir.PortKind, index int) (*ir.Port, error) {
	return c.dst.ResolvePort(node, kind, index)
}

func (c *cloneCtx) CloneChild(orig ir.NodeID) (ir.NodeID, error) {
	if id, ok := c.visited[orig]; ok {
		return id, nil
	}
	n, err := c.src.Node(orig)
	if err != nil {
		return ir.InvalidNodeID, err
	}
	clone, err := n.ShallowCloneWithChildren(c)
	if err != nil {
		return ir.InvalidNodeID, err
	}
	id := c.dst.NewNodeID()
	clone.SetID(id)
	clone.SetParent(ir.InvalidNodeID) // fixed up by the caller once known
	c.dst.nodes[id] = clone
	c.visited[orig] = id
	return id, nil
}

// CopyGraph produces a structurally equivalent independent graph (spec
// §4.1): every live node is cloned via ShallowCloneWithChildren (which
// drives hierarchical copying for container variants), parent links and
// port numbering are preserved, and every live arc is re-created between
// the corresponding clones. Returns the new graph plus the bijective
// orig<->copy maps for both nodes and arcs.
func CopyGraph(src *Graph) (*Graph, *CopyMaps, error) {
	dst := NewGraph()
	ctx := &cloneCtx{dst: dst, visited: make(map[ir.NodeID]ir.NodeID), src: src}

	maps := &CopyMaps{
		NodeOrigToCopy: make(map[ir.NodeID]ir.NodeID),
		NodeCopyToOrig: make(map[ir.NodeID]ir.NodeID),
		ArcOrigToCopy:  make(map[ir.ArcID]ir.ArcID),
		ArcCopyToOrig:  make(map[ir.ArcID]ir.ArcID),
	}

	// Clone every live node (container variants recursively clone their
	// children through ctx.CloneChild), then fix up parent links using
	// the original's parent chain now that every id has a copy.
	for _, id := range src.AllNodes() {
		if _, done := ctx.visited[id]; done {
			continue
		}
		if _, err := ctx.CloneChild(id); err != nil {
			return nil, nil, err
		}
	}

	for orig, copy := range ctx.visited {
		maps.NodeOrigToCopy[orig] = copy
		maps.NodeCopyToOrig[copy] = orig

		origNode, err := src.Node(orig)
		if err != nil {
			return nil, nil, err
		}
		copyNode, err := dst.Node(copy)
		if err != nil {
			return nil, nil, err
		}

		if origNode.Parent() == ir.InvalidNodeID {
			copyNode.SetParent(ir.InvalidNodeID)
			dst.topLevel = append(dst.topLevel, copy)
		} else {
			copyNode.SetParent(ctx.visited[origNode.Parent()])
		}
	}

	for _, a := range src.AllArcs() {
		newArc := &ir.Arc{
			SrcNode:    ctx.visited[a.SrcNode],
			SrcPort:    a.SrcPort,
			DstNode:    ctx.visited[a.DstNode],
			DstPort:    a.DstPort,
			Type:       a.Type,
			SampleTime: a.SampleTime,
			OrderOnly:  a.OrderOnly,
		}
		newID := dst.addArc(newArc)
		maps.ArcOrigToCopy[a.ID] = newID
		maps.ArcCopyToOrig[newID] = a.ID
	}

	return dst, maps, nil
}

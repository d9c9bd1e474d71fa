package graph

import "github.com/sarchlab/dfcompile/ir"

// Parent returns n's parent id, or ir.InvalidNodeID if n has none or does
// not exist.
func (g *Graph) Parent(id ir.NodeID) ir.NodeID {
	n, err := g.Node(id)
	if err != nil {
		return ir.InvalidNodeID
	}
	return n.Parent()
}

// Ancestors returns id's parent chain, nearest first, not including id
// itself.
func (g *Graph) Ancestors(id ir.NodeID) []ir.NodeID {
	var out []ir.NodeID
	for cur := g.Parent(id); cur != ir.InvalidNodeID; cur = g.Parent(cur) {
		out = append(out, cur)
	}
	return out
}

// IsDescendant reports whether id is a, possibly indirect, child of
// ancestor.
func (g *Graph) IsDescendant(id, ancestor ir.NodeID) bool {
	for cur := g.Parent(id); cur != ir.InvalidNodeID; cur = g.Parent(cur) {
		if cur == ancestor {
			return true
		}
	}
	return false
}

// Children returns the direct child ids of a Subsystem-or-derived node,
// or nil if id does not name a container. For a context root these are
// the members of its sub-context lists, not its Children field.
func (g *Graph) Children(id ir.NodeID) []ir.NodeID {
	n, err := g.Node(id)
	if err != nil {
		return nil
	}
	if c, ok := n.(interface{ ChildList() []ir.NodeID }); ok {
		return c.ChildList()
	}
	// Subsystem exposes Children as a plain field, not a method; a
	// context root (anything with SubContextCount) is answered from its
	// sub-context lists instead.
	switch v := n.(type) {
	case *ir.Subsystem:
		return v.Children
	case interface{ SubContextCount() int }:
		return childrenOfContextRoot(v)
	}
	return nil
}

func childrenOfContextRoot(v interface{ SubContextCount() int }) []ir.NodeID {
	type subContextNodes interface {
		SubContextCount() int
		SubContextNodes(int) []ir.NodeID
	}
	sc, ok := v.(subContextNodes)
	if !ok {
		return nil
	}
	var out []ir.NodeID
	for i := 0; i < sc.SubContextCount(); i++ {
		out = append(out, sc.SubContextNodes(i)...)
	}
	return out
}

// Descendants returns every node transitively reachable from id's child
// list, in pre-order.
func (g *Graph) Descendants(id ir.NodeID) []ir.NodeID {
	var out []ir.NodeID
	var walk func(ir.NodeID)
	walk = func(cur ir.NodeID) {
		for _, child := range g.Children(cur) {
			out = append(out, child)
			walk(child)
		}
	}
	walk(id)
	return out
}

// DescendantsOfKind filters Descendants by node kind, the query used by
// both clock-domain discovery (§4.5) and blocking-group discovery (§4.8)
// to find "every rate-change/boundary node structurally under this
// domain".
func (g *Graph) DescendantsOfKind(id ir.NodeID, kind ir.NodeKind) []ir.NodeID {
	var out []ir.NodeID
	for _, d := range g.Descendants(id) {
		if n, err := g.Node(d); err == nil && n.Kind() == kind {
			out = append(out, d)
		}
	}
	return out
}

// EnclosingOfKind walks up id's ancestor chain and returns the nearest
// ancestor whose Kind() is one of kinds, or ir.InvalidNodeID if none
// exists. Used to find "the containing clock domain" or "the containing
// blocking domain" for a node (invariants iii, iv, v, vi).
func (g *Graph) EnclosingOfKind(id ir.NodeID, kinds ...ir.NodeKind) ir.NodeID {
	want := make(map[ir.NodeKind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}
	for cur := g.Parent(id); cur != ir.InvalidNodeID; cur = g.Parent(cur) {
		if n, err := g.Node(cur); err == nil && want[n.Kind()] {
			return cur
		}
	}
	return ir.InvalidNodeID
}

// CommonAncestor returns the deepest (most specific) subsystem that is an
// ancestor-or-self of every id in ids, or ir.InvalidNodeID if ids is
// empty or they share no common ancestor. Used by the blocking pass
// (§4.8.5) to find where a new sub-blocking domain must be created.
func (g *Graph) CommonAncestor(ids []ir.NodeID) ir.NodeID {
	if len(ids) == 0 {
		return ir.InvalidNodeID
	}
	acc := ids[0]
	for _, id := range ids[1:] {
		acc = g.lowestCommonAncestor(acc, id)
		if acc == ir.InvalidNodeID {
			return ir.InvalidNodeID
		}
	}
	return acc
}

func (g *Graph) lowestCommonAncestor(a, b ir.NodeID) ir.NodeID {
	chain := map[ir.NodeID]bool{a: true}
	for cur := g.Parent(a); cur != ir.InvalidNodeID; cur = g.Parent(cur) {
		chain[cur] = true
	}
	for cur := b; cur != ir.InvalidNodeID; cur = g.Parent(cur) {
		if chain[cur] {
			return cur
		}
	}
	return ir.InvalidNodeID
}

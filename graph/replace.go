package graph

import "github.com/sarchlab/dfcompile/ir"

// ReplaceNode swaps the node at id for replacement, preserving id and
// re-parenting replacement identically to the node it supersedes. Used
// by clockdomain.Specialize (a generic ClockDomain becomes a
// Downsample/UpsampleClockDomain in place) and by blocking's
// node-variant specialization (§4.5 specialize, §4.8.5
// specializeForBlocking): both need to swap a node's concrete Go type
// while every arc, port, and cached reference elsewhere in the arena
// keeps pointing at the same id.
func (g *Graph) ReplaceNode(id ir.NodeID, replacement ir.Node) error {
	if _, err := g.Node(id); err != nil {
		return err
	}
	replacement.SetID(id)
	g.nodes[id] = replacement
	return nil
}

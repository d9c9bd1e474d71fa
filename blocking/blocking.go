// Package blocking implements component G: discovery of blocking groups
// via strongly-connected-component analysis combined with
// context-hierarchy rules, insertion of global and sub-blocking domains,
// blocking input/output boundary nodes, and blocking-domain bridges
// (spec §4.8).
package blocking

import (
	"fmt"

	"github.com/sarchlab/dfcompile/clockdomain"
	"github.com/sarchlab/dfcompile/graph"
	"github.com/sarchlab/dfcompile/ir"
)

// ErrMixedSubBlockLength is returned when a merged blocking group would
// need more than one base sub-blocking length, the restriction spec §4.8
// explicitly preserves ("future work: split clock domains by sub-block
// length") rather than resolving (spec.md "Ambiguities / open
// questions").
var ErrMixedSubBlockLength = fmt.Errorf("blocking: group spans multiple base sub-blocking lengths")

// EffectiveSubBlock computes a node's effective sub-block length (§4.8.1):
// base_sub × up / down for its containing clock domain's rate relative
// to base. A node with no enclosing clock domain has rate (1,1), so its
// effective sub-block equals its own base sub-blocking length.
func EffectiveSubBlock(g *graph.Graph, nodeID ir.NodeID) (int, error) {
	n, err := g.Node(nodeID)
	if err != nil {
		return 0, err
	}
	baseSub := n.BaseSubBlockingLength()
	if baseSub <= 0 {
		baseSub = 1
	}

	cdID := g.EnclosingOfKind(nodeID, ir.KindClockDomain, ir.KindDownsampleClockDomain, ir.KindUpsampleClockDomain)
	if cdID == ir.InvalidNodeID {
		return baseSub, nil
	}

	up, down, err := clockdomain.RateRelativeToBase(g, cdID)
	if err != nil {
		return 0, err
	}
	eff, ok := clockdomain.EffectiveSubBlock(baseSub, up, down)
	if !ok {
		return 0, fmt.Errorf("blocking: node %s: %w", qualifiedName(g, nodeID), clockdomain.ErrIndivisibleRate)
	}
	return eff, nil
}

// Group is a blocking group discovered by §4.8.2-§4.8.4: the SCC-seeded
// node set that must share one blocking regime, plus its envelope (the
// subset whose parent must be re-parented under the new blocking
// domain).
type Group struct {
	Nodes    []ir.NodeID
	Envelope []ir.NodeID
	SubBlock int
}

func (grp *Group) has(id ir.NodeID) bool {
	for _, n := range grp.Nodes {
		if n == id {
			return true
		}
	}
	return false
}

// DiscoverGroups implements §4.8.2-§4.8.4 over scope (typically a
// context root's direct descendants or the design's top level). Per
// DESIGN.md, SCC discovery runs directly against the live graph with a
// filtered edge function rather than against a physically disconnected
// clone: excluding a delay's output edge from the relation it is scanned
// over is observationally identical to disconnecting it on a throwaway
// copy, since the computation never mutates the graph it walks.
func DiscoverGroups(g *graph.Graph, scope []ir.NodeID) ([]*Group, error) {
	effBlock := make(map[ir.NodeID]int, len(scope))
	for _, id := range scope {
		eff, err := EffectiveSubBlock(g, id)
		if err != nil {
			return nil, err
		}
		effBlock[id] = eff
	}

	finder := graph.NewSCCFinder(g, scope).WithEdgeFilter(func(src, dst ir.NodeID) bool {
		n, err := g.Node(src)
		if err != nil {
			return true
		}
		return !n.CanBreakBlockingDependency(effBlock[src])
	})

	sccs := finder.StronglyConnectedComponents(scope)

	groups := make([]*Group, 0, len(sccs))
	for _, comp := range sccs {
		sub, err := uniformSubBlock(comp, effBlock)
		if err != nil {
			return nil, err
		}
		groups = append(groups, &Group{
			Nodes:    comp,
			Envelope: append([]ir.NodeID(nil), comp...),
			SubBlock: sub,
		})
	}
	return absorbLoneConstants(g, groups)
}

func uniformSubBlock(nodes []ir.NodeID, effBlock map[ir.NodeID]int) (int, error) {
	sub := -1
	for _, id := range nodes {
		if sub == -1 {
			sub = effBlock[id]
			continue
		}
		if sub != effBlock[id] {
			return 0, ErrMixedSubBlockLength
		}
	}
	return sub, nil
}

// absorbLoneConstants implements §4.8.4: a constant-producing singleton
// group is merged into its unique destination group when every arc from
// it leads to the same eligible destination group, or left as its own
// singleton group otherwise (the clone-per-destination variant is left
// to a later pass pre-pass, since it requires rewriting arcs, which
// DiscoverGroups's read-only contract does not do).
func absorbLoneConstants(g *graph.Graph, groups []*Group) ([]*Group, error) {
	groupOf := make(map[ir.NodeID]int, len(groups)*2)
	for i, grp := range groups {
		for _, id := range grp.Nodes {
			groupOf[id] = i
		}
	}

	for i, grp := range groups {
		if len(grp.Nodes) != 1 {
			continue
		}
		id := grp.Nodes[0]
		n, err := g.Node(id)
		if err != nil {
			return nil, err
		}
		if !isConstant(n) {
			continue
		}

		dest := -1
		consistent := true
		for _, p := range n.OutputPorts() {
			for _, arcID := range p.Arcs() {
				a, aerr := g.Arc(arcID)
				if aerr != nil {
					continue
				}
				gi, ok := groupOf[a.DstNode]
				if !ok {
					continue
				}
				if dest == -1 {
					dest = gi
				} else if dest != gi {
					consistent = false
				}
			}
		}
		if dest == -1 || !consistent || dest == i {
			continue
		}
		groups[dest].Nodes = append(groups[dest].Nodes, id)
		groups[dest].Envelope = append(groups[dest].Envelope, id)
		groups[i] = nil
	}

	out := groups[:0]
	for _, grp := range groups {
		if grp != nil {
			out = append(out, grp)
		}
	}
	return out, nil
}

func isConstant(n ir.Node) bool {
	p, ok := n.(*ir.Primitive)
	return ok && p.Operator == "Constant"
}

func qualifiedName(g *graph.Graph, id ir.NodeID) string {
	n, err := g.Node(id)
	if err != nil {
		return fmt.Sprintf("#%d", id)
	}
	return n.Name()
}

// MergeIntoRoot implements the context-hierarchy half of §4.8.3: when a
// context root requires encapsulation (RequiresEncapsulation),
// merge the blocking groups of all its descendants into one group owned
// by the root, shrink the envelope to the root alone, and fold in driver
// replication bookkeeping when the root replicates a driver.
func MergeIntoRoot(g *graph.Graph, rootID ir.NodeID, groups []*Group) (*Group, error) {
	root, err := g.Node(rootID)
	if err != nil {
		return nil, err
	}

	descendants := make(map[ir.NodeID]bool)
	for _, d := range g.Descendants(rootID) {
		descendants[d] = true
	}

	merged := &Group{}
	for _, grp := range groups {
		touches := false
		for _, id := range grp.Nodes {
			if descendants[id] {
				touches = true
				break
			}
		}
		if !touches {
			continue
		}
		merged.Nodes = append(merged.Nodes, grp.Nodes...)
		if merged.SubBlock == 0 {
			merged.SubBlock = grp.SubBlock
		} else if grp.SubBlock != 0 && merged.SubBlock != grp.SubBlock {
			return nil, fmt.Errorf("blocking: context root %s: %w", root.Name(), ErrMixedSubBlockLength)
		}
		for _, id := range grp.Envelope {
			if !descendants[id] {
				merged.Envelope = append(merged.Envelope, id)
			}
		}
	}
	merged.Nodes = append(merged.Nodes, rootID)
	merged.Envelope = []ir.NodeID{rootID}

	if dh, ok := root.(driverHolder); ok && dh.DriverSourceID() != ir.InvalidNodeID {
		merged.Nodes = append(merged.Nodes, dh.DriverSourceID())
		for _, id := range dh.ReplicatedDriverIDs() {
			merged.Nodes = append(merged.Nodes, id)
		}
		for _, id := range dh.DummyReplicaIDs() {
			merged.Nodes = append(merged.Nodes, id)
		}
	}

	return merged, nil
}

type driverHolder interface {
	DriverSourceID() ir.NodeID
	ReplicatedDriverIDs() map[int]ir.NodeID
	DummyReplicaIDs() map[int]ir.NodeID
}

// RequiresEncapsulation reports whether a context root must have its
// descendants' blocking groups merged into one group owned by the root
// itself (§4.8.3): true for every non-clock-domain context root, and for
// a clock domain whose rate is incompatible with baseSub or whose
// contained SCCs reach outside the domain.
func RequiresEncapsulation(g *graph.Graph, rootID ir.NodeID, baseSub int, groups []*Group) (bool, error) {
	n, err := g.Node(rootID)
	if err != nil {
		return false, err
	}

	cdID, isClockDomain := asClockDomainID(n)
	if !isClockDomain {
		return true, nil
	}

	up, down, err := clockdomain.RateRelativeToBase(g, cdID)
	if err != nil {
		return false, err
	}
	if _, ok := clockdomain.EffectiveSubBlock(baseSub, up, down); !ok {
		return true, nil
	}

	descendants := make(map[ir.NodeID]bool)
	for _, d := range g.Descendants(rootID) {
		descendants[d] = true
	}
	for _, grp := range groups {
		touchesInside, touchesOutside := false, false
		for _, id := range grp.Nodes {
			if descendants[id] {
				touchesInside = true
			} else {
				touchesOutside = true
			}
		}
		if touchesInside && touchesOutside {
			return true, nil
		}
	}
	return false, nil
}

func asClockDomainID(n ir.Node) (ir.NodeID, bool) {
	switch n.Kind() {
	case ir.KindClockDomain, ir.KindDownsampleClockDomain, ir.KindUpsampleClockDomain:
		return n.ID(), true
	}
	return ir.InvalidNodeID, false
}

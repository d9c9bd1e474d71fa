package blocking

import (
	"sort"

	"github.com/sarchlab/dfcompile/clockdomain"
	"github.com/sarchlab/dfcompile/context"
	"github.com/sarchlab/dfcompile/graph"
	"github.com/sarchlab/dfcompile/ir"
)

// Config carries the pass-global parameters named throughout §4.8.
type Config struct {
	BaseBlockLength int
}

// contextRoot mirrors package context's unexported capability interface;
// blocking needs the same structural check (does this node own
// sub-contexts) without importing context's internals.
type contextRoot interface {
	ir.Node
	SubContextCount() int
}

// Run performs the full blocking-domain insertion pass (§4.8) end to end:
// group discovery, bottom-up context-root merging, group materialization,
// global-domain wrapping, deferred bridge resolution, and context
// rediscovery (§4.8.8). Per boundary behavior B2, BaseBlockLength==1
// short-circuits entirely.
func Run(g *graph.Graph, cfg Config) error {
	if cfg.BaseBlockLength <= 1 {
		return nil
	}

	scope := g.AllNodes()
	groups, err := DiscoverGroups(g, scope)
	if err != nil {
		return err
	}

	roots := contextRootsDeepestFirst(g)
	for _, rootID := range roots {
		n, _ := g.Node(rootID)
		base := n.BaseSubBlockingLength()
		if base <= 0 {
			base = 1
		}
		needs, err := RequiresEncapsulation(g, rootID, base, groups)
		if err != nil {
			return err
		}
		if !needs {
			if cdID, ok := asClockDomainID(n); ok {
				if err := markVectorSampling(g, cdID, groups); err != nil {
					return err
				}
			}
			continue
		}

		merged, err := MergeIntoRoot(g, rootID, groups)
		if err != nil {
			return err
		}
		groups = replaceTouchedGroups(groups, rootID, g, merged)
	}

	for _, grp := range groups {
		if _, err := MaterializeGroup(g, grp); err != nil {
			return err
		}
	}

	if err := InsertGlobalBlockingDomain(g, cfg.BaseBlockLength); err != nil {
		return err
	}

	if err := ResolveBridges(g); err != nil {
		return err
	}

	return context.DiscoverAndMarkContexts(g, g.TopLevelNodes())
}

// contextRootsDeepestFirst returns every context-root node, ordered so
// the deepest (most nested) roots are visited first, matching §4.8.3's
// bottom-up context-hierarchy traversal.
func contextRootsDeepestFirst(g *graph.Graph) []ir.NodeID {
	var roots []ir.NodeID
	for _, id := range g.AllNodes() {
		n, err := g.Node(id)
		if err != nil {
			continue
		}
		if _, ok := n.(contextRoot); ok {
			roots = append(roots, id)
		}
	}
	sort.Slice(roots, func(i, j int) bool {
		return len(g.Ancestors(roots[i])) > len(g.Ancestors(roots[j]))
	})
	return roots
}

// replaceTouchedGroups removes every group MergeIntoRoot folded into
// merged (identified by overlap with rootID's descendant set) and
// appends merged in their place.
func replaceTouchedGroups(groups []*Group, rootID ir.NodeID, g *graph.Graph, merged *Group) []*Group {
	descendants := make(map[ir.NodeID]bool)
	for _, d := range g.Descendants(rootID) {
		descendants[d] = true
	}
	out := groups[:0]
	for _, grp := range groups {
		touches := false
		for _, id := range grp.Nodes {
			if descendants[id] {
				touches = true
				break
			}
		}
		if !touches {
			out = append(out, grp)
		}
	}
	return append(out, merged)
}

// markVectorSampling sets the vector-sampling flag on a compatible clock
// domain whose contained SCCs stay entirely inside it (§4.8.3 "mark it
// for vector-sampling mode"). The clockdomain package performs the
// actual flag propagation and support-node teardown. Eligibility is
// decided by the caller through RequiresEncapsulation; groups is not
// consulted here.
func markVectorSampling(g *graph.Graph, domainID ir.NodeID, groups []*Group) error {
	return clockdomain.SetVectorSamplingMode(g, domainID, true)
}

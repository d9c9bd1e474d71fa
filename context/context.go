// Package context implements component H: context discovery (pushing
// context-root frames onto every descendant's context stack) and
// context-driver replication for multi-partition drivers (spec §4.7).
package context

import (
	"fmt"

	"github.com/sarchlab/dfcompile/graph"
	"github.com/sarchlab/dfcompile/ir"
)

// contextRoot is the capability every context-root variant (ClockDomain,
// BlockingDomain, and their specializations) satisfies.
type contextRoot interface {
	ir.Node
	SubContextCount() int
	SubContextNodes(int) []ir.NodeID
}

func asContextRoot(n ir.Node) (contextRoot, bool) {
	cr, ok := n.(contextRoot)
	return cr, ok
}

// DiscoverAndMarkContexts visits every node under root hierarchically;
// on encountering a context root it descends only into the nodes listed
// in the root's SubContextNodes lists, pushing the root's frame (with
// the index of the list that holds the node) onto each of their stacks.
// A child of a context root that appears in none of those lists is not
// visited, so its context stack is neither set nor cleared. Every
// visited node's context stack is replaced rather than appended to, so
// re-running it (§4.8.8, idempotence property R3) always starts from a
// clean slate for those nodes.
func DiscoverAndMarkContexts(g *graph.Graph, roots []ir.NodeID) error {
	for _, r := range roots {
		if err := discover(g, r, nil); err != nil {
			return err
		}
	}
	return nil
}

func discover(g *graph.Graph, id ir.NodeID, stack []ir.ContextFrame) error {
	n, err := g.Node(id)
	if err != nil {
		return err
	}
	n.SetContextStack(append([]ir.ContextFrame(nil), stack...))

	childStack := stack
	if cr, ok := asContextRoot(n); ok {
		for sc := 0; sc < cr.SubContextCount(); sc++ {
			frame := ir.ContextFrame{Root: id, SubContext: sc}
			subStack := append(append([]ir.ContextFrame(nil), stack...), frame)
			for _, child := range cr.SubContextNodes(sc) {
				if err := discover(g, child, subStack); err != nil {
					return err
				}
			}
		}
		return nil
	}

	for _, child := range g.Children(id) {
		if err := discover(g, child, childStack); err != nil {
			return err
		}
	}
	return nil
}

// ReplicateDriver implements context-driver replication (spec §4.7): for
// a context root whose driver must feed multiple partitions, it creates
// a per-partition copy of the driver source plus a dummy replica of the
// context root, so each partition's emission sees a local driver rather
// than crossing a partition boundary to read one shared node.
func ReplicateDriver(g *graph.Graph, rootID ir.NodeID, partitions []int) error {
	n, err := g.Node(rootID)
	if err != nil {
		return err
	}
	cd, ok := n.(driverHolder)
	if !ok {
		return fmt.Errorf("context: node %s does not replicate a driver", n.Name())
	}

	src, serr := g.Node(cd.DriverSourceID())
	if serr != nil {
		return serr
	}

	var add []ir.Node
	for _, part := range partitionsWithoutExisting(cd, partitions) {
		clone, cerr := src.ShallowCloneWithChildren(g)
		if cerr != nil {
			return cerr
		}
		clone.SetParent(src.Parent())
		clone.SetPartition(part)
		add = append(add, clone)

		dummy, derr := n.ShallowCloneWithChildren(g)
		if derr != nil {
			return derr
		}
		dummy.SetPartition(part)
		add = append(add, dummy)
	}
	if len(add) == 0 {
		return nil
	}

	ids, _, err := g.AddRemoveNodesAndArcs(graph.Mutation{AddNodes: add})
	if err != nil {
		return err
	}
	for i, part := range partitionsWithoutExisting(cd, partitions) {
		cd.SetReplicatedDriver(part, ids[2*i])
		cd.SetDummyReplica(part, ids[2*i+1])
	}
	return nil
}

func partitionsWithoutExisting(cd driverHolder, partitions []int) []int {
	var out []int
	existing := cd.ReplicatedDriverIDs()
	for _, p := range partitions {
		if _, ok := existing[p]; !ok {
			out = append(out, p)
		}
	}
	return out
}

// driverHolder is satisfied by ir.ContextRootBase (embedded by
// ClockDomain and BlockingDomain), exposing just enough of its driver
// bookkeeping for ReplicateDriver without package context needing to
// know the concrete node type.
type driverHolder interface {
	DriverSourceID() ir.NodeID
	ReplicatedDriverIDs() map[int]ir.NodeID
	SetReplicatedDriver(partition int, id ir.NodeID)
	SetDummyReplica(partition int, id ir.NodeID)
}

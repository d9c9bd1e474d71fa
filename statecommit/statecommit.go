// Package statecommit implements §4.10 state-update node creation: for
// every stateful producer in the final graph, it attaches a companion
// ir.StateUpdate node that consumes the producer's freshly computed
// next-state output(s) and is held back, via order-constraint arcs, until
// every direct downstream reader of the producer's prior state has run.
package statecommit

import (
	"fmt"
	"sort"

	"github.com/sarchlab/dfcompile/graph"
	"github.com/sarchlab/dfcompile/ir"
)

// Run walks every live node and, for each one reporting HasState() true,
// commits a ir.StateUpdate companion in one Mutation and its arcs in a
// second. It runs last in the pipeline (after partition.Run) so "downstream
// dependent" means the node that will actually read the value at
// schedule time, including any thread-crossing FIFO partition.Run
// inserted in between.
func Run(g *graph.Graph) error {
	var stateful []ir.NodeID
	for _, id := range g.AllNodes() {
		n, err := g.Node(id)
		if err != nil {
			return fmt.Errorf("statecommit: %w", err)
		}
		if n.HasState() {
			stateful = append(stateful, id)
		}
	}
	sort.Slice(stateful, func(i, j int) bool { return stateful[i] < stateful[j] })

	for _, id := range stateful {
		if err := addStateUpdate(g, id); err != nil {
			return fmt.Errorf("statecommit: node #%d: %w", id, err)
		}
	}
	return nil
}

// addStateUpdate creates the companion for primaryID: one data input per
// output port of the primary (the next-state temporaries), and one
// order-only arc from every distinct direct consumer of the primary's
// outputs into the companion's order-constraint input, so the companion
// is always scheduled after those readers.
func addStateUpdate(g *graph.Graph, primaryID ir.NodeID) error {
	primary, err := g.Node(primaryID)
	if err != nil {
		return err
	}

	su := ir.NewStateUpdate(primary.Name()+"_state_update", primaryID)
	su.SetParent(primary.Parent())
	su.SetPartition(primary.Partition())
	su.SetContextStack(primary.ContextStack())

	for _, out := range primary.OutputPorts() {
		su.AddInput(out.Name+"_next", out.Type)
	}

	dependents := directDependents(g, primaryID)

	if len(dependents) > 0 {
		su.EnsureOrderConstraintPorts()
	}

	ids, _, err := g.AddRemoveNodesAndArcs(graph.Mutation{AddNodes: []ir.Node{su}})
	if err != nil {
		return err
	}
	suID := ids[0]

	var addArcs []*ir.Arc
	for i, out := range primary.OutputPorts() {
		addArcs = append(addArcs, &ir.Arc{
			SrcNode: primaryID, SrcPort: out.Index,
			DstNode: suID, DstPort: i,
			Type: out.Type,
		})
	}

	for _, depID := range dependents {
		dep, derr := g.Node(depID)
		if derr != nil {
			return derr
		}
		dep.EnsureOrderConstraintPorts()
		addArcs = append(addArcs, &ir.Arc{
			SrcNode: depID, DstNode: suID, OrderOnly: true,
		})
	}

	if len(addArcs) == 0 {
		return nil
	}
	_, _, err = g.AddRemoveNodesAndArcs(graph.Mutation{AddArcs: addArcs})
	return err
}

// directDependents returns, in ascending id order, every distinct node
// consuming at least one of primaryID's outputs.
func directDependents(g *graph.Graph, primaryID ir.NodeID) []ir.NodeID {
	seen := make(map[ir.NodeID]bool)
	var out []ir.NodeID
	for _, a := range g.AllArcs() {
		if a.OrderOnly || a.SrcNode != primaryID {
			continue
		}
		if !seen[a.DstNode] {
			seen[a.DstNode] = true
			out = append(out, a.DstNode)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

package graph

import (
	"fmt"

	"github.com/sarchlab/dfcompile/ir"
)

// ErrCycle is returned by TopologicalOrder when the arc relation over
// scope is not a DAG; callers (emit.ScheduleWalker) are expected to
// hand it a graph whose cycles have already been broken before asking
// for a schedule (§4.8 "every remaining cycle must pass through a
// blocking domain").
type ErrCycle struct {
	Remaining []ir.NodeID
}

func (e *ErrCycle) Error() string {
	return fmt.Sprintf("graph: topological order: %d node(s) still form a cycle", len(e.Remaining))
}

// TopologicalOrder returns scope in a schedule-valid order (every node
// before its data-dependent successors), via Kahn's algorithm. Order
// among nodes with no remaining dependency is the ascending id order, so
// two calls against an unchanged graph are reproducible.
func (g *Graph) TopologicalOrder(scope []ir.NodeID) ([]ir.NodeID, error) {
	inScope := make(map[ir.NodeID]bool, len(scope))
	for _, id := range scope {
		inScope[id] = true
	}

	indegree := make(map[ir.NodeID]int, len(scope))
	succ := make(map[ir.NodeID][]ir.NodeID)
	for _, id := range scope {
		indegree[id] = 0
	}
	for _, a := range g.arcs {
		if a == nil || !inScope[a.SrcNode] || !inScope[a.DstNode] {
			continue
		}
		succ[a.SrcNode] = append(succ[a.SrcNode], a.DstNode)
		indegree[a.DstNode]++
	}

	var ready []ir.NodeID
	for _, id := range scope {
		if indegree[id] == 0 {
			ready = insertSorted(ready, id)
		}
	}

	out := make([]ir.NodeID, 0, len(scope))
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		out = append(out, n)

		for _, s := range succ[n] {
			indegree[s]--
			if indegree[s] == 0 {
				ready = insertSorted(ready, s)
			}
		}
	}

	if len(out) != len(scope) {
		var remaining []ir.NodeID
		seen := make(map[ir.NodeID]bool, len(out))
		for _, id := range out {
			seen[id] = true
		}
		for _, id := range scope {
			if !seen[id] {
				remaining = append(remaining, id)
			}
		}
		return nil, &ErrCycle{Remaining: remaining}
	}

	return out, nil
}

func insertSorted(list []ir.NodeID, id ir.NodeID) []ir.NodeID {
	i := 0
	for i < len(list) && list[i] < id {
		i++
	}
	list = append(list, 0)
	copy(list[i+1:], list[i:])
	list[i] = id
	return list
}

// Package graph owns the arena of nodes and arcs (component D), the
// batch-mutation protocol used by every transformation pass, and the
// hierarchy/SCC/topological-order algorithms (component E) the passes
// build on.
package graph

import (
	"fmt"

	"golang.org/x/xerrors"
)

// ErrReferentialIntegrity is returned by AddRemoveNodesAndArcs when a
// scheduled removal is still referenced by an arc not also scheduled for
// removal (spec §4.1). References held in cached lists (rate-change set,
// context sub-context list) do not cause it: removal releases them.
type ErrReferentialIntegrity struct {
	Node   string
	Reason string
}

func (e *ErrReferentialIntegrity) Error() string {
	return fmt.Sprintf("referential integrity: node %s: %s", e.Node, e.Reason)
}

func wrapFatal(format string, args ...any) error {
	return xerrors.Errorf(format, args...)
}

// ErrNodeNotFound is returned when an operation references a node id the
// graph does not hold.
type ErrNodeNotFound struct{ ID int32 }

func (e *ErrNodeNotFound) Error() string {
	return fmt.Sprintf("graph: node #%d not found", e.ID)
}

// ErrPortNotFound is returned when ResolvePort is given an out-of-range
// port index.
type ErrPortNotFound struct {
	NodeName string
	Index    int
}

func (e *ErrPortNotFound) Error() string {
	return fmt.Sprintf("graph: node %s has no port at index %d", e.NodeName, e.Index)
}

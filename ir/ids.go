// Package ir defines the intermediate representation for the dataflow
// graph compiler: data types, numeric literal values, typed ports, arcs,
// and the polymorphic node taxonomy that the graph (package graph) owns.
package ir

import "github.com/rs/xid"

// NodeID is the arena handle for a Node. Handles are dense and stable for
// the lifetime of a single Graph; they are not the same thing as the
// externally-visible GraphML node_id (see ExternalID).
type NodeID int32

// ArcID is the arena handle for an Arc.
type ArcID int32

// InvalidNodeID marks an absent node reference (e.g. a top-level node's
// parent).
const InvalidNodeID NodeID = -1

// InvalidArcID marks an absent arc reference.
const InvalidArcID ArcID = -1

// ExternalID is an identifier minted for every node when its NodeBase is
// constructed, independent of its arena slot; arcs carry none.
// ShallowCloneWithChildren, and therefore graph.CopyGraph, gives every
// clone a freshly minted ExternalID rather than the original's. No code
// in this module writes it to or reads it from GraphML.
type ExternalID string

// idSource mints ExternalIDs. It wraps xid.New, which is itself
// monotonic-ish and collision-resistant without needing a central
// counter, matching how the teacher avoids shared mutable counters for
// anything that crosses goroutine boundaries.
type idSource struct{}

func (idSource) next() ExternalID {
	return ExternalID(xid.New().String())
}

var globalIDSource idSource

// NewExternalID mints a fresh stable identifier.
func NewExternalID() ExternalID {
	return globalIDSource.next()
}

package ir

// Subsystem is a hierarchical container node: a plain subsystem, not a
// context root, owning children non-exclusively (the Graph still owns
// them; Subsystem only keeps the non-owning child-list used for
// hierarchy lookup, per §4.1 "Ownership & lifecycle").
type Subsystem struct {
	NodeBase
	Children []NodeID
}

// NewSubsystem constructs an empty Subsystem.
func NewSubsystem(name string) *Subsystem {
	return &Subsystem{NodeBase: NewNodeBase(name)}
}

func (s *Subsystem) Kind() NodeKind { return KindSubsystem }

// AddChild registers id as a child for hierarchy lookup. It does not
// change id's Parent field; callers must do that via the Graph so the
// two stay consistent (mirrors §4.1's removeKnownReferences detaching
// both directions together).
func (s *Subsystem) AddChild(id NodeID) {
	s.Children = append(s.Children, id)
}

// RemoveChild removes id from the child list if present.
func (s *Subsystem) RemoveChild(id NodeID) {
	for i, c := range s.Children {
		if c == id {
			s.Children = append(s.Children[:i], s.Children[i+1:]...)
			return
		}
	}
}

func (s *Subsystem) Validate() error { return nil }

// ReleaseReference detaches id from the child list (§4.1
// removeKnownReferences).
func (s *Subsystem) ReleaseReference(id NodeID) {
	s.RemoveChild(id)
}

func (s *Subsystem) ShallowCloneWithChildren(ctx CloneContext) (Node, error) {
	clone := &Subsystem{NodeBase: s.NodeBase}
	clone.NodeBase.ExternalID = NewExternalID()
	clone.Children = nil

	for _, child := range s.Children {
		newChild, err := ctx.CloneChild(child)
		if err != nil {
			return nil, err
		}
		clone.Children = append(clone.Children, newChild)
	}

	return clone, nil
}

// ContextRootBase is the shared implementation for every context-root
// variant (spec §3: "subsystem-or-mux variant that owns sub-contexts").
// Whether all descendants are automatically assigned (subsystem-style,
// MuxStyle=false) or each descendant belongs to exactly one arm
// (mux-style, MuxStyle=true) is modelled as a boolean property per
// DESIGN NOTES §9, not as a subclass relation.
type ContextRootBase struct {
	Subsystem

	MuxStyle           bool
	SubContexts        [][]NodeID
	Contiguous         bool
	ReplicatesDriver   bool
	DriverSource       NodeID
	ReplicatedDrivers  map[int]NodeID // partition -> replicated driver source
	DummyReplicas      map[int]NodeID // partition -> dummy context-root replica
}

// NewContextRootBase constructs a context root with n sub-contexts (n=1
// for subsystem-style, n=number of arms for mux-style).
func NewContextRootBase(name string, n int, muxStyle bool) ContextRootBase {
	return ContextRootBase{
		Subsystem:         Subsystem{NodeBase: NewNodeBase(name)},
		MuxStyle:          muxStyle,
		SubContexts:       make([][]NodeID, n),
		ReplicatedDrivers: make(map[int]NodeID),
		DummyReplicas:     make(map[int]NodeID),
	}
}

// SubContextCount returns 0..N-1 sub-context count.
func (c *ContextRootBase) SubContextCount() int { return len(c.SubContexts) }

// AssignToSubContext records that node belongs to sub-context sc.
func (c *ContextRootBase) AssignToSubContext(sc int, node NodeID) {
	c.SubContexts[sc] = append(c.SubContexts[sc], node)
}

// SubContextNodes returns the nodes recorded under sub-context sc.
func (c *ContextRootBase) SubContextNodes(sc int) []NodeID { return c.SubContexts[sc] }

// RequiresContiguousEmission reports whether a context root demands that
// all of its sub-context's nodes be emitted together (e.g. a blocking
// domain's static for-loop), vs. permitting fragmentation (e.g. a
// downsample domain's if branch), per §4.7.
func (c *ContextRootBase) RequiresContiguousEmission() bool { return c.Contiguous }

// ReplicatesDriverForMultiplePartitions reports whether this context
// root's driver must be replicated per-partition (§4.7).
func (c *ContextRootBase) ReplicatesDriverForMultiplePartitions() bool {
	return c.ReplicatesDriver
}

// DriverSourceID returns the primary driver node id, for context-driver
// replication (context.ReplicateDriver).
func (c *ContextRootBase) DriverSourceID() NodeID { return c.DriverSource }

// ReplicatedDriverIDs returns the partition->driver map recorded so far.
func (c *ContextRootBase) ReplicatedDriverIDs() map[int]NodeID { return c.ReplicatedDrivers }

// DummyReplicaIDs returns the partition->dummy-replica map recorded so
// far.
func (c *ContextRootBase) DummyReplicaIDs() map[int]NodeID { return c.DummyReplicas }

// SetReplicatedDriver records part's replicated driver source.
func (c *ContextRootBase) SetReplicatedDriver(part int, id NodeID) {
	c.ReplicatedDrivers[part] = id
}

// SetDummyReplica records part's dummy context-root replica.
func (c *ContextRootBase) SetDummyReplica(part int, id NodeID) {
	c.DummyReplicas[part] = id
}

// ReleaseReference detaches a removed node from every cached list this
// context root keeps about it, so graph.Graph.RemoveNodes never leaves a
// dangling reference behind (§4.1 removeKnownReferences).
func (c *ContextRootBase) ReleaseReference(id NodeID) {
	c.Subsystem.RemoveChild(id)
	for i, sc := range c.SubContexts {
		c.SubContexts[i] = removeNodeID(sc, id)
	}
	for part, driver := range c.ReplicatedDrivers {
		if driver == id {
			delete(c.ReplicatedDrivers, part)
		}
	}
	for part, dummy := range c.DummyReplicas {
		if dummy == id {
			delete(c.DummyReplicas, part)
		}
	}
	if c.DriverSource == id {
		c.DriverSource = InvalidNodeID
	}
}

func removeNodeID(list []NodeID, id NodeID) []NodeID {
	out := list[:0]
	for _, n := range list {
		if n != id {
			out = append(out, n)
		}
	}
	return out
}

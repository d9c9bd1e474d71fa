package ir

import "fmt"

// NodeKind discriminates the polymorphic node taxonomy of spec §3. The
// design deliberately uses a closed enum (sum type by switch) rather than
// a capability interface hierarchy, per DESIGN NOTES §9: each behavior
// (Validate, ShallowCloneWithChildren, CanBreakBlockingDependency, ...) is
// a method every variant implements, dispatched by the concrete Go type,
// and NodeKind exists only so generic graph code can do cheap pre-checks
// without a type switch.
type NodeKind int

const (
	KindPrimitive NodeKind = iota
	KindSubsystem
	KindClockDomain
	KindDownsampleClockDomain
	KindUpsampleClockDomain
	KindRateChangeInput
	KindRateChangeOutput
	KindBlockingDomain
	KindBlockingInput
	KindBlockingOutput
	KindBlockingBridge
	KindMasterInput
	KindMasterOutput
	KindMasterVisualization
	KindMasterUnconnected
	KindMasterTerminator
	KindThreadCrossingFIFO
	KindStateUpdate
	KindDelay
	KindConcatenate
	KindLogicalOperator
	KindWrappingCounter
	KindBlackBox
)

// ContextFrame is one entry of a node's context stack: the context root
// that owns it, and which of the root's 0..N-1 sub-contexts it belongs
// to (spec §4.7).
type ContextFrame struct {
	Root       NodeID
	SubContext int
}

// CloneContext is the allocation/resolution surface a Graph gives to
// ShallowCloneWithChildren implementations, so package ir never needs to
// import package graph (which owns the arena).
type CloneContext interface {
	PortResolver
	NewNodeID() NodeID
	CloneChild(NodeID) (NodeID, error)
}

// Node is the common contract every node variant satisfies, combining the
// shared fields of spec §3 ("Shared contract: id, name, a single parent
// ...") with the per-variant operations named in DESIGN NOTES §9.
type Node interface {
	ID() NodeID
	SetID(NodeID)
	Name() string
	Kind() NodeKind

	Parent() NodeID
	SetParent(NodeID)

	InputPorts() []*Port
	OutputPorts() []*Port
	OrderConstraintIn() *Port
	OrderConstraintOut() *Port

	// EnsureOrderConstraintPorts lazily allocates this node's single
	// order-constraint input/output ports on first use (§4.10); most
	// nodes never participate in a state-update ordering edge and so
	// never pay for them.
	EnsureOrderConstraintPorts()

	ContextStack() []ContextFrame
	SetContextStack([]ContextFrame)

	Partition() int
	SetPartition(int)

	ScheduleOrder() int
	SetScheduleOrder(int)

	BaseSubBlockingLength() int
	SetBaseSubBlockingLength(int)

	// Validate checks invariants local to this node alone (port-count
	// policy, own-field consistency; the rate-change variants check
	// invariant (v) here). Cross-node structural invariants (i)-(iv) are
	// checked by graph.Validate, which has arena-wide visibility this
	// method does not.
	Validate() error

	// ShallowCloneWithChildren clones this node (and, for container
	// variants, its children) into ctx, returning the new node. Arcs are
	// not cloned here; graph.CopyGraph clones arcs separately once every
	// node has a new id.
	ShallowCloneWithChildren(ctx CloneContext) (Node, error)

	// CanBreakBlockingDependency reports whether this node may be
	// disconnected at its outputs during blocking-group SCC discovery
	// (§4.8.2); true only for delay nodes whose length allows the split.
	CanBreakBlockingDependency(effectiveSubBlock int) bool

	// HasState reports whether this node requires a state-update
	// companion (§4.10).
	HasState() bool

	// SpecializeForBlocking reshapes this node's own ports to the
	// effective sub-block length a singleton blocking group is given
	// directly, without a wrapping blocking domain (§4.8.5 "Singleton
	// groups are specialized directly by the node's own
	// specializeForBlocking"). Delay defers (DESIGN NOTES §9 "Deferred
	// delay specialization"); every other variant's default (NodeBase)
	// expands its ports by the factor.
	SpecializeForBlocking(effectiveSubBlock int) error
}

// ReferenceReleaser is implemented by node variants that cache
// references to other nodes (Subsystem's child list, ContextRootBase's
// sub-context lists, ClockDomain's rate-change lists). graph.RemoveNodes
// type-asserts every remaining node against this interface so a removal
// never leaves a dangling cached reference behind (§4.1
// removeKnownReferences).
type ReferenceReleaser interface {
	ReleaseReference(id NodeID)
}

// NodeBase implements the shared-contract fields of Node; every concrete
// variant embeds it and implements the remaining operations itself, the
// same way the teacher's *sim.TickingComponent is embedded by every
// concrete Core-like component.
type NodeBase struct {
	id         NodeID
	ExternalID ExternalID
	NodeName   string
	ParentID   NodeID

	Inputs              []*Port
	Outputs             []*Port
	OCIn                *Port
	OCOut               *Port
	Context             []ContextFrame
	PartitionNum        int
	SchedOrder          int
	BaseSubBlockingLen  int
	OrigLocation        string
}

func NewNodeBase(name string) NodeBase {
	return NodeBase{
		ExternalID:   NewExternalID(),
		NodeName:     name,
		ParentID:     InvalidNodeID,
		PartitionNum: 0,
	}
}

func (n *NodeBase) ID() NodeID       { return n.id }
func (n *NodeBase) SetID(id NodeID)  { n.id = id }
func (n *NodeBase) Name() string     { return n.NodeName }
func (n *NodeBase) Parent() NodeID   { return n.ParentID }
func (n *NodeBase) SetParent(p NodeID) { n.ParentID = p }

func (n *NodeBase) InputPorts() []*Port         { return n.Inputs }
func (n *NodeBase) OutputPorts() []*Port        { return n.Outputs }
func (n *NodeBase) OrderConstraintIn() *Port    { return n.OCIn }
func (n *NodeBase) OrderConstraintOut() *Port   { return n.OCOut }

func (n *NodeBase) EnsureOrderConstraintPorts() {
	if n.OCIn == nil {
		n.OCIn = NewPort(n.id, 0, "order_in", OrderConstraintInputPort, DataType{})
	}
	if n.OCOut == nil {
		n.OCOut = NewPort(n.id, 0, "order_out", OrderConstraintOutputPort, DataType{})
	}
}

func (n *NodeBase) ContextStack() []ContextFrame       { return n.Context }
func (n *NodeBase) SetContextStack(c []ContextFrame)   { n.Context = c }

func (n *NodeBase) Partition() int        { return n.PartitionNum }
func (n *NodeBase) SetPartition(p int)    { n.PartitionNum = p }

func (n *NodeBase) ScheduleOrder() int       { return n.SchedOrder }
func (n *NodeBase) SetScheduleOrder(o int)   { n.SchedOrder = o }

func (n *NodeBase) BaseSubBlockingLength() int     { return n.BaseSubBlockingLen }
func (n *NodeBase) SetBaseSubBlockingLength(l int) { n.BaseSubBlockingLen = l }

// CanBreakBlockingDependency defaults to false; only Delay overrides it.
func (n *NodeBase) CanBreakBlockingDependency(int) bool { return false }

// SpecializeForBlocking's default expands every port's DataType by the
// effective sub-block factor, the behavior appropriate for a plain
// combinational node given its own blocking group directly (§4.8.5).
// Delay overrides this; every other variant, the rate-change and
// blocking-boundary nodes included, uses this default.
func (n *NodeBase) SpecializeForBlocking(effectiveSubBlock int) error {
	for _, p := range n.Inputs {
		p.Type = p.Type.ExpandForBlock(effectiveSubBlock)
	}
	for _, p := range n.Outputs {
		p.Type = p.Type.ExpandForBlock(effectiveSubBlock)
	}
	return nil
}

// HasState defaults to false; stateful variants override it.
func (n *NodeBase) HasState() bool { return false }

// AddInput appends a freshly-constructed input port and returns it.
func (n *NodeBase) AddInput(name string, t DataType) *Port {
	p := NewPort(n.id, len(n.Inputs), name, InputPort, t)
	n.Inputs = append(n.Inputs, p)
	return p
}

// AddOutput appends a freshly-constructed output port and returns it.
func (n *NodeBase) AddOutput(name string, t DataType) *Port {
	p := NewPort(n.id, len(n.Outputs), name, OutputPort, t)
	n.Outputs = append(n.Outputs, p)
	return p
}

func (n *NodeBase) String() string {
	return fmt.Sprintf("%s(#%d)", n.NodeName, n.id)
}

// QualifiedPath is filled in by the graph during validation/error
// reporting; it is not kept live on every mutation because only a
// handful of call sites (diagnostics) ever need it (§6's "fully-qualified
// path" requirement).
type QualifiedPath = string

package ir

import "fmt"

// PortKind distinguishes data ports from order-constraint (scheduling,
// no-payload) ports, and input from output, per spec §3.
type PortKind int

const (
	InputPort PortKind = iota
	OutputPort
	OrderConstraintInputPort
	OrderConstraintOutputPort
)

func (k PortKind) IsOrderConstraint() bool {
	return k == OrderConstraintInputPort || k == OrderConstraintOutputPort
}

func (k PortKind) IsInput() bool {
	return k == InputPort || k == OrderConstraintInputPort
}

// Port is a typed connection point belonging to exactly one node.
type Port struct {
	Owner    NodeID
	Index    int
	Name     string
	Kind     PortKind
	Type     DataType
	arcs     map[ArcID]struct{}
}

// NewPort constructs an empty Port.
func NewPort(owner NodeID, index int, name string, kind PortKind, t DataType) *Port {
	return &Port{
		Owner: owner,
		Index: index,
		Name:  name,
		Kind:  kind,
		Type:  t,
		arcs:  make(map[ArcID]struct{}),
	}
}

// Arcs returns the set of arc ids currently attached to this port. For an
// input port this set has at most one element unless the owning node's
// variant explicitly permits more (invariant i is enforced by graph.Validate,
// not here, since the port alone cannot know the owner's variant policy).
func (p *Port) Arcs() []ArcID {
	out := make([]ArcID, 0, len(p.arcs))
	for id := range p.arcs {
		out = append(out, id)
	}
	return out
}

// Attach and Detach are invoked by Arc's rewiring operations and by the
// owning Graph when an arc is first inserted or finally removed, keeping
// both sides of the arc-port invariant atomic (§4.1's "both old-side
// removal and new-side insertion are atomic with respect to the graph").
func (p *Port) Attach(a ArcID) { p.arcs[a] = struct{}{} }
func (p *Port) Detach(a ArcID) { delete(p.arcs, a) }

func (p *Port) String() string {
	return fmt.Sprintf("port#%d(%s)", p.Index, p.Name)
}

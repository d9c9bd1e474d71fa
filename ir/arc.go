package ir

import "fmt"

// SampleTime is the logical sample-time carried by an arc; its unit and
// scale are a pass concern, not an IR concern, so it is left as an opaque
// rational-ish pair here.
type SampleTime struct {
	Num, Den int64
}

// Arc is a directed edge between an output port and an input port. An
// order-only arc (OrderOnly) carries no payload and connects the two
// nodes' single OrderConstraintOut/OrderConstraintIn ports instead
// (§4.10's state-commit ordering edges); SrcPort/DstPort are unused in
// that case since those ports are singular per node.
type Arc struct {
	ID         ArcID
	SrcNode    NodeID
	SrcPort    int
	DstNode    NodeID
	DstPort    int
	Type       DataType
	SampleTime SampleTime
	OrderOnly  bool
}

// endpointKinds returns the port kinds SetSrc/SetDst and the graph's own
// addArc/removeArc should resolve against for this arc.
func (a *Arc) endpointKinds() (src, dst PortKind) {
	if a.OrderOnly {
		return OrderConstraintOutputPort, OrderConstraintInputPort
	}
	return OutputPort, InputPort
}

// PortResolver resolves a Graph-held Arc's Port objects. It is declared
// here as an interface so package graph can supply itself without an
// import cycle; the actual resolution lives in graph.Graph.
type PortResolver interface {
	ResolvePort(node NodeID, kind PortKind, index int) (*Port, error)
}

// SetSrc rewires the arc's source to a new (node, port), detaching from
// the old source port and attaching to the new one. Both happen under the
// resolver's expectation that it is called within a single graph mutation
// so the two sides never observe a half-rewired state from another
// goroutine (the compiler itself is single-threaded per spec §5).
func (a *Arc) SetSrc(r PortResolver, node NodeID, port int) error {
	srcKind, _ := a.endpointKinds()
	oldPort, err := r.ResolvePort(a.SrcNode, srcKind, a.SrcPort)
	if err != nil {
		return fmt.Errorf("arc %d: SetSrc: resolve old src: %w", a.ID, err)
	}
	newPort, err := r.ResolvePort(node, srcKind, port)
	if err != nil {
		return fmt.Errorf("arc %d: SetSrc: resolve new src: %w", a.ID, err)
	}

	oldPort.Detach(a.ID)
	a.SrcNode, a.SrcPort = node, port
	newPort.Attach(a.ID)
	return nil
}

// SetDst rewires the arc's destination, symmetric to SetSrc.
func (a *Arc) SetDst(r PortResolver, node NodeID, port int) error {
	_, dstKind := a.endpointKinds()
	oldPort, err := r.ResolvePort(a.DstNode, dstKind, a.DstPort)
	if err != nil {
		return fmt.Errorf("arc %d: SetDst: resolve old dst: %w", a.ID, err)
	}
	newPort, err := r.ResolvePort(node, dstKind, port)
	if err != nil {
		return fmt.Errorf("arc %d: SetDst: resolve new dst: %w", a.ID, err)
	}

	oldPort.Detach(a.ID)
	a.DstNode, a.DstPort = node, port
	newPort.Attach(a.ID)
	return nil
}

package graph

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/sarchlab/dfcompile/ir"
)

// Validate walks every live node and arc and checks invariants (i)-(iv)
// of spec §3, plus each node's own Validate() (where the rate-change
// nodes check invariant (v)). Invariant (iii) is checked for clock
// domains only, not for blocking domains, and invariant (vi), a
// rate-change node's (up, down) matching its clock domain, is not
// checked. It does not abort
// at the first violation: every violation found during the walk is
// collected into a single *multierror.Error (per SPEC_FULL.md §4.12), so
// a caller sees the whole picture of what is wrong with a graph rather
// than one symptom at a time. It returns nil when the walk finds
// nothing wrong.
func (g *Graph) Validate() error {
	var errs *multierror.Error

	for _, id := range g.AllNodes() {
		n, err := g.Node(id)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		if err := n.Validate(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("node %s: %w", qualifiedName(g, id), err))
		}
		errs = multierror.Append(errs, g.checkInputArcCount(id, n))
	}

	for i, a := range g.arcs {
		if a == nil {
			continue
		}
		errs = multierror.Append(errs, g.checkArcTypeAgreement(ir.ArcID(i), a))
	}

	for _, id := range g.AllNodes() {
		n, err := g.Node(id)
		if err != nil {
			continue
		}
		switch n.Kind() {
		case ir.KindClockDomain, ir.KindDownsampleClockDomain, ir.KindUpsampleClockDomain:
			errs = multierror.Append(errs, g.checkClockDomainMembership(id))
		case ir.KindBlockingDomain:
			errs = multierror.Append(errs, g.checkBlockingBoundaryCrossings(id))
		}
	}

	return errs.ErrorOrNil()
}

// checkInputArcCount enforces invariant (i): every data input port has
// exactly one incoming arc. The rule is applied to every node variant
// alike, with no per-variant exemption; order-constraint input ports are
// not checked, and a node with no input ports passes. Only the first
// offending port of a node is reported.
func (g *Graph) checkInputArcCount(id ir.NodeID, n ir.Node) error {
	for i, p := range n.InputPorts() {
		if len(p.Arcs()) != 1 {
			return fmt.Errorf(
				"node %s: invariant (i) violated: input port #%d (%s) has %d incoming arc(s), want 1",
				qualifiedName(g, id), i, p.Name, len(p.Arcs()),
			)
		}
	}
	return nil
}

// checkArcTypeAgreement enforces invariant (ii): an arc's DataType must
// agree with both the source output port and destination input port it
// names. For an order-only arc (§4.10) this just confirms both ends
// resolve to the node's order-constraint ports; the carried DataType is
// always the zero value on both sides.
func (g *Graph) checkArcTypeAgreement(id ir.ArcID, a *ir.Arc) error {
	srcKind, dstKind := ir.OutputPort, ir.InputPort
	if a.OrderOnly {
		srcKind, dstKind = ir.OrderConstraintOutputPort, ir.OrderConstraintInputPort
	}
	src, err := g.ResolvePort(a.SrcNode, srcKind, a.SrcPort)
	if err != nil {
		return fmt.Errorf("arc #%d: invariant (ii): resolve src: %w", id, err)
	}
	dst, err := g.ResolvePort(a.DstNode, dstKind, a.DstPort)
	if err != nil {
		return fmt.Errorf("arc #%d: invariant (ii): resolve dst: %w", id, err)
	}
	if !a.Type.Equal(src.Type) {
		return fmt.Errorf("arc #%d: invariant (ii) violated: arc type %s != src port type %s", id, a.Type, src.Type)
	}
	if !a.Type.Equal(dst.Type) {
		return fmt.Errorf("arc #%d: invariant (ii) violated: arc type %s != dst port type %s", id, a.Type, dst.Type)
	}
	return nil
}

// checkClockDomainMembership enforces invariant (iii): the rate-change
// nodes discovered structurally under a clock domain must equal the set
// recorded on the domain object by discoverClockDomainParameters.
func (g *Graph) checkClockDomainMembership(id ir.NodeID) error {
	n, err := g.Node(id)
	if err != nil {
		return err
	}
	cd, ok := n.(*ir.ClockDomain)
	if !ok {
		if ds, ok := n.(*ir.DownsampleClockDomain); ok {
			cd = &ds.ClockDomain
		} else if us, ok := n.(*ir.UpsampleClockDomain); ok {
			cd = &us.ClockDomain
		} else {
			return nil
		}
	}

	structuralIn := g.DescendantsOfKind(id, ir.KindRateChangeInput)
	structuralOut := g.DescendantsOfKind(id, ir.KindRateChangeOutput)

	if !sameIDSet(structuralIn, cd.RateChangeIn) {
		return fmt.Errorf(
			"clock domain %s: invariant (iii) violated: structural rate-change-in set != recorded set",
			qualifiedName(g, id),
		)
	}
	if !sameIDSet(structuralOut, cd.RateChangeOut) {
		return fmt.Errorf(
			"clock domain %s: invariant (iii) violated: structural rate-change-out set != recorded set",
			qualifiedName(g, id),
		)
	}
	return nil
}

// checkBlockingBoundaryCrossings enforces invariant (iv): an arc that
// crosses into or out of a blocking domain is accepted when its endpoint
// inside the domain is a blocking-input, blocking-output or bridge node,
// or a master node; any other crossing is reported. Whether the
// destination clock domain can operate in vector mode is not checked.
func (g *Graph) checkBlockingBoundaryCrossings(id ir.NodeID) error {
	inside := make(map[ir.NodeID]bool)
	for _, d := range g.Descendants(id) {
		inside[d] = true
	}

	for i, a := range g.arcs {
		if a == nil {
			continue
		}
		srcIn, dstIn := inside[a.SrcNode], inside[a.DstNode]
		if srcIn == dstIn {
			continue // wholly inside or wholly outside: not a crossing
		}

		var boundaryNode ir.NodeID
		if dstIn {
			boundaryNode = a.DstNode
		} else {
			boundaryNode = a.SrcNode
		}

		n, err := g.Node(boundaryNode)
		if err != nil {
			continue
		}
		switch n.Kind() {
		case ir.KindBlockingInput, ir.KindBlockingOutput, ir.KindBlockingBridge:
			continue
		case ir.KindMasterInput, ir.KindMasterOutput, ir.KindMasterVisualization,
			ir.KindMasterUnconnected, ir.KindMasterTerminator:
			// I/O arcs into a non-vector-capable clock domain are the
			// explicit exception (§3 invariant iv); vectorization mode is
			// decided later by the clockdomain package, so validate does
			// not re-derive it here.
			continue
		default:
			return fmt.Errorf(
				"blocking domain %s: invariant (iv) violated: arc #%d crosses boundary via %s, not a blocking-input/output node",
				qualifiedName(g, id), i, n,
			)
		}
	}
	return nil
}

func sameIDSet(a, b []ir.NodeID) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[ir.NodeID]int, len(a))
	for _, id := range a {
		set[id]++
	}
	for _, id := range b {
		set[id]--
	}
	for _, count := range set {
		if count != 0 {
			return false
		}
	}
	return true
}

// qualifiedName renders a node's hierarchy path, best-effort, for
// diagnostics (§6 "fully-qualified path"). It tolerates a broken chain
// (a removed ancestor) by stopping rather than failing.
func qualifiedName(g *Graph, id ir.NodeID) ir.QualifiedPath {
	n, err := g.Node(id)
	if err != nil {
		return fmt.Sprintf("#%d", id)
	}
	path := n.Name()
	for cur := n.Parent(); cur != ir.InvalidNodeID; {
		p, err := g.Node(cur)
		if err != nil {
			break
		}
		path = p.Name() + "/" + path
		cur = p.Parent()
	}
	return path
}

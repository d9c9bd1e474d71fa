package ir

import "fmt"

// RateRatio is a clock domain's (upsample, downsample) ratio relative to
// its parent, per spec §3/§4.5.
type RateRatio struct {
	Up, Down int
}

// ClockDomain is a context root whose sub-context models the
// rate-changed region, per spec §3.
type ClockDomain struct {
	ContextRootBase

	Rate RateRatio

	RateChangeIn  []NodeID // input RC nodes: source lies outside the domain
	RateChangeOut []NodeID // output RC nodes: source lies inside the domain

	VectorSampling bool

	// MasterPorts are the master-node ports whose arcs connect into this
	// domain (§4.5 discoverClockDomainParameters).
	MasterPorts []NodeID
}

// NewClockDomain constructs a generic (un-specialized) clock domain.
func NewClockDomain(name string) *ClockDomain {
	cd := &ClockDomain{ContextRootBase: NewContextRootBase(name, 1, false)}
	cd.Contiguous = false
	return cd
}

func (c *ClockDomain) Kind() NodeKind { return KindClockDomain }

func (c *ClockDomain) Validate() error {
	if c.Rate.Up <= 0 || c.Rate.Down <= 0 {
		return fmt.Errorf("clock domain %s: rate (%d,%d) must be positive", c.NodeName, c.Rate.Up, c.Rate.Down)
	}
	return nil
}

// ReleaseReference extends ContextRootBase.ReleaseReference with the
// clock-domain-specific rate-change and master-port caches (§4.1).
func (c *ClockDomain) ReleaseReference(id NodeID) {
	c.ContextRootBase.ReleaseReference(id)
	c.RateChangeIn = removeNodeID(c.RateChangeIn, id)
	c.RateChangeOut = removeNodeID(c.RateChangeOut, id)
	c.MasterPorts = removeNodeID(c.MasterPorts, id)
}

func (c *ClockDomain) ShallowCloneWithChildren(ctx CloneContext) (Node, error) {
	base, err := c.Subsystem.ShallowCloneWithChildren(ctx)
	if err != nil {
		return nil, err
	}
	clone := &ClockDomain{
		ContextRootBase: c.ContextRootBase,
		Rate:            c.Rate,
		VectorSampling:  c.VectorSampling,
	}
	clone.Subsystem = *base.(*Subsystem)
	clone.RateChangeIn = append([]NodeID(nil), c.RateChangeIn...)
	clone.RateChangeOut = append([]NodeID(nil), c.RateChangeOut...)
	clone.MasterPorts = append([]NodeID(nil), c.MasterPorts...)
	return clone, nil
}

// RateRelativeToBase is computed by the clockdomain package (it needs the
// ancestor chain, which only the Graph can walk); ClockDomain itself only
// stores the single-level Rate.

// DownsampleClockDomain is the specialized form selected when exactly one
// of Up/Down is non-unity and Down > Up (§4.5 specialize).
type DownsampleClockDomain struct {
	ClockDomain
}

func (c *DownsampleClockDomain) Kind() NodeKind { return KindDownsampleClockDomain }

func (c *DownsampleClockDomain) Validate() error {
	if err := c.ClockDomain.Validate(); err != nil {
		return err
	}
	if c.Rate.Up != 1 {
		return fmt.Errorf("downsample clock domain %s: up must be 1, got %d", c.NodeName, c.Rate.Up)
	}
	return nil
}

func (c *DownsampleClockDomain) ShallowCloneWithChildren(ctx CloneContext) (Node, error) {
	base, err := c.ClockDomain.ShallowCloneWithChildren(ctx)
	if err != nil {
		return nil, err
	}
	return &DownsampleClockDomain{ClockDomain: *base.(*ClockDomain)}, nil
}

// UpsampleClockDomain is the specialized form selected when Up > Down.
//
// Per SPEC_FULL.md/DESIGN.md Open Question resolution: upsample
// specialization is preserved as an explicit "not yet implemented" error
// path (the original `Upsample.cpp`/`UpsampleOutput.h` exist, but the
// signature set in the teacher corpus gives no grounded pattern for the
// symmetric behavior, and spec.md's Open Questions explicitly permit
// preserving the stub rather than guessing new semantics).
type UpsampleClockDomain struct {
	ClockDomain
}

func (c *UpsampleClockDomain) Kind() NodeKind { return KindUpsampleClockDomain }

// ErrUpsampleNotImplemented is returned, wrapped with the domain's name,
// by UpsampleClockDomain.Validate; no other code returns it.
var ErrUpsampleNotImplemented = fmt.Errorf("upsample clock domain specialization: not yet implemented")

func (c *UpsampleClockDomain) Validate() error {
	return fmt.Errorf("%s: %w", c.NodeName, ErrUpsampleNotImplemented)
}

func (c *UpsampleClockDomain) ShallowCloneWithChildren(ctx CloneContext) (Node, error) {
	base, err := c.ClockDomain.ShallowCloneWithChildren(ctx)
	if err != nil {
		return nil, err
	}
	return &UpsampleClockDomain{ClockDomain: *base.(*ClockDomain)}, nil
}

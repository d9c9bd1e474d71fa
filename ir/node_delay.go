package ir

import "fmt"

// Delay is a stateful primitive: it holds Length samples of history,
// seeded by InitialConditions, and is the node FIFO delay-absorption
// (§4.4) operates on.
//
// Per DESIGN NOTES §9 "Deferred delay specialization": because FIFO
// absorption can shorten or delete a delay, blocking specialization for a
// Delay is postponed. SpecializationDeferred captures the
// blocking-length/sub-blocking-length pair blocking() would have applied,
// to be replayed by blocking.ApplyDeferredSpecializations after
// partition.AbsorbDelays has run.
type Delay struct {
	NodeBase

	Length            int
	InitialConditions []NumericValue

	SpecializationDeferred    bool
	DeferredBlockingLength    int
	DeferredSubBlockingLength int
}

func NewDelay(name string, length int, initCond []NumericValue) *Delay {
	d := &Delay{
		NodeBase:          NewNodeBase(name),
		Length:            length,
		InitialConditions: initCond,
	}
	return d
}

func (d *Delay) Kind() NodeKind { return KindDelay }

func (d *Delay) HasState() bool { return true }

// CanBreakBlockingDependency implements §4.8.2: a delay whose length is
// at least the effective sub-block length can be split at a sub-block
// boundary, so its output may be disconnected during SCC discovery.
func (d *Delay) CanBreakBlockingDependency(effectiveSubBlock int) bool {
	return d.Length >= effectiveSubBlock
}

func (d *Delay) Validate() error {
	if d.Length < 0 {
		return fmt.Errorf("delay %s: length must be non-negative, got %d", d.NodeName, d.Length)
	}
	if len(d.InitialConditions) > d.Length {
		return fmt.Errorf(
			"delay %s: %d initial conditions exceed length %d",
			d.NodeName, len(d.InitialConditions), d.Length,
		)
	}
	return nil
}

func (d *Delay) ShallowCloneWithChildren(ctx CloneContext) (Node, error) {
	clone := &Delay{
		NodeBase:                  d.NodeBase,
		Length:                    d.Length,
		InitialConditions:         append([]NumericValue(nil), d.InitialConditions...),
		SpecializationDeferred:    d.SpecializationDeferred,
		DeferredBlockingLength:    d.DeferredBlockingLength,
		DeferredSubBlockingLength: d.DeferredSubBlockingLength,
	}
	clone.ExternalID = NewExternalID()
	return clone, nil
}

// DeferSpecialization records the blocking parameters that would have
// been applied, to be replayed later (see SpecializationDeferred above).
func (d *Delay) DeferSpecialization(blockingLength, subBlockingLength int) {
	d.SpecializationDeferred = true
	d.DeferredBlockingLength = blockingLength
	d.DeferredSubBlockingLength = subBlockingLength
}

// SpecializeForBlocking overrides NodeBase's immediate port expansion:
// because FIFO delay absorption can still shorten or delete this delay,
// its own blocking reshape is postponed (DeferSpecialization) rather than
// applied now, to be replayed by ApplyDeferredSpecialization once
// absorption has settled (DESIGN NOTES §9).
func (d *Delay) SpecializeForBlocking(effectiveSubBlock int) error {
	d.DeferSpecialization(effectiveSubBlock, 1)
	return nil
}

// ApplyDeferredSpecialization performs the blocking-domain reshape that
// was postponed, expanding the delay's input and output ports by
// DeferredBlockingLength. Length and InitialConditions are left as
// absorption left them.
func (d *Delay) ApplyDeferredSpecialization() error {
	if !d.SpecializationDeferred {
		return nil
	}
	for _, p := range d.Inputs {
		p.Type = p.Type.ExpandForBlock(d.DeferredBlockingLength)
	}
	for _, p := range d.Outputs {
		p.Type = p.Type.ExpandForBlock(d.DeferredBlockingLength)
	}
	d.SpecializationDeferred = false
	return nil
}

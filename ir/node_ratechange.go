package ir

import "fmt"

// rateChangeBase is shared state between the input and output rate
// change variants: latched state (they hold a value across the rate
// boundary) and the (up, down) ratio of their containing clock domain,
// which invariant (vi) requires to agree.
type rateChangeBase struct {
	NodeBase
	Up, Down int
	// BlockingLength and SubBlockingLength are the lengths used by
	// invariant (v): input's outer dim == BlockingLength, output's outer
	// dim == SubBlockingLength (dropped when SubBlockingLength==1 and
	// input has >=2 dims).
	BlockingLength    int
	SubBlockingLength int
	VectorSampling    bool
}

func newRateChangeBase(name string) rateChangeBase {
	return rateChangeBase{NodeBase: NewNodeBase(name)}
}

// RateChangeInput is the boundary node from outer to inner rate: its
// source lies outside the containing clock domain.
type RateChangeInput struct {
	rateChangeBase
}

func NewRateChangeInput(name string) *RateChangeInput {
	return &RateChangeInput{rateChangeBase: newRateChangeBase(name)}
}

func (r *RateChangeInput) Kind() NodeKind { return KindRateChangeInput }

func (r *RateChangeInput) Validate() error {
	if len(r.Inputs) != 1 || len(r.Outputs) != 1 {
		return fmt.Errorf("rate change input %s: must have exactly one input and one output port", r.NodeName)
	}
	in := r.Inputs[0].Type
	if in.Dims[0] != r.BlockingLength {
		return fmt.Errorf(
			"rate change input %s: invariant (v) violated: input outer dim %d != blocking_length %d",
			r.NodeName, in.Dims[0], r.BlockingLength,
		)
	}
	return nil
}

func (r *RateChangeInput) ShallowCloneWithChildren(ctx CloneContext) (Node, error) {
	clone := &RateChangeInput{rateChangeBase: r.rateChangeBase}
	clone.ExternalID = NewExternalID()
	return clone, nil
}

// RateChangeOutput is the boundary node from inner to outer rate: its
// source lies inside the containing clock domain.
type RateChangeOutput struct {
	rateChangeBase
	// Latched marks an output that holds its most recently produced
	// value; HasState reports it. No pass in this module sets it, and
	// clockdomain.CreateSupportNodes does not read it.
	Latched bool
}

func NewRateChangeOutput(name string) *RateChangeOutput {
	return &RateChangeOutput{rateChangeBase: newRateChangeBase(name)}
}

func (r *RateChangeOutput) Kind() NodeKind { return KindRateChangeOutput }

func (r *RateChangeOutput) HasState() bool { return r.Latched }

func (r *RateChangeOutput) Validate() error {
	if len(r.Inputs) != 1 || len(r.Outputs) != 1 {
		return fmt.Errorf("rate change output %s: must have exactly one input and one output port", r.NodeName)
	}

	in := r.Inputs[0].Type
	wantOuter := r.SubBlockingLength
	if r.SubBlockingLength == 1 && len(in.Dims) >= 2 {
		// Special rule: drop the outer dimension instead of becoming 1.
		if len(in.Dims) != len(r.Outputs[0].Type.Dims)+1 {
			return fmt.Errorf(
				"rate change output %s: invariant (v) violated: expected outer dim dropped for sub_block==1",
				r.NodeName,
			)
		}
		return nil
	}
	if in.Dims[0] != wantOuter {
		return fmt.Errorf(
			"rate change output %s: invariant (v) violated: input outer dim %d != sub_blocking_length %d",
			r.NodeName, in.Dims[0], wantOuter,
		)
	}
	return nil
}

func (r *RateChangeOutput) ShallowCloneWithChildren(ctx CloneContext) (Node, error) {
	clone := &RateChangeOutput{rateChangeBase: r.rateChangeBase, Latched: r.Latched}
	clone.ExternalID = NewExternalID()
	return clone, nil
}

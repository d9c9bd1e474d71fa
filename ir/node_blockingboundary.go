package ir

import "fmt"

// BlockingInput is the single-port node placed at each arc crossing into
// a blocking domain; it reshapes the outer-dimension element count from
// the outside (blocking_length) to the inside (sub_blocking_length).
type BlockingInput struct {
	NodeBase

	OutsideLength int
	InsideLength  int
}

func NewBlockingInput(name string, outside, inside int) *BlockingInput {
	return &BlockingInput{NodeBase: NewNodeBase(name), OutsideLength: outside, InsideLength: inside}
}

func (b *BlockingInput) Kind() NodeKind { return KindBlockingInput }

func (b *BlockingInput) Validate() error {
	if len(b.Inputs) != 1 || len(b.Outputs) != 1 {
		return fmt.Errorf("blocking input %s: must have exactly one input and one output port", b.NodeName)
	}
	if b.Inputs[0].Type.Dims[0] != b.OutsideLength {
		return fmt.Errorf("blocking input %s: input outer dim must equal outside length %d", b.NodeName, b.OutsideLength)
	}
	if b.Outputs[0].Type.Dims[0] != b.InsideLength {
		return fmt.Errorf("blocking input %s: output outer dim must equal inside length %d", b.NodeName, b.InsideLength)
	}
	return nil
}

func (b *BlockingInput) ShallowCloneWithChildren(ctx CloneContext) (Node, error) {
	clone := &BlockingInput{NodeBase: b.NodeBase, OutsideLength: b.OutsideLength, InsideLength: b.InsideLength}
	clone.ExternalID = NewExternalID()
	return clone, nil
}

// BlockingOutput is symmetric to BlockingInput: it reshapes data leaving
// a blocking domain from sub_blocking_length back up to blocking_length.
type BlockingOutput struct {
	NodeBase

	InsideLength  int
	OutsideLength int
}

func NewBlockingOutput(name string, inside, outside int) *BlockingOutput {
	return &BlockingOutput{NodeBase: NewNodeBase(name), InsideLength: inside, OutsideLength: outside}
}

func (b *BlockingOutput) Kind() NodeKind { return KindBlockingOutput }

func (b *BlockingOutput) Validate() error {
	if len(b.Inputs) != 1 || len(b.Outputs) != 1 {
		return fmt.Errorf("blocking output %s: must have exactly one input and one output port", b.NodeName)
	}
	if b.Inputs[0].Type.Dims[0] != b.InsideLength {
		return fmt.Errorf("blocking output %s: input outer dim must equal inside length %d", b.NodeName, b.InsideLength)
	}
	if b.Outputs[0].Type.Dims[0] != b.OutsideLength {
		return fmt.Errorf("blocking output %s: output outer dim must equal outside length %d", b.NodeName, b.OutsideLength)
	}
	return nil
}

func (b *BlockingOutput) ShallowCloneWithChildren(ctx CloneContext) (Node, error) {
	clone := &BlockingOutput{NodeBase: b.NodeBase, InsideLength: b.InsideLength, OutsideLength: b.OutsideLength}
	clone.ExternalID = NewExternalID()
	return clone, nil
}

// BlockingDomainBridge repacks data when an arc crosses between two
// blocking regimes with different base sub-blocking lengths (§4.8.7).
type BlockingDomainBridge struct {
	NodeBase

	InBaseSub  int
	OutBaseSub int
}

func NewBlockingDomainBridge(name string, inBaseSub, outBaseSub int) *BlockingDomainBridge {
	return &BlockingDomainBridge{NodeBase: NewNodeBase(name), InBaseSub: inBaseSub, OutBaseSub: outBaseSub}
}

func (b *BlockingDomainBridge) Kind() NodeKind { return KindBlockingBridge }

func (b *BlockingDomainBridge) Validate() error {
	if len(b.Inputs) != 1 || len(b.Outputs) != 1 {
		return fmt.Errorf("blocking bridge %s: must have exactly one input and one output port", b.NodeName)
	}
	if b.InBaseSub == b.OutBaseSub {
		return fmt.Errorf("blocking bridge %s: in/out base sub-blocking lengths must differ", b.NodeName)
	}
	return nil
}

func (b *BlockingDomainBridge) ShallowCloneWithChildren(ctx CloneContext) (Node, error) {
	clone := &BlockingDomainBridge{NodeBase: b.NodeBase, InBaseSub: b.InBaseSub, OutBaseSub: b.OutBaseSub}
	clone.ExternalID = NewExternalID()
	return clone, nil
}

package ir

import "fmt"

// Primitive is the generic combinational node variant (adders, gains,
// etc.): it carries no extra state beyond its ports and an opaque
// operator tag, the way the vast majority of a real dataflow graph's
// nodes are purely combinational.
type Primitive struct {
	NodeBase
	Operator string
}

func NewPrimitive(name, operator string) *Primitive {
	return &Primitive{NodeBase: NewNodeBase(name), Operator: operator}
}

func (p *Primitive) Kind() NodeKind { return KindPrimitive }
func (p *Primitive) Validate() error { return nil }
func (p *Primitive) ShallowCloneWithChildren(ctx CloneContext) (Node, error) {
	clone := &Primitive{NodeBase: p.NodeBase, Operator: p.Operator}
	clone.ExternalID = NewExternalID()
	return clone, nil
}

// Concatenate joins its inputs along the outer dimension. Grounded on
// original_source/src/PrimitiveNodes/Concatenate.{h,cpp}: multi-dimensional
// Concatenate is an explicit documented gap (spec §7 "Unsupported
// configuration"), preserved here rather than guessed at.
type Concatenate struct {
	NodeBase
	Axis int
}

func NewConcatenate(name string, axis int) *Concatenate {
	return &Concatenate{NodeBase: NewNodeBase(name), Axis: axis}
}

func (c *Concatenate) Kind() NodeKind { return KindConcatenate }

// ErrMultiDimConcatenateUnsupported is returned by Validate when a
// Concatenate node would need to join along a non-outer dimension.
var ErrMultiDimConcatenateUnsupported = fmt.Errorf("concatenate: multi-dimensional concatenate not yet implemented")

func (c *Concatenate) Validate() error {
	if c.Axis != 0 {
		return fmt.Errorf("%s: %w", c.NodeName, ErrMultiDimConcatenateUnsupported)
	}
	for _, in := range c.Inputs {
		if len(in.Type.Dims) > 1 {
			return fmt.Errorf("%s: %w", c.NodeName, ErrMultiDimConcatenateUnsupported)
		}
	}
	return nil
}

func (c *Concatenate) ShallowCloneWithChildren(ctx CloneContext) (Node, error) {
	clone := &Concatenate{NodeBase: c.NodeBase, Axis: c.Axis}
	clone.ExternalID = NewExternalID()
	return clone, nil
}

// LogicalOperator applies a boolean operator (AND/OR/XOR/NOT/...) across
// its inputs. Grounded on
// original_source/src/PrimitiveNodes/LogicalOperator.{h,cpp}.
type LogicalOperator struct {
	NodeBase
	Op string
}

func NewLogicalOperator(name, op string) *LogicalOperator {
	return &LogicalOperator{NodeBase: NewNodeBase(name), Op: op}
}

func (l *LogicalOperator) Kind() NodeKind { return KindLogicalOperator }

func (l *LogicalOperator) Validate() error {
	for _, in := range l.Inputs {
		if in.Type.Base != Bool {
			return fmt.Errorf("logical operator %s: all inputs must be bool, got %s", l.NodeName, in.Type.Base)
		}
	}
	return nil
}

func (l *LogicalOperator) ShallowCloneWithChildren(ctx CloneContext) (Node, error) {
	clone := &LogicalOperator{NodeBase: l.NodeBase, Op: l.Op}
	clone.ExternalID = NewExternalID()
	return clone, nil
}

// WrappingCounter is a stateful counter node that counts 0..CountTo-1 and
// wraps; §4.5's createSupportNodes attaches one as a downsample domain's
// context driver. Grounded on
// original_source/src/PrimitiveNodes/WrappingCounter.h.
type WrappingCounter struct {
	NodeBase
	CountTo int
	Init    int
}

func NewWrappingCounter(name string, countTo, init int) *WrappingCounter {
	return &WrappingCounter{NodeBase: NewNodeBase(name), CountTo: countTo, Init: init}
}

func (w *WrappingCounter) Kind() NodeKind { return KindWrappingCounter }
func (w *WrappingCounter) HasState() bool { return true }

func (w *WrappingCounter) Validate() error {
	if w.CountTo <= 0 {
		return fmt.Errorf("wrapping counter %s: count_to must be positive", w.NodeName)
	}
	if w.Init < 0 || w.Init >= w.CountTo {
		return fmt.Errorf("wrapping counter %s: init %d out of range [0, %d)", w.NodeName, w.Init, w.CountTo)
	}
	return nil
}

func (w *WrappingCounter) ShallowCloneWithChildren(ctx CloneContext) (Node, error) {
	clone := &WrappingCounter{NodeBase: w.NodeBase, CountTo: w.CountTo, Init: w.Init}
	clone.ExternalID = NewExternalID()
	return clone, nil
}

// BlackBox is an opaque stateful node whose emitted behavior is supplied
// externally (a hand-written C function); it exists in the IR purely to
// carry state-update obligations (§4.10) and port shape, grounded on
// original_source/src/PrimitiveNodes/BlackBox.{h,cpp}.
type BlackBox struct {
	NodeBase
	FunctionName string
	Stateful     bool
}

func NewBlackBox(name, fn string, stateful bool) *BlackBox {
	return &BlackBox{NodeBase: NewNodeBase(name), FunctionName: fn, Stateful: stateful}
}

func (b *BlackBox) Kind() NodeKind { return KindBlackBox }
func (b *BlackBox) HasState() bool { return b.Stateful }

func (b *BlackBox) Validate() error {
	if b.FunctionName == "" {
		return fmt.Errorf("black box %s: function name must be set", b.NodeName)
	}
	return nil
}

func (b *BlackBox) ShallowCloneWithChildren(ctx CloneContext) (Node, error) {
	clone := &BlackBox{NodeBase: b.NodeBase, FunctionName: b.FunctionName, Stateful: b.Stateful}
	clone.ExternalID = NewExternalID()
	return clone, nil
}

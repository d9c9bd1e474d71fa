package ir

import "fmt"

// MasterPortInfo is recorded per master port: the clock domain it belongs
// to, the original pre-expansion DataType, and (after blocking) the block
// size assigned to that port (spec §3).
type MasterPortInfo struct {
	ClockDomain      NodeID
	OriginalType     DataType
	BlockSize        int
}

type masterBase struct {
	NodeBase
	PortInfo []MasterPortInfo
}

func newMasterBase(name string) masterBase {
	return masterBase{NodeBase: NewNodeBase(name)}
}

// MasterInput is the top-level data source for the whole design.
type MasterInput struct{ masterBase }

func NewMasterInput(name string) *MasterInput {
	return &MasterInput{masterBase: newMasterBase(name)}
}
func (m *MasterInput) Kind() NodeKind { return KindMasterInput }
func (m *MasterInput) Validate() error {
	return validateMasterPortCounts(&m.masterBase, len(m.Outputs))
}
func (m *MasterInput) ShallowCloneWithChildren(ctx CloneContext) (Node, error) {
	return cloneMaster(&m.masterBase, func(b masterBase) Node { return &MasterInput{b} }), nil
}

// MasterOutput is the top-level sink for the whole design.
type MasterOutput struct{ masterBase }

func NewMasterOutput(name string) *MasterOutput {
	return &MasterOutput{masterBase: newMasterBase(name)}
}
func (m *MasterOutput) Kind() NodeKind { return KindMasterOutput }
func (m *MasterOutput) Validate() error {
	return validateMasterPortCounts(&m.masterBase, len(m.Inputs))
}
func (m *MasterOutput) ShallowCloneWithChildren(ctx CloneContext) (Node, error) {
	return cloneMaster(&m.masterBase, func(b masterBase) Node { return &MasterOutput{b} }), nil
}

// MasterVisualization is a sink used only for scope/plotting output; it
// behaves like MasterOutput for blocking/clock-domain purposes but is
// never wired to a real C output parameter.
type MasterVisualization struct{ masterBase }

func NewMasterVisualization(name string) *MasterVisualization {
	return &MasterVisualization{masterBase: newMasterBase(name)}
}
func (m *MasterVisualization) Kind() NodeKind { return KindMasterVisualization }
func (m *MasterVisualization) Validate() error {
	return validateMasterPortCounts(&m.masterBase, len(m.Inputs))
}
func (m *MasterVisualization) ShallowCloneWithChildren(ctx CloneContext) (Node, error) {
	return cloneMaster(&m.masterBase, func(b masterBase) Node { return &MasterVisualization{b} }), nil
}

// MasterUnconnected terminates otherwise-dangling output ports that the
// original design left unused.
type MasterUnconnected struct{ masterBase }

func NewMasterUnconnected(name string) *MasterUnconnected {
	return &MasterUnconnected{masterBase: newMasterBase(name)}
}
func (m *MasterUnconnected) Kind() NodeKind { return KindMasterUnconnected }
func (m *MasterUnconnected) Validate() error {
	return validateMasterPortCounts(&m.masterBase, len(m.Inputs))
}
func (m *MasterUnconnected) ShallowCloneWithChildren(ctx CloneContext) (Node, error) {
	return cloneMaster(&m.masterBase, func(b masterBase) Node { return &MasterUnconnected{b} }), nil
}

// MasterTerminator consumes an arc without producing any C statement;
// used on order-constraint-only paths that need no payload sink.
type MasterTerminator struct{ masterBase }

func NewMasterTerminator(name string) *MasterTerminator {
	return &MasterTerminator{masterBase: newMasterBase(name)}
}
func (m *MasterTerminator) Kind() NodeKind { return KindMasterTerminator }
func (m *MasterTerminator) Validate() error { return nil }
func (m *MasterTerminator) ShallowCloneWithChildren(ctx CloneContext) (Node, error) {
	return cloneMaster(&m.masterBase, func(b masterBase) Node { return &MasterTerminator{b} }), nil
}

func validateMasterPortCounts(m *masterBase, portCount int) error {
	if len(m.PortInfo) != 0 && len(m.PortInfo) != portCount {
		return fmt.Errorf("master %s: port info count %d != port count %d", m.NodeName, len(m.PortInfo), portCount)
	}
	return nil
}

func cloneMaster(m *masterBase, ctor func(masterBase) Node) Node {
	clone := masterBase{
		NodeBase: m.NodeBase,
		PortInfo: append([]MasterPortInfo(nil), m.PortInfo...),
	}
	clone.ExternalID = NewExternalID()
	return ctor(clone)
}

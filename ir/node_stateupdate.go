package ir

// StateUpdate is the auxiliary node created for every stateful producer
// (§4.10): it consumes the source-side temporary(ies) holding the
// freshly computed next-state, and every direct downstream dependent of
// the primary node holds an order-constraint edge into it, so the
// scheduler never commits next_state -> state until every reader of the
// prior state has executed.
type StateUpdate struct {
	NodeBase

	Primary NodeID
}

func NewStateUpdate(name string, primary NodeID) *StateUpdate {
	return &StateUpdate{NodeBase: NewNodeBase(name), Primary: primary}
}

func (s *StateUpdate) Kind() NodeKind { return KindStateUpdate }

func (s *StateUpdate) Validate() error { return nil }

func (s *StateUpdate) ShallowCloneWithChildren(ctx CloneContext) (Node, error) {
	clone := &StateUpdate{NodeBase: s.NodeBase, Primary: s.Primary}
	clone.ExternalID = NewExternalID()
	return clone, nil
}

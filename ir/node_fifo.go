package ir

import (
	"fmt"

	"github.com/sarchlab/dfcompile/fifo"
)

// ThreadCrossingFIFO is the node placed on each inter-partition arc group
// (§4.3); it owns its block size, initial conditions, target clock
// domain, and the shared state of the lock-free ring (§4.9).
type ThreadCrossingFIFO struct {
	NodeBase

	SrcPartition int
	DstPartition int

	BlockSize         int
	Capacity          int
	InitialConditions []NumericValue
	TargetClockDomain NodeID

	HasOrderConstraintInputs  bool
	HasOrderConstraintOutputs bool

	ring *fifo.Ring
}

// NewThreadCrossingFIFO constructs a FIFO node with the given capacity
// (fifo_length, in blocks) and initial conditions.
func NewThreadCrossingFIFO(name string, capacity, blockSize int, initCond []NumericValue) *ThreadCrossingFIFO {
	if len(initCond) > capacity*blockSize {
		panic(fmt.Sprintf(
			"thread-crossing fifo %s: %d initial condition elements exceed capacity*blockSize=%d",
			name, len(initCond), capacity*blockSize,
		))
	}
	f := &ThreadCrossingFIFO{
		NodeBase:          NewNodeBase(name),
		Capacity:          capacity,
		BlockSize:         blockSize,
		InitialConditions: initCond,
	}
	return f
}

func (f *ThreadCrossingFIFO) Kind() NodeKind { return KindThreadCrossingFIFO }

func (f *ThreadCrossingFIFO) Validate() error {
	if len(f.Inputs) != 1 {
		return fmt.Errorf("fifo %s: must have exactly one input port", f.NodeName)
	}
	if len(f.InitialConditions)%f.BlockSize != 0 {
		return fmt.Errorf(
			"fifo %s: initial condition count %d is not a multiple of block size %d",
			f.NodeName, len(f.InitialConditions), f.BlockSize,
		)
	}
	return nil
}

func (f *ThreadCrossingFIFO) ShallowCloneWithChildren(ctx CloneContext) (Node, error) {
	clone := &ThreadCrossingFIFO{
		NodeBase:                  f.NodeBase,
		SrcPartition:              f.SrcPartition,
		DstPartition:              f.DstPartition,
		BlockSize:                 f.BlockSize,
		Capacity:                  f.Capacity,
		InitialConditions:         append([]NumericValue(nil), f.InitialConditions...),
		TargetClockDomain:         f.TargetClockDomain,
		HasOrderConstraintInputs:  f.HasOrderConstraintInputs,
		HasOrderConstraintOutputs: f.HasOrderConstraintOutputs,
	}
	clone.ExternalID = NewExternalID()
	return clone, nil
}

// InitialConditionBlocks returns the number of whole blocks currently
// seeded (used by reshapeFIFOInitialConditions, §4.4).
func (f *ThreadCrossingFIFO) InitialConditionBlocks() int {
	return len(f.InitialConditions) / f.BlockSize
}

// RemainingCapacityElements returns how many more initial-condition
// elements can be absorbed before the FIFO is full, per §4.4 "Absorb
// input delay" ("fifo_capacity − current_initial_elements").
func (f *ThreadCrossingFIFO) RemainingCapacityElements() int {
	return f.Capacity*f.BlockSize - len(f.InitialConditions)
}

// Materialize builds (or rebuilds) the backing lock-free ring from the
// node's current capacity/initial-condition state. Package emit does not
// call it; ScheduleWalker reads the node's fields directly.
func (f *ThreadCrossingFIFO) Materialize() *fifo.Ring {
	blocks := make([]fifo.Block, f.InitialConditionBlocks())
	for i := range blocks {
		blocks[i] = f.InitialConditions[i*f.BlockSize : (i+1)*f.BlockSize]
	}
	f.ring = fifo.NewRing(f.Capacity, blocks)
	return f.ring
}

// Ring returns the last-materialized ring, or nil if Materialize has not
// been called.
func (f *ThreadCrossingFIFO) Ring() *fifo.Ring { return f.ring }

// Package emit specifies the emission driver contract of spec §4.11 and
// provides an in-memory reference realizer, ScheduleWalker, that performs
// the ordered walk without producing C text. The real C text emitter is
// explicitly out of scope (spec §1 Non-goals); this package tests the
// scheduling/ordering logic, which is core.
package emit

import (
	"github.com/sarchlab/dfcompile/ir"
)

// FIFOHeader describes one thread-crossing FIFO's emitted struct layout
// (spec §6 "FIFO-header file").
type FIFOHeader struct {
	FIFOID    ir.NodeID
	Name      string
	BlockSize int
	Fields    []string // one "port<i>_real"/"port<i>_imag" per real/imag component
}

// ComputeSignature describes one partition's compute-function signature
// (spec §6 "compute-function signature").
type ComputeSignature struct {
	Partition  int
	ParamNames []string
	ParamTypes []ir.DataType
	ThreadArgs string // "partition<N>_threadArgs_t"; ScheduleWalker adds no design-name prefix
}

// Driver is the contract an emission backend implements; spec §4.11's
// seven-step scheduling loop is realized by calling these methods in
// order for each partition. A real backend renders C text; the test
// backend (NullDriver) just records calls.
type Driver interface {
	// EmitFIFOHeader is called once per FIFO discovered in the design,
	// before any partition is emitted.
	EmitFIFOHeader(h FIFOHeader)

	// EmitComputeSignature is called once per partition, before its
	// scheduled node walk.
	EmitComputeSignature(sig ComputeSignature)

	// EmitPartition is called once per partition with its final
	// schedule: the topologically-ordered node list a compute function
	// must execute, per spec §4.11 step 4.
	EmitPartition(partition int, schedule []ir.NodeID)
}

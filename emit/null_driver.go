package emit

import "github.com/sarchlab/dfcompile/ir"

// NullDriver records every call it receives instead of emitting text,
// so ScheduleWalker's ordering/scheduling logic can be asserted on in
// tests without a real C backend.
type NullDriver struct {
	FIFOHeaders []FIFOHeader
	Signatures  []ComputeSignature
	Partitions  []PartitionCall
}

// PartitionCall records one EmitPartition invocation.
type PartitionCall struct {
	Partition int
	Schedule  []ir.NodeID
}

func (d *NullDriver) EmitFIFOHeader(h FIFOHeader) {
	d.FIFOHeaders = append(d.FIFOHeaders, h)
}

func (d *NullDriver) EmitComputeSignature(sig ComputeSignature) {
	d.Signatures = append(d.Signatures, sig)
}

func (d *NullDriver) EmitPartition(partition int, schedule []ir.NodeID) {
	d.Partitions = append(d.Partitions, PartitionCall{Partition: partition, Schedule: schedule})
}

package emit

import (
	"fmt"
	"sort"

	"github.com/sarchlab/dfcompile/graph"
	"github.com/sarchlab/dfcompile/ir"
)

// ScheduleWalker performs the ordered walk of spec §4.11 steps 1-7 over
// an already-transformed graph, in memory, calling a Driver's methods in
// the order a real C backend would need them. It does not itself
// simulate FIFO traffic (steps 1-3, 5-7 are a real backend's runtime
// concern); it realizes the compile-time half: per-FIFO headers, each
// partition's compute signature, and each partition's node schedule
// (step 4).
type ScheduleWalker struct {
	g      *graph.Graph
	driver Driver
}

// NewScheduleWalker builds a walker over g that reports to driver.
func NewScheduleWalker(g *graph.Graph, driver Driver) *ScheduleWalker {
	return &ScheduleWalker{g: g, driver: driver}
}

// Walk drives the full emission contract: one EmitFIFOHeader call per
// thread-crossing FIFO (ordered by id for reproducibility), then one
// EmitComputeSignature + EmitPartition pair per partition number found
// among the graph's nodes (also in ascending order).
func (w *ScheduleWalker) Walk() error {
	if err := w.walkFIFOHeaders(); err != nil {
		return err
	}
	return w.walkPartitions()
}

func (w *ScheduleWalker) walkFIFOHeaders() error {
	var fifoIDs []ir.NodeID
	for _, id := range w.g.AllNodes() {
		n, err := w.g.Node(id)
		if err != nil {
			continue
		}
		if _, ok := n.(*ir.ThreadCrossingFIFO); ok {
			fifoIDs = append(fifoIDs, id)
		}
	}
	sort.Slice(fifoIDs, func(i, j int) bool { return fifoIDs[i] < fifoIDs[j] })

	for _, id := range fifoIDs {
		n, err := w.g.Node(id)
		if err != nil {
			return err
		}
		f := n.(*ir.ThreadCrossingFIFO)
		w.driver.EmitFIFOHeader(FIFOHeader{
			FIFOID:    id,
			Name:      f.Name(),
			BlockSize: f.BlockSize,
			Fields:    fifoFields(f),
		})
	}
	return nil
}

func fifoFields(f *ir.ThreadCrossingFIFO) []string {
	t := f.Outputs[0].Type
	if t.Complex {
		return []string{"port0_real", "port0_imag"}
	}
	return []string{"port0_real"}
}

func (w *ScheduleWalker) walkPartitions() error {
	byPartition := make(map[int][]ir.NodeID)
	for _, id := range w.g.AllNodes() {
		n, err := w.g.Node(id)
		if err != nil {
			continue
		}
		if _, ok := n.(*ir.ThreadCrossingFIFO); ok {
			continue // FIFOs bridge partitions, not scheduled within one
		}
		byPartition[n.Partition()] = append(byPartition[n.Partition()], id)
	}

	partitions := make([]int, 0, len(byPartition))
	for p := range byPartition {
		partitions = append(partitions, p)
	}
	sort.Ints(partitions)

	for _, p := range partitions {
		schedule, err := w.g.TopologicalOrder(byPartition[p])
		if err != nil {
			return fmt.Errorf("emit: partition %d: %w", p, err)
		}

		w.driver.EmitComputeSignature(ComputeSignature{
			Partition:  p,
			ParamNames: paramNames(w.g, schedule),
			ThreadArgs: fmt.Sprintf("partition%d_threadArgs_t", p),
		})
		w.driver.EmitPartition(p, schedule)
	}
	return nil
}

func paramNames(g *graph.Graph, schedule []ir.NodeID) []string {
	var names []string
	for _, id := range schedule {
		n, err := g.Node(id)
		if err != nil {
			continue
		}
		for i := range n.InputPorts() {
			names = append(names, fmt.Sprintf("%s_in%d", n.Name(), i))
		}
	}
	return names
}

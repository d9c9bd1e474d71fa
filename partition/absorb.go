package partition

import (
	"fmt"

	"github.com/sarchlab/dfcompile/graph"
	"github.com/sarchlab/dfcompile/ir"
)

// AbsorbResult reports the outcome of one absorption attempt (§4.4).
type AbsorbResult int

const (
	// AbsorbNone means no delay state could be absorbed (no eligible
	// delay, or the FIFO is already full).
	AbsorbNone AbsorbResult = iota
	// AbsorbFull means the delay was absorbed completely: its length
	// reached zero and it was spliced out of the graph.
	AbsorbFull
	// AbsorbPartialFull means the FIFO filled before the whole delay was
	// absorbed; the delay remains with residual state.
	AbsorbPartialFull
	// AbsorbPartialMergeInitCond means every initial condition the delay
	// held was merged into the FIFO, but the delay was longer than its
	// initial-condition list, so its length shrank and it was not deleted.
	AbsorbPartialMergeInitCond
)

// AbsorbDelays implements §4.4 end to end for one FIFO: it repeatedly
// attempts input-side then output-side absorption until neither makes
// further progress, then reshapes the FIFO's initial conditions to a
// whole number of blocks.
func AbsorbDelays(g *graph.Graph, fifoID ir.NodeID) error {
	for {
		in, err := absorbInputDelay(g, fifoID)
		if err != nil {
			return err
		}
		out, err := absorbOutputDelay(g, fifoID)
		if err != nil {
			return err
		}
		if in == AbsorbNone && out == AbsorbNone {
			break
		}
	}
	return reshapeFIFOInitialConditions(g, fifoID)
}

// absorbInputDelay implements the "Absorb input delay" rule: the unique
// producer feeding the FIFO must be a Delay with exactly one consumer
// (the FIFO) and the FIFO must have no order-constraint inputs.
func absorbInputDelay(g *graph.Graph, fifoID ir.NodeID) (AbsorbResult, error) {
	fn, err := g.Node(fifoID)
	if err != nil {
		return AbsorbNone, err
	}
	f := fn.(*ir.ThreadCrossingFIFO)
	if f.HasOrderConstraintInputs {
		return AbsorbNone, nil
	}

	inPort := f.Inputs[0]
	if len(inPort.Arcs()) != 1 {
		return AbsorbNone, nil
	}
	feedArc, err := g.Arc(inPort.Arcs()[0])
	if err != nil {
		return AbsorbNone, err
	}
	pn, err := g.Node(feedArc.SrcNode)
	if err != nil {
		return AbsorbNone, err
	}
	d, ok := pn.(*ir.Delay)
	if !ok {
		return AbsorbNone, nil
	}
	if consumerCount(d) != 1 {
		return AbsorbNone, nil
	}

	room := f.RemainingCapacityElements()
	if room <= 0 {
		return AbsorbNone, nil
	}

	take := len(d.InitialConditions)
	full := false
	if take > room {
		take = room
		full = true
	}
	if take == 0 {
		return AbsorbNone, nil
	}

	moved := d.InitialConditions[len(d.InitialConditions)-take:]
	f.InitialConditions = append(append([]ir.NumericValue(nil), moved...), f.InitialConditions...)
	d.InitialConditions = d.InitialConditions[:len(d.InitialConditions)-take]
	d.Length -= take

	if full {
		return AbsorbPartialFull, nil
	}
	if d.Length == 0 {
		if err := deleteDelayNode(g, d.ID(), feedArc, fifoID, true); err != nil {
			return AbsorbNone, err
		}
		return AbsorbFull, nil
	}
	return AbsorbPartialMergeInitCond, nil
}

// absorbOutputDelay implements the symmetric "Absorb output delay" rule:
// every consumer of the FIFO's output must be a Delay with identical
// initial conditions, and the FIFO must have no order-constraint
// outputs.
func absorbOutputDelay(g *graph.Graph, fifoID ir.NodeID) (AbsorbResult, error) {
	fn, err := g.Node(fifoID)
	if err != nil {
		return AbsorbNone, err
	}
	f := fn.(*ir.ThreadCrossingFIFO)
	if f.HasOrderConstraintOutputs {
		return AbsorbNone, nil
	}

	outPort := f.Outputs[0]
	arcIDs := outPort.Arcs()
	if len(arcIDs) == 0 {
		return AbsorbNone, nil
	}

	var delays []*ir.Delay
	var arcs []*ir.Arc
	for _, arcID := range arcIDs {
		a, aerr := g.Arc(arcID)
		if aerr != nil {
			return AbsorbNone, aerr
		}
		cn, cerr := g.Node(a.DstNode)
		if cerr != nil {
			return AbsorbNone, cerr
		}
		d, ok := cn.(*ir.Delay)
		if !ok {
			return AbsorbNone, nil
		}
		delays = append(delays, d)
		arcs = append(arcs, a)
	}
	for _, d := range delays[1:] {
		if !sameInitCond(d.InitialConditions, delays[0].InitialConditions) {
			return AbsorbNone, nil
		}
	}

	d0 := delays[0]
	room := f.RemainingCapacityElements()
	if room <= 0 {
		return AbsorbNone, nil
	}

	take := len(d0.InitialConditions)
	full := false
	if take > room {
		take = room
		full = true
	}
	if take == 0 {
		return AbsorbNone, nil
	}

	moved := d0.InitialConditions[:take]
	f.InitialConditions = append(f.InitialConditions, moved...)
	for i, d := range delays {
		d.InitialConditions = d.InitialConditions[take:]
		d.Length -= take
		if full {
			continue
		}
		if d.Length == 0 {
			if err := deleteDelayNode(g, d.ID(), arcs[i], fifoID, false); err != nil {
				return AbsorbNone, err
			}
		}
	}

	if full {
		return AbsorbPartialFull, nil
	}
	if d0.Length == 0 {
		return AbsorbFull, nil
	}
	return AbsorbPartialMergeInitCond, nil
}

func consumerCount(d *ir.Delay) int {
	n := 0
	for _, p := range d.Outputs {
		n += len(p.Arcs())
	}
	return n
}

func sameInitCond(a, b []ir.NumericValue) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// deleteDelayNode splices a fully-absorbed delay out of the graph,
// reconnecting its remaining upstream/downstream neighbor directly to
// the FIFO. inputSide selects which direction is being spliced: true
// when the delay fed the FIFO (its producer is reconnected straight to
// the FIFO input); false when the delay consumed the FIFO (the FIFO
// output is reconnected straight to the delay's consumer).
func deleteDelayNode(g *graph.Graph, delayID ir.NodeID, delayArc *ir.Arc, fifoID ir.NodeID, inputSide bool) error {
	dn, err := g.Node(delayID)
	if err != nil {
		return err
	}
	d := dn.(*ir.Delay)

	if inputSide {
		upPort := d.Inputs[0]
		if len(upPort.Arcs()) != 1 {
			return nil
		}
		upArc, err := g.Arc(upPort.Arcs()[0])
		if err != nil {
			return err
		}
		if err := delayArc.SetSrc(g, upArc.SrcNode, upArc.SrcPort); err != nil {
			return err
		}
		_, _, err = g.AddRemoveNodesAndArcs(graph.Mutation{RemoveArcs: []ir.ArcID{upArc.ID}, RemoveNodes: []ir.NodeID{delayID}})
		return err
	}

	downPort := d.Outputs[0]
	if len(downPort.Arcs()) != 1 {
		return nil
	}
	downArc, err := g.Arc(downPort.Arcs()[0])
	if err != nil {
		return err
	}
	if err := downArc.SetSrc(g, fifoID, 0); err != nil {
		return err
	}
	_, _, err = g.AddRemoveNodesAndArcs(graph.Mutation{RemoveArcs: []ir.ArcID{delayArc.ID}, RemoveNodes: []ir.NodeID{delayID}})
	return err
}

// reshapeFIFOInitialConditions implements the tail of §4.4: when the
// absorbed initial-condition count is not a whole number of blocks, the
// residual (non-block-aligned remainder) is moved out into a
// newly-inserted delay on the input side, leaving the FIFO itself
// block-aligned.
func reshapeFIFOInitialConditions(g *graph.Graph, fifoID ir.NodeID) error {
	fn, err := g.Node(fifoID)
	if err != nil {
		return err
	}
	f := fn.(*ir.ThreadCrossingFIFO)

	residual := len(f.InitialConditions) % f.BlockSize
	if residual == 0 {
		return nil
	}

	keep := len(f.InitialConditions) - residual
	spill := append([]ir.NumericValue(nil), f.InitialConditions[keep:]...)
	f.InitialConditions = f.InitialConditions[:keep]

	inPort := f.Inputs[0]
	if len(inPort.Arcs()) != 1 {
		return nil
	}
	feedArc, err := g.Arc(inPort.Arcs()[0])
	if err != nil {
		return err
	}

	delay := ir.NewDelay(fifoNodeSpillName(fifoID), residual, spill)
	srcNode, err := g.Node(feedArc.SrcNode)
	if err != nil {
		return err
	}
	delay.SetParent(srcNode.Parent())
	delay.SetPartition(srcNode.Partition())
	delay.AddInput("in", feedArc.Type)
	delay.AddOutput("out", feedArc.Type)

	ids, _, err := g.AddRemoveNodesAndArcs(graph.Mutation{AddNodes: []ir.Node{delay}})
	if err != nil {
		return err
	}
	delayID := ids[0]

	spliceArc := &ir.Arc{SrcNode: delayID, SrcPort: 0, DstNode: fifoID, DstPort: 0, Type: feedArc.Type, SampleTime: feedArc.SampleTime}
	if err := feedArc.SetDst(g, delayID, 0); err != nil {
		return err
	}
	_, _, err = g.AddRemoveNodesAndArcs(graph.Mutation{AddArcs: []*ir.Arc{spliceArc}})
	return err
}

func fifoNodeSpillName(fifoID ir.NodeID) string {
	return fmt.Sprintf("fifo_spill_%d", fifoID)
}

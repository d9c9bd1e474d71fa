package statecommit_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/dfcompile/graph"
	"github.com/sarchlab/dfcompile/ir"
	"github.com/sarchlab/dfcompile/statecommit"
)

func scalarType() ir.DataType {
	return ir.DataType{Base: ir.Int, Signed: true, TotalBits: 16, Dims: []int{1}}
}

// findStateUpdate returns the sole *ir.StateUpdate whose Primary is
// primaryID, or nil if none exists.
func findStateUpdate(g *graph.Graph, primaryID ir.NodeID) *ir.StateUpdate {
	for _, id := range g.AllNodes() {
		n, err := g.Node(id)
		if err != nil {
			continue
		}
		if su, ok := n.(*ir.StateUpdate); ok && su.Primary == primaryID {
			return su
		}
	}
	return nil
}

var _ = Describe("Run", func() {
	It("creates a companion StateUpdate node held back by every direct dependent", func() {
		g := graph.NewGraph()

		delay := ir.NewDelay("d", 2, []ir.NumericValue{ir.IntValue(0), ir.IntValue(0)})
		delay.AddInput("in", scalarType())
		delay.AddOutput("out", scalarType())

		reader1 := ir.NewPrimitive("r1", "Add")
		reader1.AddInput("in", scalarType())

		reader2 := ir.NewPrimitive("r2", "Add")
		reader2.AddInput("in", scalarType())

		ids, _, err := g.AddRemoveNodesAndArcs(graph.Mutation{AddNodes: []ir.Node{delay, reader1, reader2}})
		Expect(err).NotTo(HaveOccurred())
		delayID, r1ID, r2ID := ids[0], ids[1], ids[2]

		_, _, err = g.AddRemoveNodesAndArcs(graph.Mutation{AddArcs: []*ir.Arc{
			{SrcNode: delayID, SrcPort: 0, DstNode: r1ID, DstPort: 0, Type: scalarType()},
			{SrcNode: delayID, SrcPort: 0, DstNode: r2ID, DstPort: 0, Type: scalarType()},
		}})
		Expect(err).NotTo(HaveOccurred())

		Expect(statecommit.Run(g)).To(Succeed())

		su := findStateUpdate(g, delayID)
		Expect(su).NotTo(BeNil())
		Expect(su.InputPorts()).To(HaveLen(1))
		Expect(su.InputPorts()[0].Type).To(Equal(scalarType()))
		Expect(su.InputPorts()[0].Arcs()).To(HaveLen(1))

		Expect(su.OrderConstraintIn()).NotTo(BeNil())
		Expect(su.OrderConstraintIn().Arcs()).To(HaveLen(2))

		for _, readerID := range []ir.NodeID{r1ID, r2ID} {
			reader, err := g.Node(readerID)
			Expect(err).NotTo(HaveOccurred())
			Expect(reader.OrderConstraintOut()).NotTo(BeNil())
			Expect(reader.OrderConstraintOut().Arcs()).To(HaveLen(1))
		}

		var orderArcs int
		for _, a := range g.AllArcs() {
			if a.OrderOnly {
				orderArcs++
				Expect(a.DstNode).To(Equal(su.ID()))
			}
		}
		Expect(orderArcs).To(Equal(2))
	})

	It("still commits a companion node for a stateful node with no dependents", func() {
		g := graph.NewGraph()

		counter := ir.NewWrappingCounter("c", 8, 0)
		counter.AddOutput("out", scalarType())

		ids, _, err := g.AddRemoveNodesAndArcs(graph.Mutation{AddNodes: []ir.Node{counter}})
		Expect(err).NotTo(HaveOccurred())
		counterID := ids[0]

		Expect(statecommit.Run(g)).To(Succeed())

		su := findStateUpdate(g, counterID)
		Expect(su).NotTo(BeNil())
		Expect(su.OrderConstraintIn()).To(BeNil())
		Expect(su.InputPorts()).To(HaveLen(1))
		Expect(su.InputPorts()[0].Arcs()).To(HaveLen(1))
	})

	It("leaves a stateless graph untouched", func() {
		g := graph.NewGraph()

		a := ir.NewPrimitive("a", "Add")
		a.AddOutput("out", scalarType())
		b := ir.NewPrimitive("b", "Add")
		b.AddInput("in", scalarType())

		ids, _, err := g.AddRemoveNodesAndArcs(graph.Mutation{AddNodes: []ir.Node{a, b}})
		Expect(err).NotTo(HaveOccurred())

		_, _, err = g.AddRemoveNodesAndArcs(graph.Mutation{AddArcs: []*ir.Arc{
			{SrcNode: ids[0], SrcPort: 0, DstNode: ids[1], DstPort: 0, Type: scalarType()},
		}})
		Expect(err).NotTo(HaveOccurred())

		before := len(g.AllNodes())
		Expect(statecommit.Run(g)).To(Succeed())
		Expect(g.AllNodes()).To(HaveLen(before))
	})
})

package graph_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/dfcompile/graph"
	"github.com/sarchlab/dfcompile/ir"
)

var _ = Describe("TopologicalOrder", func() {
	It("orders a chain and breaks same-indegree ties by ascending id", func() {
		g := graph.NewGraph()

		mkNode := func(name string, in, out bool) ir.Node {
			n := ir.NewPrimitive(name, "Add")
			if in {
				n.AddInput("in", scalarType())
			}
			if out {
				n.AddOutput("out", scalarType())
			}
			return n
		}

		root := mkNode("root", false, true)
		left := mkNode("left", true, true)
		right := mkNode("right", true, true)
		sink := ir.NewPrimitive("sink", "Add")
		sink.AddInput("in0", scalarType())
		sink.AddInput("in1", scalarType())

		ids, _, err := g.AddRemoveNodesAndArcs(graph.Mutation{AddNodes: []ir.Node{root, left, right, sink}})
		Expect(err).NotTo(HaveOccurred())
		rootID, leftID, rightID, sinkID := ids[0], ids[1], ids[2], ids[3]

		_, _, err = g.AddRemoveNodesAndArcs(graph.Mutation{AddArcs: []*ir.Arc{
			{SrcNode: rootID, SrcPort: 0, DstNode: leftID, DstPort: 0, Type: scalarType()},
			{SrcNode: rootID, SrcPort: 0, DstNode: rightID, DstPort: 0, Type: scalarType()},
			{SrcNode: leftID, SrcPort: 0, DstNode: sinkID, DstPort: 0, Type: scalarType()},
			{SrcNode: rightID, SrcPort: 0, DstNode: sinkID, DstPort: 1, Type: scalarType()},
		}})
		Expect(err).NotTo(HaveOccurred())

		order, err := g.TopologicalOrder(g.AllNodes())
		Expect(err).NotTo(HaveOccurred())
		Expect(order).To(Equal([]ir.NodeID{rootID, leftID, rightID, sinkID}))
	})

	It("reports ErrCycle for a scope whose arcs cannot be linearized", func() {
		g := graph.NewGraph()

		a := ir.NewPrimitive("a", "Add")
		a.AddInput("in", scalarType())
		a.AddOutput("out", scalarType())
		b := ir.NewPrimitive("b", "Add")
		b.AddInput("in", scalarType())
		b.AddOutput("out", scalarType())

		ids, _, err := g.AddRemoveNodesAndArcs(graph.Mutation{AddNodes: []ir.Node{a, b}})
		Expect(err).NotTo(HaveOccurred())
		aID, bID := ids[0], ids[1]

		_, _, err = g.AddRemoveNodesAndArcs(graph.Mutation{AddArcs: []*ir.Arc{
			{SrcNode: aID, SrcPort: 0, DstNode: bID, DstPort: 0, Type: scalarType()},
			{SrcNode: bID, SrcPort: 0, DstNode: aID, DstPort: 0, Type: scalarType()},
		}})
		Expect(err).NotTo(HaveOccurred())

		_, err = g.TopologicalOrder(g.AllNodes())
		Expect(err).To(HaveOccurred())
		var cycleErr *graph.ErrCycle
		Expect(err).To(BeAssignableToTypeOf(cycleErr))
	})
})

package graph_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/dfcompile/graph"
	"github.com/sarchlab/dfcompile/ir"
)

func scalarType() ir.DataType {
	return ir.DataType{Base: ir.Int, Signed: true, TotalBits: 16, Dims: []int{1}}
}

var _ = Describe("AddRemoveNodesAndArcs", func() {
	It("assigns node and arc ids in input order and wires arcs to both ports", func() {
		g := graph.NewGraph()

		a := ir.NewPrimitive("a", "Add")
		a.AddOutput("out", scalarType())
		b := ir.NewPrimitive("b", "Add")
		b.AddInput("in", scalarType())

		ids, _, err := g.AddRemoveNodesAndArcs(graph.Mutation{AddNodes: []ir.Node{a, b}})
		Expect(err).NotTo(HaveOccurred())
		Expect(ids).To(HaveLen(2))
		aID, bID := ids[0], ids[1]
		Expect(aID).To(Equal(ir.NodeID(0)))
		Expect(bID).To(Equal(ir.NodeID(1)))

		_, arcIDs, err := g.AddRemoveNodesAndArcs(graph.Mutation{AddArcs: []*ir.Arc{
			{SrcNode: aID, SrcPort: 0, DstNode: bID, DstPort: 0, Type: scalarType()},
		}})
		Expect(err).NotTo(HaveOccurred())
		Expect(arcIDs).To(HaveLen(1))

		an, err := g.Node(aID)
		Expect(err).NotTo(HaveOccurred())
		Expect(an.OutputPorts()[0].Arcs()).To(ConsistOf(arcIDs[0]))

		bn, err := g.Node(bID)
		Expect(err).NotTo(HaveOccurred())
		Expect(bn.InputPorts()[0].Arcs()).To(ConsistOf(arcIDs[0]))
	})

	It("rejects removing a node still referenced by an arc not also scheduled for removal", func() {
		g := graph.NewGraph()

		a := ir.NewPrimitive("a", "Add")
		a.AddOutput("out", scalarType())
		b := ir.NewPrimitive("b", "Add")
		b.AddInput("in", scalarType())

		ids, _, err := g.AddRemoveNodesAndArcs(graph.Mutation{AddNodes: []ir.Node{a, b}})
		Expect(err).NotTo(HaveOccurred())
		aID, bID := ids[0], ids[1]

		_, _, err = g.AddRemoveNodesAndArcs(graph.Mutation{AddArcs: []*ir.Arc{
			{SrcNode: aID, SrcPort: 0, DstNode: bID, DstPort: 0, Type: scalarType()},
		}})
		Expect(err).NotTo(HaveOccurred())

		_, _, err = g.AddRemoveNodesAndArcs(graph.Mutation{RemoveNodes: []ir.NodeID{aID}})
		Expect(err).To(HaveOccurred())
		Expect(err).To(BeAssignableToTypeOf(&graph.ErrReferentialIntegrity{}))
	})

	It("allows removing a node when its arc is removed in the same mutation", func() {
		g := graph.NewGraph()

		a := ir.NewPrimitive("a", "Add")
		a.AddOutput("out", scalarType())
		b := ir.NewPrimitive("b", "Add")
		b.AddInput("in", scalarType())

		ids, _, err := g.AddRemoveNodesAndArcs(graph.Mutation{AddNodes: []ir.Node{a, b}})
		Expect(err).NotTo(HaveOccurred())
		aID, bID := ids[0], ids[1]

		_, arcIDs, err := g.AddRemoveNodesAndArcs(graph.Mutation{AddArcs: []*ir.Arc{
			{SrcNode: aID, SrcPort: 0, DstNode: bID, DstPort: 0, Type: scalarType()},
		}})
		Expect(err).NotTo(HaveOccurred())

		_, _, err = g.AddRemoveNodesAndArcs(graph.Mutation{
			RemoveNodes: []ir.NodeID{aID},
			RemoveArcs:  []ir.ArcID{arcIDs[0]},
		})
		Expect(err).NotTo(HaveOccurred())

		_, err = g.Node(aID)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("hierarchy wiring", func() {
	It("registers a parentless node at the top level and a parented node under its parent's children", func() {
		g := graph.NewGraph()

		parent := ir.NewSubsystem("sub")
		pids, _, err := g.AddRemoveNodesAndArcs(graph.Mutation{AddNodes: []ir.Node{parent}})
		Expect(err).NotTo(HaveOccurred())
		parentID := pids[0]

		child := ir.NewPrimitive("child", "Add")
		child.SetParent(parentID)
		cids, _, err := g.AddRemoveNodesAndArcs(graph.Mutation{AddNodes: []ir.Node{child}})
		Expect(err).NotTo(HaveOccurred())
		childID := cids[0]

		Expect(g.TopLevelNodes()).To(ConsistOf(parentID))
		Expect(g.Children(parentID)).To(ConsistOf(childID))
	})
})

package graph_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/dfcompile/graph"
	"github.com/sarchlab/dfcompile/ir"
)

var _ = Describe("SCCFinder", func() {
	It("groups a 3-cycle into one component and leaves an unconnected node a singleton", func() {
		g := graph.NewGraph()

		mk := func(name string) *ir.Primitive {
			n := ir.NewPrimitive(name, "Add")
			n.AddInput("in", scalarType())
			n.AddOutput("out", scalarType())
			return n
		}
		a, b, c, d := mk("a"), mk("b"), mk("c"), mk("d")

		ids, _, err := g.AddRemoveNodesAndArcs(graph.Mutation{AddNodes: []ir.Node{a, b, c, d}})
		Expect(err).NotTo(HaveOccurred())
		aID, bID, cID, dID := ids[0], ids[1], ids[2], ids[3]

		_, _, err = g.AddRemoveNodesAndArcs(graph.Mutation{AddArcs: []*ir.Arc{
			{SrcNode: aID, SrcPort: 0, DstNode: bID, DstPort: 0, Type: scalarType()},
			{SrcNode: bID, SrcPort: 0, DstNode: cID, DstPort: 0, Type: scalarType()},
			{SrcNode: cID, SrcPort: 0, DstNode: aID, DstPort: 0, Type: scalarType()},
		}})
		Expect(err).NotTo(HaveOccurred())

		finder := graph.NewSCCFinder(g, nil)
		sccs := finder.StronglyConnectedComponents(g.AllNodes())

		var cyclic, singleton [][]ir.NodeID
		for _, scc := range sccs {
			if len(scc) > 1 {
				cyclic = append(cyclic, scc)
			} else {
				singleton = append(singleton, scc)
			}
		}
		Expect(cyclic).To(HaveLen(1))
		Expect(cyclic[0]).To(ConsistOf(aID, bID, cID))
		Expect(singleton).To(ContainElement([]ir.NodeID{dID}))
	})

	It("WithEdgeFilter breaks a cycle when the filter excludes its closing edge", func() {
		g := graph.NewGraph()

		mk := func(name string) *ir.Primitive {
			n := ir.NewPrimitive(name, "Add")
			n.AddInput("in", scalarType())
			n.AddOutput("out", scalarType())
			return n
		}
		a, b := mk("a"), mk("b")

		ids, _, err := g.AddRemoveNodesAndArcs(graph.Mutation{AddNodes: []ir.Node{a, b}})
		Expect(err).NotTo(HaveOccurred())
		aID, bID := ids[0], ids[1]

		_, _, err = g.AddRemoveNodesAndArcs(graph.Mutation{AddArcs: []*ir.Arc{
			{SrcNode: aID, SrcPort: 0, DstNode: bID, DstPort: 0, Type: scalarType()},
			{SrcNode: bID, SrcPort: 0, DstNode: aID, DstPort: 0, Type: scalarType()},
		}})
		Expect(err).NotTo(HaveOccurred())

		finder := graph.NewSCCFinder(g, nil).WithEdgeFilter(func(src, dst ir.NodeID) bool {
			return !(src == bID && dst == aID)
		})
		sccs := finder.StronglyConnectedComponents(g.AllNodes())
		for _, scc := range sccs {
			Expect(len(scc)).To(Equal(1))
		}
	})
})

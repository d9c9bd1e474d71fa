package graph_test

import (
	"github.com/hashicorp/go-multierror"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/dfcompile/graph"
	"github.com/sarchlab/dfcompile/ir"
)

var _ = Describe("Validate", func() {
	It("passes a graph whose input ports each have exactly one incoming arc", func() {
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

		Expect(g.Validate()).To(Succeed())
	})

	It("collects both a missing-incoming-arc and an arc-type-mismatch violation in one multierror", func() {
		g := graph.NewGraph()

		a := ir.NewPrimitive("a", "Add")
		a.AddOutput("out", scalarType())
		b := ir.NewPrimitive("b", "Add")
		b.AddInput("in0", scalarType())
		b.AddInput("in1", scalarType()) // left unconnected: invariant (i) violation

		ids, _, err := g.AddRemoveNodesAndArcs(graph.Mutation{AddNodes: []ir.Node{a, b}})
		Expect(err).NotTo(HaveOccurred())
		aID, bID := ids[0], ids[1]

		wrongType := ir.DataType{Base: ir.Int, Signed: true, TotalBits: 32, Dims: []int{1}}
		_, _, err = g.AddRemoveNodesAndArcs(graph.Mutation{AddArcs: []*ir.Arc{
			{SrcNode: aID, SrcPort: 0, DstNode: bID, DstPort: 0, Type: wrongType},
		}})
		Expect(err).NotTo(HaveOccurred())

		verr := g.Validate()
		Expect(verr).To(HaveOccurred())

		merr, ok := verr.(*multierror.Error)
		Expect(ok).To(BeTrue())
		Expect(len(merr.Errors)).To(BeNumerically(">=", 2))
	})
})

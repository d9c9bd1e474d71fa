package main

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/dfcompile/config"
	"github.com/sarchlab/dfcompile/emit"
	"github.com/sarchlab/dfcompile/graph"
	"github.com/sarchlab/dfcompile/ir"
)

func scalarType() ir.DataType {
	return ir.DataType{Base: ir.Int, Signed: true, TotalBits: 16, Dims: []int{1}}
}

var _ = Describe("RunPipeline", func() {
	It("compiles an empty graph and emits no FIFO headers or partitions", func() {
		g := graph.NewGraph()
		cfg, err := config.NewPipelineBuilder().Build()
		Expect(err).NotTo(HaveOccurred())

		driver := &emit.NullDriver{}
		Expect(RunPipeline(g, cfg, driver)).To(Succeed())
		Expect(driver.FIFOHeaders).To(BeEmpty())
		Expect(driver.Partitions).To(BeEmpty())
	})

	It("schedules a two-node single-partition graph with no transformation needed", func() {
		g := graph.NewGraph()

		src := ir.NewPrimitive("src", "Add")
		src.AddOutput("out", scalarType())
		dst := ir.NewPrimitive("dst", "Add")
		dst.AddInput("in", scalarType())

		ids, _, err := g.AddRemoveNodesAndArcs(graph.Mutation{AddNodes: []ir.Node{src, dst}})
		Expect(err).NotTo(HaveOccurred())
		srcID, dstID := ids[0], ids[1]

		_, _, err = g.AddRemoveNodesAndArcs(graph.Mutation{AddArcs: []*ir.Arc{
			{SrcNode: srcID, SrcPort: 0, DstNode: dstID, DstPort: 0, Type: scalarType()},
		}})
		Expect(err).NotTo(HaveOccurred())

		cfg, err := config.NewPipelineBuilder().Build()
		Expect(err).NotTo(HaveOccurred())

		driver := &emit.NullDriver{}
		Expect(RunPipeline(g, cfg, driver)).To(Succeed())
		Expect(driver.FIFOHeaders).To(BeEmpty())
		Expect(driver.Partitions).To(HaveLen(1))
		Expect(driver.Partitions[0].Schedule).To(Equal([]ir.NodeID{srcID, dstID}))
	})
})

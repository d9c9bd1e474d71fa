package emit_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/dfcompile/emit"
	"github.com/sarchlab/dfcompile/graph"
	"github.com/sarchlab/dfcompile/ir"
)

func scalarType() ir.DataType {
	return ir.DataType{Base: ir.Int, Signed: true, TotalBits: 16, Dims: []int{1}}
}

var _ = Describe("ScheduleWalker", func() {
	It("emits one FIFO header and a schedule per partition in ascending order", func() {
		g := graph.NewGraph()

		src := ir.NewPrimitive("src", "Add")
		src.SetPartition(0)
		src.AddOutput("out", scalarType())

		dst := ir.NewPrimitive("dst", "Add")
		dst.SetPartition(1)
		dst.AddInput("in", scalarType())

		ids, _, err := g.AddRemoveNodesAndArcs(graph.Mutation{AddNodes: []ir.Node{src, dst}})
		Expect(err).NotTo(HaveOccurred())
		srcID, dstID := ids[0], ids[1]

		fifoNode := ir.NewThreadCrossingFIFO("fifo0", 4, 1, nil)
		fifoNode.SetPartition(0)
		fifoNode.AddInput("in", scalarType())
		fifoNode.AddOutput("out", scalarType())
		fids, _, err := g.AddRemoveNodesAndArcs(graph.Mutation{AddNodes: []ir.Node{fifoNode}})
		Expect(err).NotTo(HaveOccurred())
		fifoID := fids[0]

		_, _, err = g.AddRemoveNodesAndArcs(graph.Mutation{AddArcs: []*ir.Arc{
			{SrcNode: srcID, SrcPort: 0, DstNode: fifoID, DstPort: 0, Type: scalarType()},
			{SrcNode: fifoID, SrcPort: 0, DstNode: dstID, DstPort: 0, Type: scalarType()},
		}})
		Expect(err).NotTo(HaveOccurred())

		driver := &emit.NullDriver{}
		walker := emit.NewScheduleWalker(g, driver)
		Expect(walker.Walk()).To(Succeed())

		Expect(driver.FIFOHeaders).To(HaveLen(1))
		Expect(driver.FIFOHeaders[0].Name).To(Equal("fifo0"))

		Expect(driver.Partitions).To(HaveLen(2))
		Expect(driver.Partitions[0].Partition).To(Equal(0))
		Expect(driver.Partitions[0].Schedule).To(Equal([]ir.NodeID{srcID}))
		Expect(driver.Partitions[1].Partition).To(Equal(1))
		Expect(driver.Partitions[1].Schedule).To(Equal([]ir.NodeID{dstID}))
	})
})

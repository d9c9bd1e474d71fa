package partition_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/dfcompile/graph"
	"github.com/sarchlab/dfcompile/ir"
	"github.com/sarchlab/dfcompile/partition"
)

func scalarType() ir.DataType {
	return ir.DataType{Base: ir.Int, Signed: true, TotalBits: 16, Dims: []int{1}}
}

var _ = Describe("scalar passthrough", func() {
	It("fully absorbs a delay between two partitions (spec scenario 1)", func() {
		g := graph.NewGraph()

		in := ir.NewMasterInput("in")
		in.SetPartition(-2)
		in.AddOutput("out", scalarType())

		delay := ir.NewDelay("d", 3, []ir.NumericValue{ir.IntValue(0), ir.IntValue(0), ir.IntValue(0)})
		delay.SetPartition(-2)
		delay.AddInput("in", scalarType())
		delay.AddOutput("out", scalarType())

		out := ir.NewMasterOutput("out")
		out.SetPartition(0)
		out.AddInput("in", scalarType())

		ids, _, err := g.AddRemoveNodesAndArcs(graph.Mutation{AddNodes: []ir.Node{in, delay, out}})
		Expect(err).NotTo(HaveOccurred())
		inID, delayID, outID := ids[0], ids[1], ids[2]

		_, _, err = g.AddRemoveNodesAndArcs(graph.Mutation{AddArcs: []*ir.Arc{
			{SrcNode: inID, SrcPort: 0, DstNode: delayID, DstPort: 0, Type: scalarType()},
			{SrcNode: delayID, SrcPort: 0, DstNode: outID, DstPort: 0, Type: scalarType()},
		}})
		Expect(err).NotTo(HaveOccurred())

		groups := partition.GroupArcsAtPartitionCrossings(g)
		Expect(groups).To(HaveLen(1))

		fifoIDs, err := partition.InsertFIFOs(g, groups, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(fifoIDs).To(HaveLen(1))

		Expect(partition.AbsorbDelays(g, fifoIDs[0])).To(Succeed())

		_, err = g.Node(delayID)
		Expect(err).To(HaveOccurred(), "delay should be fully absorbed and removed")

		fn, err := g.Node(fifoIDs[0])
		Expect(err).NotTo(HaveOccurred())
		f := fn.(*ir.ThreadCrossingFIFO)
		Expect(f.InitialConditions).To(HaveLen(3))
	})
})

var _ = Describe("partition crossing with merge", func() {
	It("groups two arcs to the same destination partition/domain into one FIFO (spec scenario 4)", func() {
		g := graph.NewGraph()

		src := ir.NewPrimitive("n", "Add")
		src.SetPartition(0)
		src.AddOutput("out", scalarType())

		dst1 := ir.NewPrimitive("d1", "Add")
		dst1.SetPartition(1)
		dst1.AddInput("in", scalarType())

		dst2 := ir.NewPrimitive("d2", "Add")
		dst2.SetPartition(1)
		dst2.AddInput("in", scalarType())

		dst3 := ir.NewPrimitive("d3", "Add")
		dst3.SetPartition(2)
		dst3.AddInput("in", scalarType())

		ids, _, err := g.AddRemoveNodesAndArcs(graph.Mutation{AddNodes: []ir.Node{src, dst1, dst2, dst3}})
		Expect(err).NotTo(HaveOccurred())
		srcID, d1ID, d2ID, d3ID := ids[0], ids[1], ids[2], ids[3]

		_, _, err = g.AddRemoveNodesAndArcs(graph.Mutation{AddArcs: []*ir.Arc{
			{SrcNode: srcID, SrcPort: 0, DstNode: d1ID, DstPort: 0, Type: scalarType()},
			{SrcNode: srcID, SrcPort: 0, DstNode: d2ID, DstPort: 0, Type: scalarType()},
			{SrcNode: srcID, SrcPort: 0, DstNode: d3ID, DstPort: 0, Type: scalarType()},
		}})
		Expect(err).NotTo(HaveOccurred())

		groups := partition.GroupArcsAtPartitionCrossings(g)
		Expect(groups[[2]int{0, 1}]).To(HaveLen(1))
		Expect(groups[[2]int{0, 1}][0].Arcs).To(HaveLen(2))
		Expect(groups[[2]int{0, 2}]).To(HaveLen(1))
		Expect(groups[[2]int{0, 2}][0].Arcs).To(HaveLen(1))
	})
})

package emit_test

import (
	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/dfcompile/emit"
	"github.com/sarchlab/dfcompile/graph"
	"github.com/sarchlab/dfcompile/ir"
)

var _ = Describe("ScheduleWalker against a mocked Driver", func() {
	It("emits the FIFO header before any partition call, in ascending partition order", func() {
		mockCtrl := gomock.NewController(GinkgoT())
		mockDriver := emit.NewMockDriver(mockCtrl)

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

		gomock.InOrder(
			mockDriver.EXPECT().EmitFIFOHeader(gomock.Any()),
			mockDriver.EXPECT().EmitComputeSignature(gomock.Any()),
			mockDriver.EXPECT().EmitPartition(0, []ir.NodeID{srcID}),
			mockDriver.EXPECT().EmitComputeSignature(gomock.Any()),
			mockDriver.EXPECT().EmitPartition(1, []ir.NodeID{dstID}),
		)

		Expect(emit.NewScheduleWalker(g, mockDriver).Walk()).To(Succeed())
	})
})

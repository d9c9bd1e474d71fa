package blocking_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/dfcompile/blocking"
	"github.com/sarchlab/dfcompile/graph"
	"github.com/sarchlab/dfcompile/ir"
)

func scalarType() ir.DataType {
	return ir.DataType{Base: ir.Int, Signed: true, TotalBits: 16, Dims: []int{1}}
}

var _ = Describe("blocking group discovery", func() {
	It("groups a feedback SCC whose delay cannot break the cycle (spec scenario 3 shape)", func() {
		g := graph.NewGraph()

		a1 := ir.NewPrimitive("a1", "Add")
		a1.SetBaseSubBlockingLength(2)
		a1.AddInput("in0", scalarType())
		a1.AddInput("in1", scalarType())
		a1.AddOutput("out", scalarType())

		a2 := ir.NewPrimitive("a2", "Add")
		a2.SetBaseSubBlockingLength(2)
		a2.AddInput("in0", scalarType())
		a2.AddInput("in1", scalarType())
		a2.AddOutput("out", scalarType())

		d := ir.NewDelay("d", 1, []ir.NumericValue{ir.IntValue(0)})
		d.SetBaseSubBlockingLength(2)
		d.AddInput("in", scalarType())
		d.AddOutput("out", scalarType())

		ids, _, err := g.AddRemoveNodesAndArcs(graph.Mutation{AddNodes: []ir.Node{a1, a2, d}})
		Expect(err).NotTo(HaveOccurred())
		a1ID, a2ID, dID := ids[0], ids[1], ids[2]

		_, _, err = g.AddRemoveNodesAndArcs(graph.Mutation{AddArcs: []*ir.Arc{
			{SrcNode: a1ID, SrcPort: 0, DstNode: a2ID, DstPort: 0, Type: scalarType()},
			{SrcNode: a2ID, SrcPort: 0, DstNode: dID, DstPort: 0, Type: scalarType()},
			{SrcNode: dID, SrcPort: 0, DstNode: a1ID, DstPort: 1, Type: scalarType()},
		}})
		Expect(err).NotTo(HaveOccurred())

		groups, err := blocking.DiscoverGroups(g, g.AllNodes())
		Expect(err).NotTo(HaveOccurred())
		Expect(groups).To(HaveLen(1))
		Expect(groups[0].Nodes).To(ConsistOf(a1ID, a2ID, dID))
		Expect(groups[0].SubBlock).To(Equal(2))
	})

	It("rejects a merged group spanning mismatched base sub-blocking lengths", func() {
		g := graph.NewGraph()

		a1 := ir.NewPrimitive("a1", "Add")
		a1.SetBaseSubBlockingLength(2)
		a1.AddOutput("out", scalarType())
		a1.AddInput("in", scalarType())

		d := ir.NewDelay("d", 1, []ir.NumericValue{ir.IntValue(0)})
		d.SetBaseSubBlockingLength(4)
		d.AddInput("in", scalarType())
		d.AddOutput("out", scalarType())

		ids, _, err := g.AddRemoveNodesAndArcs(graph.Mutation{AddNodes: []ir.Node{a1, d}})
		Expect(err).NotTo(HaveOccurred())
		a1ID, dID := ids[0], ids[1]

		_, _, err = g.AddRemoveNodesAndArcs(graph.Mutation{AddArcs: []*ir.Arc{
			{SrcNode: a1ID, SrcPort: 0, DstNode: dID, DstPort: 0, Type: scalarType()},
			{SrcNode: dID, SrcPort: 0, DstNode: a1ID, DstPort: 0, Type: scalarType()},
		}})
		Expect(err).NotTo(HaveOccurred())

		_, err = blocking.DiscoverGroups(g, g.AllNodes())
		Expect(err).To(MatchError(blocking.ErrMixedSubBlockLength))
	})
})

var _ = Describe("bridge insertion", func() {
	It("splits an arc crossing a base-sub-blocking-length boundary (spec scenario 6)", func() {
		g := graph.NewGraph()

		src := ir.NewPrimitive("A", "Add")
		src.SetBaseSubBlockingLength(2)
		src.AddOutput("out", scalarType())

		dst := ir.NewPrimitive("B", "Add")
		dst.SetBaseSubBlockingLength(4)
		dst.AddInput("in", scalarType())

		ids, _, err := g.AddRemoveNodesAndArcs(graph.Mutation{AddNodes: []ir.Node{src, dst}})
		Expect(err).NotTo(HaveOccurred())
		srcID, dstID := ids[0], ids[1]

		_, _, err = g.AddRemoveNodesAndArcs(graph.Mutation{AddArcs: []*ir.Arc{
			{SrcNode: srcID, SrcPort: 0, DstNode: dstID, DstPort: 0, Type: scalarType()},
		}})
		Expect(err).NotTo(HaveOccurred())

		Expect(blocking.ResolveBridges(g)).To(Succeed())

		var bridgeID ir.NodeID
		for _, id := range g.AllNodes() {
			n, _ := g.Node(id)
			if n.Kind() == ir.KindBlockingBridge {
				bridgeID = id
			}
		}
		Expect(bridgeID).NotTo(Equal(ir.InvalidNodeID))

		bridge, err := g.Node(bridgeID)
		Expect(err).NotTo(HaveOccurred())
		bd := bridge.(*ir.BlockingDomainBridge)
		Expect(bd.InBaseSub).To(Equal(2))
		Expect(bd.OutBaseSub).To(Equal(4))

		dstNode, err := g.Node(dstID)
		Expect(err).NotTo(HaveOccurred())
		Expect(dstNode.InputPorts()[0].Arcs()).To(HaveLen(1))
		inArc, err := g.Arc(dstNode.InputPorts()[0].Arcs()[0])
		Expect(err).NotTo(HaveOccurred())
		Expect(inArc.SrcNode).To(Equal(bridgeID))
	})
})

package clockdomain_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/dfcompile/clockdomain"
	"github.com/sarchlab/dfcompile/graph"
	"github.com/sarchlab/dfcompile/ir"
)

func scalarType() ir.DataType {
	return ir.DataType{Base: ir.Int, Signed: true, TotalBits: 16, Dims: []int{1}}
}

var _ = Describe("Run", func() {
	It("discovers rate, specializes into a Downsample domain and attaches a driver counter", func() {
		g := graph.NewGraph()

		domain := ir.NewClockDomain("cd")
		domainIDs, _, err := g.AddRemoveNodesAndArcs(graph.Mutation{AddNodes: []ir.Node{domain}})
		Expect(err).NotTo(HaveOccurred())
		domainID := domainIDs[0]

		rcIn := ir.NewRateChangeInput("rcin")
		rcIn.Up, rcIn.Down = 1, 2
		rcIn.SetParent(domainID)
		rcIn.AddInput("in", scalarType())
		rcIn.AddOutput("out", scalarType())

		rcOut := ir.NewRateChangeOutput("rcout")
		rcOut.Up, rcOut.Down = 1, 2
		rcOut.SetParent(domainID)
		rcOut.AddInput("in", scalarType())
		rcOut.AddOutput("out", scalarType())

		inner := ir.NewPrimitive("inner", "Add")
		inner.SetParent(domainID)
		inner.AddInput("in", scalarType())
		inner.AddOutput("out", scalarType())

		ids, _, err := g.AddRemoveNodesAndArcs(graph.Mutation{AddNodes: []ir.Node{rcIn, rcOut, inner}})
		Expect(err).NotTo(HaveOccurred())
		rcInID, rcOutID, innerID := ids[0], ids[1], ids[2]

		_, _, err = g.AddRemoveNodesAndArcs(graph.Mutation{AddArcs: []*ir.Arc{
			{SrcNode: rcInID, SrcPort: 0, DstNode: innerID, DstPort: 0, Type: scalarType()},
			{SrcNode: innerID, SrcPort: 0, DstNode: rcOutID, DstPort: 0, Type: scalarType()},
		}})
		Expect(err).NotTo(HaveOccurred())

		Expect(clockdomain.Run(g)).To(Succeed())

		n, err := g.Node(domainID)
		Expect(err).NotTo(HaveOccurred())
		ds, ok := n.(*ir.DownsampleClockDomain)
		Expect(ok).To(BeTrue())
		Expect(ds.Rate.Up).To(Equal(1))
		Expect(ds.Rate.Down).To(Equal(2))
		Expect(ds.DriverSource).NotTo(Equal(ir.InvalidNodeID))
		Expect(ds.ReplicatesDriver).To(BeFalse())
	})

	It("leaves a (1,1) domain un-specialized and without a driver", func() {
		g := graph.NewGraph()

		domain := ir.NewClockDomain("cd")
		domain.Rate = ir.RateRatio{Up: 1, Down: 1}
		ids, _, err := g.AddRemoveNodesAndArcs(graph.Mutation{AddNodes: []ir.Node{domain}})
		Expect(err).NotTo(HaveOccurred())
		domainID := ids[0]

		Expect(clockdomain.Run(g)).To(Succeed())

		n, err := g.Node(domainID)
		Expect(err).NotTo(HaveOccurred())
		_, stillGeneric := n.(*ir.ClockDomain)
		Expect(stillGeneric).To(BeTrue())
	})
})

package ir_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/dfcompile/ir"
)

var _ = Describe("NumericValue", func() {
	DescribeTable("parsing scalar literals",
		func(lit string, want ir.NumericValue) {
			got, err := ir.ParseNumericValue(lit)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("plain integer", "42", ir.IntValue(42)),
		Entry("negative integer", "-7", ir.IntValue(-7)),
		Entry("plain float", "3.5", ir.FloatValue(3.5)),
		Entry("complex int a+bi", "2+3i", ir.NumericValue{Complex: true, IntReal: 2, IntImag: 3}),
		Entry("complex int with spaces", "2 + 3i", ir.NumericValue{Complex: true, IntReal: 2, IntImag: 3}),
		Entry("pure imaginary", "5i", ir.NumericValue{Complex: true, IntReal: 0, IntImag: 5}),
		Entry("bi + a form", "4i+1", ir.NumericValue{Complex: true, IntReal: 1, IntImag: 4}),
	)

	It("rejects malformed literals", func() {
		_, err := ir.ParseNumericValue("")
		Expect(err).To(HaveOccurred())
	})

	It("parses bracketed comma-separated vectors", func() {
		got, err := ir.ParseNumericVector("[0, 1, -2]")
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal([]ir.NumericValue{ir.IntValue(0), ir.IntValue(1), ir.IntValue(-2)}))
	})

	It("round-trips an empty vector", func() {
		got, err := ir.ParseNumericVector("[]")
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(BeEmpty())
	})

	Describe("RenderC", func() {
		target := ir.DataType{Base: ir.Int, Signed: true, TotalBits: 16, Dims: []int{1}}

		It("renders an in-range integer", func() {
			s, err := ir.IntValue(100).RenderC(target)
			Expect(err).NotTo(HaveOccurred())
			Expect(s).To(Equal("100"))
		})

		It("rejects an out-of-range integer", func() {
			_, err := ir.IntValue(1 << 20).RenderC(target)
			Expect(err).To(HaveOccurred())
		})

		It("scales a float literal into a fixed-point target", func() {
			fp := ir.DataType{Base: ir.Int, Signed: true, TotalBits: 16, FractionalBits: 8, Dims: []int{1}}
			s, err := ir.FloatValue(1.5).RenderC(fp)
			Expect(err).NotTo(HaveOccurred())
			Expect(s).To(Equal("384")) // 1.5 * 2^8
		})

		It("renders a complex value as a brace-initialized struct literal", func() {
			cplxTarget := target
			cplxTarget.Complex = true
			s, err := ir.NumericValue{Complex: true, IntReal: 1, IntImag: 2}.RenderC(cplxTarget)
			Expect(err).NotTo(HaveOccurred())
			Expect(s).To(Equal("{._re=1, ._im=2}"))
		})
	})
})

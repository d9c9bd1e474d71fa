package ir_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/dfcompile/ir"
)

var _ = Describe("DataType", func() {
	It("expands a scalar by inserting a new outer dimension", func() {
		scalar := ir.DataType{Base: ir.Int, Signed: true, TotalBits: 16, Dims: []int{1}}
		blocked := scalar.ExpandForBlock(4)
		Expect(blocked.Dims).To(Equal([]int{4, 1}))
	})

	It("expands a vector by multiplying the outer dimension", func() {
		vec := ir.DataType{Base: ir.Int, Signed: true, TotalBits: 16, Dims: []int{2, 3}}
		blocked := vec.ExpandForBlock(4)
		Expect(blocked.Dims).To(Equal([]int{8, 3}))
	})

	It("drops the outer dimension per invariant (v)'s sub_block==1 rule", func() {
		vec := ir.DataType{Base: ir.Int, Dims: []int{1, 5}}
		dropped := vec.DropOuterDim()
		Expect(dropped.Dims).To(Equal([]int{5}))
	})

	It("rejects fractional bits on bool and float", func() {
		bad := ir.DataType{Base: ir.Bool, FractionalBits: 1, Dims: []int{1}}
		Expect(bad.Validate()).To(HaveOccurred())
	})

	It("rejects non-32/64 float widths", func() {
		bad := ir.DataType{Base: ir.Float, TotalBits: 16, Dims: []int{1}}
		Expect(bad.Validate()).To(HaveOccurred())
	})

	It("accepts a well-formed fixed point type", func() {
		good := ir.DataType{Base: ir.Int, Signed: true, TotalBits: 16, FractionalBits: 8, Dims: []int{1}}
		Expect(good.Validate()).NotTo(HaveOccurred())
	})
})

package diagnostics_test

import (
	"github.com/hashicorp/go-multierror"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/dfcompile/diagnostics"
)

var _ = Describe("FindingsFromError", func() {
	It("flattens a multierror of structural errors into findings", func() {
		var errs *multierror.Error
		errs = multierror.Append(errs, diagnostics.NewStructuralError("A/B", "input port must have exactly one arc"))
		errs = multierror.Append(errs, diagnostics.NewStructuralError("A/C", "dims must not be empty"))

		findings := diagnostics.FindingsFromError(errs.ErrorOrNil())
		Expect(findings).To(HaveLen(2))
		Expect(findings[0].Kind).To(Equal("structural"))
		Expect(findings[0].NodePath).To(Equal("A/B"))
	})

	It("returns nil for a nil error", func() {
		Expect(diagnostics.FindingsFromError(nil)).To(BeNil())
	})
})

var _ = Describe("Report", func() {
	It("renders a non-empty table for at least one finding", func() {
		out := diagnostics.Report([]diagnostics.Finding{{Kind: "structural", NodePath: "A/B", Rule: "bad"}})
		Expect(out).NotTo(BeEmpty())
	})
})

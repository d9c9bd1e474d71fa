package blocking

import (
	"github.com/sarchlab/dfcompile/graph"
	"github.com/sarchlab/dfcompile/ir"
)

// ApplyDeferredSpecializations replays the blocking-domain port reshape
// that every surviving Delay node postponed during MaterializeGroup
// (DESIGN NOTES §9). It must run after partition.AbsorbDelays has settled
// so delays deleted or shrunk by absorption never get reshaped.
func ApplyDeferredSpecializations(g *graph.Graph) error {
	for _, id := range g.AllNodes() {
		n, err := g.Node(id)
		if err != nil {
			continue
		}
		d, ok := n.(*ir.Delay)
		if !ok || !d.SpecializationDeferred {
			continue
		}
		if err := d.ApplyDeferredSpecialization(); err != nil {
			return err
		}
	}
	return nil
}

package partition

import (
	"github.com/sarchlab/dfcompile/blocking"
	"github.com/sarchlab/dfcompile/graph"
)

// Config carries the pass-global parameters for component I.
type Config struct {
	// DefaultCapacity is the fifo_length (in blocks) given to a
	// freshly-created FIFO before any absorption has run.
	DefaultCapacity int
}

// Run performs the full partitioning pass (§4.2-§4.4) end to end:
// arc-group discovery, FIFO insertion, delay absorption with
// initial-condition reshaping, and replay of every Delay's deferred
// blocking-domain specialization (DESIGN NOTES §9).
func Run(g *graph.Graph, cfg Config) error {
	capacity := cfg.DefaultCapacity
	if capacity <= 0 {
		capacity = 1
	}

	groups := GroupArcsAtPartitionCrossings(g)
	fifoIDs, err := InsertFIFOs(g, groups, capacity)
	if err != nil {
		return err
	}

	for _, id := range fifoIDs {
		if err := AbsorbDelays(g, id); err != nil {
			return err
		}
	}

	return blocking.ApplyDeferredSpecializations(g)
}

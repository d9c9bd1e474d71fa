// Package main implements dfc, the thin CLI front end that wires
// component D (the graph arena) through components F, H, G, I, the
// state-update pass, and K in the order spec.md §2 names: Parser → D →
// F (clock-domain specialization) → H (context discovery) → G
// (blocking-domain insertion) → H (context rediscovery, performed
// internally by blocking.Run) → I (partition/FIFO/delay-absorption) →
// state-update node creation (§4.10) → K (emission).
//
// Parsing the input GraphML description is explicitly out of scope
// (spec §1); RunPipeline takes an already-populated *graph.Graph so the
// stages below stay testable without a real importer.
package main

import (
	"fmt"

	"github.com/sarchlab/dfcompile/blocking"
	"github.com/sarchlab/dfcompile/clockdomain"
	"github.com/sarchlab/dfcompile/config"
	"github.com/sarchlab/dfcompile/context"
	"github.com/sarchlab/dfcompile/diagnostics"
	"github.com/sarchlab/dfcompile/emit"
	"github.com/sarchlab/dfcompile/graph"
	"github.com/sarchlab/dfcompile/partition"
	"github.com/sarchlab/dfcompile/statecommit"
)

// RunPipeline drives one compiler invocation end to end against g,
// reporting the final schedule to driver. It returns the first
// structural error encountered, formatted through package diagnostics
// when one is available.
func RunPipeline(g *graph.Graph, cfg *config.Pipeline, driver emit.Driver) error {
	if err := clockdomain.Run(g); err != nil {
		return fmt.Errorf("dfc: clock domain specialization: %w", err)
	}

	if err := context.DiscoverAndMarkContexts(g, g.TopLevelNodes()); err != nil {
		return fmt.Errorf("dfc: context discovery: %w", err)
	}

	if err := blocking.Run(g, blocking.Config{BaseBlockLength: cfg.BaseBlockLength}); err != nil {
		return fmt.Errorf("dfc: blocking-domain insertion: %w", err)
	}

	if err := partition.Run(g, partition.Config{DefaultCapacity: cfg.Partitions.DefaultCapacity}); err != nil {
		return fmt.Errorf("dfc: thread-crossing FIFO insertion: %w", err)
	}

	if err := statecommit.Run(g); err != nil {
		return fmt.Errorf("dfc: state-update node creation: %w", err)
	}

	if err := g.Validate(); err != nil {
		findings := diagnostics.FindingsFromError(err)
		return fmt.Errorf("dfc: graph failed validation after transformation:\n%s", diagnostics.Report(findings))
	}

	return emit.NewScheduleWalker(g, driver).Walk()
}

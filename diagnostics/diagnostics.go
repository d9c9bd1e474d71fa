// Package diagnostics implements the error taxonomy, validation-error
// aggregation surfacing, and human-readable reporting named in spec §7.
package diagnostics

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/xerrors"
)

// StructuralError is a single structural-invariant violation discovered
// by graph.Validate: the offending node's fully-qualified path and the
// rule it broke.
type StructuralError struct {
	NodePath string
	Rule     string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: %s", e.NodePath, e.Rule)
}

// NewStructuralError wraps a StructuralError with a fatal xerrors chain
// so callers can errors.As down to the concrete type while still seeing
// a %w-style message (spec §4.12).
func NewStructuralError(nodePath, rule string) error {
	return xerrors.Errorf("structural invariant violated: %w", &StructuralError{NodePath: nodePath, Rule: rule})
}

// ErrUnsupported marks an explicitly unsupported configuration (spec §7
// "not yet implemented"), e.g. multi-dimensional Concatenate or
// UpsampleClockDomain specialization.
type ErrUnsupported struct {
	NodePath string
	Feature  string
}

func (e *ErrUnsupported) Error() string {
	return fmt.Sprintf("%s: %s not yet implemented", e.NodePath, e.Feature)
}

// Finding is one reportable diagnostic: a kind tag, the fully qualified
// node path it concerns, and the rule or feature it names.
type Finding struct {
	Kind     string
	NodePath string
	Rule     string
}

// FindingsFromError unpacks every StructuralError chained into err
// (typically the result of graph.Validate's multierror) into a flat
// Finding list for Report.
func FindingsFromError(err error) []Finding {
	if err == nil {
		return nil
	}
	if me, ok := err.(*multierror.Error); ok {
		var out []Finding
		for _, e := range me.Errors {
			out = append(out, FindingsFromError(e)...)
		}
		return out
	}

	var se *StructuralError
	if xerrors.As(err, &se) {
		return []Finding{{Kind: "structural", NodePath: se.NodePath, Rule: se.Rule}}
	}
	var us *ErrUnsupported
	if xerrors.As(err, &us) {
		return []Finding{{Kind: "unsupported", NodePath: us.NodePath, Rule: us.Feature}}
	}
	return []Finding{{Kind: "error", NodePath: "", Rule: err.Error()}}
}

// Report renders findings as an aligned table, the same library the
// teacher uses for its own waveform/state reporting (core.PrintState).
func Report(findings []Finding) string {
	t := table.NewWriter()
	t.SetTitle("Diagnostics")
	t.AppendHeader(table.Row{"Kind", "Node", "Rule"})
	for _, f := range findings {
		t.AppendRow(table.Row{f.Kind, f.NodePath, f.Rule})
	}
	return t.Render()
}

// FormatFIFOCapacity renders a FIFO's byte footprint (capacity in blocks
// times block size times element width) in human-readable form for
// diagnostic messages.
func FormatFIFOCapacity(capacityBlocks, blockSize, elementBytes int) string {
	return humanize.Bytes(uint64(capacityBlocks) * uint64(blockSize) * uint64(elementBytes))
}

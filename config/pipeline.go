// Package config provides compiler-wide configuration for a dfcompile
// pipeline run: global and per-group blocking parameters, partition
// topology, FIFO defaults, and the lock-freedom-probe toggle, loaded once per
// invocation from YAML or assembled programmatically.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// GroupConfig names a top-level node group's base sub-blocking length,
// keyed by the group's qualified name in the parsed graph (spec §4.8.1).
type GroupConfig struct {
	Name                  string `yaml:"name"`
	BaseSubBlockingLength int    `yaml:"base_sub_blocking_length"`
}

// PartitionTopology describes the thread-partitioning layout component I
// reads when grouping arcs at partition crossings (spec §4.2).
type PartitionTopology struct {
	NumPartitions   int    `yaml:"num_partitions"`
	DefaultCapacity int    `yaml:"default_fifo_capacity"`
	WaitPolicy      string `yaml:"wait_policy"` // "busy-wait" or "yield"
}

// Pipeline is the fully-resolved compiler configuration for one run.
type Pipeline struct {
	BaseBlockLength  int               `yaml:"base_block_length"`
	Groups           []GroupConfig     `yaml:"groups"`
	Partitions       PartitionTopology `yaml:"partitions"`
	LockFreedomProbe bool              `yaml:"lock_freedom_probe"`
}

// BaseSubBlockForGroup looks up a group's configured base sub-blocking
// length, defaulting to 1 when the group is not named in the
// configuration (spec invariant: an unconfigured group runs unblocked).
func (p *Pipeline) BaseSubBlockForGroup(name string) int {
	for _, g := range p.Groups {
		if g.Name == name {
			return g.BaseSubBlockingLength
		}
	}
	return 1
}

// Validate enforces the structural invariants a Pipeline must satisfy
// before a compiler run starts.
func (p *Pipeline) Validate() error {
	if p.BaseBlockLength <= 0 {
		return fmt.Errorf("config: base_block_length must be positive, got %d", p.BaseBlockLength)
	}
	if p.Partitions.NumPartitions <= 0 {
		return fmt.Errorf("config: num_partitions must be positive, got %d", p.Partitions.NumPartitions)
	}
	if p.Partitions.DefaultCapacity <= 0 {
		return fmt.Errorf("config: default_fifo_capacity must be positive, got %d", p.Partitions.DefaultCapacity)
	}
	switch p.Partitions.WaitPolicy {
	case "busy-wait", "yield", "":
	default:
		return fmt.Errorf("config: unknown wait_policy %q", p.Partitions.WaitPolicy)
	}
	return nil
}

// LoadPipelineYAML parses a Pipeline from YAML bytes, filling in the
// default wait policy when omitted.
func LoadPipelineYAML(data []byte) (*Pipeline, error) {
	var p Pipeline
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("config: parsing pipeline yaml: %w", err)
	}
	if p.Partitions.WaitPolicy == "" {
		p.Partitions.WaitPolicy = "yield"
	}
	return &p, nil
}

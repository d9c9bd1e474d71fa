package config

// PipelineBuilder assembles a *Pipeline programmatically, mirroring the
// teacher's DeviceBuilder fluent-With pattern.
type PipelineBuilder struct {
	pipeline Pipeline
}

// NewPipelineBuilder starts a builder with the compiler's baseline
// defaults (single partition, yield-wait, no lock-freedom probing).
func NewPipelineBuilder() PipelineBuilder {
	return PipelineBuilder{
		pipeline: Pipeline{
			BaseBlockLength: 1,
			Partitions: PartitionTopology{
				NumPartitions:   1,
				DefaultCapacity: 1,
				WaitPolicy:      "yield",
			},
		},
	}
}

// WithBaseBlockLength sets the global base_block_length (spec §4.8.6).
func (b PipelineBuilder) WithBaseBlockLength(n int) PipelineBuilder {
	b.pipeline.BaseBlockLength = n
	return b
}

// WithGroup registers a top-level node group's base sub-blocking length
// (spec §4.8.1).
func (b PipelineBuilder) WithGroup(name string, baseSubBlockingLength int) PipelineBuilder {
	b.pipeline.Groups = append(b.pipeline.Groups, GroupConfig{
		Name: name, BaseSubBlockingLength: baseSubBlockingLength,
	})
	return b
}

// WithPartitions sets the partition topology (spec §4.2-§4.3).
func (b PipelineBuilder) WithPartitions(topo PartitionTopology) PipelineBuilder {
	b.pipeline.Partitions = topo
	return b
}

// WithLockFreedomProbe toggles the lock-freedom-probe reporting path
// (spec §4.9).
func (b PipelineBuilder) WithLockFreedomProbe(enabled bool) PipelineBuilder {
	b.pipeline.LockFreedomProbe = enabled
	return b
}

// Build validates and returns the assembled Pipeline.
func (b PipelineBuilder) Build() (*Pipeline, error) {
	p := b.pipeline
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

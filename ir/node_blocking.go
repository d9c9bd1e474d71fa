package ir

import "fmt"

// BlockingDomain is a context root with a single sub-context wrapping a
// (blocking_length, sub_blocking_length) iteration (spec §3/§4.8.5).
type BlockingDomain struct {
	ContextRootBase

	BlockingLength    int
	SubBlockingLength int
}

// NewBlockingDomain constructs a blocking domain. Validate requires
// blocking_length % sub_blocking_length to be 0.
func NewBlockingDomain(name string, blockingLength, subBlockingLength int) *BlockingDomain {
	bd := &BlockingDomain{
		ContextRootBase:   NewContextRootBase(name, 1, false),
		BlockingLength:    blockingLength,
		SubBlockingLength: subBlockingLength,
	}
	bd.Contiguous = true // a static for-loop: always contiguous (§4.7)
	return bd
}

func (b *BlockingDomain) Kind() NodeKind { return KindBlockingDomain }

func (b *BlockingDomain) Validate() error {
	if b.SubBlockingLength <= 0 || b.BlockingLength <= 0 {
		return fmt.Errorf("blocking domain %s: lengths must be positive", b.NodeName)
	}
	if b.BlockingLength%b.SubBlockingLength != 0 {
		return fmt.Errorf(
			"blocking domain %s: blocking_length %d %% sub_blocking_length %d != 0",
			b.NodeName, b.BlockingLength, b.SubBlockingLength,
		)
	}
	return nil
}

// Iterations returns blocking_length / sub_blocking_length, the loop trip
// count (glossary "Blocking domain").
func (b *BlockingDomain) Iterations() int {
	return b.BlockingLength / b.SubBlockingLength
}

func (b *BlockingDomain) ShallowCloneWithChildren(ctx CloneContext) (Node, error) {
	base, err := b.Subsystem.ShallowCloneWithChildren(ctx)
	if err != nil {
		return nil, err
	}
	clone := &BlockingDomain{
		ContextRootBase:   b.ContextRootBase,
		BlockingLength:    b.BlockingLength,
		SubBlockingLength: b.SubBlockingLength,
	}
	clone.Subsystem = *base.(*Subsystem)
	return clone, nil
}

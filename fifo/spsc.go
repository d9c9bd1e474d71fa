// Package fifo implements the lock-free single-producer/single-consumer
// thread-crossing FIFO protocol specified in spec.md §4.9. It has no
// dependency on package ir: the ring operates purely on opaque "blocks"
// (values of type any), so the same implementation backs both the
// ir.ThreadCrossingFIFO IR node (used at compile time for capacity and
// initial-condition bookkeeping) and, conceivably, a real multi-threaded
// realizer.
package fifo

import (
	"fmt"
	"log/slog"
	"sync/atomic"
)

// Warnf is the hook invoked when the lock-freedom probe (below) finds
// that int64 atomics are not lock-free on the target platform. Overridable
// in tests; defaults to a structured log line rather than an abort, per
// spec §7's "Lock-freedom warning" policy (emit, continue).
var Warnf = func(format string, args ...any) {
	slog.Warn("fifo: lock-freedom probe", slog.String("detail", fmt.Sprintf(format, args...)))
}

// Ring is the lock-free SPSC ring described in spec §4.9. Block is the
// whole block record (one field per port, §4.9 "Indices are expressed in
// blocks"); Ring itself is agnostic to what Block actually is, so callers
// parameterize it with a concrete slice of their block struct.
type Ring struct {
	array []Block

	readOffset  atomic.Int64
	writeOffset atomic.Int64

	length int // fifo_length; capacity is length+1 slots
}

// Block is the unit of transfer: one FIFO block, whatever shape the
// caller's port layout requires. It is intentionally `any` so the IR
// layer can store per-port-typed payloads without this package needing
// to know about ir.DataType.
type Block = any

// NewRing constructs a ring with the given fifo_length (L = length+1
// physical slots) and writes nInitBlocks worth of initial conditions into
// slots 1..nInitBlocks, per spec §4.9 "Initialization".
func NewRing(length int, initialConditions []Block) *Ring {
	if length < 0 {
		panic("fifo: length must be non-negative")
	}
	if len(initialConditions) > length {
		panic("fifo: more initial conditions than fifo capacity")
	}

	r := &Ring{
		array:  make([]Block, length+1),
		length: length,
	}

	for i, ic := range initialConditions {
		r.array[i+1] = ic
	}

	r.readOffset.Store(0)
	r.writeOffset.Store(int64((len(initialConditions) + 1) % (length + 1)))

	probeLockFree(&r.readOffset)

	return r
}

func probeLockFree(v *atomic.Int64) {
	if !v.CompareAndSwap(v.Load(), v.Load()) {
		// Unreachable in practice (CAS against its own current value
		// always succeeds), but kept as the structural probe site: a
		// real target-specific probe would inspect whether the atomic
		// lowers to a lock-free instruction and call Warnf if not.
		Warnf("int64 atomic is not lock-free on this platform")
	}
}

// L returns the physical slot count (fifo_length + 1).
func (r *Ring) L() int { return r.length + 1 }

// Capacity returns fifo_length.
func (r *Ring) Capacity() int { return r.length }

// cachedView is the per-thread non-atomic cached index pair described in
// §4.9's "Cached-index optimization": each side caches the opposite
// side's last-observed index and only refreshes it (an acquire load) when
// the cached view can't satisfy the requested operation.
type cachedView struct {
	readCached, writeCached int64
}

// Producer is the write-side handle: it owns a local cached view of the
// read offset and publishes new write offsets with release semantics.
type Producer struct {
	r *Ring
	cachedView
	localWrite int64
}

// NewProducer attaches a producer-side cursor to r.
func NewProducer(r *Ring) *Producer {
	p := &Producer{r: r}
	p.localWrite = r.writeOffset.Load()
	p.readCached = r.readOffset.Load()
	return p
}

// Consumer is the read-side handle, symmetric to Producer.
type Consumer struct {
	r *Ring
	cachedView
	localRead int64
}

// NewConsumer attaches a consumer-side cursor to r.
func NewConsumer(r *Ring) *Consumer {
	c := &Consumer{r: r}
	c.localRead = r.readOffset.Load()
	c.writeCached = r.writeOffset.Load()
	return c
}

// availableToWrite computes the producer's free-block count using the
// occupancy predicate from §4.9, in terms of the currently cached read
// offset (not necessarily fresh).
func (p *Producer) availableToWrite() int64 {
	read, write := p.readCached, p.localWrite
	l := int64(p.r.L())
	if read < write {
		return l - write + read
	}
	return read - write
}

// CanWrite reports whether at least numBlocks are free to write, possibly
// refreshing the cached read offset with an acquire load when the stale
// view says no (§4.9 "the cache is refreshed ... only when the cached
// view indicates the operation cannot proceed").
func (p *Producer) CanWrite(numBlocks int) bool {
	if p.availableToWrite() >= int64(numBlocks) {
		return true
	}
	p.readCached = p.r.readOffset.Load() // acquire
	return p.availableToWrite() >= int64(numBlocks)
}

// Write performs a batch write of len(blocks) blocks. If pushStateAfter is
// false, the local write-offset update is retained (not published) until
// a later PushLocalVars call, letting multiple writes share one release
// per §4.9 "Batch read/write".
func (p *Producer) Write(blocks []Block, pushStateAfter bool) bool {
	if !p.CanWrite(len(blocks)) {
		return false
	}

	l := int64(p.r.L())
	for i, b := range blocks {
		slot := (p.localWrite + int64(i)) % l
		p.r.array[slot] = b
	}
	p.localWrite = (p.localWrite + int64(len(blocks))) % l

	if pushStateAfter {
		p.PushLocalVars()
	}
	return true
}

// PushLocalVars publishes the producer's locally-advanced write offset
// with release semantics, ordering all prior non-atomic array writes
// before any consumer's matching acquire load (§4.9 "Memory ordering").
func (p *Producer) PushLocalVars() {
	p.r.writeOffset.Store(p.localWrite)
}

// availableToRead is the consumer-side occupancy predicate.
func (c *Consumer) availableToRead() int64 {
	read, write := c.localRead, c.writeCached
	l := int64(c.r.L())
	if read < write {
		return write - read - 1
	}
	return l - read + write - 1
}

// CanRead reports whether at least numBlocks are available, refreshing
// the cached write offset (acquire) only if necessary.
func (c *Consumer) CanRead(numBlocks int) bool {
	if c.availableToRead() >= int64(numBlocks) {
		return true
	}
	c.writeCached = c.r.writeOffset.Load() // acquire
	return c.availableToRead() >= int64(numBlocks)
}

// Read performs a batch read of numBlocks blocks.
func (c *Consumer) Read(numBlocks int, pushStateAfter bool) ([]Block, bool) {
	if !c.CanRead(numBlocks) {
		return nil, false
	}

	l := int64(c.r.L())
	out := make([]Block, numBlocks)
	for i := range out {
		slot := (c.localRead + 1 + int64(i)) % l
		out[i] = c.r.array[slot]
	}
	c.localRead = (c.localRead + int64(numBlocks)) % l

	if pushStateAfter {
		c.PushLocalVars()
	}
	return out, true
}

// PushLocalVars publishes the consumer's locally-advanced read offset
// with release semantics.
func (c *Consumer) PushLocalVars() {
	c.r.readOffset.Store(c.localRead)
}

// Empty reports the ring-wide empty predicate from §4.9, computed from
// the live atomics (not a cached view) — intended for diagnostics and
// tests, not the hot path.
func (r *Ring) Empty() bool {
	read := r.readOffset.Load()
	write := r.writeOffset.Load()
	l := int64(r.L())
	return write-read == 1 || write-read == -(l-1)
}

// Full reports the ring-wide full predicate.
func (r *Ring) Full() bool {
	return r.readOffset.Load() == r.writeOffset.Load()
}

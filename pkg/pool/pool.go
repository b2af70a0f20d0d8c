// Package pool provides an append-only node pool for building singly linked
// lists of decoded values. Instead of allocating one list element at a time,
// the pool hands out nodes from pre-allocated blocks that double in size as
// the list grows, cutting allocation count and heap fragmentation for large
// lists.
//
// The pool behaves like an array you append to: the order in which Allocate
// is called is the order of the resulting list, and each call wires the
// previously returned node to the new one automatically. Memory only grows;
// there is no support for returning an element to the pool.
//
// Example usage:
//
//	p, err := pool.New(64)
//	if err != nil {
//	    return err
//	}
//	defer p.Destroy(false)
//
//	for _, v := range values {
//	    node, err := p.Allocate()
//	    if err != nil {
//	        return err
//	    }
//	    node.Value = v
//	}
//
// A built list can outlive its pool: Destroy(true) releases only the pool's
// bookkeeping and transfers ownership of the node memory to the caller, who
// must later release it exactly once with DestroyList.
//
// A Pool is not safe for concurrent use. Callers needing concurrency must
// serialize access externally or use independent pools.
package pool

import (
	"math"
	"unsafe"

	"go.uber.org/zap"

	"github.com/ajitpratap0/chainpool/pkg/errors"
	"github.com/ajitpratap0/chainpool/pkg/logger"
)

// maxBlocks is the fixed capacity of the pool's block directory. It is sized
// once at creation and never grows: with block capacities doubling from any
// starting size, 32 slots already cover more nodes than an address space can
// hold, so running out of slots is unreachable in practice. Fixing the
// capacity avoids directory-growth code that would almost never run and so
// would almost never be tested.
const maxBlocks = 32

// nodeSize is the in-memory size of one Node, used for byte accounting and
// overflow checks.
const nodeSize = uint64(unsafe.Sizeof(Node{}))

// maxBytes caps every size computation in this package.
const maxBytes = uint64(math.MaxInt64)

// Tracker receives block-level allocation events. It is the hook for memory
// accounting and metrics; see metrics.Collector for the Prometheus-backed
// implementation. Release events are delivered by whichever side releases the
// block, the pool's Destroy or a later DestroyList.
//
// A Tracker shared between independent pools must be safe for concurrent use.
type Tracker interface {
	// BlockAllocated is called once per block, when the pool creates it.
	BlockAllocated(nodes int, bytes uint64)
	// BlockReleased is called once per block, when the block is freed.
	BlockReleased(nodes int, bytes uint64)
}

// Pool is a growable, append-only allocator of list nodes. It owns a fixed
// directory of blocks, allocates out of the newest block with a bump pointer,
// and doubles the block size each time the current block is exhausted.
type Pool struct {
	// blocks is the directory: a fixed-capacity, ordered sequence of block
	// references. It is allocated once in New and never reallocated, so
	// node addresses stay stable across growth. nil after Destroy.
	blocks []*block

	index int // directory slot of the currently active block
	size  int // capacity of the active block, in nodes
	used  int // nodes handed out from the active block

	nodes   uint64 // total nodes handed out over the pool's lifetime
	bytes   uint64 // total bytes allocated across all blocks
	tracker Tracker
	log     *zap.Logger
}

// Option configures a Pool at creation time.
type Option func(*Pool)

// WithTracker attaches a Tracker that observes block allocation and release.
func WithTracker(t Tracker) Option {
	return func(p *Pool) {
		p.tracker = t
	}
}

// WithLogger sets the logger used for growth events. Defaults to the global
// logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pool) {
		p.log = l
	}
}

// Stats is a point-in-time snapshot of a pool's shape and usage.
type Stats struct {
	// Blocks is the number of blocks allocated so far.
	Blocks int
	// BlockCapacity is the node capacity of the currently active block.
	BlockCapacity int
	// BlockUsed is the number of nodes handed out from the active block.
	BlockUsed int
	// TotalNodes is the number of nodes handed out over the pool's lifetime.
	TotalNodes uint64
	// TotalBytes is the number of bytes allocated across all blocks.
	TotalBytes uint64
}

// New creates a pool whose first block holds initialSize nodes.
//
// It fails if initialSize is not positive, or if the requested block (or the
// directory itself) would overflow byte-count arithmetic. No partially
// constructed pool escapes a failing path.
//
// The pool must be freed with Destroy.
func New(initialSize int, opts ...Option) (*Pool, error) {
	if initialSize <= 0 {
		return nil, errors.New(errors.ErrorTypeValidation, "initial block size must be positive").
			WithDetail("initial_size", initialSize)
	}

	if !CanMultiply(maxBytes, maxBlocks, uint64(unsafe.Sizeof((*block)(nil)))) {
		return nil, errors.New(errors.ErrorTypeOverflow, "block directory size overflows")
	}
	if !CanMultiply(maxBytes, uint64(initialSize), nodeSize) {
		return nil, errors.New(errors.ErrorTypeOverflow, "initial block size overflows").
			WithDetail("initial_size", initialSize)
	}

	p := &Pool{
		blocks: make([]*block, maxBlocks),
		size:   initialSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.Get()
	}

	p.blocks[0] = p.newBlock(initialSize)

	p.log.Debug("pool created",
		zap.Int("initial_size", initialSize),
		zap.Int("directory_capacity", maxBlocks))

	return p, nil
}

// Allocate hands out the next node of the list. The common path is a bump of
// the active block's cursor; when the block is exhausted, a new block of twice
// the capacity is allocated and the chain continues into it transparently.
//
// Each call links the previously returned node's successor to the node being
// returned; the returned node's own successor is left unset until the next
// call. The very first allocation from a pool has no predecessor to link.
//
// Allocate fails on size overflow or when the block directory is exhausted.
// Neither failure mutates the pool.
func (p *Pool) Allocate() (*Node, error) {
	if p.blocks == nil {
		return nil, errors.New(errors.ErrorTypeInternal, "allocate on destroyed pool")
	}

	if p.used < p.size {
		b := p.blocks[p.index]
		n := &b.nodes[p.used]
		if p.used > 0 {
			b.nodes[p.used-1].next = n
		}
		p.used++
		p.nodes++
		return n, nil
	}

	// Active block exhausted; grow into the next directory slot.

	newIndex := p.index + 1
	if newIndex == maxBlocks {
		// See the comment on maxBlocks: unreachable with doubling
		// growth, but a hard failure rather than a resize if it is.
		return nil, errors.New(errors.ErrorTypeCapacity, "block directory exhausted").
			WithDetail("blocks", maxBlocks)
	}

	if !CanMultiply(maxBytes, uint64(p.size), 2) {
		return nil, errors.New(errors.ErrorTypeOverflow, "doubled block size overflows").
			WithDetail("block_size", p.size)
	}
	newSize := p.size * 2

	if !CanMultiply(maxBytes, uint64(newSize), nodeSize) {
		return nil, errors.New(errors.ErrorTypeOverflow, "block byte count overflows").
			WithDetail("block_size", newSize)
	}

	nb := p.newBlock(newSize)
	p.blocks[newIndex] = nb

	// The last node of the old block continues the chain into the new
	// block's head.
	prev := p.blocks[p.index].tail()

	p.index = newIndex
	p.size = newSize
	p.used = 1
	p.nodes++

	head := &nb.nodes[0]
	prev.next = head

	p.log.Debug("pool grew",
		zap.Int("block_index", newIndex),
		zap.Int("block_size", newSize))

	return head, nil
}

// Destroy frees the pool. It is a no-op on a nil pool, and the pool must not
// be used again afterwards.
//
// With keepList false, every block is released along with the directory: all
// nodes the pool ever returned become invalid.
//
// With keepList true, only the directory and the pool's bookkeeping are
// released. The blocks, and therefore the list built from them, stay
// allocated and reachable through any node reference the caller retained.
// Ownership transfers to the caller, who must release the list exactly once
// with DestroyList.
func (p *Pool) Destroy(keepList bool) {
	if p == nil || p.blocks == nil {
		return
	}

	if !keepList {
		for i := 0; i <= p.index; i++ {
			p.blocks[i].release()
		}
	}

	p.blocks = nil
	p.index = 0
	p.size = 0
	p.used = 0
}

// Stats returns a snapshot of the pool's current shape.
func (p *Pool) Stats() Stats {
	s := Stats{
		BlockCapacity: p.size,
		BlockUsed:     p.used,
		TotalNodes:    p.nodes,
		TotalBytes:    p.bytes,
	}
	if p.blocks != nil {
		s.Blocks = p.index + 1
	}
	return s
}

// newBlock allocates a block of the given node capacity, marks its first node
// as the block head, and reports the allocation to the tracker. Size and byte
// counts are overflow-checked by the callers.
func (p *Pool) newBlock(size int) *block {
	b := &block{
		nodes:   make([]Node, size),
		bytes:   uint64(size) * nodeSize,
		tracker: p.tracker,
	}
	b.nodes[0].head = true
	b.nodes[0].owner = b

	p.bytes += b.bytes
	if p.tracker != nil {
		p.tracker.BlockAllocated(size, b.bytes)
	}
	return b
}

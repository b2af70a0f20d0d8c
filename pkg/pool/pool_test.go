package pool

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ajitpratap0/chainpool/pkg/errors"
)

func TestNew_RejectsNonPositiveSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		p, err := New(size)
		assert.Nil(t, p)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	}
}

func TestNew_FirstAllocationHasNoPredecessor(t *testing.T) {
	p, err := New(4)
	require.NoError(t, err)
	defer p.Destroy(false)

	n, err := p.Allocate()
	require.NoError(t, err)
	assert.True(t, n.IsBlockHead(), "first node of block 0 is its head")
	assert.Nil(t, n.Next(), "successor is wired by the next Allocate call")
}

func TestAllocate_ChainsInCallOrder(t *testing.T) {
	const count = 100

	p, err := New(4)
	require.NoError(t, err)
	defer p.Destroy(false)

	var first *Node
	for i := 0; i < count; i++ {
		n, err := p.Allocate()
		require.NoError(t, err)
		n.Value = i
		if first == nil {
			first = n
		}
	}

	visited := 0
	for n := first; n != nil; n = n.Next() {
		assert.Equal(t, visited, n.Value, "chain order matches call order")
		visited++
	}
	assert.Equal(t, count, visited)
}

func TestAllocate_GrowthSchedule(t *testing.T) {
	const initial = 3

	p, err := New(initial)
	require.NoError(t, err)
	defer p.Destroy(false)

	// Fill five blocks worth of nodes: 3 + 6 + 12 + 24 + 48.
	total := 0
	for k := 0; k < 5; k++ {
		total += initial << k
	}
	for i := 0; i < total; i++ {
		_, err := p.Allocate()
		require.NoError(t, err)
	}

	require.Equal(t, 4, p.index)
	for k := 0; k <= p.index; k++ {
		assert.Equalf(t, initial<<k, len(p.blocks[k].nodes),
			"block %d capacity", k)
		assert.True(t, p.blocks[k].nodes[0].head, "block head is element 0")
	}

	// The next allocation triggers growth and returns the new block's head.
	n, err := p.Allocate()
	require.NoError(t, err)
	assert.True(t, n.IsBlockHead())
	assert.Equal(t, initial<<5, p.size)
	assert.Equal(t, 1, p.used)
}

// Mirrors the smallest interesting doubling sequence: initial capacity 1,
// four allocations, three growth events in between.
func TestAllocate_DoublingFromOne(t *testing.T) {
	p, err := New(1)
	require.NoError(t, err)
	defer p.Destroy(false)

	n1, err := p.Allocate()
	require.NoError(t, err)
	assert.True(t, n1.IsBlockHead())
	assert.Equal(t, 1, p.size)

	// Block 0 is full; this grows to a block of 2 and links across.
	n2, err := p.Allocate()
	require.NoError(t, err)
	assert.True(t, n2.IsBlockHead())
	assert.Equal(t, 2, p.size)
	assert.Equal(t, 1, p.index)
	assert.Same(t, n2, n1.Next())

	n3, err := p.Allocate()
	require.NoError(t, err)
	assert.False(t, n3.IsBlockHead())
	assert.Equal(t, 2, p.used)
	assert.Same(t, n3, n2.Next())

	// Block 1 is full; this grows to a block of 4.
	n4, err := p.Allocate()
	require.NoError(t, err)
	assert.True(t, n4.IsBlockHead())
	assert.Equal(t, 4, p.size)
	assert.Equal(t, 2, p.index)
	assert.Same(t, n4, n3.Next())
}

func TestAllocate_DirectoryExhausted(t *testing.T) {
	// Fabricate a pool sitting on the last directory slot with its block
	// full; growing is not reachable through Allocate in bounded time.
	p := &Pool{
		blocks: make([]*block, maxBlocks),
		index:  maxBlocks - 1,
		size:   1,
		used:   1,
		log:    zap.NewNop(),
	}
	p.blocks[p.index] = &block{nodes: make([]Node, 1)}

	n, err := p.Allocate()
	assert.Nil(t, n)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeCapacity))
}

func TestAllocate_SizeOverflow(t *testing.T) {
	p := &Pool{
		blocks: make([]*block, maxBlocks),
		size:   math.MaxInt64,
		used:   math.MaxInt64,
		log:    zap.NewNop(),
	}
	p.blocks[0] = &block{nodes: make([]Node, 1)}

	n, err := p.Allocate()
	assert.Nil(t, n)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeOverflow))
}

func TestAllocate_ByteCountOverflow(t *testing.T) {
	// Doubling stays in range but the byte count does not.
	size := math.MaxInt64 / 4
	p := &Pool{
		blocks: make([]*block, maxBlocks),
		size:   size,
		used:   size,
		log:    zap.NewNop(),
	}
	p.blocks[0] = &block{nodes: make([]Node, 1)}

	n, err := p.Allocate()
	assert.Nil(t, n)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeOverflow))
}

func TestDestroy_NilSafe(t *testing.T) {
	var p *Pool
	p.Destroy(false)
	p.Destroy(true)
}

func TestAllocate_OnDestroyedPool(t *testing.T) {
	p, err := New(1)
	require.NoError(t, err)
	p.Destroy(false)

	n, err := p.Allocate()
	assert.Nil(t, n)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInternal))
}

func TestStats(t *testing.T) {
	p, err := New(2)
	require.NoError(t, err)
	defer p.Destroy(false)

	for i := 0; i < 3; i++ {
		_, err := p.Allocate()
		require.NoError(t, err)
	}

	s := p.Stats()
	assert.Equal(t, 2, s.Blocks)
	assert.Equal(t, 4, s.BlockCapacity)
	assert.Equal(t, 1, s.BlockUsed)
	assert.Equal(t, uint64(3), s.TotalNodes)
	assert.Equal(t, uint64(6)*nodeSize, s.TotalBytes)
}

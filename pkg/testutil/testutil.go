// Package testutil provides testing utilities for chainpool
package testutil

import (
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// TestLogger creates a test logger that writes to the test output.
// The logger is automatically cleaned up when the test completes.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// CountingTracker is a pool.Tracker that keeps exact allocation accounting.
// Tests use it to assert that every block a pool (or a detached list) ever
// allocated has been released.
type CountingTracker struct {
	mu sync.Mutex

	blocksAllocated int
	blocksReleased  int
	bytesAllocated  uint64
	bytesReleased   uint64
}

// BlockAllocated records a block allocation.
func (c *CountingTracker) BlockAllocated(nodes int, bytes uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blocksAllocated++
	c.bytesAllocated += bytes
}

// BlockReleased records a block release.
func (c *CountingTracker) BlockReleased(nodes int, bytes uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blocksReleased++
	c.bytesReleased += bytes
}

// Blocks returns how many blocks are currently live.
func (c *CountingTracker) Blocks() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.blocksAllocated - c.blocksReleased
}

// BlocksAllocated returns how many blocks were ever allocated.
func (c *CountingTracker) BlocksAllocated() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.blocksAllocated
}

// OutstandingBytes returns the bytes currently held by live blocks.
func (c *CountingTracker) OutstandingBytes() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bytesAllocated - c.bytesReleased
}

// Package metrics provides Prometheus instrumentation for chainpool pools.
//
// A Collector implements pool.Tracker, so wiring a pool into Prometheus is a
// single option:
//
//	collector := metrics.NewCollector("geo_lookup")
//	p, err := pool.New(64, pool.WithTracker(collector))
//
// All metrics are labeled by pool name so independent pools can share the
// process-wide collectors. Trackers may be invoked by DestroyList after the
// owning pool is gone, so Collector methods hold no per-pool state beyond the
// label.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BlocksAllocated tracks the total number of blocks allocated.
	// Labels: pool (pool name)
	BlocksAllocated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainpool_blocks_allocated_total",
			Help: "Total number of node blocks allocated",
		},
		[]string{"pool"},
	)

	// BlocksReleased tracks the total number of blocks released, whether by
	// pool destruction or by bulk list destruction.
	// Labels: pool (pool name)
	BlocksReleased = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainpool_blocks_released_total",
			Help: "Total number of node blocks released",
		},
		[]string{"pool"},
	)

	// NodesAllocated tracks the total node capacity allocated across blocks.
	// Labels: pool (pool name)
	NodesAllocated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainpool_nodes_allocated_total",
			Help: "Total node capacity allocated across all blocks",
		},
		[]string{"pool"},
	)

	// BytesOutstanding tracks the bytes currently held by live blocks.
	// Labels: pool (pool name)
	BytesOutstanding = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chainpool_bytes_outstanding",
			Help: "Bytes currently held by live node blocks",
		},
		[]string{"pool"},
	)
)

// Collector records block-level pool events for one named pool. It implements
// pool.Tracker and is safe for use by independent pools sharing a name.
type Collector struct {
	name string
}

// NewCollector creates a metrics collector labeled with the given pool name.
func NewCollector(name string) *Collector {
	return &Collector{name: name}
}

// Name returns the pool name this collector labels its metrics with.
func (c *Collector) Name() string {
	return c.name
}

// BlockAllocated records a newly allocated block of the given capacity.
func (c *Collector) BlockAllocated(nodes int, bytes uint64) {
	BlocksAllocated.WithLabelValues(c.name).Inc()
	NodesAllocated.WithLabelValues(c.name).Add(float64(nodes))
	BytesOutstanding.WithLabelValues(c.name).Add(float64(bytes))
}

// BlockReleased records the release of a block.
func (c *Collector) BlockReleased(nodes int, bytes uint64) {
	BlocksReleased.WithLabelValues(c.name).Inc()
	BytesOutstanding.WithLabelValues(c.name).Sub(float64(bytes))
}

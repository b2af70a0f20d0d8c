// Package chainpool provides bulk memory pooling for singly linked lists of
// decoded values.
//
// Building a large list one heap allocation at a time is slow and fragments
// the heap. chainpool replaces per-element allocation with block allocation:
// a pool hands out nodes from pre-allocated blocks that double in capacity as
// the list grows, so a list of a million elements costs about twenty
// allocations instead of a million, and the elements of each block sit
// contiguously in memory.
//
// # Architecture
//
// The module is organized around a small core and its supporting stack:
//
//   - pool: the append-only node pool. Allocate bumps a cursor in the active
//     block, growth doubles the block size into a fixed 32-slot directory,
//     and all size arithmetic is overflow-checked. A finished list can
//     outlive its pool (Destroy with keepList) and is then released in
//     block-sized chunks by DestroyList.
//
//   - decode: streams a JSON array into a pooled chain, one node per
//     element, using goccy/go-json.
//
//   - metrics: Prometheus collectors implementing pool.Tracker for block
//     growth and outstanding-memory accounting.
//
//   - errors, logger, config: structured errors, zap logging, and validated
//     configuration shared by the above.
//
// # Quick start
//
//	p, err := pool.New(512)
//	if err != nil {
//	    return err
//	}
//	defer p.Destroy(false)
//
//	head, count, err := decode.List(file, p)
//	if err != nil {
//	    return err
//	}
//	for n := head; n != nil; n = n.Next() {
//	    consume(n.Value)
//	}
//
// A single pool is not safe for concurrent use; independent pools are
// independent.
package chainpool

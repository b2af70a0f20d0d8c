package pool

// Node is a single element of a pooled linked list. It carries one opaque
// decoded value and the successor reference that wires nodes into a chain in
// allocation order.
//
// Nodes are never allocated or freed individually. Every node lives inside a
// block owned by the Pool that issued it, and its lifetime is the lifetime of
// that block. Callers must not retain a node past Destroy(false) on its pool,
// or past DestroyList on its chain.
type Node struct {
	// Value is the payload slot. The pool is agnostic to what is stored
	// here; producers and consumers of the list agree on the type.
	Value interface{}

	next *Node

	// head marks the first node of a block. Exactly one node per block
	// carries it, and it is always the block's first element.
	head bool

	// owner is set only on head nodes and describes the block the head
	// belongs to. It is what lets DestroyList release whole blocks without
	// scanning for boundaries.
	owner *block
}

// Next returns the node's successor in the chain, or nil if this is the most
// recently allocated node (or an unused slot).
func (n *Node) Next() *Node {
	return n.next
}

// IsBlockHead reports whether this node is the first element of its block.
func (n *Node) IsBlockHead() bool {
	return n.head
}

// block is one contiguous, fixed-capacity allocation of nodes. Blocks are
// allocated once when the pool grows and are only ever released whole.
type block struct {
	nodes    []Node
	bytes    uint64
	tracker  Tracker
	released bool
}

// release frees the block as a single unit. It zeroes every node so that
// retained references cannot keep released values alive and no longer look
// like valid chain members, then reports the release to the tracker.
// Releasing an already-released block is a no-op.
func (b *block) release() {
	if b.released {
		return
	}
	b.released = true

	for i := range b.nodes {
		b.nodes[i] = Node{}
	}

	if b.tracker != nil {
		b.tracker.BlockReleased(len(b.nodes), b.bytes)
	}
	b.nodes = nil
}

// tail returns the block's last node. The tail of a full block points at the
// head of the next block; the tail of the active block points at nothing yet.
func (b *block) tail() *Node {
	return &b.nodes[len(b.nodes)-1]
}

// DestroyList releases every block of a chain whose ownership was transferred
// out of its pool via Destroy(true). The caller must pass the first node the
// pool ever returned, and must call this exactly once per transferred chain.
//
// The walk proceeds block by block: each visited node must be a block head,
// and the node after the block's last slot is the next block's head (or nil at
// the end of the chain). If a visited node is not a head, the chain is corrupt
// or a mid-chain node was passed in; DestroyList stops immediately and returns
// false, leaving the remaining blocks unreleased.
func DestroyList(head *Node) bool {
	for n := head; n != nil; {
		if !n.head || n.owner == nil {
			return false
		}
		b := n.owner
		n = b.tail().next
		b.release()
	}
	return true
}

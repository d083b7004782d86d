// Package treeset provides a sparse bitset backed by a red-black tree.
//
// Each tree node owns a small fixed-width bitmap (1 to 64 bits) covering a
// contiguous block of keys. A flattened offset is split into a node key
// (high bits) and a sub-bit offset (low AddressBits bits), so the virtual
// bitmap can span far more than a machine word while only the touched
// blocks consume memory.
//
// # Architecture
//
//   - Arena storage: nodes live in a slice and are addressed by NodeID.
//     NilNode (0) is never a live node. Parent links are plain indices used
//     only while rebalancing.
//   - Bitmap slab: all node bitmaps share one contiguous byte slice at a
//     stride of NodeBytes. Bit i of a node is bit i%8 of byte i/8.
//   - Grow only: nodes are never removed. Bits can be cleared, whole nodes
//     zeroed with ClearSubBits, and the tree released with Destroy.
//
// # Concurrency
//
// A Tree is not safe for concurrent use. Callers that share a tree between
// goroutines must serialize access themselves.
package treeset

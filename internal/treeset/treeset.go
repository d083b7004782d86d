package treeset

import (
	"fmt"
	"math"
	"math/bits"
	"unsafe"
)

// MaxNodeBits is the widest bitmap a single node can hold.
const MaxNodeBits = 64

// NodeID addresses a node inside its tree's arena.
type NodeID uint32

// NilNode is the absent node reference.
const NilNode NodeID = 0

// maxNodeID bounds the arena so that NodeID never wraps and the node count
// fits an int on 32-bit platforms.
const maxNodeID = min(math.MaxUint32-1, math.MaxInt)

type color uint8

const (
	black color = iota
	red
)

func (c color) String() string {
	if c == red {
		return "RED"
	}
	return "BLACK"
}

type node struct {
	key    uint64
	left   NodeID
	right  NodeID
	parent NodeID // weak: never used for ownership
	color  color
}

// nodeOverhead is the bookkeeping cost charged per node on top of its bitmap.
const nodeOverhead = int64(unsafe.Sizeof(node{}))

// MemoryAcquirer reserves and returns memory on behalf of a tree.
// *resource.Controller satisfies it.
type MemoryAcquirer interface {
	AcquireMemory(bytes int64) error
	ReleaseMemory(bytes int64)
}

// Option configures a Tree.
type Option func(*Tree)

// WithMemoryAcquirer charges every node allocation against acquirer.
// A refused reservation surfaces as ErrAllocationFailed.
func WithMemoryAcquirer(acquirer MemoryAcquirer) Option {
	return func(t *Tree) {
		t.acquirer = acquirer
	}
}

// WithMaxNodes caps the number of nodes the tree may hold.
// Values <= 0 keep the default (the full NodeID space).
func WithMaxNodes(n int) Option {
	return func(t *Tree) {
		if n > 0 && n < maxNodeID {
			t.maxNodes = n
		}
	}
}

// Tree is a sparse bitset stored as a red-black tree of bitmap nodes.
type Tree struct {
	size        int
	nodeBits    int
	nodeBytes   int
	addressBits int
	root        NodeID

	nodes []node // nodes[0] is the nil sentinel
	slab  []byte // bitmap of node id at (id-1)*nodeBytes

	maxNodes  int
	acquirer  MemoryAcquirer
	reserved  int64
	destroyed bool
}

// New creates an empty tree whose nodes each hold nodeBits bits.
//
// nodeBits must be between 1 and MaxNodeBits; otherwise a *CapacityError
// wrapping ErrInvalidCapacity is returned.
func New(nodeBits int, opts ...Option) (*Tree, error) {
	if err := ValidateCapacity(nodeBits); err != nil {
		return nil, err
	}

	t := &Tree{
		nodeBits:    nodeBits,
		nodeBytes:   (nodeBits + 7) / 8,
		addressBits: bits.Len(uint(nodeBits - 1)),
		nodes:       make([]node, 1, 16),
		maxNodes:    maxNodeID,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t, nil
}

// Destroy releases every node and its bitmap and returns the reserved
// memory to the acquirer. The tree must not be used afterwards.
func (t *Tree) Destroy() {
	if t == nil || t.destroyed {
		return
	}
	if t.acquirer != nil && t.reserved > 0 {
		t.acquirer.ReleaseMemory(t.reserved)
	}
	t.reserved = 0
	t.nodes = nil
	t.slab = nil
	t.root = NilNode
	t.size = 0
	t.destroyed = true
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return t.size }

// NodeBits returns the number of bits stored per node.
func (t *Tree) NodeBits() int { return t.nodeBits }

// NodeBytes returns the bitmap size of a node in bytes.
func (t *Tree) NodeBytes() int { return t.nodeBytes }

// AddressBits returns how many low bits of a flattened offset select the
// bit inside a node.
func (t *Tree) AddressBits() int { return t.addressBits }

// MemoryUsage returns the bytes currently charged for this tree's nodes.
func (t *Tree) MemoryUsage() int64 { return int64(t.size) * t.nodeCost() }

// Key returns the node key of id, or 0 when id is not a live node.
func (t *Tree) Key(id NodeID) uint64 {
	if !t.live(id) {
		return 0
	}
	return t.nodes[id].key
}

// Split decomposes a flattened offset into its node key and sub-bit offset.
func (t *Tree) Split(offset uint64) (key uint64, sub uint) {
	mask := uint64(1)<<t.addressBits - 1
	return offset >> t.addressBits, uint(offset & mask)
}

// Join is the inverse of Split.
func (t *Tree) Join(key uint64, sub uint) uint64 {
	return key<<t.addressBits | uint64(sub)
}

func (t *Tree) nodeCost() int64 {
	return nodeOverhead + int64(t.nodeBytes)
}

func (t *Tree) live(id NodeID) bool {
	return id != NilNode && int(id) < len(t.nodes)
}

func (t *Tree) bitmap(id NodeID) []byte {
	off := (int(id) - 1) * t.nodeBytes
	return t.slab[off : off+t.nodeBytes : off+t.nodeBytes]
}

// allocNode reserves memory and appends a zeroed RED node. Nothing is
// linked into the tree yet, so a failure leaves the tree untouched.
func (t *Tree) allocNode(key uint64) (NodeID, error) {
	if t.destroyed {
		return NilNode, fmt.Errorf("%w: tree destroyed", ErrAllocationFailed)
	}
	if t.size >= t.maxNodes {
		return NilNode, fmt.Errorf("%w: node limit %d reached", ErrAllocationFailed, t.maxNodes)
	}

	cost := t.nodeCost()
	if t.acquirer != nil {
		if err := t.acquirer.AcquireMemory(cost); err != nil {
			return NilNode, fmt.Errorf("%w: %w", ErrAllocationFailed, err)
		}
		t.reserved += cost
	}

	id := NodeID(len(t.nodes)) //nolint:gosec // bounded by maxNodes
	t.nodes = append(t.nodes, node{key: key, color: red})
	t.slab = append(t.slab, make([]byte, t.nodeBytes)...)
	return id, nil
}

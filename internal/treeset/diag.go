package treeset

import (
	"fmt"
	"io"
	"math/bits"
	"strings"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// Walk visits nodes in ascending key order until fn returns false.
func (t *Tree) Walk(fn func(id NodeID) bool) {
	if t.destroyed {
		return
	}
	stack := make([]NodeID, 0, 2*bits.Len(uint(t.size))+1)
	cur := t.root
	for cur != NilNode || len(stack) > 0 {
		for cur != NilNode {
			stack = append(stack, cur)
			cur = t.nodes[cur].left
		}
		cur = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(cur) {
			return
		}
		cur = t.nodes[cur].right
	}
}

type depthEntry struct {
	id    NodeID
	depth int
}

// walkDepth visits every node in pre-order together with its depth
// (root = 0).
func (t *Tree) walkDepth(fn func(id NodeID, depth int)) {
	if t.destroyed || t.root == NilNode {
		return
	}
	stack := []depthEntry{{t.root, 0}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(e.id, e.depth)
		n := t.nodes[e.id]
		if n.right != NilNode {
			stack = append(stack, depthEntry{n.right, e.depth + 1})
		}
		if n.left != NilNode {
			stack = append(stack, depthEntry{n.left, e.depth + 1})
		}
	}
}

// Height returns the number of nodes on the longest root-to-leaf path.
func (t *Tree) Height() int {
	h := 0
	t.walkDepth(func(_ NodeID, depth int) {
		h = max(h, depth+1)
	})
	return h
}

// AverageDepth returns the mean depth of all nodes, with the root at 0.
func (t *Tree) AverageDepth() float64 {
	if t.size == 0 {
		return 0
	}
	sum := 0
	t.walkDepth(func(_ NodeID, depth int) {
		sum += depth
	})
	return float64(sum) / float64(t.size)
}

// Cardinality returns the number of set bits across all nodes.
func (t *Tree) Cardinality() uint64 {
	var n uint64
	for _, b := range t.slab {
		n += uint64(bits.OnesCount8(b))
	}
	return n
}

// Export returns every set flattened offset as a 64-bit roaring bitmap.
func (t *Tree) Export() *roaring64.Bitmap {
	rb := roaring64.New()
	t.Walk(func(id NodeID) bool {
		key := t.nodes[id].key
		bm := t.bitmap(id)
		for i, b := range bm {
			for b != 0 {
				bit := uint(i*8 + bits.TrailingZeros8(b))
				rb.Add(t.Join(key, bit))
				b &= b - 1
			}
		}
		return true
	})
	return rb
}

// Dump writes a human-readable view of the tree structure: an in-order
// listing indented by depth, with colors, parent links and each bitmap
// printed high byte first.
func (t *Tree) Dump(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "tree size=%d node_bits=%d node_bytes=%d address_bits=%d\n",
		t.size, t.nodeBits, t.nodeBytes, t.addressBits); err != nil {
		return err
	}

	depths := make(map[NodeID]int, t.size)
	t.walkDepth(func(id NodeID, depth int) {
		depths[id] = depth
	})

	var werr error
	t.Walk(func(id NodeID) bool {
		n := t.nodes[id]
		var sb strings.Builder
		sb.WriteString(strings.Repeat("  ", depths[id]))
		fmt.Fprintf(&sb, "key=%d (%#x) %s", n.key, n.key, n.color)
		fmt.Fprintf(&sb, " l=%s r=%s p=%s bitmap=", t.keyString(n.left), t.keyString(n.right), t.keyString(n.parent))
		bm := t.bitmap(id)
		for i := len(bm) - 1; i >= 0; i-- {
			fmt.Fprintf(&sb, "%02x", bm[i])
		}
		sb.WriteByte('\n')
		_, werr = io.WriteString(w, sb.String())
		return werr == nil
	})
	return werr
}

func (t *Tree) keyString(id NodeID) string {
	if id == NilNode {
		return "-"
	}
	return fmt.Sprintf("%d", t.nodes[id].key)
}

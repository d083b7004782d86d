package treeset

// FindNode returns the node holding key, if any.
func (t *Tree) FindNode(key uint64) (NodeID, bool) {
	if t.destroyed {
		return NilNode, false
	}
	cur := t.root
	for cur != NilNode {
		n := &t.nodes[cur]
		switch {
		case key < n.key:
			cur = n.left
		case key > n.key:
			cur = n.right
		default:
			return cur, true
		}
	}
	return NilNode, false
}

// FindOrInsertNode returns the node holding key, creating it if needed.
//
// found reports whether the node already existed; in that case it is
// returned unchanged. A new node starts with an all-zero bitmap. On
// allocation failure the error wraps ErrAllocationFailed and the tree is
// not modified.
func (t *Tree) FindOrInsertNode(key uint64) (id NodeID, found bool, err error) {
	parent := NilNode
	goLeft := false
	cur := t.root
	for cur != NilNode {
		n := &t.nodes[cur]
		switch {
		case key < n.key:
			parent, goLeft, cur = cur, true, n.left
		case key > n.key:
			parent, goLeft, cur = cur, false, n.right
		default:
			return cur, true, nil
		}
	}

	id, err = t.allocNode(key)
	if err != nil {
		return NilNode, false, err
	}

	t.nodes[id].parent = parent
	switch {
	case parent == NilNode:
		t.root = id
	case goLeft:
		t.nodes[parent].left = id
	default:
		t.nodes[parent].right = id
	}
	t.size++

	t.fixInsert(id)
	return id, false, nil
}

// fixInsert restores the red-black properties after x was linked in RED.
func (t *Tree) fixInsert(x NodeID) {
	nodes := t.nodes
	for x != t.root && nodes[x].color == red && nodes[nodes[x].parent].color == red {
		p := nodes[x].parent
		g := nodes[p].parent
		if g == NilNode {
			break
		}

		if p == nodes[g].left {
			uncle := nodes[g].right
			if uncle != NilNode && nodes[uncle].color == red {
				nodes[g].color = red
				nodes[p].color = black
				nodes[uncle].color = black
				x = g
				continue
			}
			if x == nodes[p].right {
				t.rotateLeft(p)
				x = p
				p = nodes[x].parent
			}
			t.rotateRight(g)
			nodes[p].color, nodes[g].color = nodes[g].color, nodes[p].color
			x = p
		} else {
			uncle := nodes[g].left
			if uncle != NilNode && nodes[uncle].color == red {
				nodes[g].color = red
				nodes[p].color = black
				nodes[uncle].color = black
				x = g
				continue
			}
			if x == nodes[p].left {
				t.rotateRight(p)
				x = p
				p = nodes[x].parent
			}
			t.rotateLeft(g)
			nodes[p].color, nodes[g].color = nodes[g].color, nodes[p].color
			x = p
		}
	}

	// A rotation may have lifted a RED node to the root.
	nodes[t.root].color = black
}

func (t *Tree) rotateLeft(x NodeID) {
	nodes := t.nodes
	y := nodes[x].right
	nodes[x].right = nodes[y].left
	if nodes[y].left != NilNode {
		nodes[nodes[y].left].parent = x
	}
	t.replaceChild(nodes[x].parent, x, y)
	nodes[y].left = x
	nodes[x].parent = y
}

func (t *Tree) rotateRight(x NodeID) {
	nodes := t.nodes
	y := nodes[x].left
	nodes[x].left = nodes[y].right
	if nodes[y].right != NilNode {
		nodes[nodes[y].right].parent = x
	}
	t.replaceChild(nodes[x].parent, x, y)
	nodes[y].right = x
	nodes[x].parent = y
}

// replaceChild makes newChild take oldChild's place under parent, or at the
// root when parent is nil.
func (t *Tree) replaceChild(parent, oldChild, newChild NodeID) {
	t.nodes[newChild].parent = parent
	switch {
	case parent == NilNode:
		t.root = newChild
	case t.nodes[parent].left == oldChild:
		t.nodes[parent].left = newChild
	default:
		t.nodes[parent].right = newChild
	}
}

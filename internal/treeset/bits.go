package treeset

// CheckBit reports whether the bit at the flattened offset is set.
// Offsets whose node was never created read as false.
func (t *Tree) CheckBit(offset uint64) bool {
	key, sub := t.Split(offset)
	id, ok := t.FindNode(key)
	if !ok {
		return false
	}
	return t.CheckSubBit(id, sub)
}

// SetBit sets or clears the bit at the flattened offset, creating its node
// if needed, and reports the bit's previous value.
//
// A sub-bit offset beyond NodeBits still creates the node but touches no
// bit, like SetSubBit.
func (t *Tree) SetBit(offset uint64, value bool) (wasSet bool, err error) {
	key, sub := t.Split(offset)
	id, _, err := t.FindOrInsertNode(key)
	if err != nil {
		return false, err
	}
	wasSet, _ = t.SetSubBit(id, sub, value)
	return wasSet, nil
}

// CheckSubBit reads bit sub of an already resolved node.
// An unknown node or sub >= NodeBits reads as false.
func (t *Tree) CheckSubBit(id NodeID, sub uint) bool {
	if !t.live(id) || sub >= uint(t.nodeBits) {
		return false
	}
	return t.bitmap(id)[sub/8]&(1<<(sub%8)) != 0
}

// SetSubBit sets or clears bit sub of an already resolved node, skipping the
// tree search. ok is false, and nothing changes, for an unknown node or
// sub >= NodeBits.
func (t *Tree) SetSubBit(id NodeID, sub uint, value bool) (wasSet, ok bool) {
	if !t.live(id) || sub >= uint(t.nodeBits) {
		return false, false
	}
	bm := t.bitmap(id)
	mask := byte(1) << (sub % 8)
	wasSet = bm[sub/8]&mask != 0
	if value {
		bm[sub/8] |= mask
	} else {
		bm[sub/8] &^= mask
	}
	return wasSet, true
}

// ClearSubBits zeroes the whole bitmap of id. Other nodes are untouched.
func (t *Tree) ClearSubBits(id NodeID) {
	if !t.live(id) {
		return
	}
	clear(t.bitmap(id))
}

// Bitmap returns a copy of the bitmap of id, or nil for an unknown node.
func (t *Tree) Bitmap(id NodeID) []byte {
	if !t.live(id) {
		return nil
	}
	out := make([]byte, t.nodeBytes)
	copy(out, t.bitmap(id))
	return out
}

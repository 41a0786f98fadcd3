package trie

import "github.com/rhpvorderman/fastqdedup/sequence"

// findNearest returns the count of the first stored sequence within
// maxDist of s, or 0 when none is. When buf is non-nil the literal
// bytes of the located sequence are written into it; the second
// return value is their length and is only meaningful on a match.
//
// The search order is fixed: at every branch the child matching the
// next query byte is tried at zero cost first, then the remaining
// children in ascending alphabet index order with the budget charged.
// Cluster extraction relies on this order being deterministic.
func (t *Trie) findNearest(s []byte, maxDist int, edit bool, buf []byte) (int, int) {
	if edit {
		return t.nearestEdit(t.root, s, maxDist, 0, buf)
	}
	return t.nearestHamming(t.root, s, maxDist, 0, buf)
}

func (t *Trie) nearestHamming(n node, s []byte, budget, depth int, buf []byte) (int, int) {
	switch n := n.(type) {
	case nil:
		return 0, 0

	case *leafNode:
		// Hamming distance needs equal lengths; WithinHamming rejects
		// a length mismatch outright.
		if !sequence.WithinHamming(s, n.suffix, budget) {
			return 0, 0
		}
		if buf != nil {
			copy(buf[depth:], n.suffix)
		}
		return n.count, depth + len(n.suffix)

	case *branchNode:
		if len(s) == 0 {
			// A non-zero count here is an exact-length sequence
			// ending at this node. Zero means no match at this depth.
			return n.count, depth
		}
		i := t.alpha.index(s[0])
		if i != unknownIndex && int(i) < len(n.children) && n.children[i] != nil {
			if buf != nil {
				buf[depth] = s[0]
			}
			if count, size := t.nearestHamming(n.children[i], s[1:], budget, depth+1, buf); count > 0 {
				return count, size
			}
		}
		budget--
		if budget < 0 {
			return 0, 0
		}
		for j, child := range n.children {
			if child == nil || uint8(j) == i {
				continue
			}
			if buf != nil {
				buf[depth] = t.alpha.char(uint8(j))
			}
			if count, size := t.nearestHamming(child, s[1:], budget, depth+1, buf); count > 0 {
				return count, size
			}
		}
		return 0, 0
	}
	return 0, 0
}

func (t *Trie) nearestEdit(n node, s []byte, budget, depth int, buf []byte) (int, int) {
	switch n := n.(type) {
	case nil:
		return 0, 0

	case *leafNode:
		if !sequence.WithinEdit(s, n.suffix, budget) {
			return 0, 0
		}
		if buf != nil {
			copy(buf[depth:], n.suffix)
		}
		return n.count, depth + len(n.suffix)

	case *branchNode:
		if len(s) == 0 && n.count > 0 {
			return n.count, depth
		}
		i := uint8(unknownIndex)
		if len(s) > 0 {
			i = t.alpha.index(s[0])
			if i != unknownIndex && int(i) < len(n.children) && n.children[i] != nil {
				if buf != nil {
					buf[depth] = s[0]
				}
				if count, size := t.nearestEdit(n.children[i], s[1:], budget, depth+1, buf); count > 0 {
					return count, size
				}
			}
		}
		if budget == 0 {
			return 0, 0
		}
		// Substitution: descend another child, consuming s[0].
		if len(s) > 0 {
			for j, child := range n.children {
				if child == nil || uint8(j) == i {
					continue
				}
				if buf != nil {
					buf[depth] = t.alpha.char(uint8(j))
				}
				if count, size := t.nearestEdit(child, s[1:], budget-1, depth+1, buf); count > 0 {
					return count, size
				}
			}
		}
		// Insertion into s: descend a child without consuming s[0].
		for j, child := range n.children {
			if child == nil {
				continue
			}
			if buf != nil {
				buf[depth] = t.alpha.char(uint8(j))
			}
			if count, size := t.nearestEdit(child, s, budget-1, depth+1, buf); count > 0 {
				return count, size
			}
		}
		// Deletion from s: skip s[0] without descending.
		if len(s) > 0 {
			return t.nearestEdit(n, s[1:], budget-1, depth, buf)
		}
		return 0, 0
	}
	return 0, 0
}

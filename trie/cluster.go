package trie

import "fmt"

// ClusterMember is one popped sequence with its stored multiplicity.
type ClusterMember struct {
	Count    int
	Sequence []byte
}

// PopCluster removes and returns a maximal set of stored sequences
// forming a connected component under the within-maxDist relation,
// grown greedily around the smallest stored sequence. With maxDist 0
// the cluster is the seed's exact-duplicate bucket. The member order
// is deterministic for a fixed alphabet order.
func (t *Trie) PopCluster(maxDist int, edit bool) ([]ClusterMember, error) {
	if t.root == nil {
		return nil, ErrEmpty
	}
	size, err := t.getSequence(t.root, 0)
	if err != nil {
		return nil, err
	}
	seed := append([]byte(nil), t.buf[:size]...)
	count, err := t.deleteSequence(seed)
	if err != nil {
		return nil, err
	}
	cluster := []ClusterMember{{Count: count, Sequence: seed}}

	// Breadth expansion: stay on one template until it has no
	// neighbours left in the trie, then move to the next member. The
	// deleted sequence is exactly the witness findNearest wrote, so a
	// deletion failure means the trie is broken, not that the caller
	// raced us.
	for i := 0; t.root != nil && i < len(cluster); {
		count, size := t.findNearest(cluster[i].Sequence, maxDist, edit, t.buf)
		if count == 0 {
			i++
			continue
		}
		member := append([]byte(nil), t.buf[:size]...)
		if _, err := t.deleteSequence(member); err != nil {
			return nil, err
		}
		cluster = append(cluster, ClusterMember{Count: count, Sequence: member})
	}
	return cluster, nil
}

// getSequence writes the smallest stored sequence below n, by
// alphabet index order, into the scratch buffer and returns its
// length. A sequence ending at a branch sorts before anything in its
// subtree, being a strict prefix of it.
func (t *Trie) getSequence(n node, depth int) (int, error) {
	switch n := n.(type) {
	case *leafNode:
		if depth+len(n.suffix) > len(t.buf) {
			return 0, fmt.Errorf("suffix overflows the sequence buffer: %w", ErrCorruption)
		}
		copy(t.buf[depth:], n.suffix)
		return depth + len(n.suffix), nil

	case *branchNode:
		if n.count > 0 {
			return depth, nil
		}
		for j, child := range n.children {
			if child == nil {
				continue
			}
			if depth >= len(t.buf) {
				return 0, fmt.Errorf("path overflows the sequence buffer: %w", ErrCorruption)
			}
			t.buf[depth] = t.alpha.char(uint8(j))
			return t.getSequence(child, depth+1)
		}
		return 0, fmt.Errorf("branch with no count and no children: %w", ErrCorruption)
	}
	return 0, fmt.Errorf("empty slot reached: %w", ErrCorruption)
}

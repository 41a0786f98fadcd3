// Package trie implements a compressed-alphabet radix trie over
// ASCII sequences. Every stored sequence carries a multiplicity
// count, lookups accept a Hamming or edit distance budget, and whole
// clusters of near-duplicates can be popped off the trie in one call.
// It is the index behind UMI deduplication: sequencing errors make
// reads of the same molecule differ in a few positions, so membership
// has to be approximate.
//
// Trie is not safe for concurrent use.
package trie

import (
	"bytes"
	"fmt"
	"math"
)

// maxSequenceSize bounds a single stored sequence.
const maxSequenceSize = math.MaxInt32

// Trie owns the alphabet, the root node and the scratch buffers. The
// root slot is nil while no sequences are stored.
type Trie struct {
	root  node
	alpha *alphabet

	// sequences is the number of successful Add calls minus the
	// counts removed by PopCluster. It always equals the sum of all
	// node counts.
	sequences int

	// maxLen is the largest sequence length ever inserted. The
	// scratch buffer below is kept at least this large so search
	// witnesses and representative extraction never allocate.
	maxLen int
	buf    []byte
}

// New creates an empty trie. The seed, if non-empty, fixes the
// initial alphabet indices in seed order; its bytes must be unique
// 7-bit ASCII. Search order, and with it cluster extraction order, is
// determined by alphabet index order, so seeding makes runs over
// differently-ordered inputs comparable.
func New(seed string) (*Trie, error) {
	alpha, err := newAlphabet([]byte(seed))
	if err != nil {
		return nil, err
	}
	return &Trie{alpha: alpha}, nil
}

// Len returns the number of stored sequences, duplicates included.
func (t *Trie) Len() int { return t.sequences }

// MaxSequenceSize returns the largest length ever inserted.
func (t *Trie) MaxSequenceSize() int { return t.maxLen }

// Alphabet returns the observed characters in index order.
func (t *Trie) Alphabet() string { return t.alpha.String() }

// Add stores one occurrence of s.
func (t *Trie) Add(s []byte) error {
	if len(s) > maxSequenceSize {
		return fmt.Errorf("sequence of %d bytes exceeds the maximum length: %w", len(s), ErrBadInput)
	}
	for _, c := range s {
		if c >= 0x80 {
			return fmt.Errorf("sequence byte 0x%02x is not 7-bit ASCII: %w", c, ErrBadInput)
		}
	}
	root, err := t.insert(t.root, s, 1)
	if err != nil {
		return err
	}
	t.root = root
	t.sequences++
	if len(s) > t.maxLen {
		t.maxLen = len(s)
		t.buf = make([]byte, t.maxLen)
	}
	return nil
}

// Contains reports whether any stored sequence is within maxDist of
// s: Hamming distance by default, Levenshtein when edit is set.
func (t *Trie) Contains(s []byte, maxDist int, edit bool) bool {
	if t.root == nil {
		return false
	}
	count, _ := t.findNearest(s, maxDist, edit, nil)
	return count > 0
}

// insert stores count occurrences of s below n and returns the
// replacement node.
func (t *Trie) insert(n node, s []byte, count int) (node, error) {
	switch n := n.(type) {
	case nil:
		// Unique tail, compress it into a terminal.
		return &leafNode{suffix: append([]byte(nil), s...), count: count}, nil

	case *leafNode:
		if bytes.Equal(n.suffix, s) {
			n.count += count
			return n, nil
		}
		// Split: re-insert the compressed suffix through a fresh
		// branch, then insert s through the same branch. A zero-length
		// suffix lands on the branch count, so the stored multiplicity
		// survives the transition.
		branch, err := t.insert(&branchNode{}, n.suffix, n.count)
		if err != nil {
			return nil, err
		}
		return t.insert(branch, s, count)

	case *branchNode:
		if len(s) == 0 {
			n.count += count
			return n, nil
		}
		i := t.alpha.index(s[0])
		if i == unknownIndex {
			var err error
			if i, err = t.alpha.assign(s[0]); err != nil {
				return nil, err
			}
		}
		n.grow(int(i))
		child, err := t.insert(n.children[i], s[1:], count)
		if err != nil {
			return nil, err
		}
		n.children[i] = child
		return n, nil

	default:
		panic(fmt.Sprintf("%T: invalid node: %v", n, n))
	}
}

// deleteSequence removes all occurrences of exactly s and returns the
// count that was stored. It fails with ErrCorruption if s is absent:
// the only caller feeds it sequences the trie itself just produced.
func (t *Trie) deleteSequence(s []byte) (int, error) {
	removed, root, err := t.delete(t.root, s)
	if err != nil {
		return 0, err
	}
	t.root = root
	t.sequences -= removed
	return removed, nil
}

// delete returns the removed count and the replacement for n. It
// keeps the subtree in minimal form on the way back up: a branch
// whose slots all emptied collapses to its count (or disappears), and
// a count-0 branch left with a single terminal child merges back into
// one compressed terminal.
func (t *Trie) delete(n node, s []byte) (int, node, error) {
	switch n := n.(type) {
	case nil:
		return 0, nil, fmt.Errorf("delete of absent sequence %q: %w", s, ErrCorruption)

	case *leafNode:
		if !bytes.Equal(n.suffix, s) {
			return 0, n, fmt.Errorf("delete of absent sequence %q: %w", s, ErrCorruption)
		}
		return n.count, nil, nil

	case *branchNode:
		if len(s) == 0 {
			if n.count == 0 {
				return 0, n, fmt.Errorf("delete of absent sequence %q: %w", s, ErrCorruption)
			}
			removed := n.count
			n.count = 0
			return removed, t.prune(n), nil
		}
		i := t.alpha.index(s[0])
		if i == unknownIndex || int(i) >= len(n.children) || n.children[i] == nil {
			return 0, n, fmt.Errorf("delete of absent sequence %q: %w", s, ErrCorruption)
		}
		removed, child, err := t.delete(n.children[i], s[1:])
		if err != nil {
			return 0, n, err
		}
		n.children[i] = child
		return removed, t.prune(n), nil

	default:
		panic(fmt.Sprintf("%T: invalid node: %v", n, n))
	}
}

// prune reduces a branch after a deletion below it.
func (t *Trie) prune(n *branchNode) node {
	switch pos := n.liveChildren(); {
	case pos == -1:
		if n.count > 0 {
			// Keep the zero-length sequence representable.
			return &leafNode{count: n.count}
		}
		return nil
	case pos >= 0 && n.count == 0:
		if leaf, ok := n.children[pos].(*leafNode); ok {
			// Merge the lone terminal back into a compressed one, so
			// deleting a dead branch restores the shape an insert of
			// the survivor alone would have produced.
			suffix := make([]byte, 0, len(leaf.suffix)+1)
			suffix = append(suffix, t.alpha.char(uint8(pos)))
			suffix = append(suffix, leaf.suffix...)
			return &leafNode{suffix: suffix, count: leaf.count}
		}
	}
	return n
}

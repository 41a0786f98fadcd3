package trie

import "errors"

var (
	// ErrBadInput reports a sequence that is not 7-bit ASCII, exceeds
	// the maximum length, or an alphabet seed with repeated bytes.
	ErrBadInput = errors.New("bad input")

	// ErrAlphabetFull reports that a new byte would push the alphabet
	// past its 255-entry capacity.
	ErrAlphabetFull = errors.New("alphabet full")

	// ErrEmpty reports a PopCluster call on a trie with no sequences.
	ErrEmpty = errors.New("empty trie")

	// ErrCorruption reports a broken internal invariant: a located
	// sequence that cannot be deleted, or an extraction failure on a
	// non-empty trie. A trie that returned it is safe to discard but
	// not to keep using.
	ErrCorruption = errors.New("trie corruption")
)

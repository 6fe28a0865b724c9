// Package parity implements the XOR arithmetic shared by every RAID-4
// operation: folding one block into another, reconstructing a missing
// stripe column from the survivors, and computing the new parity block for
// a read-modify-write.
package parity

import "fmt"

// XorInto XORs src into dst in place: dst[i] ^= src[i] for every byte. Both
// slices must have the same length.
func XorInto(dst, src []byte) error {
	if len(dst) != len(src) {
		return fmt.Errorf("parity: length mismatch: dst=%d src=%d", len(dst), len(src))
	}
	for i := range dst {
		dst[i] ^= src[i]
	}
	return nil
}

// Reconstruct XORs together every block in present — the stripe column
// across all slots with a present backing device, parity slot included.
// When exactly one slot in the stripe is absent, the result is that slot's
// missing block. Callers must not invoke this when no slot is absent and
// the parity invariant holds: the result would be all zero, which is never
// a useful reconstruction.
func Reconstruct(blockSize int, present [][]byte) ([]byte, error) {
	if len(present) == 0 {
		return nil, fmt.Errorf("parity: reconstruct needs at least one surviving block")
	}
	out := make([]byte, blockSize)
	for _, b := range present {
		if len(b) != blockSize {
			return nil, fmt.Errorf("parity: block length mismatch: want %d, got %d", blockSize, len(b))
		}
		if err := XorInto(out, b); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// NewParity computes the updated parity block for a read-modify-write:
// oldParity XOR oldData XOR newData. The three inputs must be the same
// length; the result is a freshly allocated block, leaving all three
// inputs untouched.
func NewParity(oldData, newData, oldParity []byte) ([]byte, error) {
	if len(oldData) != len(newData) || len(oldData) != len(oldParity) {
		return nil, fmt.Errorf("parity: length mismatch: old=%d new=%d parity=%d", len(oldData), len(newData), len(oldParity))
	}
	out := make([]byte, len(oldParity))
	copy(out, oldParity)
	if err := XorInto(out, oldData); err != nil {
		return nil, err
	}
	if err := XorInto(out, newData); err != nil {
		return nil, err
	}
	return out, nil
}

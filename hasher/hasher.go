// Package hasher defines the batch hashing capability shared by all
// backends: the BatchHasher interface, the supported preimage arities,
// the hash strengths, and the errors every conforming backend reports.
package hasher

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// Arity is the number of field elements composing one preimage.
//
// Only a small fixed set of widths is supported; the permutation width is
// Arity+1 because one state slot is reserved for the domain tag.
type Arity int

// Supported arities.
const (
	Arity2  Arity = 2
	Arity4  Arity = 4
	Arity8  Arity = 8
	Arity11 Arity = 11
)

// Arities lists every supported arity, in ascending order.
func Arities() []Arity {
	return []Arity{Arity2, Arity4, Arity8, Arity11}
}

// Valid reports whether a is a supported arity.
func (a Arity) Valid() bool {
	switch a {
	case Arity2, Arity4, Arity8, Arity11:
		return true
	default:
		return false
	}
}

// Width returns the permutation width for this arity (arity + 1 tag slot).
func (a Arity) Width() int {
	return int(a) + 1
}

// String returns a string representation of the Arity.
func (a Arity) String() string {
	return fmt.Sprintf("arity-%d", int(a))
}

// Strength selects the hash parameterization level. It changes the round
// counts the backends use, not the capability interface.
type Strength int

const (
	// Standard is the baseline security margin.
	Standard Strength = iota
	// Strengthened adds extra partial rounds for a hardened margin.
	Strengthened
)

// DefaultStrength is used by constructors that do not take an explicit
// strength.
const DefaultStrength = Standard

// Valid reports whether s is a known strength.
func (s Strength) Valid() bool {
	return s == Standard || s == Strengthened
}

// String returns a string representation of the Strength.
func (s Strength) String() string {
	switch s {
	case Standard:
		return "standard"
	case Strengthened:
		return "strengthened"
	default:
		return "unknown"
	}
}

// ErrBatchTooLarge is a named error type for a batch exceeding the
// configured maximum. The caller must chunk and resubmit.
type ErrBatchTooLarge struct {
	Size int // Submitted batch size
	Max  int // Configured maximum
}

// Error returns the error message for an oversized batch.
func (e *ErrBatchTooLarge) Error() string {
	return fmt.Sprintf("batch too large: %d preimages, max %d", e.Size, e.Max)
}

// ErrArityMismatch is a named error type for a preimage whose length does
// not match the configured arity.
type ErrArityMismatch struct {
	Expected int // Configured arity
	Actual   int // Preimage length
	Index    int // Position of the offending preimage in the batch
}

// Error returns the error message for an arity mismatch.
func (e *ErrArityMismatch) Error() string {
	return fmt.Sprintf("arity mismatch at preimage %d: expected %d elements, got %d", e.Index, e.Expected, e.Actual)
}

// BatchHasher is the uniform operation contract every backend satisfies.
//
// Hash is purely functional from the caller's perspective: for a given
// backend and strength, the same input batch always yields the same output
// sequence, with output[i] corresponding to input[i]. Implementations are
// not required to be safe for concurrent Hash calls on the same instance.
type BatchHasher interface {
	// Hash computes one output element per input preimage. An empty batch
	// returns an empty sequence without error. A batch longer than
	// MaxBatchSize fails with *ErrBatchTooLarge; a preimage whose length
	// differs from the configured arity fails with *ErrArityMismatch.
	Hash(preimages [][]fr.Element) ([]fr.Element, error)

	// MaxBatchSize returns the batch cap fixed at construction.
	MaxBatchSize() int
}

// ValidateBatch enforces the capability boundary: batch size against max
// and every preimage length against the configured arity. Backends call it
// before touching the batch; the dispatcher does not pre-validate.
func ValidateBatch(preimages [][]fr.Element, arity Arity, maxBatchSize int) error {
	if len(preimages) > maxBatchSize {
		return &ErrBatchTooLarge{Size: len(preimages), Max: maxBatchSize}
	}

	for i, p := range preimages {
		if len(p) != int(arity) {
			return &ErrArityMismatch{Expected: int(arity), Actual: len(p), Index: i}
		}
	}

	return nil
}

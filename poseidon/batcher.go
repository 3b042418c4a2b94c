// Package poseidon implements the software (CPU) batch hashing backend: a
// Poseidon permutation over the BLS12-381 scalar field with deterministic,
// strength-dependent parameters.
package poseidon

import (
	"fmt"
	"runtime"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"golang.org/x/sync/errgroup"

	"github.com/primefield/batchgo/hasher"
)

// BatchHasher is the CPU implementation of hasher.BatchHasher. It holds no
// mutable state between calls; the batch cap and parameters are fixed at
// construction.
type BatchHasher struct {
	params       *Parameters
	maxBatchSize int
	workers      int
}

var _ hasher.BatchHasher = (*BatchHasher)(nil)

// New constructs a software batch hasher with the default strength.
func New(arity hasher.Arity, maxBatchSize int) (*BatchHasher, error) {
	return NewWithStrength(hasher.DefaultStrength, arity, maxBatchSize)
}

// NewWithStrength constructs a software batch hasher for the given
// strength, arity, and batch cap.
func NewWithStrength(strength hasher.Strength, arity hasher.Arity, maxBatchSize int) (*BatchHasher, error) {
	if maxBatchSize <= 0 {
		return nil, fmt.Errorf("poseidon: max batch size must be positive, got %d", maxBatchSize)
	}

	params, err := NewParameters(arity, strength)
	if err != nil {
		return nil, err
	}

	return &BatchHasher{
		params:       params,
		maxBatchSize: maxBatchSize,
		workers:      runtime.GOMAXPROCS(0),
	}, nil
}

// Params exposes the derived permutation parameters so the accelerator
// backend can upload the identical constants.
func (h *BatchHasher) Params() *Parameters {
	return h.params
}

// Hash computes one digest per preimage, order preserved. Preimages are
// hashed independently, so the batch is fanned out across workers.
func (h *BatchHasher) Hash(preimages [][]fr.Element) ([]fr.Element, error) {
	if err := hasher.ValidateBatch(preimages, h.params.Arity, h.maxBatchSize); err != nil {
		return nil, err
	}

	out := make([]fr.Element, len(preimages))
	if len(preimages) == 0 {
		return out, nil
	}

	var g errgroup.Group
	g.SetLimit(h.workers)

	for i := range preimages {
		g.Go(func() error {
			out[i] = h.hashOne(preimages[i])
			return nil
		})
	}

	// No worker returns an error; Wait only joins them.
	_ = g.Wait()

	return out, nil
}

// MaxBatchSize returns the batch cap fixed at construction.
func (h *BatchHasher) MaxBatchSize() int {
	return h.maxBatchSize
}

// hashOne runs one permutation: tag in slot 0, preimage in the remaining
// slots, digest read from slot 1.
func (h *BatchHasher) hashOne(preimage []fr.Element) fr.Element {
	state := make([]fr.Element, h.params.Width)
	state[0] = h.params.Tag
	copy(state[1:], preimage)

	h.params.permute(state)

	return state[1]
}

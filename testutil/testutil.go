// Package testutil provides deterministic fixture generation for batch
// hashing tests.
package testutil

import (
	"encoding/binary"
	"math/rand"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// RNG encapsulates a seeded random number generator for reproducible
// preimage fixtures. It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Element returns a pseudo-random field element, uniform enough for test
// fixtures.
func (r *RNG) Element() fr.Element {
	r.mu.Lock()
	defer r.mu.Unlock()

	var buf [32]byte
	for i := 0; i < 4; i++ {
		binary.BigEndian.PutUint64(buf[i*8:], r.rand.Uint64())
	}

	var e fr.Element
	e.SetBytes(buf[:])
	return e
}

// Preimage returns a pseudo-random preimage of the given arity.
func (r *RNG) Preimage(arity int) []fr.Element {
	p := make([]fr.Element, arity)
	for i := range p {
		p[i] = r.Element()
	}
	return p
}

// Batch returns count pseudo-random preimages of the given arity.
func (r *RNG) Batch(count, arity int) [][]fr.Element {
	batch := make([][]fr.Element, count)
	for i := range batch {
		batch[i] = r.Preimage(arity)
	}
	return batch
}

// Package batchgo provides a backend-agnostic batch hashing dispatcher for
// the Poseidon permutation over the BLS12-381 scalar field.
//
// A Batcher owns exactly one backend, chosen at construction:
//
//   - Software: CPU permutation, parallelized across the batch
//   - Accelerator: WebGPU compute pipeline, one thread per preimage
//
// Both backends satisfy the same hasher.BatchHasher contract and derive
// their parameters from the same generator, so identical input yields
// identical output regardless of backend.
//
// # Quick start
//
//	b, err := batchgo.New(batchgo.SoftwareOnly(), hasher.Arity2, 1024)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer b.Close()
//
//	digests, err := b.Hash(preimages) // digests[i] = H(preimages[i])
//
// # Accelerator fallback
//
// Requesting an accelerator on a platform without one returns
// ErrUnsupportedBackend rather than aborting, so callers can fall back:
//
//	b, err := batchgo.New(batchgo.DefaultAccelerator(), hasher.Arity2, 1024)
//	if errors.Is(err, batchgo.ErrUnsupportedBackend) {
//	    b, err = batchgo.New(batchgo.SoftwareOnly(), hasher.Arity2, 1024)
//	}
//
// or probe first with Capabilities / PreferredBackend.
//
// # Concurrency
//
// Hash is synchronous and runs to completion; the dispatcher spawns no
// threads of its own and holds no locks. Use one Batcher per goroutine or
// serialize Hash calls.
package batchgo

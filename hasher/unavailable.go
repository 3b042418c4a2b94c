package hasher

import "github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

// Unavailable satisfies BatchHasher on platforms where an accelerator
// backend cannot be built, so code generic over the capability still
// compiles there.
//
// It is never constructed by the dispatcher: an unsupported backend request
// surfaces as an error at construction time instead. Reaching one of these
// methods therefore indicates a build or selection defect, not bad input,
// and fails loudly rather than returning a silent wrong answer.
type Unavailable struct{}

// Hash panics unconditionally.
func (Unavailable) Hash(_ [][]fr.Element) ([]fr.Element, error) {
	panic("hasher: unavailable backend reached; accelerator support was not built")
}

// MaxBatchSize panics unconditionally.
func (Unavailable) MaxBatchSize() int {
	panic("hasher: unavailable backend reached; accelerator support was not built")
}

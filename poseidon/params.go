package poseidon

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/zeebo/blake3"

	"github.com/primefield/batchgo/hasher"
)

// fullRounds is the number of full S-box rounds, split evenly before and
// after the partial rounds.
const fullRounds = 8

// strengthenedExtra is the number of partial rounds added on top of the
// standard count when the strengthened parameterization is selected.
const strengthenedExtra = 14

// partialRoundsByWidth maps permutation width to the standard partial
// round count.
var partialRoundsByWidth = map[int]int{
	3:  55, // arity 2
	5:  56, // arity 4
	9:  57, // arity 8
	12: 57, // arity 11
}

// Parameters fully determines the permutation for one arity and strength:
// round counts, round constants, MDS matrix, and the domain tag occupying
// state slot 0. The accelerator backend consumes the same Parameters, which
// is what keeps both backends in agreement by construction.
type Parameters struct {
	Arity    hasher.Arity
	Strength hasher.Strength

	// Width is the permutation state width, Arity+1.
	Width int

	// FullRounds and PartialRounds are the round counts for this strength.
	FullRounds    int
	PartialRounds int

	// RoundConstants holds (FullRounds+PartialRounds)*Width constants,
	// consumed width elements per round.
	RoundConstants []fr.Element

	// MDS is the Width x Width mixing matrix.
	MDS [][]fr.Element

	// Tag is the fixed-length domain separation tag, 2^Arity - 1.
	Tag fr.Element
}

// NewParameters derives the permutation parameters for the given arity and
// strength. Derivation is deterministic: the same inputs always produce the
// same constants.
func NewParameters(arity hasher.Arity, strength hasher.Strength) (*Parameters, error) {
	if !arity.Valid() {
		return nil, fmt.Errorf("poseidon: unsupported arity %d", int(arity))
	}

	if !strength.Valid() {
		return nil, fmt.Errorf("poseidon: unknown strength %d", int(strength))
	}

	width := arity.Width()

	partial, ok := partialRoundsByWidth[width]
	if !ok {
		return nil, fmt.Errorf("poseidon: no round table entry for width %d", width)
	}

	if strength == hasher.Strengthened {
		partial += strengthenedExtra
	}

	p := &Parameters{
		Arity:         arity,
		Strength:      strength,
		Width:         width,
		FullRounds:    fullRounds,
		PartialRounds: partial,
	}

	p.RoundConstants = deriveConstants(width, strength, (fullRounds+partial)*width)
	p.MDS = cauchyMatrix(width)
	p.Tag.SetUint64(1<<uint(arity) - 1)

	return p, nil
}

// deriveConstants expands a per-parameterization seed into n field elements
// using the BLAKE3 XOF. 48-byte reads keep the bias of the modular
// reduction negligible.
func deriveConstants(width int, strength hasher.Strength, n int) []fr.Element {
	h := blake3.New()
	fmt.Fprintf(h, "batchgo/poseidon/bls12-381/width-%02d/%s", width, strength)
	xof := h.Digest()

	constants := make([]fr.Element, n)
	buf := make([]byte, 48)

	for i := range constants {
		// The XOF read cannot fail.
		_, _ = xof.Read(buf)
		constants[i].SetBytes(buf)
	}

	return constants
}

// cauchyMatrix builds the width x width MDS matrix M[i][j] = 1/(x_i + y_j)
// with x_i = i and y_j = width + j. All denominators are small nonzero
// integers, so every entry is well-defined and the matrix is MDS over Fr.
func cauchyMatrix(width int) [][]fr.Element {
	m := make([][]fr.Element, width)

	for i := 0; i < width; i++ {
		m[i] = make([]fr.Element, width)

		for j := 0; j < width; j++ {
			var d fr.Element
			d.SetUint64(uint64(i + width + j))
			m[i][j].Inverse(&d)
		}
	}

	return m
}

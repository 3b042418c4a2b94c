package poseidon

import "github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

// permute applies the Poseidon permutation to state in place. len(state)
// must equal p.Width; callers guarantee this.
//
// Round structure: half the full rounds, then the partial rounds (S-box on
// state slot 0 only), then the remaining full rounds. Every round adds one
// width-sized slice of round constants and ends with the MDS mix.
func (p *Parameters) permute(state []fr.Element) {
	scratch := make([]fr.Element, p.Width)
	half := p.FullRounds / 2
	rc := p.RoundConstants

	for r := 0; r < half; r++ {
		addConstants(state, rc[:p.Width])
		rc = rc[p.Width:]

		for i := range state {
			quintSbox(&state[i])
		}

		p.mix(state, scratch)
	}

	for r := 0; r < p.PartialRounds; r++ {
		addConstants(state, rc[:p.Width])
		rc = rc[p.Width:]

		quintSbox(&state[0])
		p.mix(state, scratch)
	}

	for r := 0; r < half; r++ {
		addConstants(state, rc[:p.Width])
		rc = rc[p.Width:]

		for i := range state {
			quintSbox(&state[i])
		}

		p.mix(state, scratch)
	}
}

// quintSbox computes x^5 in place.
func quintSbox(x *fr.Element) {
	var sq, quad fr.Element
	sq.Square(x)
	quad.Square(&sq)
	x.Mul(x, &quad)
}

func addConstants(state, rc []fr.Element) {
	for i := range state {
		state[i].Add(&state[i], &rc[i])
	}
}

// mix multiplies state by the MDS matrix, using scratch to hold the product
// before copying it back.
func (p *Parameters) mix(state, scratch []fr.Element) {
	var t fr.Element

	for i := 0; i < p.Width; i++ {
		scratch[i].SetZero()

		for j := 0; j < p.Width; j++ {
			t.Mul(&p.MDS[i][j], &state[j])
			scratch[i].Add(&scratch[i], &t)
		}
	}

	copy(state, scratch)
}

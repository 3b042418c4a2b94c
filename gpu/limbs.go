package gpu

import "github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

// The shader computes in the same Montgomery domain gnark-crypto uses
// internally, so elements cross the bus as raw Montgomery limbs in both
// directions and no domain conversion ever happens on either side.

// limbsPerElement is the number of u32 limbs per field element.
const limbsPerElement = 8

// appendLimbs appends e's Montgomery representation as 8 little-endian u32
// limbs.
func appendLimbs(dst []uint32, e *fr.Element) []uint32 {
	for _, w := range e {
		dst = append(dst, uint32(w), uint32(w>>32))
	}
	return dst
}

// elementFromLimbs reassembles a field element from 8 little-endian u32
// limbs.
func elementFromLimbs(limbs []uint32) fr.Element {
	var e fr.Element
	for i := 0; i < fr.Limbs; i++ {
		e[i] = uint64(limbs[2*i]) | uint64(limbs[2*i+1])<<32
	}
	return e
}

// packElements flattens elements into a limb stream for upload.
func packElements(dst []uint32, elems []fr.Element) []uint32 {
	for i := range elems {
		dst = appendLimbs(dst, &elems[i])
	}
	return dst
}

// unpackElements reads n elements out of a limb stream.
func unpackElements(limbs []uint32, n int) []fr.Element {
	out := make([]fr.Element, n)
	for i := 0; i < n; i++ {
		out[i] = elementFromLimbs(limbs[i*limbsPerElement : (i+1)*limbsPerElement])
	}
	return out
}

package gpu

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primefield/batchgo/testutil"
)

func TestLimbRoundTrip(t *testing.T) {
	rng := testutil.NewRNG(7)

	t.Run("SingleElement", func(t *testing.T) {
		for i := 0; i < 32; i++ {
			e := rng.Element()

			limbs := appendLimbs(nil, &e)
			require.Len(t, limbs, limbsPerElement)

			back := elementFromLimbs(limbs)
			assert.True(t, e.Equal(&back))
		}
	})

	t.Run("Zero", func(t *testing.T) {
		var e fr.Element
		back := elementFromLimbs(appendLimbs(nil, &e))
		assert.True(t, e.Equal(&back))
	})

	t.Run("PackUnpack", func(t *testing.T) {
		elems := make([]fr.Element, 9)
		for i := range elems {
			elems[i] = rng.Element()
		}

		limbs := packElements(nil, elems)
		require.Len(t, limbs, len(elems)*limbsPerElement)

		back := unpackElements(limbs, len(elems))
		require.Len(t, back, len(elems))
		for i := range elems {
			assert.True(t, elems[i].Equal(&back[i]))
		}
	})
}

package hasher

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArity(t *testing.T) {
	t.Run("Supported", func(t *testing.T) {
		for _, a := range Arities() {
			assert.True(t, a.Valid(), a.String())
			assert.Equal(t, int(a)+1, a.Width())
		}
	})

	t.Run("Unsupported", func(t *testing.T) {
		assert.False(t, Arity(0).Valid())
		assert.False(t, Arity(3).Valid())
		assert.False(t, Arity(16).Valid())
		assert.False(t, Arity(-1).Valid())
	})
}

func TestStrength(t *testing.T) {
	assert.True(t, Standard.Valid())
	assert.True(t, Strengthened.Valid())
	assert.False(t, Strength(42).Valid())

	assert.Equal(t, "standard", Standard.String())
	assert.Equal(t, "strengthened", Strengthened.String())
	assert.Equal(t, Standard, DefaultStrength)
}

func TestValidateBatch(t *testing.T) {
	preimage := func(n int) []fr.Element { return make([]fr.Element, n) }

	t.Run("OK", func(t *testing.T) {
		batch := [][]fr.Element{preimage(2), preimage(2)}
		require.NoError(t, ValidateBatch(batch, Arity2, 4))
	})

	t.Run("Empty", func(t *testing.T) {
		require.NoError(t, ValidateBatch(nil, Arity2, 4))
	})

	t.Run("TooLarge", func(t *testing.T) {
		batch := [][]fr.Element{preimage(2), preimage(2), preimage(2)}
		err := ValidateBatch(batch, Arity2, 2)
		require.Error(t, err)

		var tooLarge *ErrBatchTooLarge
		require.ErrorAs(t, err, &tooLarge)
		assert.Equal(t, 3, tooLarge.Size)
		assert.Equal(t, 2, tooLarge.Max)
	})

	t.Run("ArityMismatch", func(t *testing.T) {
		batch := [][]fr.Element{preimage(2), preimage(3)}
		err := ValidateBatch(batch, Arity2, 4)
		require.Error(t, err)

		var mismatch *ErrArityMismatch
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, 2, mismatch.Expected)
		assert.Equal(t, 3, mismatch.Actual)
		assert.Equal(t, 1, mismatch.Index)
	})
}

func TestUnavailable(t *testing.T) {
	var u Unavailable

	assert.Panics(t, func() { _, _ = u.Hash(nil) })
	assert.Panics(t, func() { _ = u.MaxBatchSize() })
}

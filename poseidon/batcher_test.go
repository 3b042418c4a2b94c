package poseidon_test

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primefield/batchgo/hasher"
	"github.com/primefield/batchgo/poseidon"
	"github.com/primefield/batchgo/testutil"
)

func TestNew(t *testing.T) {
	t.Run("AllAritiesAndStrengths", func(t *testing.T) {
		for _, arity := range hasher.Arities() {
			for _, strength := range []hasher.Strength{hasher.Standard, hasher.Strengthened} {
				h, err := poseidon.NewWithStrength(strength, arity, 16)
				require.NoError(t, err)
				assert.Equal(t, 16, h.MaxBatchSize())
			}
		}
	})

	t.Run("NonPositiveBatchCap", func(t *testing.T) {
		_, err := poseidon.New(hasher.Arity2, 0)
		require.Error(t, err)

		_, err = poseidon.New(hasher.Arity2, -1)
		require.Error(t, err)
	})

	t.Run("UnsupportedArity", func(t *testing.T) {
		_, err := poseidon.New(hasher.Arity(5), 16)
		require.Error(t, err)
	})
}

func TestHash(t *testing.T) {
	rng := testutil.NewRNG(42)

	t.Run("EmptyBatch", func(t *testing.T) {
		h, err := poseidon.New(hasher.Arity2, 4)
		require.NoError(t, err)

		out, err := h.Hash(nil)
		require.NoError(t, err)
		assert.Empty(t, out)

		out, err = h.Hash([][]fr.Element{})
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("OutputLengthMatchesInput", func(t *testing.T) {
		h, err := poseidon.New(hasher.Arity2, 8)
		require.NoError(t, err)

		for n := 0; n <= 8; n++ {
			out, err := h.Hash(rng.Batch(n, 2))
			require.NoError(t, err)
			assert.Len(t, out, n)
		}
	})

	t.Run("BatchTooLarge", func(t *testing.T) {
		h, err := poseidon.New(hasher.Arity2, 2)
		require.NoError(t, err)

		_, err = h.Hash(rng.Batch(3, 2))
		require.Error(t, err)

		var tooLarge *hasher.ErrBatchTooLarge
		require.ErrorAs(t, err, &tooLarge)
		assert.Equal(t, 3, tooLarge.Size)
		assert.Equal(t, 2, tooLarge.Max)
	})

	t.Run("ArityMismatch", func(t *testing.T) {
		h, err := poseidon.New(hasher.Arity2, 4)
		require.NoError(t, err)

		_, err = h.Hash([][]fr.Element{rng.Preimage(4)})
		var mismatch *hasher.ErrArityMismatch
		require.ErrorAs(t, err, &mismatch)
	})

	t.Run("Deterministic", func(t *testing.T) {
		h, err := poseidon.New(hasher.Arity4, 8)
		require.NoError(t, err)

		batch := rng.Batch(8, 4)
		a, err := h.Hash(batch)
		require.NoError(t, err)
		b, err := h.Hash(batch)
		require.NoError(t, err)

		for i := range a {
			assert.True(t, a[i].Equal(&b[i]))
		}
	})

	t.Run("OrderPreserved", func(t *testing.T) {
		h, err := poseidon.New(hasher.Arity2, 4)
		require.NoError(t, err)

		batch := rng.Batch(4, 2)
		out, err := h.Hash(batch)
		require.NoError(t, err)

		// Each digest must equal the digest of a single-preimage batch.
		for i, p := range batch {
			single, err := h.Hash([][]fr.Element{p})
			require.NoError(t, err)
			assert.True(t, out[i].Equal(&single[0]), "digest %d out of order", i)
		}
	})

	t.Run("StrengthsDiverge", func(t *testing.T) {
		std, err := poseidon.NewWithStrength(hasher.Standard, hasher.Arity2, 4)
		require.NoError(t, err)
		hard, err := poseidon.NewWithStrength(hasher.Strengthened, hasher.Arity2, 4)
		require.NoError(t, err)

		batch := rng.Batch(1, 2)
		a, err := std.Hash(batch)
		require.NoError(t, err)
		b, err := hard.Hash(batch)
		require.NoError(t, err)

		assert.False(t, a[0].Equal(&b[0]))
	})

	t.Run("InputSensitive", func(t *testing.T) {
		h, err := poseidon.New(hasher.Arity2, 4)
		require.NoError(t, err)

		a, err := h.Hash(rng.Batch(1, 2))
		require.NoError(t, err)
		b, err := h.Hash(rng.Batch(1, 2))
		require.NoError(t, err)

		assert.False(t, a[0].Equal(&b[0]))
	})
}

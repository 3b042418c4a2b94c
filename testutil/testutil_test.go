package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRNG(t *testing.T) {
	t.Run("Reproducible", func(t *testing.T) {
		a := NewRNG(7).Batch(4, 2)
		b := NewRNG(7).Batch(4, 2)

		require.Len(t, b, len(a))
		for i := range a {
			require.Len(t, b[i], len(a[i]))
			for j := range a[i] {
				assert.True(t, a[i][j].Equal(&b[i][j]))
			}
		}
	})

	t.Run("SeedsDiverge", func(t *testing.T) {
		x := NewRNG(1).Element()
		y := NewRNG(2).Element()
		assert.False(t, x.Equal(&y))
	})

	t.Run("Shapes", func(t *testing.T) {
		rng := NewRNG(3)
		assert.Len(t, rng.Preimage(11), 11)

		batch := rng.Batch(5, 4)
		assert.Len(t, batch, 5)
		for _, p := range batch {
			assert.Len(t, p, 4)
		}

		assert.Equal(t, int64(3), rng.Seed())
	})
}

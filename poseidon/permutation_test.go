package poseidon

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primefield/batchgo/hasher"
)

func TestQuintSbox(t *testing.T) {
	var x fr.Element
	x.SetUint64(12345)

	var want fr.Element
	want.Exp(x, big.NewInt(5))

	quintSbox(&x)
	assert.True(t, want.Equal(&x))
}

func TestPermute(t *testing.T) {
	p, err := NewParameters(hasher.Arity2, hasher.Standard)
	require.NoError(t, err)

	newState := func() []fr.Element {
		state := make([]fr.Element, p.Width)
		state[0] = p.Tag
		state[1].SetUint64(1)
		state[2].SetUint64(2)
		return state
	}

	t.Run("ChangesState", func(t *testing.T) {
		before := newState()
		after := newState()
		p.permute(after)

		for i := range before {
			assert.False(t, before[i].Equal(&after[i]), "slot %d unchanged", i)
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		a := newState()
		b := newState()
		p.permute(a)
		p.permute(b)

		for i := range a {
			assert.True(t, a[i].Equal(&b[i]))
		}
	})

	t.Run("InputSensitive", func(t *testing.T) {
		a := newState()
		b := newState()
		b[2].SetUint64(3)
		p.permute(a)
		p.permute(b)

		assert.False(t, a[1].Equal(&b[1]))
	})
}

package gpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primefield/batchgo/hasher"
	"github.com/primefield/batchgo/poseidon"
)

func TestBuildShader(t *testing.T) {
	p, err := poseidon.NewParameters(hasher.Arity2, hasher.Standard)
	require.NoError(t, err)

	src := buildShader(p)

	// Structural values are baked into the source; constants arrive via
	// storage buffers.
	assert.Contains(t, src, "const WIDTH: u32 = 3u;")
	assert.Contains(t, src, "const ARITY: u32 = 2u;")
	assert.Contains(t, src, "const HALF_FULL: u32 = 4u;")
	assert.Contains(t, src, "const PARTIAL: u32 = 55u;")
	assert.Contains(t, src, "fn mont_mul")
	assert.Contains(t, src, "@compute @workgroup_size(64)")

	// The baked-in tag is the Montgomery form of 2^arity-1, eight limbs.
	tag := tagLimbs(p)
	require.Len(t, tag, limbsPerElement)
	assert.Equal(t, 1, strings.Count(src, "const TAG = Fe("))
}

func TestBuildShaderStrengthened(t *testing.T) {
	std, err := poseidon.NewParameters(hasher.Arity2, hasher.Standard)
	require.NoError(t, err)
	hard, err := poseidon.NewParameters(hasher.Arity2, hasher.Strengthened)
	require.NoError(t, err)

	assert.NotEqual(t, buildShader(std), buildShader(hard))
	assert.Contains(t, buildShader(hard), "const PARTIAL: u32 = 69u;")
}

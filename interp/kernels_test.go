package interp

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearframe-ai/go-imaging/pixel"
)

func TestCubicWeightBounds(t *testing.T) {
	assert.Equal(t, float32(1), CubicWeight(0), "cubicWeight(0) must be exactly 1")
	assert.Equal(t, float32(0), CubicWeight(2.5))
	assert.Equal(t, float32(0), CubicWeight(-3))
	assert.Equal(t, float32(0), CubicWeight(1), "Catmull-Rom vanishes at integer offsets")
	assert.Equal(t, float32(0), CubicWeight(2))
}

func TestCubicWeightSymmetry(t *testing.T) {
	for _, v := range []float32{0.25, 0.5, 0.75, 1.5, 1.9} {
		assert.Equal(t, CubicWeight(v), CubicWeight(-v), "weight must be even in t at %v", v)
	}
}

func TestLanczosWeightBounds(t *testing.T) {
	assert.Equal(t, float32(1), LanczosWeight(0))
	assert.Equal(t, float32(0), LanczosWeight(2))
	assert.Equal(t, float32(0), LanczosWeight(-2.7))
	assert.InDelta(t, 0, LanczosWeight(1), 1e-6, "sinc vanishes at nonzero integers")
}

func TestParseKind(t *testing.T) {
	for name, want := range map[string]Kind{
		"nearest":  Nearest,
		"bilinear": Bilinear,
		"bicubic":  Bicubic,
		"lanczos":  Lanczos,
	} {
		got, err := ParseKind(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, name, got.String())
	}

	_, err := ParseKind("hermite")
	assert.True(t, errors.Is(err, ErrUnsupportedInterpolation))
}

func TestBicubicSampleAtIntegerCoordinatesIsIdentity(t *testing.T) {
	buf, err := pixel.NewBuffer(8, 8)
	require.NoError(t, err)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			buf.Set(x, y, uint8(x*30), uint8(y*30), 77, 255)
		}
	}

	r, g, b, a := BicubicSample(buf, 3, 4)
	assert.Equal(t, uint8(90), r)
	assert.Equal(t, uint8(120), g)
	assert.Equal(t, uint8(77), b)
	assert.Equal(t, uint8(255), a)
}

func TestBicubicSampleUniformStaysUniform(t *testing.T) {
	buf, err := pixel.NewBuffer(8, 8)
	require.NoError(t, err)
	for i := range buf.Pix {
		buf.Pix[i] = 200
	}

	r, g, b, a := BicubicSample(buf, 2.37, 5.81)
	assert.Equal(t, [4]uint8{200, 200, 200, 200}, [4]uint8{r, g, b, a})
}

func TestLanczosSampleUniformStaysUniform(t *testing.T) {
	buf, err := pixel.NewBuffer(8, 8)
	require.NoError(t, err)
	for i := range buf.Pix {
		buf.Pix[i] = 130
	}

	// Normalization by the weight sum keeps a flat field exactly flat.
	r, g, b, a := LanczosSample(buf, 3.5, 3.5)
	assert.Equal(t, [4]uint8{130, 130, 130, 130}, [4]uint8{r, g, b, a})
}

func TestSamplersClampReplicateBorder(t *testing.T) {
	buf, err := pixel.NewBuffer(4, 4)
	require.NoError(t, err)
	for i := range buf.Pix {
		buf.Pix[i] = 60
	}

	// Coordinates outside the buffer must clamp to the nearest valid pixel,
	// never wrap or zero-fill.
	r, _, _, _ := BicubicSample(buf, -1.3, -0.7)
	assert.Equal(t, uint8(60), r)
	r, _, _, _ = LanczosSample(buf, 10.4, 10.4)
	assert.Equal(t, uint8(60), r)
}

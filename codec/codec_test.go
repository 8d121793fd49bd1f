package codec

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearframe-ai/go-imaging/pixel"
)

func gradientBuffer(t *testing.T, w, h int) *pixel.Buffer {
	t.Helper()
	buf, err := pixel.NewBuffer(w, h)
	require.NoError(t, err)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			buf.Set(x, y, uint8(x*16), uint8(y*16), 128, 255)
		}
	}
	return buf
}

func TestEncodeDecodePNGRoundTrip(t *testing.T) {
	buf := gradientBuffer(t, 16, 16)

	data, err := Encode(buf, EncodeOptions{Format: FormatPNG})
	require.NoError(t, err)
	require.NotEmpty(t, data)

	decoded, format, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, format)
	assert.True(t, decoded.Equal(buf), "PNG is lossless; bytes must round-trip")
}

func TestEncodeJPEGProducesDecodableOutput(t *testing.T) {
	buf := gradientBuffer(t, 16, 16)

	data, err := Encode(buf, EncodeOptions{Format: FormatJPEG, Quality: 0.9})
	require.NoError(t, err)

	decoded, format, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, FormatJPEG, format)
	assert.Equal(t, 16, decoded.Width)
	assert.Equal(t, 16, decoded.Height)
}

func TestEncodeJPEGCompositesTransparency(t *testing.T) {
	buf := gradientBuffer(t, 8, 8)
	// Fully transparent pixel over a black background must come out black.
	buf.Set(0, 0, 255, 255, 255, 0)

	bg := [3]uint8{0, 0, 0}
	data, err := Encode(buf, EncodeOptions{Format: FormatJPEG, Background: &bg})
	require.NoError(t, err)

	decoded, _, err := Decode(data)
	require.NoError(t, err)
	r, g, b, a := decoded.At(0, 0)
	assert.Equal(t, uint8(255), a, "JPEG output has no transparency")
	assert.Less(t, int(r)+int(g)+int(b), 90, "transparent pixel composites onto the background")
}

func TestEncodeUnsupportedFormat(t *testing.T) {
	buf := gradientBuffer(t, 4, 4)
	_, err := Encode(buf, EncodeOptions{Format: "tiff"})
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestDecodeGarbage(t *testing.T) {
	_, _, err := Decode([]byte("definitely not an image"))
	assert.Error(t, err)
}

func TestCompositeKeepsOpaquePixels(t *testing.T) {
	buf := gradientBuffer(t, 4, 4)
	out := composite(buf, nil)
	assert.True(t, out.Equal(buf), "fully opaque input is unchanged by compositing")
}

func TestCompositeBlendsSemiTransparency(t *testing.T) {
	buf, err := pixel.NewBuffer(1, 1)
	require.NoError(t, err)
	buf.Set(0, 0, 255, 0, 0, 128)

	out := composite(buf, &[3]uint8{0, 0, 255})
	r, _, b, a := out.At(0, 0)
	assert.Equal(t, uint8(255), a)
	assert.InDelta(t, 128, int(r), 1, "red contribution is alpha-weighted")
	assert.InDelta(t, 127, int(b), 1, "background fills the remainder")
}

package pixel

import (
	"image"
	"image/color"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBufferInvariant(t *testing.T) {
	buf, err := NewBuffer(7, 5)
	require.NoError(t, err)
	assert.Len(t, buf.Pix, 7*5*4, "pixel storage must be width*height*4 bytes")
}

func TestNewBufferRejectsInvalidDimensions(t *testing.T) {
	for _, dims := range [][2]int{{0, 10}, {10, 0}, {-1, 10}, {10, -3}} {
		_, err := NewBuffer(dims[0], dims[1])
		assert.True(t, errors.Is(err, ErrBufferAllocation), "dimensions %v should fail allocation", dims)
	}
}

func TestBufferSetAtRoundTrip(t *testing.T) {
	buf, err := NewBuffer(4, 4)
	require.NoError(t, err)

	buf.Set(2, 3, 10, 20, 30, 40)
	r, g, b, a := buf.At(2, 3)
	assert.Equal(t, [4]uint8{10, 20, 30, 40}, [4]uint8{r, g, b, a})
}

func TestCloneIsIndependent(t *testing.T) {
	buf, err := NewBuffer(3, 3)
	require.NoError(t, err)
	buf.Set(1, 1, 255, 0, 0, 255)

	clone := buf.Clone()
	clone.Set(1, 1, 0, 255, 0, 255)

	r, _, _, _ := buf.At(1, 1)
	assert.Equal(t, uint8(255), r, "mutating a clone must not touch the original")
	assert.False(t, buf.Equal(clone))
}

func TestFromImageToNRGBARoundTrip(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 6, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 40), G: uint8(y * 60), B: 7, A: 200})
		}
	}

	buf := FromImage(img)
	require.Equal(t, 6, buf.Width)
	require.Equal(t, 4, buf.Height)

	out := buf.ToNRGBA()
	assert.Equal(t, img.Pix, out.Pix, "round trip must preserve every byte")
}

func TestFromImageNonZeroOrigin(t *testing.T) {
	img := image.NewNRGBA(image.Rect(3, 3, 8, 7))
	img.SetNRGBA(3, 3, color.NRGBA{R: 99, A: 255})

	buf := FromImage(img)
	require.Equal(t, 5, buf.Width)
	require.Equal(t, 4, buf.Height)
	r, _, _, a := buf.At(0, 0)
	assert.Equal(t, uint8(99), r)
	assert.Equal(t, uint8(255), a)
}

func TestRegionClamp(t *testing.T) {
	r := Region{X: -10, Y: -10, Width: 30, Height: 30}.Clamp(15, 12)
	assert.Equal(t, Region{X: 0, Y: 0, Width: 15, Height: 12}, r)
}

func TestRegionClampCollapsesOutOfBounds(t *testing.T) {
	r := Region{X: 200, Y: 200, Width: 50, Height: 50}.Clamp(100, 100)
	assert.True(t, r.Empty(), "a region fully outside bounds must clamp to empty")
	assert.Equal(t, 0, r.Area())
}

func TestRegionUnionOfOverlapping(t *testing.T) {
	a := Region{X: 0, Y: 0, Width: 50, Height: 50}
	b := Region{X: 30, Y: 30, Width: 50, Height: 50}
	require.True(t, a.Intersects(b))
	assert.Equal(t, Region{X: 0, Y: 0, Width: 80, Height: 80}, a.Union(b))
}

func TestRegionDisjointDoNotIntersect(t *testing.T) {
	a := Region{X: 0, Y: 0, Width: 10, Height: 10}
	b := Region{X: 10, Y: 0, Width: 10, Height: 10}
	assert.False(t, a.Intersects(b), "edge-adjacent regions share no pixel")
}

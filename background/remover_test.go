package background

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearframe-ai/go-imaging/pixel"
	"github.com/clearframe-ai/go-imaging/segmentation"
)

func solidBuffer(t *testing.T, w, h int, r, g, b, a uint8) *pixel.Buffer {
	t.Helper()
	buf, err := pixel.NewBuffer(w, h)
	require.NoError(t, err)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			buf.Set(x, y, r, g, b, a)
		}
	}
	return buf
}

func TestDetectColorUniform(t *testing.T) {
	buf := solidBuffer(t, 40, 40, 255, 0, 0, 255)
	r, g, b := DetectColor(buf)
	assert.Equal(t, [3]uint8{255, 0, 0}, [3]uint8{r, g, b},
		"a uniform image detects its own color exactly")
}

func TestDetectColorDominantBorder(t *testing.T) {
	// White canvas with a dark subject in the middle; only the borders are
	// sampled, so the subject must not influence the result.
	buf := solidBuffer(t, 50, 50, 250, 250, 250, 255)
	for y := 10; y < 40; y++ {
		for x := 10; x < 40; x++ {
			buf.Set(x, y, 10, 10, 10, 255)
		}
	}
	r, g, b := DetectColor(buf)
	assert.Equal(t, [3]uint8{250, 250, 250}, [3]uint8{r, g, b})
}

func TestDetectColorDeterministic(t *testing.T) {
	buf := solidBuffer(t, 33, 21, 17, 130, 200, 255)
	r1, g1, b1 := DetectColor(buf)
	r2, g2, b2 := DetectColor(buf)
	assert.Equal(t, [3]uint8{r1, g1, b1}, [3]uint8{r2, g2, b2})
}

func TestRemoveWithMaskKeepsForegroundSquare(t *testing.T) {
	buf := solidBuffer(t, 12, 12, 90, 90, 90, 255)

	// Foreground is a fixed 5x5 square; everything else is background.
	mask := make(segmentation.Mask, 12*12)
	for y := 3; y < 8; y++ {
		for x := 3; x < 8; x++ {
			mask[y*12+x] = 1
		}
	}

	require.NoError(t, RemoveWithMask(buf, mask, 0))

	for y := 0; y < 12; y++ {
		for x := 0; x < 12; x++ {
			_, _, _, a := buf.At(x, y)
			if x >= 3 && x < 8 && y >= 3 && y < 8 {
				assert.Equal(t, uint8(255), a, "foreground pixel (%d,%d) must stay opaque", x, y)
			} else {
				assert.Equal(t, uint8(0), a, "background pixel (%d,%d) must be cleared", x, y)
			}
		}
	}
}

func TestRemoveWithMaskWithoutMaskNotReady(t *testing.T) {
	buf := solidBuffer(t, 4, 4, 0, 0, 0, 255)
	err := RemoveWithMask(buf, nil, 0)
	assert.True(t, errors.Is(err, segmentation.ErrModelNotReady))
}

func TestRemoveWithMaskRejectsWrongLength(t *testing.T) {
	buf := solidBuffer(t, 4, 4, 0, 0, 0, 255)
	err := RemoveWithMask(buf, make(segmentation.Mask, 7), 0)
	assert.True(t, errors.Is(err, segmentation.ErrInferenceFailed))
}

func TestRemoveHeuristicUniformImageFullyRemoved(t *testing.T) {
	// A fully opaque red 100x100 buffer with tolerance 10: the detected
	// background is red itself, so every pixel becomes transparent.
	buf := solidBuffer(t, 100, 100, 255, 0, 0, 255)

	opts := DefaultHeuristicOptions()
	opts.ColorTolerance = 10
	RemoveHeuristic(buf, opts)

	for i := 0; i < 100*100; i++ {
		if buf.Pix[i*4+3] != 0 {
			t.Fatalf("pixel %d still has alpha %d", i, buf.Pix[i*4+3])
		}
	}
}

func TestRemoveHeuristicKeepsDistantColors(t *testing.T) {
	buf := solidBuffer(t, 30, 30, 240, 240, 240, 255)
	// A large distinct subject far from the background color.
	for y := 12; y < 18; y++ {
		for x := 12; x < 18; x++ {
			buf.Set(x, y, 10, 30, 200, 255)
		}
	}

	RemoveHeuristic(buf, DefaultHeuristicOptions())

	_, _, _, a := buf.At(15, 15)
	assert.Equal(t, uint8(255), a, "subject pixels must keep their alpha")
	_, _, _, a = buf.At(2, 2)
	assert.Equal(t, uint8(0), a, "background pixels must be cleared")
}

func TestRemoveHeuristicFixedColor(t *testing.T) {
	buf := solidBuffer(t, 20, 20, 5, 5, 5, 255)
	opts := DefaultHeuristicOptions()
	opts.BackgroundColor = &[3]uint8{200, 200, 200}

	RemoveHeuristic(buf, opts)

	_, _, _, a := buf.At(10, 10)
	assert.Equal(t, uint8(255), a, "pixels far from the fixed color stay opaque")
}

func TestRemoveHeuristicDeterministic(t *testing.T) {
	build := func() *pixel.Buffer {
		buf := solidBuffer(t, 24, 24, 220, 220, 220, 255)
		for y := 8; y < 16; y++ {
			for x := 8; x < 16; x++ {
				buf.Set(x, y, 40, 90, 140, 255)
			}
		}
		return buf
	}

	a := build()
	b := build()
	opts := DefaultHeuristicOptions()
	opts.Smoothing = 2
	RemoveHeuristic(a, opts)
	RemoveHeuristic(b, opts)
	assert.True(t, a.Equal(b), "identical input and options must produce identical output")
}

func TestSmoothAlphaBorderClamp(t *testing.T) {
	buf := solidBuffer(t, 5, 5, 0, 0, 0, 0)
	// Single opaque pixel in the corner; the average at the corner uses only
	// the in-bounds window (4 pixels for radius 1).
	buf.Set(0, 0, 0, 0, 0, 255)

	smoothAlpha(buf, 1)

	_, _, _, a := buf.At(0, 0)
	assert.Equal(t, uint8(255/4), a, "corner average divides by in-bounds count only")
}

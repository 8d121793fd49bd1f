package edges

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearframe-ai/go-imaging/pixel"
)

func uniformBuffer(t *testing.T, w, h int, r, g, b, a uint8) *pixel.Buffer {
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

func TestSobelUniformImageHasNoEdges(t *testing.T) {
	buf := uniformBuffer(t, 16, 16, 120, 120, 120, 255)
	edges := Detect(buf, 50)
	for i, e := range edges {
		assert.False(t, e, "uniform image must have no edge at index %d", i)
	}
}

func TestSobelDetectsVerticalStep(t *testing.T) {
	buf := uniformBuffer(t, 16, 16, 0, 0, 0, 255)
	for y := 0; y < 16; y++ {
		for x := 8; x < 16; x++ {
			buf.Set(x, y, 255, 255, 255, 255)
		}
	}

	edges := Detect(buf, 50)
	// The step between columns 7 and 8 must light up interior rows.
	assert.True(t, edges[5*16+8], "step boundary should be an edge")
	assert.False(t, edges[5*16+2], "flat black area should not be an edge")
	assert.False(t, edges[5*16+13], "flat white area should not be an edge")
}

func TestSobelBorderPixelsNeverEdges(t *testing.T) {
	buf := uniformBuffer(t, 8, 8, 0, 0, 0, 255)
	for y := 0; y < 8; y++ {
		buf.Set(4, y, 255, 255, 255, 255)
	}

	edges := Detect(buf, 10)
	for x := 0; x < 8; x++ {
		assert.False(t, edges[x], "top border pixel %d must not be a raw Sobel edge", x)
		assert.False(t, edges[7*8+x], "bottom border pixel %d must not be a raw Sobel edge", x)
	}
}

func TestLocalEdgeBoundaryFailsOpen(t *testing.T) {
	buf := uniformBuffer(t, 6, 6, 100, 100, 100, 255)
	assert.True(t, LocalEdge(buf, 0, 3, 30), "boundary pixels are edges by definition")
	assert.True(t, LocalEdge(buf, 3, 5, 30))
	assert.False(t, LocalEdge(buf, 3, 3, 30), "uniform interior pixel is not a local edge")
}

func TestLocalEdgeDetectsNeighborContrast(t *testing.T) {
	buf := uniformBuffer(t, 6, 6, 100, 100, 100, 255)
	buf.Set(3, 2, 200, 200, 200, 255)
	assert.True(t, LocalEdge(buf, 3, 3, 30))
	assert.False(t, LocalEdge(buf, 3, 3, 150), "threshold above the contrast must not trigger")
}

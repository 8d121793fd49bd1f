// Package edges - Sobel gradient computation over pixel buffers.
package edges

import (
	"github.com/chewxy/math32"

	"github.com/clearframe-ai/go-imaging/pixel"
)

// Map holds one entry per pixel of the buffer it was computed from. It is
// produced once per operation and never persisted beyond the call.
type Map struct {
	Width  int
	Height int
	// Magnitude is the Sobel gradient magnitude per pixel; border pixels
	// (row/col 0 or max) are left at zero since the 3x3 kernels do not
	// cover them.
	Magnitude []float32
}

// Sobel computes the gradient magnitude map of buf using grayscale values
// (R+G+B)/3 and the standard 3x3 Sobel kernels. Only interior pixels receive
// a magnitude; the 1-pixel border stays zero.
//
// Arguments:
//   - buf: The source buffer; read-only for the duration of the call.
//
// Returns:
//   - *Map: Gradient magnitudes, len(Magnitude) == Width*Height.
func Sobel(buf *pixel.Buffer) *Map {
	w, h := buf.Width, buf.Height
	m := &Map{Width: w, Height: h, Magnitude: make([]float32, w*h)}

	gray := make([]int, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gray[y*w+x] = buf.Gray(x, y)
		}
	}

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			tl := gray[(y-1)*w+x-1]
			tc := gray[(y-1)*w+x]
			tr := gray[(y-1)*w+x+1]
			ml := gray[y*w+x-1]
			mr := gray[y*w+x+1]
			bl := gray[(y+1)*w+x-1]
			bc := gray[(y+1)*w+x]
			br := gray[(y+1)*w+x+1]

			gx := -tl + tr - 2*ml + 2*mr - bl + br
			gy := -tl - 2*tc - tr + bl + 2*bc + br

			m.Magnitude[y*w+x] = math32.Sqrt(float32(gx*gx + gy*gy))
		}
	}
	return m
}

// Threshold flattens the map into a per-pixel edge flag: a pixel is an edge
// when its magnitude strictly exceeds threshold. Border pixels are never
// edges under the raw Sobel pass (their magnitude is zero).
func (m *Map) Threshold(threshold float64) []bool {
	edges := make([]bool, len(m.Magnitude))
	t := float32(threshold)
	for i, mag := range m.Magnitude {
		edges[i] = mag > t
	}
	return edges
}

// Detect is the one-shot convenience combining Sobel and Threshold.
func Detect(buf *pixel.Buffer, threshold float64) []bool {
	return Sobel(buf).Threshold(threshold)
}

// LocalEdge applies the 8-neighbor brightness-difference test at (x, y): the
// pixel is an edge when any neighbor's grayscale value differs by more than
// threshold. Pixels on the buffer boundary are edges by definition, so
// callers that skip edges fail open to "preserve".
func LocalEdge(buf *pixel.Buffer, x, y, threshold int) bool {
	if x <= 0 || y <= 0 || x >= buf.Width-1 || y >= buf.Height-1 {
		return true
	}
	center := buf.Gray(x, y)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			d := buf.Gray(x+dx, y+dy) - center
			if d < 0 {
				d = -d
			}
			if d > threshold {
				return true
			}
		}
	}
	return false
}

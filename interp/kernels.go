package interp

import (
	"github.com/chewxy/math32"

	"github.com/clearframe-ai/go-imaging/pixel"
)

// CubicWeight is the Catmull-Rom style piecewise cubic used by the bicubic
// kernel. For |t| <= 1 it is 1.5|t|^3 - 2.5t^2 + 1, for 1 < |t| <= 2 it is
// -0.5|t|^3 + 2.5t^2 - 4|t| + 2, and zero beyond.
func CubicWeight(t float32) float32 {
	a := math32.Abs(t)
	switch {
	case a <= 1:
		return 1.5*a*a*a - 2.5*a*a + 1
	case a <= 2:
		return -0.5*a*a*a + 2.5*a*a - 4*a + 2
	default:
		return 0
	}
}

// LanczosWeight is the radius-2 Lanczos window sinc(t)*sinc(t/2), with
// LanczosWeight(0) == 1 and zero for |t| >= 2.
func LanczosWeight(t float32) float32 {
	a := math32.Abs(t)
	if a == 0 {
		return 1
	}
	if a >= 2 {
		return 0
	}
	pt := math32.Pi * a
	return (math32.Sin(pt) / pt) * (math32.Sin(pt/2) / (pt / 2))
}

// clampCoord implements the replicate-border policy: out-of-range source
// coordinates snap to the nearest valid pixel, never wrap or zero-fill.
func clampCoord(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

func clampChannel(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math32.Floor(v + 0.5))
}

// BicubicSample returns the RGBA sample of buf at fractional coordinates
// (fx, fy) using the 4x4 Catmull-Rom kernel. Each channel is the weighted sum
// over the 16 neighbors, clamped to [0, 255] and rounded.
//
// Arguments:
//   - buf: Source buffer, read-only.
//   - fx: Fractional source x coordinate.
//   - fy: Fractional source y coordinate.
//
// Returns:
//   - r, g, b, a: The interpolated channels.
func BicubicSample(buf *pixel.Buffer, fx, fy float32) (r, g, b, a uint8) {
	x0 := int(math32.Floor(fx))
	y0 := int(math32.Floor(fy))
	dx := fx - float32(x0)
	dy := fy - float32(y0)

	var sumR, sumG, sumB, sumA float32
	for n := -1; n <= 2; n++ {
		wy := CubicWeight(dy - float32(n))
		if wy == 0 {
			continue
		}
		sy := clampCoord(y0+n, buf.Height-1)
		for m := -1; m <= 2; m++ {
			wx := CubicWeight(dx - float32(m))
			if wx == 0 {
				continue
			}
			sx := clampCoord(x0+m, buf.Width-1)
			w := wx * wy
			i := buf.Offset(sx, sy)
			sumR += w * float32(buf.Pix[i])
			sumG += w * float32(buf.Pix[i+1])
			sumB += w * float32(buf.Pix[i+2])
			sumA += w * float32(buf.Pix[i+3])
		}
	}
	return clampChannel(sumR), clampChannel(sumG), clampChannel(sumB), clampChannel(sumA)
}

// LanczosSample returns the RGBA sample of buf at fractional coordinates
// (fx, fy) using the radius-2 Lanczos kernel over the 5x5 neighborhood
// centered on the nearest pixel. The sum is normalized by the total applied
// weight, not by the neighbor count.
func LanczosSample(buf *pixel.Buffer, fx, fy float32) (r, g, b, a uint8) {
	cx := int(math32.Floor(fx + 0.5))
	cy := int(math32.Floor(fy + 0.5))

	var sumR, sumG, sumB, sumA, sumW float32
	for n := -2; n <= 2; n++ {
		wy := LanczosWeight(fy - float32(cy+n))
		if wy == 0 {
			continue
		}
		sy := clampCoord(cy+n, buf.Height-1)
		for m := -2; m <= 2; m++ {
			wx := LanczosWeight(fx - float32(cx+m))
			if wx == 0 {
				continue
			}
			sx := clampCoord(cx+m, buf.Width-1)
			w := wx * wy
			i := buf.Offset(sx, sy)
			sumR += w * float32(buf.Pix[i])
			sumG += w * float32(buf.Pix[i+1])
			sumB += w * float32(buf.Pix[i+2])
			sumA += w * float32(buf.Pix[i+3])
			sumW += w
		}
	}
	if sumW == 0 {
		// Degenerate window; fall back to the nearest pixel.
		sx := clampCoord(cx, buf.Width-1)
		sy := clampCoord(cy, buf.Height-1)
		i := buf.Offset(sx, sy)
		return buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2], buf.Pix[i+3]
	}
	return clampChannel(sumR / sumW), clampChannel(sumG / sumW),
		clampChannel(sumB / sumW), clampChannel(sumA / sumW)
}

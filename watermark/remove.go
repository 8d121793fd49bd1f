package watermark

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/clearframe-ai/go-imaging/edges"
	"github.com/clearframe-ai/go-imaging/pixel"
)

// localEdgeThreshold is the 8-neighbor brightness difference above which a
// pixel passes through the blur strategy unchanged.
const localEdgeThreshold = 30

// donorGap is the distance in pixels between a region and its clone donor.
const donorGap = 10

// Remove applies the configured removal strategy to buf in place.
//
// With AutoDetect set, every detected region is processed; a failure on one
// region is logged and the loop continues with the next, returning the
// best-effort result. With a manual region, the region is clamped to the
// buffer first; a clamp that collapses to zero area makes the call a no-op.
//
// Arguments:
//   - buf: The buffer to clean, mutated in place.
//   - opts: Per-call removal options.
//
// Returns:
//   - []DetectedRegion: The regions that were processed (detected or manual).
//   - error: ErrUnsupportedMethod for an unknown method; per-region failures
//     are logged, not returned.
func Remove(buf *pixel.Buffer, opts Options) ([]DetectedRegion, error) {
	if opts.Method < MethodBlur || opts.Method > MethodAI {
		return nil, errors.Wrapf(ErrUnsupportedMethod, "method %d", opts.Method)
	}

	var regions []DetectedRegion
	if opts.AutoDetect {
		regions = Detect(buf)
	} else if opts.Region != nil {
		clamped := opts.Region.Clamp(buf.Width, buf.Height)
		if clamped.Empty() {
			return nil, nil
		}
		regions = []DetectedRegion{{Region: clamped, Confidence: 1}}
	}

	for _, detected := range regions {
		if err := removeRegion(buf, detected.Region, opts); err != nil {
			logrus.WithFields(logrus.Fields{
				"component": "watermark",
				"method":    opts.Method.String(),
				"region":    detected.Region,
			}).WithError(err).Warn("region removal failed, continuing")
		}
	}
	return regions, nil
}

// removeRegion dispatches one region to its strategy. MethodAI is an
// explicit alias for MethodInpaint until a learned model replaces it.
func removeRegion(buf *pixel.Buffer, region pixel.Region, opts Options) error {
	region = region.Clamp(buf.Width, buf.Height)
	if region.Empty() {
		return nil
	}

	switch opts.Method {
	case MethodBlur:
		blurRegion(buf, region, opts.BlurIntensity)
	case MethodInpaint, MethodAI:
		inpaintRegion(buf, region, opts.InpaintRadius, opts.Iterations)
	case MethodClone:
		cloneRegion(buf, region)
	case MethodFrequency:
		frequencyFilter(buf)
	default:
		return errors.Wrapf(ErrUnsupportedMethod, "method %d", opts.Method)
	}
	return nil
}

// blurRegion applies a Gaussian-weighted average inside the region with
// radius max(1, intensity/3). Pixels that fail the local-edge test pass
// through unchanged so structure survives; the alpha channel is preserved
// everywhere. All reads come from a snapshot so earlier writes within the
// region cannot feed later ones.
func blurRegion(buf *pixel.Buffer, region pixel.Region, intensity int) {
	radius := intensity / 3
	if radius < 1 {
		radius = 1
	}
	snapshot := buf.Clone()
	sigma2 := 2 * float32(radius) * float32(radius)

	for y := region.Y; y < region.Y+region.Height; y++ {
		for x := region.X; x < region.X+region.Width; x++ {
			if edges.LocalEdge(snapshot, x, y, localEdgeThreshold) {
				continue
			}

			var sumR, sumG, sumB, sumW float32
			for dy := -radius; dy <= radius; dy++ {
				ny := y + dy
				if ny < 0 || ny >= buf.Height {
					continue
				}
				for dx := -radius; dx <= radius; dx++ {
					nx := x + dx
					if nx < 0 || nx >= buf.Width {
						continue
					}
					w := math32.Exp(-float32(dx*dx+dy*dy) / sigma2)
					i := snapshot.Offset(nx, ny)
					sumR += w * float32(snapshot.Pix[i])
					sumG += w * float32(snapshot.Pix[i+1])
					sumB += w * float32(snapshot.Pix[i+2])
					sumW += w
				}
			}
			if sumW == 0 {
				continue
			}
			o := buf.Offset(x, y)
			buf.Pix[o] = uint8(sumR/sumW + 0.5)
			buf.Pix[o+1] = uint8(sumG/sumW + 0.5)
			buf.Pix[o+2] = uint8(sumB/sumW + 0.5)
		}
	}
}

// inpaintRegion fills the region from surrounding texture over several
// passes. Every pass reads the previous pass's full result: masked pixels
// average their unmasked neighbors within the radius, weighted by
// 1/(1+distance) times a texture-similarity score that favors smooth,
// edge-free donor neighborhoods. A pixel with no valid neighbors falls back
// to mid-gray. Alpha is untouched throughout.
func inpaintRegion(buf *pixel.Buffer, region pixel.Region, radius, iterations int) {
	if radius < 1 {
		radius = 1
	}
	if iterations < 1 {
		iterations = 1
	}

	w, h := buf.Width, buf.Height
	mask := make([]bool, w*h)
	for y := region.Y; y < region.Y+region.Height; y++ {
		for x := region.X; x < region.X+region.Width; x++ {
			mask[y*w+x] = true
		}
	}

	for pass := 0; pass < iterations; pass++ {
		snapshot := buf.Clone()
		gradients := edges.Sobel(snapshot)

		for y := region.Y; y < region.Y+region.Height; y++ {
			for x := region.X; x < region.X+region.Width; x++ {
				var sumR, sumG, sumB, sumW float32
				for dy := -radius; dy <= radius; dy++ {
					ny := y + dy
					if ny < 0 || ny >= h {
						continue
					}
					for dx := -radius; dx <= radius; dx++ {
						nx := x + dx
						if (dx == 0 && dy == 0) || nx < 0 || nx >= w {
							continue
						}
						if mask[ny*w+nx] {
							continue
						}
						dist := math32.Sqrt(float32(dx*dx + dy*dy))
						weight := 1 / (1 + dist) * textureSimilarity(gradients, nx, ny)
						i := snapshot.Offset(nx, ny)
						sumR += weight * float32(snapshot.Pix[i])
						sumG += weight * float32(snapshot.Pix[i+1])
						sumB += weight * float32(snapshot.Pix[i+2])
						sumW += weight
					}
				}

				o := buf.Offset(x, y)
				if sumW == 0 {
					buf.Pix[o] = 128
					buf.Pix[o+1] = 128
					buf.Pix[o+2] = 128
					continue
				}
				buf.Pix[o] = uint8(sumR/sumW + 0.5)
				buf.Pix[o+1] = uint8(sumG/sumW + 0.5)
				buf.Pix[o+2] = uint8(sumB/sumW + 0.5)
			}
		}
	}
}

// textureSimilarity scores how suitable the 5x5 neighborhood around a donor
// pixel is as fill material: low average gradient magnitude and low edge
// density score high. The floor keeps every in-bounds donor minimally
// eligible so the fill never starves next to structure.
func textureSimilarity(m *edges.Map, x, y int) float32 {
	var sum float32
	edgeCount, total := 0, 0
	for dy := -2; dy <= 2; dy++ {
		ny := y + dy
		if ny < 0 || ny >= m.Height {
			continue
		}
		for dx := -2; dx <= 2; dx++ {
			nx := x + dx
			if nx < 0 || nx >= m.Width {
				continue
			}
			mag := m.Magnitude[ny*m.Width+nx]
			sum += mag
			if mag > localEdgeThreshold {
				edgeCount++
			}
			total++
		}
	}
	if total == 0 {
		return 0.05
	}
	avg := sum / float32(total)
	if avg > 255 {
		avg = 255
	}
	density := float32(edgeCount) / float32(total)
	sim := (1 - avg/255) * (1 - density)
	if sim < 0.05 {
		sim = 0.05
	}
	return sim
}

// cloneRegion copies a same-sized donor rectangle onto the region. Vertical
// donors are tried first, preferring the side with more room, then the
// horizontal ones; each donor sits donorGap pixels away from the region. If
// no donor fits in bounds the call is a silent no-op.
func cloneRegion(buf *pixel.Buffer, region pixel.Region) {
	roomAbove := region.Y
	roomBelow := buf.Height - (region.Y + region.Height)

	above := pixel.Region{
		X: region.X, Y: region.Y - donorGap - region.Height,
		Width: region.Width, Height: region.Height,
	}
	below := pixel.Region{
		X: region.X, Y: region.Y + region.Height + donorGap,
		Width: region.Width, Height: region.Height,
	}
	left := pixel.Region{
		X: region.X - donorGap - region.Width, Y: region.Y,
		Width: region.Width, Height: region.Height,
	}
	right := pixel.Region{
		X: region.X + region.Width + donorGap, Y: region.Y,
		Width: region.Width, Height: region.Height,
	}

	candidates := []pixel.Region{above, below, left, right}
	if roomBelow > roomAbove {
		candidates[0], candidates[1] = below, above
	}

	for _, donor := range candidates {
		if donor.X < 0 || donor.Y < 0 ||
			donor.X+donor.Width > buf.Width || donor.Y+donor.Height > buf.Height {
			continue
		}
		for row := 0; row < region.Height; row++ {
			srcOff := buf.Offset(donor.X, donor.Y+row)
			dstOff := buf.Offset(region.X, region.Y+row)
			copy(buf.Pix[dstOff:dstOff+region.Width*4], buf.Pix[srcOff:srcOff+region.Width*4])
		}
		return
	}
	// No donor rectangle fits; leave the region untouched.
}

// frequencyFilter convolves the whole image with the 3x3 high-pass kernel
// [[-1,-1,-1],[-1,8,-1],[-1,-1,-1]], adds a 128 mid-gray offset and clamps
// to [0, 255]. Alpha is preserved exactly and the 1-pixel border, which the
// kernel cannot cover, stays unfiltered.
func frequencyFilter(buf *pixel.Buffer) {
	snapshot := buf.Clone()
	w, h := buf.Width, buf.Height

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			o := buf.Offset(x, y)
			for c := 0; c < 3; c++ {
				sum := 8 * int(snapshot.Pix[o+c])
				sum -= int(snapshot.Pix[snapshot.Offset(x-1, y-1)+c])
				sum -= int(snapshot.Pix[snapshot.Offset(x, y-1)+c])
				sum -= int(snapshot.Pix[snapshot.Offset(x+1, y-1)+c])
				sum -= int(snapshot.Pix[snapshot.Offset(x-1, y)+c])
				sum -= int(snapshot.Pix[snapshot.Offset(x+1, y)+c])
				sum -= int(snapshot.Pix[snapshot.Offset(x-1, y+1)+c])
				sum -= int(snapshot.Pix[snapshot.Offset(x, y+1)+c])
				sum -= int(snapshot.Pix[snapshot.Offset(x+1, y+1)+c])

				v := sum + 128
				if v < 0 {
					v = 0
				}
				if v > 255 {
					v = 255
				}
				buf.Pix[o+c] = uint8(v)
			}
		}
	}
}

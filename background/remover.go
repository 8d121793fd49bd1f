package background

import (
	"github.com/chewxy/math32"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/clearframe-ai/go-imaging/edges"
	"github.com/clearframe-ai/go-imaging/pixel"
	"github.com/clearframe-ai/go-imaging/segmentation"
)

// HeuristicOptions configures color/edge based background removal.
type HeuristicOptions struct {
	// ColorTolerance is the maximum Euclidean RGB distance from the
	// background color for a pixel to count as background.
	ColorTolerance float64 `json:"colorTolerance" yaml:"color_tolerance"`
	// EdgeThreshold is the Sobel magnitude above which a pixel is protected
	// as an edge.
	EdgeThreshold float64 `json:"edgeThreshold" yaml:"edge_threshold"`
	// Smoothing is the alpha box-filter radius; values <= 1 disable
	// smoothing.
	Smoothing int `json:"smoothing" yaml:"smoothing"`
	// BackgroundColor fixes the background color instead of detecting it
	// from the borders.
	BackgroundColor *[3]uint8 `json:"backgroundColor,omitempty" yaml:"background_color,omitempty"`
}

// DefaultHeuristicOptions returns the defaults of the configuration surface.
func DefaultHeuristicOptions() HeuristicOptions {
	return HeuristicOptions{
		ColorTolerance: 30,
		EdgeThreshold:  50,
		Smoothing:      1,
	}
}

// RemoveWithMask clears the alpha of every pixel the mask classifies as
// background, mutating buf in place. When blurSigma > 0 a Gaussian blur is
// applied afterward to soften the cutout edge; callers derive the sigma as
// the max of their two configured blur parameters.
//
// Arguments:
//   - buf: The buffer to cut out, mutated in place.
//   - mask: Externally computed segmentation mask, read-only.
//   - blurSigma: Softening blur strength, 0 disables.
//
// Returns:
//   - error: segmentation.ErrModelNotReady when no mask was supplied, or a
//     wrapped ErrInferenceFailed when the mask does not match the buffer.
func RemoveWithMask(buf *pixel.Buffer, mask segmentation.Mask, blurSigma float64) error {
	if mask == nil {
		return segmentation.ErrModelNotReady
	}
	if len(mask) != buf.Width*buf.Height {
		return errors.Wrapf(segmentation.ErrInferenceFailed,
			"mask length %d does not match %dx%d buffer", len(mask), buf.Width, buf.Height)
	}

	for i := range mask {
		if mask.Background(i) {
			buf.Pix[i*4+3] = 0
		}
	}

	if blurSigma > 0 {
		blurred := imaging.Blur(buf.ToNRGBA(), blurSigma)
		copy(buf.Pix, blurred.Pix)
	}
	return nil
}

// RemoveHeuristic removes the background without a model, mutating buf in
// place: pixels whose RGB distance to the background color is below the
// tolerance and that are not Sobel edges have their alpha cleared. The
// background color comes from DetectColor unless the options fix one.
//
// Two runs over identical input and options produce identical output; there
// is no randomness in this path.
func RemoveHeuristic(buf *pixel.Buffer, opts HeuristicOptions) {
	var bgR, bgG, bgB uint8
	if opts.BackgroundColor != nil {
		bgR, bgG, bgB = opts.BackgroundColor[0], opts.BackgroundColor[1], opts.BackgroundColor[2]
	} else {
		bgR, bgG, bgB = DetectColor(buf)
	}

	edgeMap := edges.Detect(buf, opts.EdgeThreshold)
	tolerance := float32(opts.ColorTolerance)

	for i := 0; i < buf.Width*buf.Height; i++ {
		if edgeMap[i] {
			continue
		}
		o := i * 4
		dr := float32(buf.Pix[o]) - float32(bgR)
		dg := float32(buf.Pix[o+1]) - float32(bgG)
		db := float32(buf.Pix[o+2]) - float32(bgB)
		if math32.Sqrt(dr*dr+dg*dg+db*db) < tolerance {
			buf.Pix[o+3] = 0
		}
	}

	if opts.Smoothing > 1 {
		smoothAlpha(buf, opts.Smoothing)
	}
}

// smoothAlpha box-filters the alpha channel only, with kernel radius r.
// Contributions outside the image are excluded from the average rather than
// wrapped or replicated.
func smoothAlpha(buf *pixel.Buffer, r int) {
	w, h := buf.Width, buf.Height
	src := make([]uint8, w*h)
	for i := 0; i < w*h; i++ {
		src[i] = buf.Pix[i*4+3]
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum, count := 0, 0
			for dy := -r; dy <= r; dy++ {
				ny := y + dy
				if ny < 0 || ny >= h {
					continue
				}
				for dx := -r; dx <= r; dx++ {
					nx := x + dx
					if nx < 0 || nx >= w {
						continue
					}
					sum += int(src[ny*w+nx])
					count++
				}
			}
			buf.Pix[(y*w+x)*4+3] = uint8(sum / count)
		}
	}
}

package pipeline

import (
	"context"

	"github.com/pkg/errors"

	"github.com/clearframe-ai/go-imaging/background"
	"github.com/clearframe-ai/go-imaging/pixel"
	"github.com/clearframe-ai/go-imaging/segmentation"
	"github.com/clearframe-ai/go-imaging/upscale"
	"github.com/clearframe-ai/go-imaging/watermark"
)

// Process runs the fixed-order pipeline Upscale -> BackgroundRemove over one
// buffer and returns a new buffer; the input is never mutated. With a scale
// factor of 1 and no background mode the output is byte-identical to the
// input.
//
// The provider is only consulted in "ai" mode and the context bounds only
// that external call (with ModelTimeout applied on top when configured); the
// pixel work itself runs synchronously and is never interrupted mid-buffer.
//
// Arguments:
//   - ctx: Cancellation scope for the external model call.
//   - src: Input buffer, read-only.
//   - opts: Per-call options.
//   - provider: Segmentation provider; may be nil unless BackgroundMode is "ai".
//
// Returns:
//   - *pixel.Buffer: The processed buffer, exclusively owned by the caller.
//   - error: Stage failure; the input buffer is always left intact.
func Process(ctx context.Context, src *pixel.Buffer, opts Options, provider segmentation.Provider) (*pixel.Buffer, error) {
	kind, err := opts.InterpolationKind()
	if err != nil {
		return nil, err
	}

	var out *pixel.Buffer
	if opts.ScaleFactor == 1 {
		out = src.Clone()
	} else {
		out, err = upscale.Resize(src, opts.ScaleFactor, kind)
		if err != nil {
			return nil, err
		}
	}

	switch opts.BackgroundMode {
	case BackgroundNone:
	case BackgroundAI:
		if provider == nil {
			return nil, segmentation.ErrModelNotReady
		}
		mask, err := segmentMask(ctx, out, opts, provider)
		if err != nil {
			return nil, err
		}
		if err := background.RemoveWithMask(out, mask, opts.SofteningBlur()); err != nil {
			return nil, err
		}
	case BackgroundAdvanced:
		background.RemoveHeuristic(out, background.HeuristicOptions{
			ColorTolerance:  opts.ColorTolerance,
			EdgeThreshold:   opts.EdgeThreshold,
			Smoothing:       opts.Smoothing,
			BackgroundColor: opts.BackgroundColor,
		})
	default:
		return nil, errors.Wrapf(ErrUnsupportedBackgroundMode, "%q", opts.BackgroundMode)
	}

	return out, nil
}

// segmentMask performs the single genuine suspension point of the pipeline:
// the external model call, bounded by ModelTimeout when configured.
func segmentMask(ctx context.Context, buf *pixel.Buffer, opts Options, provider segmentation.Provider) (segmentation.Mask, error) {
	if opts.ModelTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.ModelTimeout)
		defer cancel()
	}
	return provider.Segment(ctx, buf, opts.Segmentation)
}

// CleanWatermarks removes watermarks from buf in place using the options'
// watermark surface; it is a separate entry point rather than a pipeline
// stage so callers can confirm detected regions first via watermark.Detect.
func CleanWatermarks(buf *pixel.Buffer, opts Options) ([]watermark.DetectedRegion, error) {
	w, err := opts.ResolvedWatermark()
	if err != nil {
		return nil, err
	}
	return watermark.Remove(buf, w)
}

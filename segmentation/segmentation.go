// Package segmentation - Boundary with the external person-segmentation model.
//
// The core never re-implements segmentation; it consumes the per-pixel mask a
// provider returns. The model handle is owned by the caller and passed into
// every call that needs it, never held as a process-wide singleton.
package segmentation

import (
	"context"

	"github.com/pkg/errors"

	"github.com/clearframe-ai/go-imaging/pixel"
)

var (
	// ErrModelNotReady indicates mask-based removal was requested before a
	// model (or mask) was supplied.
	ErrModelNotReady = errors.New("segmentation model not ready")
	// ErrModelLoadFailed indicates the model could not be loaded. The caller
	// owns retry policy; loads are never retried automatically.
	ErrModelLoadFailed = errors.New("segmentation model load failed")
	// ErrInferenceFailed indicates the segmentation call itself failed.
	ErrInferenceFailed = errors.New("segmentation inference failed")
)

// Mask is the externally supplied per-pixel classification, one entry per
// pixel of the buffer it was computed from: 0 is background, nonzero is
// foreground. A Mask is read-only input and is never mutated by the core.
type Mask []uint8

// Background reports whether pixel i is classified as background.
func (m Mask) Background(i int) bool {
	return m[i] == 0
}

// Config mirrors the external provider's inference knobs.
type Config struct {
	// FlipHorizontal mirrors the input before inference.
	FlipHorizontal bool `json:"flipHorizontal" yaml:"flip_horizontal"`
	// InternalResolution scales the input fed to the model in (0, 1];
	// 0 means the provider default.
	InternalResolution float64 `json:"internalResolution" yaml:"internal_resolution"`
	// SegmentationThreshold is the foreground score cutoff; 0 means the
	// default of 0.7.
	SegmentationThreshold float64 `json:"segmentationThreshold" yaml:"segmentation_threshold"`
}

// DefaultConfig returns the provider defaults.
func DefaultConfig() Config {
	return Config{
		FlipHorizontal:        false,
		InternalResolution:    0.5,
		SegmentationThreshold: 0.7,
	}
}

// Provider produces segmentation masks for pixel buffers. Implementations
// must be safe for sequential use; batch callers hold one provider per
// worker or serialize access.
type Provider interface {
	// Segment classifies every pixel of buf. The context bounds only this
	// external call; implementations return ErrInferenceFailed wrapping the
	// context error on timeout or cancellation.
	Segment(ctx context.Context, buf *pixel.Buffer, cfg Config) (Mask, error)
	// Close releases the model handle.
	Close() error
}

package segmentation

import (
	"context"

	"github.com/pkg/errors"

	"github.com/clearframe-ai/go-imaging/pixel"
)

// StaticProvider serves a precomputed mask. It backs the caller-supplied-mask
// path and keeps tests independent of the ONNX runtime.
type StaticProvider struct {
	mask Mask
}

// NewStaticProvider wraps an externally computed mask.
func NewStaticProvider(mask Mask) *StaticProvider {
	return &StaticProvider{mask: mask}
}

// Segment returns the wrapped mask after validating it against the buffer.
func (p *StaticProvider) Segment(_ context.Context, buf *pixel.Buffer, _ Config) (Mask, error) {
	if p == nil || p.mask == nil {
		return nil, ErrModelNotReady
	}
	if len(p.mask) != buf.Width*buf.Height {
		return nil, errors.Wrapf(ErrInferenceFailed,
			"mask length %d does not match %dx%d buffer", len(p.mask), buf.Width, buf.Height)
	}
	return p.mask, nil
}

// Close is a no-op; the mask is owned by the caller.
func (p *StaticProvider) Close() error {
	return nil
}

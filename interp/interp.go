// Package interp - Interpolation kinds and pixel-sampling kernels for resizing.
package interp

import (
	"github.com/pkg/errors"
)

// ErrUnsupportedInterpolation indicates an unknown interpolation algorithm
// name or enum value.
var ErrUnsupportedInterpolation = errors.New("unsupported interpolation algorithm")

// Kind selects the resampling algorithm.
type Kind int

const (
	// Nearest is nearest-neighbor sampling with smoothing disabled.
	Nearest Kind = iota
	// Bilinear is 2x2 linear sampling with smoothing enabled.
	Bilinear
	// Bicubic is 4x4 Catmull-Rom sampling.
	Bicubic
	// Lanczos is radius-2 windowed-sinc sampling over a 5x5 neighborhood.
	Lanczos
)

// String returns the configuration-surface name of the kind.
func (k Kind) String() string {
	switch k {
	case Nearest:
		return "nearest"
	case Bilinear:
		return "bilinear"
	case Bicubic:
		return "bicubic"
	case Lanczos:
		return "lanczos"
	default:
		return "unknown"
	}
}

// ParseKind maps a configuration string onto a Kind.
//
// Arguments:
//   - name: One of "nearest", "bilinear", "bicubic", "lanczos".
//
// Returns:
//   - Kind: The parsed kind.
//   - error: ErrUnsupportedInterpolation for anything else.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "nearest":
		return Nearest, nil
	case "bilinear":
		return Bilinear, nil
	case "bicubic":
		return Bicubic, nil
	case "lanczos":
		return Lanczos, nil
	default:
		return 0, errors.Wrapf(ErrUnsupportedInterpolation, "%q", name)
	}
}

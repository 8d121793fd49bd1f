// Package watermark - Heuristic watermark region detection and five-strategy removal.
package watermark

import (
	"github.com/pkg/errors"

	"github.com/clearframe-ai/go-imaging/pixel"
)

// ErrUnsupportedMethod indicates an unknown removal method name or enum value.
var ErrUnsupportedMethod = errors.New("unsupported watermark removal method")

// Method selects the removal strategy for a region.
type Method int

const (
	// MethodBlur applies an edge-preserving Gaussian blur inside the region.
	MethodBlur Method = iota
	// MethodInpaint fills the region iteratively from surrounding texture.
	MethodInpaint
	// MethodClone copies a donor rectangle near the region over it.
	MethodClone
	// MethodFrequency applies a high-pass filter across the whole image.
	MethodFrequency
	// MethodAI is a placeholder for a learned inpainting model. Until one
	// exists it is an explicit alias for MethodInpaint.
	MethodAI
)

// String returns the configuration-surface name of the method.
func (m Method) String() string {
	switch m {
	case MethodBlur:
		return "blur"
	case MethodInpaint:
		return "inpaint"
	case MethodClone:
		return "clone"
	case MethodFrequency:
		return "frequency"
	case MethodAI:
		return "ai"
	default:
		return "unknown"
	}
}

// ParseMethod maps a configuration string onto a Method.
func ParseMethod(name string) (Method, error) {
	switch name {
	case "blur":
		return MethodBlur, nil
	case "inpaint":
		return MethodInpaint, nil
	case "clone":
		return MethodClone, nil
	case "frequency":
		return MethodFrequency, nil
	case "ai":
		return MethodAI, nil
	default:
		return 0, errors.Wrapf(ErrUnsupportedMethod, "%q", name)
	}
}

// Options configures one removal call. The struct is immutable per call and
// passed explicitly; there is no shared configuration state.
type Options struct {
	// Method is the removal strategy.
	Method Method `json:"-" yaml:"-"`
	// BlurIntensity drives the blur radius max(1, intensity/3).
	BlurIntensity int `json:"blurIntensity" yaml:"blur_intensity"`
	// InpaintRadius is the neighbor-gathering radius of the inpaint fill.
	InpaintRadius int `json:"inpaintRadius" yaml:"inpaint_radius"`
	// Iterations is the number of inpaint refinement passes.
	Iterations int `json:"iterations" yaml:"iterations"`
	// AutoDetect runs the region detector instead of using Region.
	AutoDetect bool `json:"autoDetect" yaml:"auto_detect"`
	// Region is the manual region override used when AutoDetect is off.
	Region *pixel.Region `json:"region,omitempty" yaml:"region,omitempty"`
}

// DefaultOptions returns the defaults of the configuration surface.
func DefaultOptions() Options {
	return Options{
		Method:        MethodBlur,
		BlurIntensity: 10,
		InpaintRadius: 3,
		Iterations:    3,
		AutoDetect:    true,
	}
}

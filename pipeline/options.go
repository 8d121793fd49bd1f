// Package pipeline - Composition of the processing stages and batch execution.
package pipeline

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/clearframe-ai/go-imaging/interp"
	"github.com/clearframe-ai/go-imaging/segmentation"
	"github.com/clearframe-ai/go-imaging/watermark"
)

// Background removal modes of the configuration surface.
const (
	// BackgroundNone skips background removal.
	BackgroundNone = ""
	// BackgroundAI uses the external segmentation model's mask.
	BackgroundAI = "ai"
	// BackgroundAdvanced uses the heuristic color/edge remover.
	BackgroundAdvanced = "advanced"
)

// ErrUnsupportedBackgroundMode indicates an unknown background-removal mode.
var ErrUnsupportedBackgroundMode = errors.New("unsupported background removal mode")

// Options is the immutable per-call configuration of one processing call.
// There is no global or shared mutable configuration; every call receives its
// own copy.
type Options struct {
	// Interpolation selects the resampling algorithm by name.
	Interpolation string `json:"interpolation" yaml:"interpolation"`
	// ScaleFactor resizes the buffer; 1 keeps the input dimensions and is
	// byte-exact.
	ScaleFactor float64 `json:"scaleFactor" yaml:"scale_factor"`
	// Quality is forwarded to the output encoder in [0, 1].
	Quality float64 `json:"quality" yaml:"quality"`
	// BackgroundMode is one of "", "ai" or "advanced".
	BackgroundMode string `json:"backgroundMode" yaml:"background_mode"`
	// ColorTolerance is the heuristic remover's color distance cutoff.
	ColorTolerance float64 `json:"colorTolerance" yaml:"color_tolerance"`
	// EdgeThreshold is the heuristic remover's Sobel magnitude cutoff.
	EdgeThreshold float64 `json:"edgeThreshold" yaml:"edge_threshold"`
	// Smoothing is the alpha box-filter radius of the heuristic remover.
	Smoothing int `json:"smoothing" yaml:"smoothing"`
	// BackgroundColor fixes the heuristic background color instead of
	// detecting it.
	BackgroundColor *[3]uint8 `json:"backgroundColor,omitempty" yaml:"background_color,omitempty"`
	// Segmentation configures the external model call.
	Segmentation segmentation.Config `json:"segmentation" yaml:"segmentation"`
	// MaskBlur and EdgeBlur soften the mask-based cutout; the applied blur
	// is the max of the two.
	MaskBlur float64 `json:"maskBlur" yaml:"mask_blur"`
	EdgeBlur float64 `json:"edgeBlur" yaml:"edge_blur"`
	// ModelTimeout bounds the external segmentation call only; zero means
	// no timeout.
	ModelTimeout time.Duration `json:"modelTimeout" yaml:"model_timeout"`
	// Workers caps batch parallelism; zero means one worker per CPU.
	Workers int `json:"workers" yaml:"workers"`
	// Watermark configures watermark detection and removal calls.
	Watermark watermark.Options `json:"watermark" yaml:"watermark"`
	// WatermarkMethod selects the removal strategy by name.
	WatermarkMethod string `json:"watermarkMethod" yaml:"watermark_method"`
}

// DefaultOptions returns the documented defaults of the configuration
// surface.
func DefaultOptions() Options {
	return Options{
		Interpolation:   "bicubic",
		ScaleFactor:     1,
		Quality:         0.9,
		BackgroundMode:  BackgroundNone,
		ColorTolerance:  30,
		EdgeThreshold:   50,
		Smoothing:       1,
		Segmentation:    segmentation.DefaultConfig(),
		MaskBlur:        0,
		EdgeBlur:        0,
		Watermark:       watermark.DefaultOptions(),
		WatermarkMethod: "blur",
	}
}

// LoadOptions reads a YAML options file over the defaults, so a partial file
// only overrides what it names.
//
// Arguments:
//   - path: Path to the YAML file.
//
// Returns:
//   - Options: The merged options.
//   - error: Read or parse failure.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, errors.Wrapf(err, "read options file %s", path)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, errors.Wrapf(err, "parse options file %s", path)
	}
	return opts, nil
}

// InterpolationKind resolves the configured interpolation name.
func (o Options) InterpolationKind() (interp.Kind, error) {
	return interp.ParseKind(o.Interpolation)
}

// ResolvedWatermark returns the watermark options with the method name
// resolved into its enum value.
func (o Options) ResolvedWatermark() (watermark.Options, error) {
	w := o.Watermark
	if o.WatermarkMethod != "" {
		method, err := watermark.ParseMethod(o.WatermarkMethod)
		if err != nil {
			return w, err
		}
		w.Method = method
	}
	return w, nil
}

// SofteningBlur is the blur applied after a mask-based cutout, the max of
// the two configured blur parameters.
func (o Options) SofteningBlur() float64 {
	if o.MaskBlur > o.EdgeBlur {
		return o.MaskBlur
	}
	return o.EdgeBlur
}

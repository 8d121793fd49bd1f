package segmentation

import (
	"context"
	"os"
	"sync"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/clearframe-ai/go-imaging/pixel"
)

// ONNXModel is a segmentation provider backed by an ONNX runtime session.
// The session and its tensors live for the lifetime of the model; Close
// releases them. Inference is serialized because the session owns a single
// input/output tensor pair.
type ONNXModel struct {
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
	inputW  int
	inputH  int
	mu      sync.Mutex
}

// ONNXConfig describes the model file and its tensor layout.
type ONNXConfig struct {
	// ModelPath is the path to the .onnx file.
	ModelPath string `json:"modelPath" yaml:"model_path"`
	// InputName is the model's input tensor name.
	InputName string `json:"inputName" yaml:"input_name"`
	// OutputName is the model's output tensor name.
	OutputName string `json:"outputName" yaml:"output_name"`
	// InputWidth and InputHeight are the fixed model input dimensions.
	InputWidth  int `json:"inputWidth" yaml:"input_width"`
	InputHeight int `json:"inputHeight" yaml:"input_height"`
}

// LoadModel creates an ONNX-backed segmentation provider.
//
// Arguments:
//   - cfg: Model file and tensor layout.
//
// Returns:
//   - *ONNXModel: The loaded model handle, owned by the caller.
//   - error: ErrModelLoadFailed with the underlying cause. Loads are not
//     retried here; retry policy belongs to the caller.
func LoadModel(cfg ONNXConfig) (*ONNXModel, error) {
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, errors.Wrapf(ErrModelLoadFailed, "model file %s: %v", cfg.ModelPath, err)
	}

	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, errors.Wrapf(ErrModelLoadFailed, "onnx runtime init: %v", err)
		}
	}

	inputShape := ort.NewShape(1, 3, int64(cfg.InputHeight), int64(cfg.InputWidth))
	input, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, errors.Wrapf(ErrModelLoadFailed, "input tensor: %v", err)
	}

	outputShape := ort.NewShape(1, 1, int64(cfg.InputHeight), int64(cfg.InputWidth))
	output, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		input.Destroy()
		return nil, errors.Wrapf(ErrModelLoadFailed, "output tensor: %v", err)
	}

	session, err := ort.NewAdvancedSession(
		cfg.ModelPath,
		[]string{cfg.InputName},
		[]string{cfg.OutputName},
		[]ort.ArbitraryTensor{input},
		[]ort.ArbitraryTensor{output},
		nil,
	)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, errors.Wrapf(ErrModelLoadFailed, "session: %v", err)
	}

	return &ONNXModel{
		session: session,
		input:   input,
		output:  output,
		inputW:  cfg.InputWidth,
		inputH:  cfg.InputHeight,
	}, nil
}

// Segment runs inference on buf and returns a per-pixel mask of buf's size.
//
// The buffer is resized to the model input with Lanczos3, optionally
// mirrored, normalized to [0, 1] RGB planes, and the model's score map is
// thresholded and scaled back to buffer coordinates with nearest-neighbor
// lookup. The context bounds the inference call only.
func (m *ONNXModel) Segment(ctx context.Context, buf *pixel.Buffer, cfg Config) (Mask, error) {
	if m == nil || m.session == nil {
		return nil, ErrModelNotReady
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.prepareInput(buf, cfg); err != nil {
		return nil, err
	}

	done := make(chan error, 1)
	go func() {
		done <- m.session.Run()
	}()

	select {
	case <-ctx.Done():
		// The run keeps the tensors busy until it returns; wait for it so
		// the session is reusable, then report the cancellation.
		<-done
		return nil, errors.Wrapf(ErrInferenceFailed, "%v", ctx.Err())
	case err := <-done:
		if err != nil {
			return nil, errors.Wrapf(ErrInferenceFailed, "%v", err)
		}
	}

	return m.buildMask(buf, cfg), nil
}

// prepareInput fills the input tensor planes from buf.
func (m *ONNXModel) prepareInput(buf *pixel.Buffer, cfg Config) error {
	data := m.input.GetData()
	channelSize := m.inputW * m.inputH
	if len(data) < channelSize*3 {
		return errors.Wrapf(ErrInferenceFailed,
			"input tensor holds %d floats, needs %d", len(data), channelSize*3)
	}
	red := data[0:channelSize]
	green := data[channelSize : channelSize*2]
	blue := data[channelSize*2 : channelSize*3]

	img := resize.Resize(uint(m.inputW), uint(m.inputH), buf.ToNRGBA(), resize.Lanczos3)

	i := 0
	for y := 0; y < m.inputH; y++ {
		for x := 0; x < m.inputW; x++ {
			sx := x
			if cfg.FlipHorizontal {
				sx = m.inputW - 1 - x
			}
			r, g, b, _ := img.At(sx, y).RGBA()
			red[i] = float32(r>>8) / 255.0
			green[i] = float32(g>>8) / 255.0
			blue[i] = float32(b>>8) / 255.0
			i++
		}
	}
	return nil
}

// buildMask thresholds the output score map and maps it back to buffer size.
func (m *ONNXModel) buildMask(buf *pixel.Buffer, cfg Config) Mask {
	threshold := cfg.SegmentationThreshold
	if threshold <= 0 {
		threshold = DefaultConfig().SegmentationThreshold
	}

	scores := m.output.GetData()
	mask := make(Mask, buf.Width*buf.Height)
	for y := 0; y < buf.Height; y++ {
		sy := y * m.inputH / buf.Height
		for x := 0; x < buf.Width; x++ {
			sx := x * m.inputW / buf.Width
			if cfg.FlipHorizontal {
				sx = m.inputW - 1 - sx
			}
			if float64(scores[sy*m.inputW+sx]) > threshold {
				mask[y*buf.Width+x] = 1
			}
		}
	}
	return mask
}

// Close destroys the session and its tensors.
func (m *ONNXModel) Close() error {
	if m.input != nil {
		m.input.Destroy()
		m.input = nil
	}
	if m.output != nil {
		m.output.Destroy()
		m.output = nil
	}
	if m.session != nil {
		m.session.Destroy()
		m.session = nil
	}
	return nil
}

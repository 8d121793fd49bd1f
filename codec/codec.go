// Package codec - Thin encoder/decoder boundary around pixel buffers.
//
// The processing core consumes and produces pixel.Buffer values; this package
// converts them to and from encoded bytes. It sits outside the algorithmic
// contract but keeps the buffer layout (RGBA8, row-major, no padding)
// compatible with any external encoder.
package codec

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/chai2010/webp"
	"github.com/pkg/errors"

	"github.com/clearframe-ai/go-imaging/pixel"
)

// Format identifies a supported image format.
type Format string

const (
	// FormatJPEG is the JPEG image format.
	FormatJPEG Format = "jpeg"
	// FormatPNG is the PNG image format.
	FormatPNG Format = "png"
	// FormatWebP is the WebP image format.
	FormatWebP Format = "webp"
)

// ErrUnsupportedFormat indicates an unknown output format.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// EncodeOptions configures one encode call.
type EncodeOptions struct {
	// Format selects the output codec.
	Format Format `json:"format" yaml:"format"`
	// Quality in [0, 1]; 0 means the default of 0.9. PNG ignores it.
	Quality float64 `json:"quality" yaml:"quality"`
	// Background is the solid color composited under transparent pixels for
	// formats without an alpha channel; nil means white.
	Background *[3]uint8 `json:"background,omitempty" yaml:"background,omitempty"`
}

// Encode serializes buf into the requested format.
//
// Arguments:
//   - buf: The buffer to encode, read-only.
//   - opts: Format, quality and compositing options.
//
// Returns:
//   - []byte: The encoded image.
//   - error: ErrUnsupportedFormat or the codec's failure.
func Encode(buf *pixel.Buffer, opts EncodeOptions) ([]byte, error) {
	quality := opts.Quality
	if quality <= 0 {
		quality = 0.9
	}

	var out bytes.Buffer
	switch opts.Format {
	case FormatJPEG:
		flat := composite(buf, opts.Background)
		if err := jpeg.Encode(&out, flat.ToNRGBA(), &jpeg.Options{Quality: int(quality * 100)}); err != nil {
			return nil, errors.Wrap(err, "jpeg encode")
		}
	case FormatPNG:
		if err := png.Encode(&out, buf.ToNRGBA()); err != nil {
			return nil, errors.Wrap(err, "png encode")
		}
	case FormatWebP:
		if err := webp.Encode(&out, buf.ToNRGBA(), &webp.Options{Quality: float32(quality * 100)}); err != nil {
			return nil, errors.Wrap(err, "webp encode")
		}
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", opts.Format)
	}
	return out.Bytes(), nil
}

// Decode parses encoded bytes into a pixel buffer.
//
// Returns:
//   - *pixel.Buffer: The decoded buffer, owned by the caller.
//   - Format: The detected format.
//   - error: Decode failure for unknown or corrupt data.
func Decode(data []byte) (*pixel.Buffer, Format, error) {
	if img, name, err := image.Decode(bytes.NewReader(data)); err == nil {
		return pixel.FromImage(img), Format(name), nil
	}
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return pixel.FromImage(img), FormatWebP, nil
	}
	return nil, "", errors.New("unrecognized image data")
}

// composite flattens transparency onto a solid background for alpha-less
// output formats.
func composite(buf *pixel.Buffer, bg *[3]uint8) *pixel.Buffer {
	background := [3]uint8{255, 255, 255}
	if bg != nil {
		background = *bg
	}

	out := buf.Clone()
	for i := 0; i < out.Width*out.Height; i++ {
		o := i * 4
		a := int(out.Pix[o+3])
		if a == 255 {
			continue
		}
		for c := 0; c < 3; c++ {
			fg := int(out.Pix[o+c])
			out.Pix[o+c] = uint8((fg*a + int(background[c])*(255-a) + 127) / 255)
		}
		out.Pix[o+3] = 255
	}
	return out
}

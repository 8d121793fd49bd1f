// Package pixel - RGBA8 pixel buffer and region primitives shared by all transforms.
package pixel

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
)

// ErrBufferAllocation indicates an output buffer of the requested size could
// not be allocated (zero or negative dimensions after scaling).
var ErrBufferAllocation = errors.New("buffer allocation failed")

// Buffer represents a decoded image as a flat RGBA8 array.
//
// Pix is row-major with no padding: the pixel at (x, y) occupies
// Pix[(y*Width+x)*4 : (y*Width+x)*4+4] in R, G, B, A order. The invariant
// len(Pix) == Width*Height*4 holds for every Buffer produced by this package.
//
// A Buffer is exclusively owned by whichever transform currently operates on
// it. Transforms that mutate in place document it; everything else returns a
// new Buffer.
type Buffer struct {
	// Width of the image in pixels.
	Width int `json:"width" yaml:"width"`
	// Height of the image in pixels.
	Height int `json:"height" yaml:"height"`
	// Pix holds the interleaved RGBA samples.
	Pix []uint8 `json:"-" yaml:"-"`
}

// NewBuffer allocates a zeroed Width x Height buffer.
//
// Arguments:
//   - width: Image width in pixels, must be > 0.
//   - height: Image height in pixels, must be > 0.
//
// Returns:
//   - *Buffer: The allocated buffer.
//   - error: ErrBufferAllocation if either dimension is not positive.
func NewBuffer(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(ErrBufferAllocation, "invalid dimensions %dx%d", width, height)
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}, nil
}

// Offset returns the index of the first (red) byte of pixel (x, y).
// Coordinates must be in bounds; callers clamp before indexing.
func (b *Buffer) Offset(x, y int) int {
	return (y*b.Width + x) * 4
}

// At returns the RGBA channels of pixel (x, y).
func (b *Buffer) At(x, y int) (r, g, bl, a uint8) {
	i := b.Offset(x, y)
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]
}

// Set writes the RGBA channels of pixel (x, y) in place.
func (b *Buffer) Set(x, y int, r, g, bl, a uint8) {
	i := b.Offset(x, y)
	b.Pix[i] = r
	b.Pix[i+1] = g
	b.Pix[i+2] = bl
	b.Pix[i+3] = a
}

// Clone returns a deep copy with its own pixel storage, transferring nothing.
func (b *Buffer) Clone() *Buffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{Width: b.Width, Height: b.Height, Pix: pix}
}

// Gray returns the grayscale value (R+G+B)/3 of pixel (x, y) as used by the
// Sobel pass and the local-edge tests.
func (b *Buffer) Gray(x, y int) int {
	i := b.Offset(x, y)
	return (int(b.Pix[i]) + int(b.Pix[i+1]) + int(b.Pix[i+2])) / 3
}

// FromImage converts any image.Image into a Buffer with a zero-origin
// coordinate space. Alpha is carried over non-premultiplied.
//
// Arguments:
//   - img: The decoded source image.
//
// Returns:
//   - *Buffer: A freshly allocated buffer owning its pixels.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	buf := &Buffer{Width: w, Height: h, Pix: make([]uint8, w*h*4)}

	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := 0; y < h; y++ {
			src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
			copy(buf.Pix[y*w*4:(y+1)*w*4], src)
		}
		return buf
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			buf.Pix[i] = c.R
			buf.Pix[i+1] = c.G
			buf.Pix[i+2] = c.B
			buf.Pix[i+3] = c.A
			i += 4
		}
	}
	return buf
}

// ToNRGBA exposes the buffer as an *image.NRGBA sharing the same pixel
// storage (width, height, RGBA8, row-major, no padding), the layout an
// external encoder expects. Mutating the returned image mutates the buffer.
func (b *Buffer) ToNRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// Equal reports whether two buffers have identical dimensions and bytes.
func (b *Buffer) Equal(other *Buffer) bool {
	if b.Width != other.Width || b.Height != other.Height || len(b.Pix) != len(other.Pix) {
		return false
	}
	for i := range b.Pix {
		if b.Pix[i] != other.Pix[i] {
			return false
		}
	}
	return true
}

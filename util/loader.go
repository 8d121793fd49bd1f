// Package util - Filesystem helpers for batch image processing.
package util

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"github.com/clearframe-ai/go-imaging/codec"
	"github.com/clearframe-ai/go-imaging/pixel"
)

// ImageFile pairs a decoded buffer with its source location.
type ImageFile struct {
	// Path is the path to the image file.
	Path string
	// Format is the detected image format.
	Format codec.Format
	// Buffer holds the decoded pixels.
	Buffer *pixel.Buffer
}

// LoadDirectoryImageFiles reads and decodes every supported image file in a
// directory, sorted by filename so batch results have a stable order.
//
// Arguments:
//   - dir: Directory path containing image files.
//
// Returns:
//   - []ImageFile: One entry per decodable image.
//   - error: Directory read failure or a file that could not be decoded.
func LoadDirectoryImageFiles(dir string) ([]ImageFile, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read directory %s", dir)
	}

	var images []ImageFile
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		switch filepath.Ext(file.Name()) {
		case ".jpg", ".jpeg", ".png", ".webp":
			imgPath := filepath.Join(dir, file.Name())
			data, readErr := os.ReadFile(imgPath)
			if readErr != nil {
				return nil, errors.Wrapf(readErr, "read %s", imgPath)
			}
			buf, format, decodeErr := codec.Decode(data)
			if decodeErr != nil {
				return nil, errors.Wrapf(decodeErr, "decode %s", imgPath)
			}
			images = append(images, ImageFile{
				Path:   imgPath,
				Format: format,
				Buffer: buf,
			})
		}
	}

	sort.Slice(images, func(i, j int) bool {
		return images[i].Path < images[j].Path
	})

	return images, nil
}

// Buffers extracts just the pixel buffers in file order, the shape
// pipeline.ProcessBatch consumes.
func Buffers(images []ImageFile) []*pixel.Buffer {
	bufs := make([]*pixel.Buffer, len(images))
	for i, img := range images {
		bufs[i] = img.Buffer
	}
	return bufs
}

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearframe-ai/go-imaging/codec"
	"github.com/clearframe-ai/go-imaging/pixel"
)

func writeTestPNG(t *testing.T, dir, name string, w, h int) {
	t.Helper()
	buf, err := pixel.NewBuffer(w, h)
	require.NoError(t, err)
	for i := range buf.Pix {
		buf.Pix[i] = 200
	}
	data, err := codec.Encode(buf, codec.EncodeOptions{Format: codec.FormatPNG})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
}

func TestLoadDirectoryImageFiles(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, dir, "b.png", 8, 8)
	writeTestPNG(t, dir, "a.png", 4, 4)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o644))

	images, err := LoadDirectoryImageFiles(dir)
	require.NoError(t, err)
	require.Len(t, images, 2, "non-image files are skipped")

	// Sorted by filename for stable batch ordering.
	assert.Equal(t, filepath.Join(dir, "a.png"), images[0].Path)
	assert.Equal(t, 4, images[0].Buffer.Width)
	assert.Equal(t, filepath.Join(dir, "b.png"), images[1].Path)
	assert.Equal(t, 8, images[1].Buffer.Width)

	bufs := Buffers(images)
	require.Len(t, bufs, 2)
	assert.Same(t, images[0].Buffer, bufs[0])
}

func TestLoadDirectoryImageFilesMissingDir(t *testing.T) {
	_, err := LoadDirectoryImageFiles("does/not/exist")
	assert.Error(t, err)
}

func TestLoadDirectoryImageFilesCorruptImage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.png"), []byte("not a png"), 0o644))

	_, err := LoadDirectoryImageFiles(dir)
	assert.Error(t, err)
}

// Package background - Background color detection and removal.
package background

import (
	"github.com/clearframe-ai/go-imaging/pixel"
)

// bucketKey quantizes a color to 32-wide channel buckets.
type bucketKey struct {
	r, g, b uint8
}

type bucketStats struct {
	count            int
	sumR, sumG, sumB int
}

// DetectColor samples pixels along all four image borders and returns the
// dominant color as the mean of the most frequent 32-wide color bucket.
//
// The sampling stride is max(width, height)/10, floored at 1, so small and
// large images both contribute a similar number of samples. Ties between
// buckets break in first-encountered order, which keeps the result
// deterministic for identical input.
//
// Arguments:
//   - buf: The buffer to sample, read-only.
//
// Returns:
//   - r, g, b: The representative background color.
func DetectColor(buf *pixel.Buffer) (r, g, b uint8) {
	stride := buf.Width
	if buf.Height > stride {
		stride = buf.Height
	}
	stride /= 10
	if stride < 1 {
		stride = 1
	}

	var order []bucketKey
	stats := make(map[bucketKey]*bucketStats)

	sample := func(x, y int) {
		sr, sg, sb, _ := buf.At(x, y)
		key := bucketKey{sr / 32, sg / 32, sb / 32}
		st, ok := stats[key]
		if !ok {
			st = &bucketStats{}
			stats[key] = st
			order = append(order, key)
		}
		st.count++
		st.sumR += int(sr)
		st.sumG += int(sg)
		st.sumB += int(sb)
	}

	for x := 0; x < buf.Width; x += stride {
		sample(x, 0)
		sample(x, buf.Height-1)
	}
	for y := 0; y < buf.Height; y += stride {
		sample(0, y)
		sample(buf.Width-1, y)
	}

	var best *bucketStats
	for _, key := range order {
		st := stats[key]
		if best == nil || st.count > best.count {
			best = st
		}
	}
	if best == nil || best.count == 0 {
		return 255, 255, 255
	}
	return uint8(best.sumR / best.count), uint8(best.sumG / best.count), uint8(best.sumB / best.count)
}

package watermark

import (
	"github.com/clearframe-ai/go-imaging/pixel"
)

// DetectedRegion is a candidate watermark rectangle with an evidence-derived
// confidence in [0.7, 1.0]. Candidates are created fresh per detection call
// and discarded after use unless the caller promotes one to a manual region.
type DetectedRegion struct {
	Region     pixel.Region `json:"region" yaml:"region"`
	Confidence float64      `json:"confidence" yaml:"confidence"`
}

// Detect runs both heuristic scans over buf and merges overlapping
// candidates. It never mutates the buffer, which makes it safe to surface to
// callers for manual confirmation before a removal call.
//
// Arguments:
//   - buf: The buffer to scan, read-only.
//
// Returns:
//   - []DetectedRegion: Non-overlapping candidate regions, possibly empty.
func Detect(buf *pixel.Buffer) []DetectedRegion {
	candidates := scanTransparency(buf)
	candidates = append(candidates, scanCornerPatterns(buf)...)
	return mergeOverlapping(candidates)
}

const (
	semiTransparentLow  = 50
	semiTransparentHigh = 200
)

// scanTransparency slides an adaptive block across the image with 50%
// overlap and flags blocks dominated by semi-transparent pixels, the
// signature of an alpha-blended watermark overlay.
func scanTransparency(buf *pixel.Buffer) []DetectedRegion {
	minDim := buf.Width
	if buf.Height < minDim {
		minDim = buf.Height
	}
	block := minDim / 8
	if block > 64 {
		block = 64
	}
	if block < 4 {
		// Image too small for a meaningful block scan.
		return nil
	}
	step := block / 2

	var found []DetectedRegion
	for by := 0; by < buf.Height; by += step {
		for bx := 0; bx < buf.Width; bx += step {
			region := pixel.Region{X: bx, Y: by, Width: block, Height: block}.Clamp(buf.Width, buf.Height)
			if region.Empty() {
				continue
			}

			semi, total, alphaSum := 0, 0, 0
			for y := region.Y; y < region.Y+region.Height; y += 4 {
				for x := region.X; x < region.X+region.Width; x += 4 {
					_, _, _, a := buf.At(x, y)
					total++
					alphaSum += int(a)
					if a > semiTransparentLow && a < semiTransparentHigh {
						semi++
					}
				}
			}
			if total == 0 {
				continue
			}

			ratio := float64(semi) / float64(total)
			avgAlpha := float64(alphaSum) / float64(total)
			if ratio > 0.2 && avgAlpha > semiTransparentLow && avgAlpha < semiTransparentHigh {
				found = append(found, DetectedRegion{
					Region:     region,
					Confidence: transparencyConfidence(ratio),
				})
			}
		}
	}
	return found
}

// scanCornerPatterns examines the four corners and the center, the usual
// homes of logo overlays, and flags regions whose color palette is flat and
// whose brightness sits at either extreme.
func scanCornerPatterns(buf *pixel.Buffer) []DetectedRegion {
	minDim := buf.Width
	if buf.Height < minDim {
		minDim = buf.Height
	}
	size := minDim / 4
	if size > 100 {
		size = 100
	}
	if size < 4 {
		return nil
	}

	spots := []pixel.Region{
		{X: 0, Y: 0, Width: size, Height: size},
		{X: buf.Width - size, Y: 0, Width: size, Height: size},
		{X: 0, Y: buf.Height - size, Width: size, Height: size},
		{X: buf.Width - size, Y: buf.Height - size, Width: size, Height: size},
		{X: (buf.Width - size) / 2, Y: (buf.Height - size) / 2, Width: size, Height: size},
	}

	var found []DetectedRegion
	for _, spot := range spots {
		region := spot.Clamp(buf.Width, buf.Height)
		if region.Empty() {
			continue
		}

		buckets := make(map[[3]uint8]struct{})
		total, brightnessSum := 0, 0
		for y := region.Y; y < region.Y+region.Height; y += 8 {
			for x := region.X; x < region.X+region.Width; x += 8 {
				r, g, b, _ := buf.At(x, y)
				buckets[[3]uint8{r / 32, g / 32, b / 32}] = struct{}{}
				brightnessSum += (int(r) + int(g) + int(b)) / 3
				total++
			}
		}
		if total == 0 {
			continue
		}

		diversity := float64(len(buckets)) / float64(total)
		brightness := float64(brightnessSum) / float64(total)
		if diversity < 0.3 && (brightness > 180 || brightness < 80) {
			found = append(found, DetectedRegion{
				Region:     region,
				Confidence: patternConfidence(diversity, brightness),
			})
		}
	}
	return found
}

// transparencyConfidence maps the semi-transparent ratio onto [0.7, 1.0]: a
// block barely over the 0.2 cutoff scores 0.7, a fully semi-transparent
// block scores 1.0.
func transparencyConfidence(ratio float64) float64 {
	signal := (ratio - 0.2) / 0.8
	return clampConfidence(0.7 + 0.3*signal)
}

// patternConfidence combines the two pattern signals, palette flatness and
// brightness extremity, each normalized to [0, 1] and weighted equally.
func patternConfidence(diversity, brightness float64) float64 {
	flatness := (0.3 - diversity) / 0.3
	var extremity float64
	if brightness > 180 {
		extremity = (brightness - 180) / 75
	} else {
		extremity = (80 - brightness) / 80
	}
	if extremity > 1 {
		extremity = 1
	}
	return clampConfidence(0.7 + 0.3*(flatness+extremity)/2)
}

func clampConfidence(c float64) float64 {
	if c < 0.7 {
		return 0.7
	}
	if c > 1.0 {
		return 1.0
	}
	return c
}

// mergeOverlapping repeatedly replaces any two intersecting candidates by
// their union until no candidates overlap. The merged confidence is the max
// of the pair, since the union is backed by at least that much evidence.
func mergeOverlapping(candidates []DetectedRegion) []DetectedRegion {
	merged := append([]DetectedRegion(nil), candidates...)
	for {
		combined := false
		for i := 0; i < len(merged) && !combined; i++ {
			for j := i + 1; j < len(merged); j++ {
				if !merged[i].Region.Intersects(merged[j].Region) {
					continue
				}
				merged[i].Region = merged[i].Region.Union(merged[j].Region)
				if merged[j].Confidence > merged[i].Confidence {
					merged[i].Confidence = merged[j].Confidence
				}
				merged = append(merged[:j], merged[j+1:]...)
				combined = true
				break
			}
		}
		if !combined {
			return merged
		}
	}
}

package pixel

// Region is an axis-aligned rectangle in pixel coordinates. Regions are
// always clamped to buffer bounds before use; a clamp that collapses to zero
// area turns the consuming operation into a no-op rather than an error.
type Region struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Clamp restricts the region to a width x height buffer.
//
// Arguments:
//   - width: Buffer width in pixels.
//   - height: Buffer height in pixels.
//
// Returns:
//   - Region: The clamped region; Empty() when nothing survives the clamp.
func (r Region) Clamp(width, height int) Region {
	x0, y0 := r.X, r.Y
	x1, y1 := r.X+r.Width, r.Y+r.Height
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > width {
		x1 = width
	}
	if y1 > height {
		y1 = height
	}
	if x1 <= x0 || y1 <= y0 {
		return Region{}
	}
	return Region{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Empty reports whether the region covers no pixels.
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Area returns the number of pixels covered by the region.
func (r Region) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width * r.Height
}

// Intersects reports whether two regions share at least one pixel.
func (r Region) Intersects(other Region) bool {
	if r.Empty() || other.Empty() {
		return false
	}
	return r.X < other.X+other.Width && other.X < r.X+r.Width &&
		r.Y < other.Y+other.Height && other.Y < r.Y+r.Height
}

// Union returns the smallest region containing both inputs.
func (r Region) Union(other Region) Region {
	if r.Empty() {
		return other
	}
	if other.Empty() {
		return r
	}
	x0, y0 := r.X, r.Y
	if other.X < x0 {
		x0 = other.X
	}
	if other.Y < y0 {
		y0 = other.Y
	}
	x1, y1 := r.X+r.Width, r.Y+r.Height
	if other.X+other.Width > x1 {
		x1 = other.X + other.Width
	}
	if other.Y+other.Height > y1 {
		y1 = other.Y + other.Height
	}
	return Region{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Contains reports whether pixel (x, y) lies inside the region.
func (r Region) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

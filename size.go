package ggedit

// Size holds the pixel dimensions of the working canvas or of a source image.
// Ratio is Width/Height and is positive for any non-zero size.
type Size struct {
	Width  int
	Height int
	Ratio  float64
}

// NewSize returns a Size with the aspect ratio filled in.
// A zero or negative dimension yields the zero Size.
func NewSize(width, height int) Size {
	if width <= 0 || height <= 0 {
		return Size{}
	}
	return Size{
		Width:  width,
		Height: height,
		Ratio:  float64(width) / float64(height),
	}
}

// IsZero reports whether the size has not been set yet.
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Min returns the smaller of the two dimensions.
func (s Size) Min() int {
	return min(s.Width, s.Height)
}

// Center returns the canvas center in pixels.
func (s Size) Center() (cx, cy float64) {
	return float64(s.Width) / 2, float64(s.Height) / 2
}

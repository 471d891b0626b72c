package ggedit

import "math"

// Point is a position in normalized canvas space, where (0,0) is the
// top-left corner and (1,1) the bottom-right corner of the canvas.
//
// Points produced by [ToNormalized] always lie inside [0,1]x[0,1]. Points
// derived from them by offset arithmetic (for example a stroke point minus a
// layer position) may not.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points (vector addition).
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Distance returns the Euclidean distance between two points.
func (p Point) Distance(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Rect is an axis-aligned rectangle in device pixels. It describes where the
// interactive surface currently sits on screen.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the device pixel (x, y) lies inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// ToNormalized converts a device pixel position into normalized canvas space.
// The position is clamped to the extent of box before dividing, so the
// result is always inside [0,1]x[0,1]. An empty box maps everything to the
// origin.
func ToNormalized(px, py float64, box Rect) Point {
	if box.Empty() {
		return Point{}
	}
	return Point{
		X: clamp(px-box.X, 0, box.Width) / box.Width,
		Y: clamp(py-box.Y, 0, box.Height) / box.Height,
	}
}

// ToCanvasPixels scales a normalized point to canvas pixels.
// No rotation or translation is applied.
func ToCanvasPixels(p Point, s Size) (px, py float64) {
	return p.X * float64(s.Width), p.Y * float64(s.Height)
}

// clamp restricts v to the range [lo, hi]. NaN collapses to lo.
func clamp(v, lo, hi float64) float64 {
	if !(v >= lo) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

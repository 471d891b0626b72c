package stroke

import "math"

// DefaultTolerance is the maximum distance, in pixels, between a flattened
// round cap and the true circle.
const DefaultTolerance = 0.25

// Point is a 2D point in pixels.
type Point struct {
	X, Y float64
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Vec2 {
	return Vec2{X: p.X - q.X, Y: p.Y - q.Y}
}

// Add offsets p by v.
func (p Point) Add(v Vec2) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Vec2 is a 2D vector.
type Vec2 struct {
	X, Y float64
}

// Scale returns the vector scaled by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Length returns the length of the vector.
func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Perp returns the vector rotated 90 degrees counter-clockwise.
func (v Vec2) Perp() Vec2 {
	return Vec2{X: -v.Y, Y: v.X}
}

// Polygon is a closed polygon; the last point connects back to the first.
type Polygon []Point

// Area returns the signed area: positive for counter-clockwise winding in a
// y-up frame, negative for clockwise.
func (p Polygon) Area() float64 {
	var sum float64
	for i := range p {
		a, b := p[i], p[(i+1)%len(p)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// orient reverses p in place when its winding disagrees with positive.
func (p Polygon) orient() Polygon {
	if p.Area() < 0 {
		for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
			p[i], p[j] = p[j], p[i]
		}
	}
	return p
}

// Outline expands the polyline points into a stroke of the given width with
// round caps and joins. The result is a set of polygons sharing one winding
// whose union is the stroked area. A width <= 0 or an empty polyline yields
// nil; a single point, or coincident points, yields a dot.
func Outline(points []Point, width, tolerance float64) []Polygon {
	if width <= 0 || len(points) == 0 {
		return nil
	}
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	r := width / 2
	n := CircleSegments(r, tolerance)

	out := make([]Polygon, 0, 2*len(points))
	for i, p := range points {
		if i == 0 || p != points[i-1] {
			out = append(out, Circle(p, r, n))
		}
		if i == 0 {
			continue
		}
		if q := segment(points[i-1], p, r); q != nil {
			out = append(out, q)
		}
	}
	return out
}

// segment returns the rectangle covering the segment a-b with half width
// r, or nil for a zero-length segment.
func segment(a, b Point, r float64) Polygon {
	d := b.Sub(a)
	l := d.Length()
	if l < 1e-12 {
		return nil
	}
	n := d.Scale(r / l).Perp()
	neg := n.Scale(-1)
	q := Polygon{a.Add(n), b.Add(n), b.Add(neg), a.Add(neg)}
	return q.orient()
}

// Circle returns a regular polygon with n vertices inscribed in the circle
// at c with radius r.
func Circle(c Point, r float64, n int) Polygon {
	n = max(n, 3)
	poly := make(Polygon, n)
	step := 2 * math.Pi / float64(n)
	for i := range poly {
		sin, cos := math.Sincos(float64(i) * step)
		poly[i] = Point{X: c.X + r*cos, Y: c.Y + r*sin}
	}
	return poly
}

// CircleSegments returns the number of vertices needed to keep a polygonal
// circle of radius r within tolerance of the true circle. The result is
// between 8 and 256.
func CircleSegments(r, tolerance float64) int {
	if r <= tolerance {
		return 8
	}
	n := int(math.Ceil(math.Pi / math.Acos(1-tolerance/r)))
	return min(max(n, 8), 256)
}

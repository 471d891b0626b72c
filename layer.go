package ggedit

import (
	"slices"
	"strconv"

	"github.com/google/uuid"

	"github.com/gogpu/ggedit/imageio"
)

// Position is the offset of a layer from the canvas origin, as a fraction
// of the canvas width and height. StartX/StartY and LastX/LastY are drag
// bookkeeping: while dragging, X = LastX + (pointer.X - StartX).
type Position struct {
	X, Y           float64
	StartX, StartY float64
	LastX, LastY   float64
}

// Offset returns the committed offset as a Point.
func (p Position) Offset() Point {
	return Point{X: p.X, Y: p.Y}
}

// PointGroup is one continuous freehand stroke. Points are stored in the
// owning layer's local space (normalized canvas space minus the layer
// position at the time of sampling).
type PointGroup struct {
	Color       string
	StrokeWidth float64
	Points      []Point
}

// clone returns a deep copy of the group.
func (g PointGroup) clone() PointGroup {
	g.Points = slices.Clone(g.Points)
	return g
}

// Layer is one imported image with its transform, filters and strokes.
type Layer struct {
	ID       string
	Name     string
	Visible  bool
	Image    imageio.Image
	Rotation float64
	Position Position
	Filters  Filters

	// Order is the z-index. Higher values paint on top.
	Order int

	PointGroups []PointGroup

	// ActiveIndex is the index of the most recent stroke, or -1.
	ActiveIndex int

	// Scale is the uniform zoom factor; zero is read as 1.
	Scale float64

	FlipX, FlipY bool

	// drawing is true while a stroke on this layer is open.
	drawing bool
}

// NewLayer creates a visible layer for img with default filters. The layer
// is named after its order ("Layer 1" for order 0).
func NewLayer(img imageio.Image, order int) *Layer {
	return &Layer{
		ID:          uuid.NewString(),
		Name:        "Layer " + strconv.Itoa(order+1),
		Visible:     true,
		Image:       img,
		Filters:     DefaultFilters(),
		Order:       order,
		ActiveIndex: -1,
		Scale:       1,
	}
}

// Clone returns a deep copy of the layer. The bitmap itself is shared since
// it is never written to.
func (l *Layer) Clone() *Layer {
	c := *l
	if l.PointGroups != nil {
		c.PointGroups = make([]PointGroup, len(l.PointGroups))
		for i, g := range l.PointGroups {
			c.PointGroups[i] = g.clone()
		}
	}
	return &c
}

// Strokes returns the layer's stroke state for the accumulator.
func (l *Layer) Strokes() StrokeState {
	return StrokeState{
		PointGroups: l.PointGroups,
		ActiveIndex: l.ActiveIndex,
		Drawing:     l.drawing,
	}
}

// setStrokes stores a new accumulator snapshot on the layer.
func (l *Layer) setStrokes(s StrokeState) {
	l.PointGroups = s.PointGroups
	l.ActiveIndex = s.ActiveIndex
	l.drawing = s.Drawing
}

// cloneLayers deep-copies a layer set.
func cloneLayers(layers []*Layer) []*Layer {
	out := make([]*Layer, len(layers))
	for i, l := range layers {
		out[i] = l.Clone()
	}
	return out
}

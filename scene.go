package ggedit

import (
	"cmp"
	"slices"
)

// ScenePath is a point group resolved to canvas pixels.
type ScenePath struct {
	Color       string
	StrokeWidth float64

	// Points are in canvas pixels.
	Points []Point
}

// SceneLayer is one layer with its resolved render parameters.
type SceneLayer struct {
	// Layer is referenced, not owned. Render from a snapshot so it cannot
	// change underneath the scene.
	Layer *Layer

	Transform Affine
	Filter    FilterDescriptor
	Paths     []ScenePath
}

// Scene is the per-render aggregate of all visible layers, ordered back to
// front. It is derived from layer state and never stored.
type Scene struct {
	Canvas Size
	Layers []SceneLayer
}

// Len returns the number of layers in the scene.
func (s *Scene) Len() int {
	return len(s.Layers)
}

// RenderScene builds the scene for a canvas of the given size.
//
// Hidden layers are left out. The rest are sorted by Order ascending, so
// the lowest order paints first and higher orders paint on top; layers with
// equal order keep their relative position in layers. Each layer gets its
// transform from ComposeTransform and its filter graph from BuildFilter,
// and its point groups are moved back into canvas pixels by adding the
// layer position.
//
// RenderScene returns ErrMissingSurfaceContext when there are layers to
// draw but the canvas has no size.
func RenderScene(canvas Size, layers []*Layer) (*Scene, error) {
	ordered := make([]*Layer, 0, len(layers))
	for _, l := range layers {
		if l != nil && l.Visible {
			ordered = append(ordered, l)
		}
	}
	if len(ordered) > 0 && canvas.IsZero() {
		return nil, ErrMissingSurfaceContext
	}
	slices.SortStableFunc(ordered, func(a, b *Layer) int {
		return cmp.Compare(a.Order, b.Order)
	})

	scene := &Scene{
		Canvas: canvas,
		Layers: make([]SceneLayer, 0, len(ordered)),
	}
	for _, l := range ordered {
		scene.Layers = append(scene.Layers, SceneLayer{
			Layer:     l,
			Transform: ComposeTransform(canvas, l),
			Filter:    BuildFilter(l.Filters),
			Paths:     resolvePaths(canvas, l),
		})
	}
	return scene, nil
}

// resolvePaths converts a layer's point groups from layer-local normalized
// space into canvas pixels. Groups without points are skipped.
func resolvePaths(canvas Size, l *Layer) []ScenePath {
	if len(l.PointGroups) == 0 {
		return nil
	}
	offset := l.Position.Offset()
	paths := make([]ScenePath, 0, len(l.PointGroups))
	for _, g := range l.PointGroups {
		if len(g.Points) == 0 {
			continue
		}
		pts := make([]Point, len(g.Points))
		for i, p := range g.Points {
			x, y := ToCanvasPixels(p.Add(offset), canvas)
			pts[i] = Point{X: x, Y: y}
		}
		paths = append(paths, ScenePath{
			Color:       g.Color,
			StrokeWidth: g.StrokeWidth,
			Points:      pts,
		})
	}
	return paths
}

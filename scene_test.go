package ggedit

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func TestRenderSceneOrder(t *testing.T) {
	a, b, c, d := testLayer(2), testLayer(0), testLayer(1), testLayer(0)
	c.Visible = false

	scene, err := RenderScene(NewSize(200, 100), []*Layer{a, b, c, d})
	if err != nil {
		t.Fatalf("RenderScene: %v", err)
	}
	if scene.Len() != 3 {
		t.Fatalf("Len = %d, want 3", scene.Len())
	}
	// Lowest order first; b and d tie and keep their input order.
	want := []*Layer{b, d, a}
	for i, l := range scene.Layers {
		if l.Layer != want[i] {
			t.Errorf("Layers[%d] = %s, want %s", i, l.Layer.Name, want[i].Name)
		}
	}
}

func TestRenderSceneExtremeOrders(t *testing.T) {
	lo, mid, hi := testLayer(math.MinInt), testLayer(0), testLayer(math.MaxInt)

	scene, err := RenderScene(NewSize(200, 100), []*Layer{hi, lo, mid})
	if err != nil {
		t.Fatalf("RenderScene: %v", err)
	}
	want := []*Layer{lo, mid, hi}
	for i, l := range scene.Layers {
		if l.Layer != want[i] {
			t.Errorf("Layers[%d] order = %d, want %d", i, l.Layer.Order, want[i].Order)
		}
	}
}

func TestRenderSceneHiddenOnly(t *testing.T) {
	l := testLayer(0)
	l.Visible = false
	scene, err := RenderScene(NewSize(200, 100), []*Layer{l, nil})
	if err != nil {
		t.Fatalf("RenderScene: %v", err)
	}
	if scene.Len() != 0 {
		t.Errorf("Len = %d, want 0", scene.Len())
	}
}

func TestRenderSceneMissingSurface(t *testing.T) {
	if _, err := RenderScene(Size{}, []*Layer{testLayer(0)}); !errors.Is(err, ErrMissingSurfaceContext) {
		t.Errorf("err = %v, want ErrMissingSurfaceContext", err)
	}
	// Nothing to draw needs no surface.
	if _, err := RenderScene(Size{}, nil); err != nil {
		t.Errorf("empty scene: %v", err)
	}
}

func TestRenderScenePaths(t *testing.T) {
	l := testLayer(0)
	l.Position.X, l.Position.Y = 0.125, 0.25
	l.PointGroups = []PointGroup{
		{Color: "#ff0000", StrokeWidth: 4, Points: []Point{Pt(0.25, 0.25), Pt(0.5, 0)}},
		{Color: "#00ff00", StrokeWidth: 2},
	}

	scene, err := RenderScene(NewSize(200, 100), []*Layer{l})
	if err != nil {
		t.Fatalf("RenderScene: %v", err)
	}
	paths := scene.Layers[0].Paths
	if len(paths) != 1 {
		t.Fatalf("paths = %d, want 1 (empty group skipped)", len(paths))
	}
	p := paths[0]
	if p.Color != "#ff0000" || p.StrokeWidth != 4 {
		t.Errorf("style = %q/%v", p.Color, p.StrokeWidth)
	}
	want := []Point{Pt(75, 50), Pt(125, 25)}
	for i := range want {
		if p.Points[i] != want[i] {
			t.Errorf("Points[%d] = %v, want %v", i, p.Points[i], want[i])
		}
	}
	// The layer keeps its local coordinates.
	if l.PointGroups[0].Points[0] != Pt(0.25, 0.25) {
		t.Errorf("layer points changed: %v", l.PointGroups[0].Points)
	}
}

func TestRenderSceneFilters(t *testing.T) {
	l := testLayer(0)
	l.Filters.Sepia = true
	l.Filters.Opacity = 0.5
	scene, err := RenderScene(NewSize(200, 100), []*Layer{l})
	if err != nil {
		t.Fatalf("RenderScene: %v", err)
	}
	f := scene.Layers[0].Filter
	if !f.Has(PrimitiveSepia) || f.Opacity != 0.5 {
		t.Errorf("Filter = %+v", f)
	}
}

func TestRenderSceneDeterministic(t *testing.T) {
	layers := []*Layer{testLayer(1), testLayer(0)}
	layers[0].Rotation = 30
	layers[1].Filters.Blur = 2
	layers[1].PointGroups = []PointGroup{{Color: "#123456", StrokeWidth: 3, Points: []Point{Pt(0.1, 0.1), Pt(0.2, 0.3)}}}

	s1, err := RenderScene(NewSize(200, 100), layers)
	if err != nil {
		t.Fatal(err)
	}
	s2, err := RenderScene(NewSize(200, 100), layers)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(s1.SVG(), s2.SVG()) {
		t.Error("same state rendered differently")
	}
}

package ggedit

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"math"
	"reflect"
	"testing"

	"github.com/gogpu/ggedit/imageio"
)

var testSurface = Rect{Width: 200, Height: 100}

func pngFile(t *testing.T, name string, w, h int) imageio.File {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return imageio.File{Name: name, Type: "image/png", Data: buf.Bytes()}
}

// newTestSession returns a session with one 200x100 layer on a surface of
// the same size.
func newTestSession(t *testing.T, opts ...SessionOption) (*Session, *Layer) {
	t.Helper()
	opts = append([]SessionOption{WithSurface(testSurface, 1)}, opts...)
	s := NewSession(opts...)
	added, err := s.Import(context.Background(), pngFile(t, "base.png", 200, 100))
	if err != nil || len(added) != 1 {
		t.Fatalf("Import = %v, %v", added, err)
	}
	return s, added[0]
}

func down(x, y float64) PointerEvent {
	return PointerEvent{Kind: PointerDown, X: x, Y: y, OnSurface: true}
}

func move(x, y float64) PointerEvent {
	return PointerEvent{Kind: PointerMove, X: x, Y: y}
}

func up() PointerEvent {
	return PointerEvent{Kind: PointerUp}
}

func mustLayer(t *testing.T, s *Session, id string) *Layer {
	t.Helper()
	l, ok := s.Layer(id)
	if !ok {
		t.Fatalf("layer %s not found", id)
	}
	return l
}

func TestSessionImport(t *testing.T) {
	s := NewSession()
	added, err := s.Import(context.Background(),
		pngFile(t, "a.png", 200, 100),
		imageio.File{Name: "b.gif", Type: "image/gif", Data: []byte("GIF89a")},
		imageio.File{Name: "c.png", Type: "image/png", Data: []byte("not a png")},
		pngFile(t, "d.png", 50, 50),
	)

	if len(added) != 2 || s.Len() != 2 {
		t.Fatalf("added %d layers, session has %d, want 2", len(added), s.Len())
	}
	if !errors.Is(err, ErrInvalidFileType) || !errors.Is(err, ErrDecodeFailed) {
		t.Errorf("err = %v, want both import errors", err)
	}
	var ie *ImportError
	if !errors.As(err, &ie) || ie.Name != "b.gif" {
		t.Errorf("first ImportError = %+v", ie)
	}

	if c := s.Canvas(); c.Width != 200 || c.Height != 100 {
		t.Errorf("canvas = %+v, want first image size", c)
	}
	if added[0].Order != 0 || added[1].Order != 1 || added[1].Name != "Layer 2" {
		t.Errorf("layers = %s/%d, %s/%d", added[0].Name, added[0].Order, added[1].Name, added[1].Order)
	}
	if added[0].Image.Src == "" {
		t.Error("imported layer has no data URL")
	}

	// Later imports never change the canvas.
	if _, err := s.Import(context.Background(), pngFile(t, "e.png", 640, 480)); err != nil {
		t.Fatal(err)
	}
	if c := s.Canvas(); c.Width != 200 {
		t.Errorf("canvas changed to %+v", c)
	}
}

func TestSessionImportCanceled(t *testing.T) {
	s := NewSession()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	added, err := s.Import(ctx, pngFile(t, "a.png", 10, 10))
	if !errors.Is(err, context.Canceled) || len(added) != 0 || s.Len() != 0 {
		t.Errorf("Import = %v, %v; len %d", added, err, s.Len())
	}
}

func TestSessionOrderAfterRemove(t *testing.T) {
	s, base := newTestSession(t)
	second := s.AddLayer(imageio.FromImage(image.NewRGBA(image.Rect(0, 0, 10, 10))))
	s.Remove(base.ID)

	third := s.AddLayer(imageio.FromImage(image.NewRGBA(image.Rect(0, 0, 10, 10))))
	if third.Order <= second.Order {
		t.Errorf("new layer order %d not above %d", third.Order, second.Order)
	}
}

func TestSessionDragIsAdditive(t *testing.T) {
	s, l := newTestSession(t)

	s.Dispatch(down(100, 50))
	s.Dispatch(move(150, 75))
	s.Dispatch(up())

	got := mustLayer(t, s, l.ID).Position
	if got.X != 0.25 || got.Y != 0.25 || got.LastX != 0.25 || got.LastY != 0.25 {
		t.Fatalf("after first drag: %+v", got)
	}

	s.Dispatch(down(50, 25))
	s.Dispatch(move(100, 50))
	s.Dispatch(up())

	got = mustLayer(t, s, l.ID).Position
	if got.X != 0.5 || got.Y != 0.5 {
		t.Errorf("after second drag: %+v, want (0.5, 0.5)", got)
	}
}

func TestSessionBrush(t *testing.T) {
	s, l := newTestSession(t, WithColor("#ff0000"), WithBrushSize(6))
	s.SetTool(ToolBrush)

	s.Dispatch(down(100, 50))
	s.Dispatch(move(101, 50)) // closer than the sampling distance
	s.Dispatch(move(150, 50))
	s.Dispatch(up())

	got := mustLayer(t, s, l.ID)
	if len(got.PointGroups) != 1 {
		t.Fatalf("groups = %d, want 1", len(got.PointGroups))
	}
	g := got.PointGroups[0]
	want := []Point{Pt(0.5, 0.5), Pt(0.5, 0.5), Pt(0.75, 0.5)}
	if !reflect.DeepEqual(g.Points, want) {
		t.Errorf("Points = %v, want %v", g.Points, want)
	}
	if g.Color != "#ff0000" || g.StrokeWidth != 6 {
		t.Errorf("style = %q/%v", g.Color, g.StrokeWidth)
	}
	if got.ActiveIndex != 0 {
		t.Errorf("ActiveIndex = %d", got.ActiveIndex)
	}
}

func TestSessionBrushLayerLocal(t *testing.T) {
	s, l := newTestSession(t)
	s.SetPosition(l.ID, 0.25, 0)
	s.SetTool(ToolBrush)

	s.Dispatch(down(100, 50))
	s.Dispatch(up())

	g := mustLayer(t, s, l.ID).PointGroups[0]
	if g.Points[0] != Pt(0.25, 0.5) {
		t.Errorf("stored point = %v, want layer-local (0.25, 0.5)", g.Points[0])
	}

	scene, err := s.Scene()
	if err != nil {
		t.Fatal(err)
	}
	if p := scene.Layers[0].Paths[0].Points[0]; p != Pt(100, 50) {
		t.Errorf("rendered point = %v, want (100, 50)", p)
	}
}

func TestSessionToolSwitchMidStroke(t *testing.T) {
	s, l := newTestSession(t)
	s.SetTool(ToolBrush)
	s.Dispatch(down(100, 50))
	s.Dispatch(move(150, 50))

	s.SetTool(ToolMove)
	s.Dispatch(move(180, 50))
	s.SetTool(ToolBrush)
	s.Dispatch(move(190, 50))
	s.Dispatch(up())

	got := mustLayer(t, s, l.ID)
	if n := len(got.PointGroups); n != 1 {
		t.Fatalf("groups = %d, want the partial group only", n)
	}
	if n := len(got.PointGroups[0].Points); n != 3 {
		t.Errorf("points = %d, want 3", n)
	}
	if got.Position.X != 0 {
		t.Errorf("layer moved while switching tools: %+v", got.Position)
	}
}

func TestSessionToolSwitchMidDrag(t *testing.T) {
	s, l := newTestSession(t)
	s.Dispatch(down(100, 50))
	s.Dispatch(move(150, 50))
	s.SetTool(ToolBrush)
	s.Dispatch(up())

	got := mustLayer(t, s, l.ID).Position
	if got.X != 0.25 || got.LastX != 0.25 {
		t.Errorf("Position = %+v, want committed 0.25", got)
	}
}

func TestSessionReservedToolsIgnorePointer(t *testing.T) {
	for _, tool := range []Tool{ToolZoom, ToolCrop} {
		s, l := newTestSession(t, WithTool(tool))
		before := mustLayer(t, s, l.ID)

		if !s.Dispatch(down(100, 50)) {
			t.Errorf("%v: down not accepted by the tracker", tool)
		}
		s.Dispatch(move(150, 75))
		s.Dispatch(up())

		if after := mustLayer(t, s, l.ID); !reflect.DeepEqual(before, after) {
			t.Errorf("%v: layer changed: %+v", tool, after)
		}
	}
}

func TestSessionDispatchOffSurface(t *testing.T) {
	s, _ := newTestSession(t)
	if s.Dispatch(PointerEvent{Kind: PointerDown, X: 10, Y: 10}) {
		t.Error("down off the surface accepted")
	}
	if s.Pointer().Down {
		t.Error("pointer down after rejected event")
	}
}

func TestSessionHiddenTarget(t *testing.T) {
	s, l := newTestSession(t)
	s.Select(l.ID)
	s.SetVisible(l.ID, false)
	s.SetTool(ToolBrush)

	s.Dispatch(down(100, 50))
	s.Dispatch(move(150, 50))
	s.Dispatch(up())

	if got := mustLayer(t, s, l.ID); len(got.PointGroups) != 0 {
		t.Errorf("hidden layer received strokes: %v", got.PointGroups)
	}
	if _, ok := s.Selected(); ok {
		t.Error("Selected() reported a hidden layer")
	}
}

func TestSessionTargetFallsBackToTopVisible(t *testing.T) {
	s, base := newTestSession(t)
	top := s.AddLayer(imageio.FromImage(image.NewRGBA(image.Rect(0, 0, 200, 100))))

	if got, _ := s.Selected(); got.ID != top.ID {
		t.Errorf("target = %s, want top layer", got.Name)
	}
	s.SetVisible(top.ID, false)
	if got, _ := s.Selected(); got.ID != base.ID {
		t.Errorf("target = %s, want base layer", got.Name)
	}
	s.SetVisible(top.ID, true)
	s.Reorder(base.ID, 5)
	if got, _ := s.Selected(); got.ID != base.ID {
		t.Errorf("target after reorder = %s, want base layer", got.Name)
	}
}

func TestSessionSnapshotIsolation(t *testing.T) {
	s, l := newTestSession(t)
	snap := s.Snapshot()

	s.SetTool(ToolBrush)
	s.Dispatch(down(100, 50))
	s.Dispatch(move(150, 50))
	s.Dispatch(up())
	s.Rename(l.ID, "renamed")

	if len(snap[0].PointGroups) != 0 || snap[0].Name != "Layer 1" {
		t.Errorf("snapshot changed: %+v", snap[0])
	}

	snap = s.Snapshot()
	snap[0].PointGroups[0].Points[0] = Pt(9, 9)
	if got := mustLayer(t, s, l.ID).PointGroups[0].Points[0]; got == Pt(9, 9) {
		t.Error("writing to a snapshot changed the session")
	}
}

func TestSessionSnapshotIncludesOpenStroke(t *testing.T) {
	s, _ := newTestSession(t)
	s.SetTool(ToolBrush)
	s.Dispatch(down(100, 50))

	scene, err := s.Scene()
	if err != nil {
		t.Fatal(err)
	}
	if n := len(scene.Layers[0].Paths); n != 1 {
		t.Errorf("paths in frame = %d, want the open stroke", n)
	}
}

func TestSessionSetColor(t *testing.T) {
	s, l := newTestSession(t)
	s.SetTool(ToolBrush)
	s.Dispatch(down(100, 50))
	s.Dispatch(up())

	s.SetColor("#00ff00")
	if c := mustLayer(t, s, l.ID).PointGroups[0].Color; c != "#00ff00" {
		t.Errorf("finished stroke color = %q, want restyled", c)
	}

	s.Dispatch(down(50, 50))
	s.Dispatch(up())
	s.SetColor("#0000ff")

	groups := mustLayer(t, s, l.ID).PointGroups
	if groups[0].Color != "#00ff00" || groups[1].Color != "#0000ff" {
		t.Errorf("colors = %q, %q", groups[0].Color, groups[1].Color)
	}
	if s.Color() != "#0000ff" {
		t.Errorf("Color() = %q", s.Color())
	}
}

func TestSessionSetColorFollowsNewestStroke(t *testing.T) {
	s, a := newTestSession(t)
	added, err := s.Import(context.Background(), pngFile(t, "b.png", 200, 100))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	b := added[0]
	s.SetTool(ToolBrush)
	initial := s.Color()

	s.Select(a.ID)
	s.Dispatch(down(100, 50))
	s.Dispatch(up())
	s.Select(b.ID)
	s.Dispatch(down(50, 50))
	s.Dispatch(up())

	// Selecting another layer does not move the recolor target.
	s.Select(a.ID)
	s.SetColor("#ff0000")

	if c := mustLayer(t, s, a.ID).PointGroups[0].Color; c != initial {
		t.Errorf("older stroke on a = %q, want %q", c, initial)
	}
	if c := mustLayer(t, s, b.ID).PointGroups[0].Color; c != "#ff0000" {
		t.Errorf("newest stroke on b = %q, want #ff0000", c)
	}

	s.Remove(b.ID)
	s.SetColor("#00ff00")
	if c := mustLayer(t, s, a.ID).PointGroups[0].Color; c != initial {
		t.Errorf("after removing b, stroke on a = %q, want %q", c, initial)
	}
}

func TestSessionNextOrderSaturates(t *testing.T) {
	s, l := newTestSession(t)
	s.Reorder(l.ID, math.MaxInt)

	added, err := s.Import(context.Background(), pngFile(t, "top.png", 200, 100))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if added[0].Order != math.MaxInt {
		t.Errorf("Order = %d, want math.MaxInt", added[0].Order)
	}
	scene, err := s.Scene()
	if err != nil {
		t.Fatalf("Scene: %v", err)
	}
	if got := scene.Layers[scene.Len()-1].Layer.ID; got != added[0].ID {
		t.Errorf("top layer = %s, want the newest %s", got, added[0].ID)
	}
}

func TestSessionLayerEdits(t *testing.T) {
	s, l := newTestSession(t)
	s.SetTool(ToolBrush)
	s.Dispatch(down(100, 50))
	s.Dispatch(up())

	s.SetRotation(l.ID, 45)
	s.SetScale(l.ID, 2)
	s.SetFlip(l.ID, true, false)
	s.SetPosition(l.ID, 0.1, 0.2)
	s.SetFilters(l.ID, Filters{Opacity: 3, Saturation: 0.5, Contrast: 1, Hue: 370})

	got := mustLayer(t, s, l.ID)
	if got.Rotation != 45 || got.Scale != 2 || !got.FlipX || got.FlipY {
		t.Errorf("transform = %+v", got)
	}
	if got.Filters.Opacity != 1 || got.Filters.Hue != 10 {
		t.Errorf("filters not normalized: %+v", got.Filters)
	}
	if s.SetScale(l.ID, 0) {
		t.Error("SetScale(0) accepted")
	}

	if !s.Reset(l.ID) {
		t.Fatal("Reset failed")
	}
	got = mustLayer(t, s, l.ID)
	if got.Rotation != 0 || got.Scale != 1 || got.FlipX || got.Position != (Position{}) || got.Filters != DefaultFilters() {
		t.Errorf("after reset: %+v", got)
	}
	if len(got.PointGroups) != 1 {
		t.Error("Reset dropped strokes")
	}

	for name, ok := range map[string]bool{
		"rename":   s.Rename("missing", "x"),
		"rotation": s.SetRotation("missing", 1),
		"visible":  s.SetVisible("missing", false),
		"reset":    s.Reset("missing"),
		"select":   s.Select("missing"),
	} {
		if ok {
			t.Errorf("%s on unknown layer succeeded", name)
		}
	}
}

func TestSessionRemove(t *testing.T) {
	s, l := newTestSession(t)
	s.Select(l.ID)

	if !s.Remove(l.ID) {
		t.Fatal("Remove failed")
	}
	if s.Len() != 0 || s.Remove(l.ID) {
		t.Error("layer still present")
	}
	if _, ok := s.Selected(); ok {
		t.Error("selection survived removal")
	}
	if !s.Select("") {
		t.Error("clearing the selection failed")
	}
}

func TestSessionExport(t *testing.T) {
	t.Run("no layers", func(t *testing.T) {
		if _, err := NewSession().Export(context.Background()); !errors.Is(err, ErrNoSurface) {
			t.Errorf("err = %v, want ErrNoSurface", err)
		}
	})

	t.Run("failure leaves state unchanged", func(t *testing.T) {
		s, l := newTestSession(t)
		s.SetRotation(l.ID, 30)
		before := s.Layers()

		name := registerFake(t, &fakeRasterizer{err: errors.New("gpu lost")})
		if _, err := s.Export(context.Background(), WithRasterizer(name)); !errors.Is(err, ErrRasterizationFailed) {
			t.Errorf("err = %v, want ErrRasterizationFailed", err)
		}
		if after := s.Layers(); !reflect.DeepEqual(before, after) {
			t.Error("export changed the layers")
		}
	})

	t.Run("missing surface", func(t *testing.T) {
		s, _ := newTestSession(t)
		s.SetCanvas(Size{})
		_, err := s.Export(context.Background())
		if !errors.Is(err, ErrRasterizationFailed) || !errors.Is(err, ErrMissingSurfaceContext) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("png", func(t *testing.T) {
		s, _ := newTestSession(t)
		name := registerFake(t, &fakeRasterizer{})
		data, err := s.Export(context.Background(), WithRasterizer(name))
		if err != nil {
			t.Fatal(err)
		}
		cfg, err := png.DecodeConfig(bytes.NewReader(data))
		if err != nil || cfg.Width != 200 || cfg.Height != 100 {
			t.Errorf("png = %+v, %v", cfg, err)
		}
	})
}

func TestSessionRun(t *testing.T) {
	s, l := newTestSession(t)
	events := make(chan PointerEvent, 3)
	events <- down(100, 50)
	events <- move(150, 75)
	events <- up()
	close(events)

	if err := s.Run(context.Background(), events); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := mustLayer(t, s, l.ID).Position; got.X != 0.25 || got.Y != 0.25 {
		t.Errorf("Position = %+v", got)
	}
}

func TestSessionRunCanceled(t *testing.T) {
	s, _ := newTestSession(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Run(ctx, make(chan PointerEvent)); !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
}

package ggedit

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/ggedit/imageio"
)

// pointerHandler reacts to an accepted pointer sample for one tool.
type pointerHandler func(s *Session, sm Sample)

// dispatchTable maps each tool to its pointer handler. Tools without an
// entry only move the pointer.
var dispatchTable = map[Tool]pointerHandler{
	ToolMove:  (*Session).drag,
	ToolBrush: (*Session).brush,
}

// Session is one single-user editing session. It exclusively owns the
// layer set and the canvas size; both are only changed through its methods.
//
// A Session is not safe for concurrent use. Pointer events must be
// delivered in arrival order, either by calling Dispatch from a single
// goroutine or by feeding them through Run.
type Session struct {
	layers     []*Layer
	canvas     Size
	surface    Rect
	pixelRatio float64

	tool      Tool
	color     string
	brushSize float64
	cropIcon  string

	selected string
	dragging string
	// stroked is the layer that received the most recent stroke.
	stroked string

	tracker PointerTracker
	input   *InputState
	decoder ImageDecoder
}

// NewSession creates an empty session.
func NewSession(opts ...SessionOption) *Session {
	o := defaultSessionOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.decoder == nil {
		o.decoder = imageio.NewDecoder()
	}
	if o.input == nil {
		o.input = NewInputState()
	}
	return &Session{
		surface:    o.surface,
		pixelRatio: o.pixelRatio,
		tool:       o.tool,
		color:      o.color,
		brushSize:  o.brushSize,
		input:      o.input,
		decoder:    o.decoder,
		cropIcon:   o.cropIcon,
	}
}

// Canvas returns the working canvas size. It is zero until the first image
// is imported.
func (s *Session) Canvas() Size {
	return s.canvas
}

// SetCanvas overrides the working canvas size.
func (s *Session) SetCanvas(size Size) {
	s.canvas = size
}

// SetSurface updates the on-screen bounds of the canvas and the device
// pixel ratio. Call it whenever the host layout changes.
func (s *Session) SetSurface(box Rect, pixelRatio float64) {
	s.surface = box
	if pixelRatio > 0 {
		s.pixelRatio = pixelRatio
	}
}

// Surface returns the on-screen bounds of the canvas.
func (s *Session) Surface() Rect {
	return s.surface
}

// Pointer returns the latest normalized pointer.
func (s *Session) Pointer() Pointer {
	return s.tracker.Pointer()
}

// Input returns the session's key state.
func (s *Session) Input() *InputState {
	return s.input
}

// Cursor returns the CSS cursor for the current tool and keys.
func (s *Session) Cursor() string {
	if s.tool == ToolCrop && s.cropIcon != "" {
		return CropCursor(s.cropIcon)
	}
	return Cursor(s.tool, s.input)
}

// Tool returns the active tool.
func (s *Session) Tool() Tool {
	return s.tool
}

// SetTool switches tools. An open stroke is frozen as it is and an active
// drag keeps the offset reached so far.
func (s *Session) SetTool(t Tool) {
	if t == s.tool {
		return
	}
	for _, l := range s.layers {
		if l.drawing {
			l.setStrokes(Accumulate(l.Strokes(), StrokeEvent{Kind: StrokeEnd}))
		}
	}
	if l := s.find(s.dragging); l != nil {
		l.Position.LastX, l.Position.LastY = l.Position.X, l.Position.Y
	}
	s.dragging = ""
	s.tool = t
}

// Color returns the stroke color.
func (s *Session) Color() string {
	return s.color
}

// SetColor sets the stroke color. The most recent stroke takes the new
// color too, whichever layer it was drawn on, until a new stroke starts.
func (s *Session) SetColor(color string) {
	s.color = color
	if l := s.find(s.stroked); l != nil {
		l.setStrokes(Restyle(l.Strokes(), color, 0))
	}
}

// BrushSize returns the brush size in canvas pixels.
func (s *Session) BrushSize() float64 {
	return s.brushSize
}

// SetBrushSize sets the brush size for new strokes. Non-positive sizes are
// ignored.
func (s *Session) SetBrushSize(size float64) {
	if size > 0 {
		s.brushSize = size
	}
}

// Len returns the number of layers.
func (s *Session) Len() int {
	return len(s.layers)
}

// Layers returns a snapshot of the layer set in insertion order.
func (s *Session) Layers() []*Layer {
	return cloneLayers(s.layers)
}

// Layer returns a snapshot of the layer with the given id.
func (s *Session) Layer(id string) (*Layer, bool) {
	l := s.find(id)
	if l == nil {
		return nil, false
	}
	return l.Clone(), true
}

// Import decodes files and adds every successful one as a new layer on top
// of the existing ones. Each file is attempted independently: failures are
// collected as *ImportError values joined into the returned error, while
// the successful layers are still committed, all at once. The canvas takes
// the size of the first image ever imported.
func (s *Session) Import(ctx context.Context, files ...imageio.File) ([]*Layer, error) {
	var (
		images []imageio.Image
		errs   []error
	)
	for _, f := range files {
		img, err := s.decoder.Decode(ctx, f)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			Logger().Warn("ggedit: import failed", "file", f.Name, "err", err)
			errs = append(errs, &ImportError{Name: f.Name, Err: err})
			continue
		}
		images = append(images, img)
	}

	added := make([]*Layer, 0, len(images))
	for _, img := range images {
		added = append(added, s.AddLayer(img))
	}
	return added, errors.Join(errs...)
}

// AddLayer adds an already decoded image as the new top layer and returns a
// snapshot of it.
func (s *Session) AddLayer(img imageio.Image) *Layer {
	l := NewLayer(img, s.nextOrder())
	s.layers = append(s.layers, l)
	if s.canvas.IsZero() {
		s.canvas = NewSize(img.Width, img.Height)
	}
	Logger().Info("ggedit: layer added",
		"id", l.ID, "name", l.Name, "width", img.Width, "height", img.Height)
	return l.Clone()
}

// nextOrder returns an order above every existing layer. It saturates at
// math.MaxInt; equal orders keep insertion order, so the new layer still
// draws on top.
func (s *Session) nextOrder() int {
	next := len(s.layers)
	for _, l := range s.layers {
		if l.Order >= next {
			if l.Order == math.MaxInt {
				return math.MaxInt
			}
			next = l.Order + 1
		}
	}
	return next
}

// Remove deletes the layer with the given id.
func (s *Session) Remove(id string) bool {
	for i, l := range s.layers {
		if l.ID != id {
			continue
		}
		s.layers = append(s.layers[:i:i], s.layers[i+1:]...)
		if s.selected == id {
			s.selected = ""
		}
		if s.dragging == id {
			s.dragging = ""
		}
		if s.stroked == id {
			s.stroked = ""
		}
		return true
	}
	return false
}

// Select makes the layer with the given id the target of pointer input.
// An empty id clears the selection, which falls back to the top layer.
func (s *Session) Select(id string) bool {
	if id == "" {
		s.selected = ""
		return true
	}
	if s.find(id) == nil {
		return false
	}
	s.selected = id
	return true
}

// Selected returns a snapshot of the layer pointer input goes to.
func (s *Session) Selected() (*Layer, bool) {
	l := s.target()
	if l == nil {
		return nil, false
	}
	return l.Clone(), true
}

// Rename sets the display name of a layer.
func (s *Session) Rename(id, name string) bool {
	return s.update(id, func(l *Layer) { l.Name = name })
}

// Reorder changes the z-index of a layer.
func (s *Session) Reorder(id string, order int) bool {
	return s.update(id, func(l *Layer) { l.Order = order })
}

// SetRotation sets the rotation of a layer in degrees.
func (s *Session) SetRotation(id string, degrees float64) bool {
	return s.update(id, func(l *Layer) { l.Rotation = degrees })
}

// SetFilters replaces the filters of a layer. Values are normalized first.
func (s *Session) SetFilters(id string, f Filters) bool {
	return s.update(id, func(l *Layer) { l.Filters = f.Normalize() })
}

// SetVisible shows or hides a layer.
func (s *Session) SetVisible(id string, visible bool) bool {
	return s.update(id, func(l *Layer) { l.Visible = visible })
}

// SetScale sets the zoom factor of a layer. Non-positive values are ignored.
func (s *Session) SetScale(id string, scale float64) bool {
	if scale <= 0 {
		return false
	}
	return s.update(id, func(l *Layer) { l.Scale = scale })
}

// SetFlip mirrors a layer horizontally and/or vertically.
func (s *Session) SetFlip(id string, flipX, flipY bool) bool {
	return s.update(id, func(l *Layer) { l.FlipX, l.FlipY = flipX, flipY })
}

// SetPosition moves a layer to an absolute offset and commits it as the
// base of the next drag.
func (s *Session) SetPosition(id string, x, y float64) bool {
	return s.update(id, func(l *Layer) {
		l.Position = Position{X: x, Y: y, LastX: x, LastY: y}
	})
}

// Reset restores the transform and filters of a layer. Strokes are kept.
func (s *Session) Reset(id string) bool {
	return s.update(id, func(l *Layer) {
		l.Position = Position{}
		l.Rotation = 0
		l.Scale = 1
		l.FlipX, l.FlipY = false, false
		l.Filters = DefaultFilters()
	})
}

func (s *Session) update(id string, fn func(*Layer)) bool {
	l := s.find(id)
	if l == nil {
		return false
	}
	fn(l)
	return true
}

func (s *Session) find(id string) *Layer {
	if id == "" {
		return nil
	}
	for _, l := range s.layers {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// target returns the layer pointer input goes to: the selected layer, or
// the visible layer with the highest order. Hidden layers never receive input.
func (s *Session) target() *Layer {
	if l := s.find(s.selected); l != nil {
		if !l.Visible {
			return nil
		}
		return l
	}
	var top *Layer
	for _, l := range s.layers {
		if l.Visible && (top == nil || l.Order >= top.Order) {
			top = l
		}
	}
	return top
}

// Dispatch feeds one pointer event through the tracker and on to the
// handler of the active tool. It reports whether the tracker accepted the
// event.
func (s *Session) Dispatch(ev PointerEvent) bool {
	sm, ok := s.tracker.Handle(ev, s.surface)
	if !ok {
		return false
	}
	if h := dispatchTable[s.tool]; h != nil {
		h(s, sm)
	}
	return true
}

// Run dispatches events from a queue in arrival order until the channel is
// closed or ctx is done.
func (s *Session) Run(ctx context.Context, events <-chan PointerEvent) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			s.Dispatch(ev)
		}
	}
}

// brush routes samples to the stroke accumulator of the target layer.
func (s *Session) brush(sm Sample) {
	var (
		l  *Layer
		ev = StrokeEvent{Point: sm.Point, Color: s.color, BrushSize: s.brushSize}
	)
	switch sm.Kind {
	case PointerDown:
		l = s.target()
		ev.Kind = StrokeBegin
		if l != nil {
			s.stroked = l.ID
		}
	case PointerMove:
		l = s.drawingLayer()
		ev.Kind = StrokeExtend
		ev.MinDistance = MinDistance(s.brushSize, s.canvas, s.pixelRatio)
	case PointerUp:
		l = s.drawingLayer()
		ev.Kind = StrokeEnd
	}
	if l == nil {
		return
	}
	ev.Offset = l.Position.Offset()
	l.setStrokes(Accumulate(l.Strokes(), ev))
}

func (s *Session) drawingLayer() *Layer {
	for _, l := range s.layers {
		if l.drawing {
			return l
		}
	}
	return nil
}

// drag moves the target layer by the pointer delta on top of its last
// committed offset.
func (s *Session) drag(sm Sample) {
	switch sm.Kind {
	case PointerDown:
		l := s.target()
		if l == nil {
			return
		}
		l.Position.StartX, l.Position.StartY = sm.Point.X, sm.Point.Y
		s.dragging = l.ID
	case PointerMove:
		l := s.find(s.dragging)
		if l == nil {
			return
		}
		l.Position.X = l.Position.LastX + (sm.Point.X - l.Position.StartX)
		l.Position.Y = l.Position.LastY + (sm.Point.Y - l.Position.StartY)
	case PointerUp:
		if l := s.find(s.dragging); l != nil {
			l.Position.LastX, l.Position.LastY = l.Position.X, l.Position.Y
		}
		s.dragging = ""
	}
}

// Snapshot returns a deep copy of the layer set. Renders work on snapshots
// so they never observe a layer mid-mutation.
func (s *Session) Snapshot() []*Layer {
	return cloneLayers(s.layers)
}

// Scene renders a snapshot of the current state. On error the frame should
// be skipped; the next input event is the retry.
func (s *Session) Scene() (*Scene, error) {
	scene, err := RenderScene(s.canvas, s.Snapshot())
	if err != nil {
		Logger().Warn("ggedit: frame skipped", "err", err)
		return nil, err
	}
	return scene, nil
}

// Export renders and rasterizes the current state into a PNG.
// See the package-level Export for the error contract.
func (s *Session) Export(ctx context.Context, opts ...ExportOption) ([]byte, error) {
	if len(s.layers) == 0 {
		return nil, ErrNoSurface
	}
	scene, err := s.Scene()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRasterizationFailed, err)
	}
	return Export(ctx, scene, opts...)
}

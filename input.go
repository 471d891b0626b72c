package ggedit

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Tool is the active editing tool.
type Tool int

const (
	// ToolMove drags the selected layer.
	ToolMove Tool = iota
	// ToolBrush draws freehand strokes on the selected layer.
	ToolBrush
	// ToolZoom is reserved for zoom integration; pointer input is ignored.
	ToolZoom
	// ToolCrop is reserved for crop integration; pointer input is ignored.
	ToolCrop
)

// String returns the tool name.
func (t Tool) String() string {
	switch t {
	case ToolMove:
		return "move"
	case ToolBrush:
		return "brush"
	case ToolZoom:
		return "zoom"
	case ToolCrop:
		return "crop"
	default:
		return "unknown"
	}
}

// ParseTool returns the tool with the given name.
func ParseTool(name string) (Tool, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "move":
		return ToolMove, true
	case "brush":
		return ToolBrush, true
	case "zoom":
		return ToolZoom, true
	case "crop":
		return ToolCrop, true
	}
	return ToolMove, false
}

// ZoomOutKey is the key that turns the zoom cursor into zoom-out.
const ZoomOutKey = "alt"

// InputState is the set of currently pressed keys for one editing session.
// Key names are folded to lower case.
//
// InputState is not safe for concurrent use.
type InputState struct {
	keys  map[string]struct{}
	lower cases.Caser
}

// NewInputState creates an empty key set.
func NewInputState() *InputState {
	return &InputState{
		keys:  make(map[string]struct{}),
		lower: cases.Lower(language.Und),
	}
}

// Press records key as held down.
func (s *InputState) Press(key string) {
	if key = s.fold(key); key != "" {
		s.keys[key] = struct{}{}
	}
}

// Release records key as released.
func (s *InputState) Release(key string) {
	delete(s.keys, s.fold(key))
}

// Pressed reports whether key is held down.
func (s *InputState) Pressed(key string) bool {
	_, ok := s.keys[s.fold(key)]
	return ok
}

// Keys returns the pressed keys in sorted order.
func (s *InputState) Keys() []string {
	out := make([]string, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Clear releases every key, e.g. when the window loses focus.
func (s *InputState) Clear() {
	clear(s.keys)
}

func (s *InputState) fold(key string) string {
	return s.lower.String(strings.TrimSpace(key))
}

// The crop cursor is an icon whose hotspot sits at (CropHotspotX,
// CropHotspotY), the tip of the blade.
const (
	CropHotspotX = 17
	CropHotspotY = 0
)

// CropCursor returns the CSS cursor that shows iconURL with the crop
// hotspot, falling back to the default arrow while the icon loads.
func CropCursor(iconURL string) string {
	return fmt.Sprintf("url(%q) %d %d, default", iconURL, CropHotspotX, CropHotspotY)
}

// Cursor returns the CSS cursor for tool. The key state is only consulted
// to tell zoom-in from zoom-out; in may be nil.
//
// Cursor knows no crop icon, so the crop tool gets the stock crosshair.
// Session.Cursor uses CropCursor instead once WithCropIcon is set.
func Cursor(tool Tool, in *InputState) string {
	switch tool {
	case ToolMove:
		return "move"
	case ToolBrush:
		return "none"
	case ToolZoom:
		if in != nil && in.Pressed(ZoomOutKey) {
			return "zoom-out"
		}
		return "zoom-in"
	case ToolCrop:
		return "crosshair"
	default:
		return "default"
	}
}

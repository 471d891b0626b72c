package ggedit

import (
	"context"

	"github.com/gogpu/ggedit/imageio"
)

// ImageDecoder turns an imported file into a bitmap. *imageio.Decoder
// implements it; hosts with their own decoding can plug in another one.
type ImageDecoder interface {
	Decode(ctx context.Context, f imageio.File) (imageio.Image, error)
}

// SessionOption configures a Session during creation.
//
// Example:
//
//	s := ggedit.NewSession(
//	    ggedit.WithBrushSize(4),
//	    ggedit.WithColor("#ff0000"),
//	)
type SessionOption func(*sessionOptions)

type sessionOptions struct {
	decoder    ImageDecoder
	input      *InputState
	color      string
	brushSize  float64
	pixelRatio float64
	surface    Rect
	tool       Tool
	cropIcon   string
}

// defaultSessionOptions returns the default session options.
func defaultSessionOptions() sessionOptions {
	return sessionOptions{
		color:      DefaultColor,
		brushSize:  10,
		pixelRatio: 1,
		tool:       ToolMove,
	}
}

// WithDecoder sets the decoder used by Import. The default is an
// imageio.Decoder with no size limit.
func WithDecoder(d ImageDecoder) SessionOption {
	return func(o *sessionOptions) {
		o.decoder = d
	}
}

// WithInputState shares a key state with the host's keyboard handling.
func WithInputState(in *InputState) SessionOption {
	return func(o *sessionOptions) {
		o.input = in
	}
}

// WithColor sets the initial stroke color.
func WithColor(color string) SessionOption {
	return func(o *sessionOptions) {
		o.color = color
	}
}

// WithBrushSize sets the initial brush size in canvas pixels.
func WithBrushSize(size float64) SessionOption {
	return func(o *sessionOptions) {
		if size > 0 {
			o.brushSize = size
		}
	}
}

// WithSurface sets the initial on-screen bounds and device pixel ratio.
func WithSurface(box Rect, pixelRatio float64) SessionOption {
	return func(o *sessionOptions) {
		o.surface = box
		if pixelRatio > 0 {
			o.pixelRatio = pixelRatio
		}
	}
}

// WithTool sets the initial tool.
func WithTool(t Tool) SessionOption {
	return func(o *sessionOptions) {
		o.tool = t
	}
}

// WithCropIcon sets the image URL the crop tool uses as its cursor.
func WithCropIcon(iconURL string) SessionOption {
	return func(o *sessionOptions) {
		o.cropIcon = iconURL
	}
}

package ggedit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"time"
)

// ExportFilename is the file name offered for a downloaded export.
const ExportFilename = "image.png"

// ExportOption configures Export.
type ExportOption func(*exportOptions)

type exportOptions struct {
	rasterizer string
	level      png.CompressionLevel
}

// WithRasterizer selects a registered rasterizer by name.
func WithRasterizer(name string) ExportOption {
	return func(o *exportOptions) {
		o.rasterizer = name
	}
}

// WithCompression sets the PNG compression level.
func WithCompression(level png.CompressionLevel) ExportOption {
	return func(o *exportOptions) {
		o.level = level
	}
}

// Export flattens scene into a PNG at the canvas's native pixel size.
//
// The scene is handed to the rasterizer as a Document. Its SVG form is
// serialized only when the rasterizer is an SVGRasterizer asking for it.
// Export fails with ErrNoSurface when
// the scene has no layers and with ErrRasterizationFailed when the
// rasterizer cannot be acquired or fails. It never modifies layer state.
func Export(ctx context.Context, scene *Scene, opts ...ExportOption) ([]byte, error) {
	o := exportOptions{rasterizer: DefaultRasterizer, level: png.DefaultCompression}
	for _, opt := range opts {
		opt(&o)
	}

	if scene == nil || scene.Len() == 0 {
		return nil, ErrNoSurface
	}

	r, err := NewRasterizer(o.rasterizer)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	doc := &Document{Scene: scene}
	if v, ok := r.(SVGRasterizer); ok && v.WantsSVG() {
		doc.SVG = scene.SVG()
	}
	img, err := r.Rasterize(ctx, doc)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrRasterizationFailed, err)
	}
	if img == nil {
		return nil, fmt.Errorf("%w: rasterizer %q returned no image", ErrRasterizationFailed, o.rasterizer)
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: o.level}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("ggedit: encode png: %w", err)
	}

	Logger().Info("ggedit: export finished",
		"rasterizer", o.rasterizer,
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy(),
		"bytes", buf.Len(),
		"elapsed", time.Since(start))
	return buf.Bytes(), nil
}

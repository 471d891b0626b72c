// Package software provides the CPU rasterizer for ggedit exports.
//
// It draws a scene the way a browser renders its SVG document: each layer
// image is resampled through its affine transform, filtered, and composited
// with its opacity; the layer's strokes are painted on top with round caps
// and joins, unfiltered and untransformed.
//
// # Example
//
//	// Import to register the rasterizer
//	import _ "github.com/gogpu/ggedit/rasterizer/software"
//
//	png, err := session.Export(ctx)
package software

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/gogpu/ggedit"
	"github.com/gogpu/ggedit/internal/filter"
	"github.com/gogpu/ggedit/internal/parallel"
	"github.com/gogpu/ggedit/internal/stroke"
)

// Name is the registry name of the software rasterizer.
const Name = "software"

func init() {
	ggedit.RegisterRasterizer(Name, func() ggedit.Rasterizer {
		return New()
	})
}

// Ensure Rasterizer implements ggedit.Rasterizer.
var _ ggedit.Rasterizer = (*Rasterizer)(nil)

// Option configures a Rasterizer.
type Option func(*Rasterizer)

// WithInterpolator sets the resampling kernel for layer images.
// The default is draw.BiLinear.
func WithInterpolator(k draw.Interpolator) Option {
	return func(r *Rasterizer) {
		if k != nil {
			r.interp = k
		}
	}
}

// WithTolerance sets the flattening tolerance for round caps, in pixels.
func WithTolerance(tol float64) Option {
	return func(r *Rasterizer) {
		if tol > 0 {
			r.tolerance = tol
		}
	}
}

// WithWorkers sets how many goroutines apply color filters. Zero or less
// uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(r *Rasterizer) {
		r.workers = n
	}
}

// Rasterizer renders scenes on the CPU. It keeps no state between calls and
// is safe for concurrent use.
type Rasterizer struct {
	interp    draw.Interpolator
	tolerance float64
	workers   int
}

// New creates a software rasterizer.
func New(opts ...Option) *Rasterizer {
	r := &Rasterizer{
		interp:    draw.BiLinear,
		tolerance: stroke.DefaultTolerance,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rasterize renders doc.Scene at the canvas's native size. doc.SVG is not
// read. It checks ctx between layers.
func (r *Rasterizer) Rasterize(ctx context.Context, doc *ggedit.Document) (*image.RGBA, error) {
	if doc == nil || doc.Scene == nil {
		return nil, errors.New("software: nil document")
	}
	scene := doc.Scene
	if scene.Canvas.IsZero() {
		return nil, ggedit.ErrMissingSurfaceContext
	}

	bounds := image.Rect(0, 0, scene.Canvas.Width, scene.Canvas.Height)
	out := image.NewRGBA(bounds)
	surf := image.NewRGBA(bounds)

	pool := parallel.NewWorkerPool(r.workers)
	defer pool.Close()

	for _, l := range scene.Layers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		clear(surf.Pix)
		r.drawLayer(pool, out, surf, l)
		for _, p := range l.Paths {
			r.drawPath(out, p)
		}
	}

	ggedit.Logger().Debug("software: rasterized",
		"layers", scene.Len(),
		"width", bounds.Dx(),
		"height", bounds.Dy())
	return out, nil
}

// drawLayer resamples the layer image into surf, filters it there and
// composites the result onto out.
func (r *Rasterizer) drawLayer(pool *parallel.WorkerPool, out, surf *image.RGBA, l ggedit.SceneLayer) {
	src := l.Layer.Image.Bitmap
	if src == nil {
		return
	}
	sb := src.Bounds()

	m := l.Transform.Matrix()
	if sb.Min != (image.Point{}) {
		m = m.Multiply(ggedit.Translate(float64(-sb.Min.X), float64(-sb.Min.Y)))
	}
	r.interp.Transform(surf, m.Aff3(), src, sb, draw.Over, nil)

	// The blur is measured in layer space, so it grows with the zoom.
	// Rotation and flips leave an isotropic Gaussian unchanged.
	filter.Blur(surf, l.Filter.BlurRadius()*math.Abs(l.Transform.ScaleX))
	applyColor(pool, surf, l.Filter.ColorMatrices())

	switch op := l.Filter.Opacity; {
	case op >= 1:
		draw.Draw(out, out.Bounds(), surf, image.Point{}, draw.Over)
	case op > 0:
		mask := image.NewUniform(color.Alpha{A: uint8(op*255 + 0.5)})
		draw.DrawMask(out, out.Bounds(), surf, image.Point{}, mask, image.Point{}, draw.Over)
	}
}

// applyColor runs the color primitives over surf, one band per work item.
func applyColor(pool *parallel.WorkerPool, surf *image.RGBA, ms [][20]float64) {
	if len(ms) == 0 {
		return
	}
	bands := parallel.Bands(surf.Bounds(), pool.Workers())
	work := make([]func(), len(bands))
	for i, b := range bands {
		band := surf.SubImage(b).(*image.RGBA)
		work[i] = func() { filter.ApplyEach(band, ms...) }
	}
	pool.ExecuteAll(work)
}

// drawPath fills the outline of one stroke onto out.
func (r *Rasterizer) drawPath(out *image.RGBA, p ggedit.ScenePath) {
	c, ok := ggedit.ParseColor(p.Color)
	if !ok {
		ggedit.Logger().Warn("software: skipping stroke with invalid color", "color", p.Color)
		return
	}

	pts := make([]stroke.Point, len(p.Points))
	for i, q := range p.Points {
		pts[i] = stroke.Point{X: q.X, Y: q.Y}
	}
	polys := stroke.Outline(pts, p.StrokeWidth, r.tolerance)
	if len(polys) == 0 {
		return
	}

	b := out.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	for _, poly := range polys {
		z.MoveTo(float32(poly[0].X), float32(poly[0].Y))
		for _, q := range poly[1:] {
			z.LineTo(float32(q.X), float32(q.Y))
		}
		z.ClosePath()
	}
	z.Draw(out, b, image.NewUniform(c), image.Point{})
}

package ggedit

import (
	"math"
	"strconv"
	"strings"
)

// Filters holds the per-layer filter settings.
type Filters struct {
	// Opacity multiplies the alpha of the composited layer, in [0, 1].
	Opacity float64

	// Blur is the Gaussian standard deviation in canvas pixels.
	Blur float64

	// Saturation is 0 for grayscale, 1 for unchanged.
	Saturation float64

	// Hue rotates the hue in degrees. Any value is accepted and read mod 360.
	Hue float64

	// Sepia replaces the saturation step with a fixed sepia matrix.
	Sepia bool

	// Contrast is 1 for unchanged. Only emitted when it differs from 1.
	Contrast float64

	// Invert blends towards the inverted color, in [0, 1].
	Invert float64
}

// DefaultFilters returns the settings a freshly imported layer starts with.
func DefaultFilters() Filters {
	return Filters{
		Opacity:    1,
		Saturation: 1,
		Contrast:   1,
	}
}

// Normalize clamps every field into its valid range and folds Hue into [0, 360).
func (f Filters) Normalize() Filters {
	f.Opacity = clamp(f.Opacity, 0, 1)
	f.Blur = math.Max(0, nanTo(f.Blur, 0))
	f.Saturation = math.Max(0, nanTo(f.Saturation, 1))
	f.Contrast = math.Max(0, nanTo(f.Contrast, 1))
	f.Invert = clamp(f.Invert, 0, 1)

	h := math.Mod(nanTo(f.Hue, 0), 360)
	if h < 0 {
		h += 360
	}
	f.Hue = h
	return f
}

func nanTo(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// PrimitiveKind identifies one step of a filter graph.
type PrimitiveKind int

const (
	// PrimitiveBlur is a Gaussian blur (feGaussianBlur).
	PrimitiveBlur PrimitiveKind = iota
	// PrimitiveHueRotate is a hue rotation (feColorMatrix type="hueRotate").
	PrimitiveHueRotate
	// PrimitiveSaturate is a saturation change (feColorMatrix type="saturate").
	PrimitiveSaturate
	// PrimitiveSepia is the fixed sepia matrix (feColorMatrix type="matrix").
	PrimitiveSepia
	// PrimitiveContrast is a linear component transfer around mid-gray.
	PrimitiveContrast
	// PrimitiveInvert is a two-entry table component transfer.
	PrimitiveInvert
)

// String returns the primitive name.
func (k PrimitiveKind) String() string {
	switch k {
	case PrimitiveBlur:
		return "blur"
	case PrimitiveHueRotate:
		return "hueRotate"
	case PrimitiveSaturate:
		return "saturate"
	case PrimitiveSepia:
		return "sepia"
	case PrimitiveContrast:
		return "contrast"
	case PrimitiveInvert:
		return "invert"
	default:
		return "unknown"
	}
}

// SepiaMatrix is the 4x5 matrix applied when Filters.Sepia is set.
var SepiaMatrix = [20]float64{
	0.39, 0.769, 0.189, 0, 0,
	0.349, 0.686, 0.168, 0, 0,
	0.272, 0.534, 0.131, 0, 0,
	0, 0, 0, 1, 0,
}

// Primitive is one step of a filter graph.
type Primitive struct {
	Kind  PrimitiveKind
	Value float64
}

// ColorMatrix returns the 4x5 row-major matrix of a color primitive, in
// straight-alpha unit space (channels and offsets in [0, 1]). Blur has no
// matrix and reports false.
//
// The coefficients follow the SVG filter definitions so that the live
// document and the rasterized export agree.
func (p Primitive) ColorMatrix() ([20]float64, bool) {
	switch p.Kind {
	case PrimitiveHueRotate:
		sin, cos := math.Sincos(p.Value * math.Pi / 180)
		return [20]float64{
			0.213 + cos*0.787 - sin*0.213, 0.715 - cos*0.715 - sin*0.715, 0.072 - cos*0.072 + sin*0.928, 0, 0,
			0.213 - cos*0.213 + sin*0.143, 0.715 + cos*0.285 + sin*0.140, 0.072 - cos*0.072 - sin*0.283, 0, 0,
			0.213 - cos*0.213 - sin*0.787, 0.715 - cos*0.715 + sin*0.715, 0.072 + cos*0.928 + sin*0.072, 0, 0,
			0, 0, 0, 1, 0,
		}, true
	case PrimitiveSaturate:
		s := p.Value
		return [20]float64{
			0.213 + 0.787*s, 0.715 - 0.715*s, 0.072 - 0.072*s, 0, 0,
			0.213 - 0.213*s, 0.715 + 0.285*s, 0.072 - 0.072*s, 0, 0,
			0.213 - 0.213*s, 0.715 - 0.715*s, 0.072 + 0.928*s, 0, 0,
			0, 0, 0, 1, 0,
		}, true
	case PrimitiveSepia:
		return SepiaMatrix, true
	case PrimitiveContrast:
		c := p.Value
		o := 0.5 - 0.5*c
		return [20]float64{
			c, 0, 0, 0, o,
			0, c, 0, 0, o,
			0, 0, c, 0, o,
			0, 0, 0, 1, 0,
		}, true
	case PrimitiveInvert:
		a := p.Value
		k := 1 - 2*a
		return [20]float64{
			k, 0, 0, 0, a,
			0, k, 0, 0, a,
			0, 0, k, 0, a,
			0, 0, 0, 1, 0,
		}, true
	default:
		return [20]float64{}, false
	}
}

// FilterDescriptor is the ordered filter graph for a layer. Opacity is not
// part of the graph; it is applied as a separate alpha multiplier when the
// layer is composited.
type FilterDescriptor struct {
	Primitives []Primitive
	Opacity    float64
}

// BuildFilter maps filter settings to a filter graph:
//
//	blur -> hue rotation -> (saturation | sepia) [-> contrast] [-> invert]
//
// When Sepia is set the sepia matrix replaces the saturation step, whatever
// the saturation value. Contrast and invert are only present when they
// differ from their defaults.
func BuildFilter(f Filters) FilterDescriptor {
	f = f.Normalize()

	prims := make([]Primitive, 0, 5)
	prims = append(prims,
		Primitive{Kind: PrimitiveBlur, Value: f.Blur},
		Primitive{Kind: PrimitiveHueRotate, Value: f.Hue},
	)
	if f.Sepia {
		prims = append(prims, Primitive{Kind: PrimitiveSepia})
	} else {
		prims = append(prims, Primitive{Kind: PrimitiveSaturate, Value: f.Saturation})
	}
	if f.Contrast != 1 {
		prims = append(prims, Primitive{Kind: PrimitiveContrast, Value: f.Contrast})
	}
	if f.Invert != 0 {
		prims = append(prims, Primitive{Kind: PrimitiveInvert, Value: f.Invert})
	}

	return FilterDescriptor{Primitives: prims, Opacity: f.Opacity}
}

// Has reports whether the graph contains a primitive of the given kind.
func (d FilterDescriptor) Has(kind PrimitiveKind) bool {
	for _, p := range d.Primitives {
		if p.Kind == kind {
			return true
		}
	}
	return false
}

// BlurRadius returns the blur standard deviation, or 0 when there is none.
func (d FilterDescriptor) BlurRadius() float64 {
	for _, p := range d.Primitives {
		if p.Kind == PrimitiveBlur {
			return p.Value
		}
	}
	return 0
}

// ColorMatrices returns the color primitives' matrices in application order.
func (d FilterDescriptor) ColorMatrices() [][20]float64 {
	out := make([][20]float64, 0, len(d.Primitives))
	for _, p := range d.Primitives {
		if m, ok := p.ColorMatrix(); ok {
			out = append(out, m)
		}
	}
	return out
}

// Key identifies the graph. Layers whose descriptors share a key can share
// one filter definition. Opacity is excluded since it is not part of the graph.
func (d FilterDescriptor) Key() string {
	var b strings.Builder
	for i, p := range d.Primitives {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(p.Kind.String())
		b.WriteByte(':')
		b.WriteString(strconv.FormatFloat(p.Value, 'g', -1, 64))
	}
	return b.String()
}

package ggedit

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"
)

// filterDefs assigns one filter id per distinct filter graph, so layers
// with equal settings share a single definition.
type filterDefs struct {
	ids   map[string]string
	order []filterDef
}

type filterDef struct {
	id   string
	desc FilterDescriptor
}

func newFilterDefs(s *Scene) *filterDefs {
	d := &filterDefs{ids: make(map[string]string)}
	for _, l := range s.Layers {
		key := l.Filter.Key()
		if _, ok := d.ids[key]; ok {
			continue
		}
		id := "filters"
		if n := len(d.order); n > 0 {
			id = "filters-" + strconv.Itoa(n+1)
		}
		d.ids[key] = id
		d.order = append(d.order, filterDef{id: id, desc: l.Filter})
	}
	return d
}

// SVG returns the scene as an SVG document.
func (s *Scene) SVG() []byte {
	var buf bytes.Buffer
	// bytes.Buffer writes never fail.
	_ = s.WriteSVG(&buf)
	return buf.Bytes()
}

// WriteSVG writes the scene as an SVG document sized to the canvas.
//
// The document holds one <filter> per distinct filter graph, and per layer
// a group with an <image> carrying the transform, opacity and filter,
// followed by one <path> per point group. Paths are straight polylines
// ("M x,y,x,y,..."), drawn with round caps and joins.
func (s *Scene) WriteSVG(w io.Writer) error {
	var buf bytes.Buffer
	cw, ch := s.Canvas.Width, s.Canvas.Height

	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		cw, ch, cw, ch)

	defs := newFilterDefs(s)
	if len(defs.order) > 0 {
		buf.WriteString("<defs>\n")
		for _, d := range defs.order {
			writeFilter(&buf, d.id, d.desc)
		}
		buf.WriteString("</defs>\n")
	}

	for _, l := range s.Layers {
		fmt.Fprintf(&buf, `<g id="layer-%s">`+"\n", attr(l.Layer.ID))
		writeImage(&buf, l, defs.ids[l.Filter.Key()])
		for _, p := range l.Paths {
			writePath(&buf, p)
		}
		buf.WriteString("</g>\n")
	}

	buf.WriteString("</svg>\n")
	_, err := buf.WriteTo(w)
	return err
}

func writeFilter(buf *bytes.Buffer, id string, d FilterDescriptor) {
	fmt.Fprintf(buf, `<filter id="%s" color-interpolation-filters="sRGB">`+"\n", id)
	for _, p := range d.Primitives {
		switch p.Kind {
		case PrimitiveBlur:
			fmt.Fprintf(buf, `<feGaussianBlur stdDeviation="%s"/>`+"\n", formatFloat(p.Value))
		case PrimitiveHueRotate:
			fmt.Fprintf(buf, `<feColorMatrix type="hueRotate" values="%s"/>`+"\n", formatFloat(p.Value))
		case PrimitiveSaturate:
			fmt.Fprintf(buf, `<feColorMatrix type="saturate" values="%s"/>`+"\n", formatFloat(p.Value))
		case PrimitiveSepia:
			fmt.Fprintf(buf, `<feColorMatrix type="matrix" values="%s"/>`+"\n", joinFloats(" ", SepiaMatrix[:]...))
		case PrimitiveContrast:
			slope := formatFloat(p.Value)
			intercept := formatFloat(0.5 - 0.5*p.Value)
			writeTransfer(buf, `type="linear" slope="`+slope+`" intercept="`+intercept+`"`)
		case PrimitiveInvert:
			table := joinFloats(" ", p.Value, 1-p.Value)
			writeTransfer(buf, `type="table" tableValues="`+table+`"`)
		}
	}
	buf.WriteString("</filter>\n")
}

func writeTransfer(buf *bytes.Buffer, fn string) {
	buf.WriteString("<feComponentTransfer>")
	for _, c := range []string{"R", "G", "B"} {
		fmt.Fprintf(buf, "<feFunc%s %s/>", c, fn)
	}
	buf.WriteString("</feComponentTransfer>\n")
}

func writeImage(buf *bytes.Buffer, l SceneLayer, filterID string) {
	img := l.Layer.Image
	fmt.Fprintf(buf, `<image href="%s" width="%d" height="%d" transform="%s" opacity="%s"`,
		attr(img.Src), img.Width, img.Height, l.Transform.SVG(), formatFloat(l.Filter.Opacity))
	if filterID != "" {
		fmt.Fprintf(buf, ` filter="url(#%s)"`, filterID)
	}
	buf.WriteString("/>\n")
}

func writePath(buf *bytes.Buffer, p ScenePath) {
	fmt.Fprintf(buf, `<path stroke="%s" fill="none" d="%s" stroke-width="%s" stroke-linecap="round" stroke-linejoin="round"/>`+"\n",
		attr(p.Color), PathData(p.Points), formatFloat(p.StrokeWidth))
}

// PathData returns the polyline command list for points: "M x,y,x,y,...".
func PathData(points []Point) string {
	var b strings.Builder
	b.WriteByte('M')
	for i, p := range points {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(formatFloat(p.X))
		b.WriteByte(',')
		b.WriteString(formatFloat(p.Y))
	}
	return b.String()
}

// attr escapes s for use inside a double-quoted attribute.
func attr(s string) string {
	return html.EscapeString(s)
}

// formatFloat formats v with the fewest digits that round-trip. Negative
// zero is printed as "0".
func formatFloat(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func joinFloats(sep string, vals ...float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = formatFloat(v)
	}
	return strings.Join(parts, sep)
}

package ggedit

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
)

func sceneSVG(t *testing.T, layers ...*Layer) string {
	t.Helper()
	scene, err := RenderScene(NewSize(200, 100), layers)
	if err != nil {
		t.Fatalf("RenderScene: %v", err)
	}
	return string(scene.SVG())
}

func TestSVGDocument(t *testing.T) {
	l := testLayer(0)
	l.Image.Src = "data:image/png;base64,AAAA"
	doc := sceneSVG(t, l)

	for _, want := range []string{
		`viewBox="0 0 200 100" width="200" height="100"`,
		`<g id="layer-` + l.ID + `">`,
		`<image href="data:image/png;base64,AAAA" width="200" height="100"`,
		`transform="translate(0 0) rotate(0, 100, 50) matrix(1, 0, 0, 1, 0, 0)"`,
		`opacity="1" filter="url(#filters)"`,
		`<feGaussianBlur stdDeviation="0"/>`,
		`<feColorMatrix type="hueRotate" values="0"/>`,
		`<feColorMatrix type="saturate" values="1"/>`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q:\n%s", want, doc)
		}
	}
	if !strings.HasSuffix(doc, "</svg>\n") {
		t.Error("document not closed")
	}
}

func TestSVGSharedFilters(t *testing.T) {
	a, b, c := testLayer(0), testLayer(1), testLayer(2)
	c.Filters.Blur = 4
	doc := sceneSVG(t, a, b, c)

	if n := strings.Count(doc, "<filter "); n != 2 {
		t.Errorf("filter definitions = %d, want 2", n)
	}
	if n := strings.Count(doc, `filter="url(#filters)"`); n != 2 {
		t.Errorf("layers on shared filter = %d, want 2", n)
	}
	if !strings.Contains(doc, `<filter id="filters-2"`) || !strings.Contains(doc, `filter="url(#filters-2)"`) {
		t.Errorf("second filter not emitted:\n%s", doc)
	}
}

func TestSVGSepiaAndTransfers(t *testing.T) {
	l := testLayer(0)
	l.Filters.Sepia = true
	l.Filters.Saturation = 0
	l.Filters.Contrast = 1.5
	l.Filters.Invert = 1
	doc := sceneSVG(t, l)

	for _, want := range []string{
		`<feColorMatrix type="matrix" values="0.39 0.769 0.189 0 0 0.349 0.686 0.168 0 0 0.272 0.534 0.131 0 0 0 0 0 1 0"/>`,
		`<feFuncR type="linear" slope="1.5" intercept="-0.25"/>`,
		`<feFuncB type="table" tableValues="1 0"/>`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
	if strings.Contains(doc, `type="saturate"`) {
		t.Error("sepia document still has a saturate step")
	}
}

func TestSVGPaths(t *testing.T) {
	l := testLayer(0)
	l.PointGroups = []PointGroup{{Color: "#ff0000", StrokeWidth: 10, Points: []Point{Pt(0.5, 0.5), Pt(0.5, 0.5)}}}
	doc := sceneSVG(t, l)

	want := `<path stroke="#ff0000" fill="none" d="M100,50,100,50" stroke-width="10" stroke-linecap="round" stroke-linejoin="round"/>`
	if !strings.Contains(doc, want) {
		t.Errorf("document missing %q:\n%s", want, doc)
	}
	// The path follows its image inside the layer group.
	if strings.Index(doc, "<path") < strings.Index(doc, "<image") {
		t.Error("path written before image")
	}
}

func TestSVGEscaping(t *testing.T) {
	l := testLayer(0)
	l.Image.Src = `a"b<c`
	l.PointGroups = []PointGroup{{Color: `red" onload="x`, StrokeWidth: 1, Points: []Point{Pt(0, 0)}}}
	doc := sceneSVG(t, l)

	if strings.Contains(doc, `a"b`) || strings.Contains(doc, `" onload="`) {
		t.Errorf("attribute not escaped:\n%s", doc)
	}
	if !strings.Contains(doc, `href="a&#34;b&lt;c"`) {
		t.Errorf("escaped href missing:\n%s", doc)
	}
}

func TestPathData(t *testing.T) {
	tests := []struct {
		pts  []Point
		want string
	}{
		{nil, "M"},
		{[]Point{Pt(1, 2)}, "M1,2"},
		{[]Point{Pt(1, 2), Pt(3, 4.5)}, "M1,2,3,4.5"},
		{[]Point{Pt(-0.25, 0)}, "M-0.25,0"},
	}
	for _, tt := range tests {
		if got := PathData(tt.pts); got != tt.want {
			t.Errorf("PathData(%v) = %q, want %q", tt.pts, got, tt.want)
		}
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{1, "1"},
		{0.5, "0.5"},
		{-12.25, "-12.25"},
		{1e21, "1000000000000000000000"},
	}
	for _, tt := range tests {
		if got := formatFloat(tt.v); got != tt.want {
			t.Errorf("formatFloat(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteSVG(t *testing.T) {
	scene, err := RenderScene(NewSize(200, 100), []*Layer{testLayer(0)})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := scene.WriteSVG(&buf); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), scene.SVG()) {
		t.Error("WriteSVG and SVG differ")
	}
	if err := scene.WriteSVG(failWriter{}); err == nil {
		t.Error("WriteSVG ignored the writer error")
	}
}

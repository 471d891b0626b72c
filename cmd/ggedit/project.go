package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/ggedit"
	"github.com/gogpu/ggedit/imageio"
)

// Project is the YAML description of an editing session.
//
//	canvas: {width: 640, height: 480}
//	surface: {width: 320, height: 240, pixel_ratio: 2}
//	layers:
//	  - file: photo.jpg
//	    rotation: 15
//	    filters: {saturation: 0, blur: 2}
//	script:
//	  - tool: brush
//	  - color: "#ff0000"
//	  - stroke: [[10, 10], [100, 40], [200, 200]]
type Project struct {
	Canvas  *ProjectCanvas  `yaml:"canvas,omitempty"`
	Surface *ProjectSurface `yaml:"surface,omitempty"`
	Layers  []ProjectLayer  `yaml:"layers"`
	Script  []Step          `yaml:"script,omitempty"`

	// dir resolves relative layer files.
	dir string
}

// ProjectCanvas overrides the canvas size taken from the first image.
type ProjectCanvas struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ProjectSurface is the on-screen box pointer coordinates refer to. It
// defaults to the canvas at the origin.
type ProjectSurface struct {
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	PixelRatio float64 `yaml:"pixel_ratio"`
}

// ProjectLayer is one image with its initial settings.
type ProjectLayer struct {
	File     string          `yaml:"file"`
	Name     string          `yaml:"name,omitempty"`
	Visible  *bool           `yaml:"visible,omitempty"`
	Rotation float64         `yaml:"rotation,omitempty"`
	Position *ProjectPoint   `yaml:"position,omitempty"`
	Order    *int            `yaml:"order,omitempty"`
	Scale    float64         `yaml:"scale,omitempty"`
	FlipX    bool            `yaml:"flip_x,omitempty"`
	FlipY    bool            `yaml:"flip_y,omitempty"`
	Filters  *ProjectFilters `yaml:"filters,omitempty"`
}

// ProjectPoint is a normalized position.
type ProjectPoint struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// ProjectFilters overrides the default filters field by field.
type ProjectFilters struct {
	Opacity    *float64 `yaml:"opacity,omitempty"`
	Blur       *float64 `yaml:"blur,omitempty"`
	Saturation *float64 `yaml:"saturation,omitempty"`
	Hue        *float64 `yaml:"hue,omitempty"`
	Sepia      bool     `yaml:"sepia,omitempty"`
	Contrast   *float64 `yaml:"contrast,omitempty"`
	Invert     *float64 `yaml:"invert,omitempty"`
}

// Step is one script instruction. Exactly one field is expected to be set.
type Step struct {
	Tool      string  `yaml:"tool,omitempty"`
	Color     string  `yaml:"color,omitempty"`
	BrushSize float64 `yaml:"brush_size,omitempty"`

	// Select targets the layer at this index of Layers.
	Select *int `yaml:"select,omitempty"`

	// Pointer is a raw event: down, move or up, at (X, Y) surface pixels.
	Pointer string  `yaml:"pointer,omitempty"`
	X       float64 `yaml:"x,omitempty"`
	Y       float64 `yaml:"y,omitempty"`
	Contact int     `yaml:"contact,omitempty"`

	// Stroke is shorthand for down at the first point, a move to each
	// following one, and up.
	Stroke [][2]float64 `yaml:"stroke,omitempty"`
}

// loadProject reads and parses the project at path.
func loadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := parseProject(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p.dir = filepath.Dir(path)
	return p, nil
}

func parseProject(data []byte) (*Project, error) {
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if len(p.Layers) == 0 {
		return nil, errors.New("project has no layers")
	}
	for i, l := range p.Layers {
		if l.File == "" {
			return nil, fmt.Errorf("layer %d: file is required", i)
		}
	}
	return &p, nil
}

// Build imports the project's images into a new session, applies the layer
// settings, and replays the script.
func (p *Project) Build(ctx context.Context, cfg Config) (*ggedit.Session, error) {
	dec := imageio.NewDecoder(
		imageio.WithMaxDimension(cfg.MaxDimension),
		imageio.WithDataURL(true),
	)
	s := ggedit.NewSession(
		ggedit.WithDecoder(dec),
		ggedit.WithColor(cfg.Color),
		ggedit.WithBrushSize(cfg.BrushSize),
	)

	ids := make([]string, len(p.Layers))
	for i, pl := range p.Layers {
		f, err := p.readFile(pl.File)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		added, err := s.Import(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		ids[i] = added[0].ID
		pl.apply(s, ids[i])
	}

	if p.Canvas != nil {
		s.SetCanvas(ggedit.NewSize(p.Canvas.Width, p.Canvas.Height))
	}
	s.SetSurface(p.surface(s.Canvas(), cfg.PixelRatio))

	for i, st := range p.Script {
		if err := st.run(s, ids); err != nil {
			return nil, fmt.Errorf("script step %d: %w", i, err)
		}
	}
	return s, nil
}

func (p *Project) readFile(name string) (imageio.File, error) {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return imageio.File{}, err
	}
	return imageio.File{
		Name: filepath.Base(name),
		Type: imageio.TypeByExtension(name),
		Data: data,
	}, nil
}

func (p *Project) surface(canvas ggedit.Size, defaultRatio float64) (ggedit.Rect, float64) {
	if p.Surface == nil {
		return ggedit.Rect{Width: float64(canvas.Width), Height: float64(canvas.Height)}, defaultRatio
	}
	ratio := p.Surface.PixelRatio
	if ratio <= 0 {
		ratio = defaultRatio
	}
	return ggedit.Rect{
		X:      p.Surface.X,
		Y:      p.Surface.Y,
		Width:  p.Surface.Width,
		Height: p.Surface.Height,
	}, ratio
}

func (pl ProjectLayer) apply(s *ggedit.Session, id string) {
	if pl.Name != "" {
		s.Rename(id, pl.Name)
	}
	if pl.Visible != nil {
		s.SetVisible(id, *pl.Visible)
	}
	if pl.Rotation != 0 {
		s.SetRotation(id, pl.Rotation)
	}
	if pl.Position != nil {
		s.SetPosition(id, pl.Position.X, pl.Position.Y)
	}
	if pl.Order != nil {
		s.Reorder(id, *pl.Order)
	}
	if pl.Scale > 0 {
		s.SetScale(id, pl.Scale)
	}
	if pl.FlipX || pl.FlipY {
		s.SetFlip(id, pl.FlipX, pl.FlipY)
	}
	if pl.Filters != nil {
		s.SetFilters(id, pl.Filters.resolve())
	}
}

func (pf ProjectFilters) resolve() ggedit.Filters {
	f := ggedit.DefaultFilters()
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&f.Opacity, pf.Opacity)
	set(&f.Blur, pf.Blur)
	set(&f.Saturation, pf.Saturation)
	set(&f.Hue, pf.Hue)
	set(&f.Contrast, pf.Contrast)
	set(&f.Invert, pf.Invert)
	f.Sepia = pf.Sepia
	return f
}

func (st Step) run(s *ggedit.Session, ids []string) error {
	switch {
	case st.Tool != "":
		t, ok := ggedit.ParseTool(st.Tool)
		if !ok {
			return fmt.Errorf("unknown tool %q", st.Tool)
		}
		s.SetTool(t)
	case st.Color != "":
		if _, ok := ggedit.ParseColor(st.Color); !ok {
			return fmt.Errorf("color %q is not a hex color", st.Color)
		}
		s.SetColor(st.Color)
	case st.BrushSize != 0:
		if st.BrushSize < 0 {
			return fmt.Errorf("brush_size %v must be positive", st.BrushSize)
		}
		s.SetBrushSize(st.BrushSize)
	case st.Select != nil:
		i := *st.Select
		if i < 0 || i >= len(ids) {
			return fmt.Errorf("select %d out of range [0, %d)", i, len(ids))
		}
		s.Select(ids[i])
	case st.Pointer != "":
		kind, err := parsePointerKind(st.Pointer)
		if err != nil {
			return err
		}
		s.Dispatch(ggedit.PointerEvent{Kind: kind, ID: st.Contact, X: st.X, Y: st.Y, OnSurface: true})
	case len(st.Stroke) > 0:
		replayStroke(s, st.Contact, st.Stroke)
	default:
		return errors.New("empty step")
	}
	return nil
}

func replayStroke(s *ggedit.Session, contact int, pts [][2]float64) {
	first, last := pts[0], pts[len(pts)-1]
	s.Dispatch(ggedit.PointerEvent{Kind: ggedit.PointerDown, ID: contact, X: first[0], Y: first[1], OnSurface: true})
	for _, p := range pts[1:] {
		s.Dispatch(ggedit.PointerEvent{Kind: ggedit.PointerMove, ID: contact, X: p[0], Y: p[1]})
	}
	s.Dispatch(ggedit.PointerEvent{Kind: ggedit.PointerUp, ID: contact, X: last[0], Y: last[1]})
}

func parsePointerKind(name string) (ggedit.PointerKind, error) {
	switch name {
	case "down":
		return ggedit.PointerDown, nil
	case "move":
		return ggedit.PointerMove, nil
	case "up":
		return ggedit.PointerUp, nil
	}
	return 0, fmt.Errorf("unknown pointer event %q", name)
}

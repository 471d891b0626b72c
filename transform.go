package ggedit

// Affine is the resolved transform of one layer, kept as its three steps so
// it can be serialized the same way it is composed. All values are in canvas
// pixels except Rotation, which is in degrees.
type Affine struct {
	// TranslateX and TranslateY move the layer in its pre-rotation frame.
	TranslateX, TranslateY float64

	// Rotation turns the layer about (CenterX, CenterY).
	Rotation float64

	// ScaleX and ScaleY scale about (CenterX, CenterY). A negative value flips.
	ScaleX, ScaleY float64

	CenterX, CenterY float64
}

// ComposeTransform computes the transform for layer on a canvas of the given
// size. The steps are applied in strict order: translate by the layer
// position, rotate about the canvas center, then scale about the canvas
// center.
//
// ComposeTransform never mutates the layer.
func ComposeTransform(canvas Size, layer *Layer) Affine {
	cx, cy := canvas.Center()

	s := layer.Scale
	if s == 0 {
		s = 1
	}
	sx, sy := s, s
	if layer.FlipX {
		sx = -sx
	}
	if layer.FlipY {
		sy = -sy
	}

	return Affine{
		TranslateX: layer.Position.X * float64(canvas.Width),
		TranslateY: layer.Position.Y * float64(canvas.Height),
		Rotation:   layer.Rotation,
		ScaleX:     sx,
		ScaleY:     sy,
		CenterX:    cx,
		CenterY:    cy,
	}
}

// Matrix returns the combined transform. The translation is outermost, so a
// point is first scaled, then rotated, then translated.
func (a Affine) Matrix() Matrix {
	t := Translate(a.TranslateX, a.TranslateY)
	r := RotateAt(a.Rotation, a.CenterX, a.CenterY)
	s := ScaleAt(a.ScaleX, a.ScaleY, a.CenterX, a.CenterY)
	return t.Multiply(r).Multiply(s)
}

// SVG returns the transform as an SVG transform list:
//
//	translate(tx ty) rotate(deg, cx, cy) matrix(sx, 0, 0, sy, ox, oy)
func (a Affine) SVG() string {
	s := ScaleAt(a.ScaleX, a.ScaleY, a.CenterX, a.CenterY)
	return "translate(" + joinFloats(" ", a.TranslateX, a.TranslateY) + ") " +
		"rotate(" + joinFloats(", ", a.Rotation, a.CenterX, a.CenterY) + ") " +
		s.SVG()
}

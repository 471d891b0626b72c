package filter

import "image"

// ColorMatrix is a 4x5 row-major color transformation in unit space:
//
//	[R']   [m00 m01 m02 m03 m04]   [R]
//	[G'] = [m10 m11 m12 m13 m14] * [G]
//	[B']   [m20 m21 m22 m23 m24]   [B]
//	[A']   [m30 m31 m32 m33 m34]   [A]
//	                               [1]
//
// Channels are straight-alpha values in [0, 1]; the fifth column is an
// offset in the same unit.
type ColorMatrix [20]float64

// Identity returns the matrix that leaves colors unchanged.
func Identity() ColorMatrix {
	return ColorMatrix{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Then returns the matrix that applies m first and next second.
func (m ColorMatrix) Then(next ColorMatrix) ColorMatrix {
	var r ColorMatrix
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			sum := 0.0
			for k := 0; k < 4; k++ {
				sum += next[row*5+k] * m[k*5+col]
			}
			r[row*5+col] = sum
		}
		r[row*5+4] = next[row*5+0]*m[4] + next[row*5+1]*m[9] +
			next[row*5+2]*m[14] + next[row*5+3]*m[19] + next[row*5+4]
	}
	return r
}

// Chain composes matrices in application order. An empty chain is the identity.
func Chain(ms ...[20]float64) ColorMatrix {
	out := Identity()
	for _, m := range ms {
		out = out.Then(ColorMatrix(m))
	}
	return out
}

// IsIdentity reports whether m leaves colors unchanged.
func (m ColorMatrix) IsIdentity() bool {
	return m == Identity()
}

// Apply transforms every pixel of img in place. Pixels are unpremultiplied
// before the transform and premultiplied again afterwards. Results are
// clamped to [0, 1].
func (m ColorMatrix) Apply(img *image.RGBA) {
	if img == nil || m.IsIdentity() {
		return
	}
	b := img.Bounds()
	w := b.Dx()
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for i := 0; i < len(row); i += 4 {
			a := float64(row[i+3]) / 255
			var r, g, bl float64
			if a > 0 {
				r = float64(row[i+0]) / 255 / a
				g = float64(row[i+1]) / 255 / a
				bl = float64(row[i+2]) / 255 / a
			}

			nr := unit(m[0]*r + m[1]*g + m[2]*bl + m[3]*a + m[4])
			ng := unit(m[5]*r + m[6]*g + m[7]*bl + m[8]*a + m[9])
			nb := unit(m[10]*r + m[11]*g + m[12]*bl + m[13]*a + m[14])
			na := unit(m[15]*r + m[16]*g + m[17]*bl + m[18]*a + m[19])

			row[i+0] = toByte(nr * na)
			row[i+1] = toByte(ng * na)
			row[i+2] = toByte(nb * na)
			row[i+3] = toByte(na)
		}
	}
}

// ApplyEach applies ms one after another, clamping between steps the way a
// chain of separate filter primitives does.
func ApplyEach(img *image.RGBA, ms ...[20]float64) {
	for _, m := range ms {
		ColorMatrix(m).Apply(img)
	}
}

func unit(v float64) float64 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 1
	}
	return v
}

func toByte(v float64) uint8 {
	return uint8(v*255 + 0.5)
}

package filter

import (
	"image"
	"image/color"
)

// Test helper functions shared across filter tests.

// createTestImage creates an image filled with c.
func createTestImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// byteApproxEqual compares two channel values with tolerance.
func byteApproxEqual(a, b uint8, tolerance int) bool {
	d := int(a) - int(b)
	if d < 0 {
		d = -d
	}
	return d <= tolerance
}

// colorApproxEqual compares two colors channel by channel.
func colorApproxEqual(a, b color.RGBA, tolerance int) bool {
	return byteApproxEqual(a.R, b.R, tolerance) &&
		byteApproxEqual(a.G, b.G, tolerance) &&
		byteApproxEqual(a.B, b.B, tolerance) &&
		byteApproxEqual(a.A, b.A, tolerance)
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

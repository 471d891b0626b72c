package filter

import (
	"image"
	"sync"
)

// Blur applies a separable Gaussian blur with standard deviation sigma to
// img in place. Pixels outside img are transparent black, so edges fade out
// the way feGaussianBlur does. A non-positive sigma is a no-op.
func Blur(img *image.RGBA, sigma float64) {
	if img == nil || sigma <= 0 {
		return
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return
	}

	// Taps further out than the longer side only reach transparent pixels.
	kernel := CachedGaussianKernel(sigma, max(w, h))

	temp := getTempBuffer(w * h * 4)
	defer putTempBuffer(temp)

	blurHorizontal(img, temp, w, h, kernel)
	blurVertical(temp, img, w, h, kernel)
}

// blurHorizontal convolves each row of src into temp.
func blurHorizontal(src *image.RGBA, temp []float32, w, h int, kernel []float32) {
	half := len(kernel) / 2
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for x := 0; x < w; x++ {
			var r, g, b, a float32
			for k, weight := range kernel {
				kx := x + k - half
				if kx < 0 || kx >= w {
					continue
				}
				i := kx * 4
				r += float32(row[i+0]) * weight
				g += float32(row[i+1]) * weight
				b += float32(row[i+2]) * weight
				a += float32(row[i+3]) * weight
			}
			t := (y*w + x) * 4
			temp[t+0] = r
			temp[t+1] = g
			temp[t+2] = b
			temp[t+3] = a
		}
	}
}

// blurVertical convolves each column of temp into dst.
func blurVertical(temp []float32, dst *image.RGBA, w, h int, kernel []float32) {
	half := len(kernel) / 2
	for y := 0; y < h; y++ {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		for x := 0; x < w; x++ {
			var r, g, b, a float32
			for k, weight := range kernel {
				ky := y + k - half
				if ky < 0 || ky >= h {
					continue
				}
				t := (ky*w + x) * 4
				r += temp[t+0] * weight
				g += temp[t+1] * weight
				b += temp[t+2] * weight
				a += temp[t+3] * weight
			}
			i := x * 4
			na := clampUint8(a)
			// Rounding can push a color channel above alpha.
			row[i+0] = min(clampUint8(r), na)
			row[i+1] = min(clampUint8(g), na)
			row[i+2] = min(clampUint8(b), na)
			row[i+3] = na
		}
	}
}

// floatBuffer wraps a slice for sync.Pool.
type floatBuffer struct {
	data []float32
}

var tempBufferPool = sync.Pool{
	New: func() any {
		return &floatBuffer{}
	},
}

// getTempBuffer returns a zeroed buffer of exactly size elements.
func getTempBuffer(size int) []float32 {
	fb := tempBufferPool.Get().(*floatBuffer)
	if cap(fb.data) < size {
		tempBufferPool.Put(fb)
		return make([]float32, size)
	}
	buf := fb.data[:size]
	clear(buf)
	return buf
}

func putTempBuffer(buf []float32) {
	// 16M floats is a 2048x2048 RGBA image.
	if cap(buf) <= 16*1024*1024 {
		tempBufferPool.Put(&floatBuffer{data: buf[:cap(buf)]})
	}
}

// clampUint8 rounds v to the nearest byte.
func clampUint8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

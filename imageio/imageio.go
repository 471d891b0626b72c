package imageio

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"mime"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/image/draw"
)

// Errors returned by Decode.
var (
	// ErrInvalidFileType is returned when the MIME type is not in AllowedTypes.
	ErrInvalidFileType = errors.New("imageio: invalid image file type")

	// ErrDecodeFailed is returned when the bytes are not a valid image.
	ErrDecodeFailed = errors.New("imageio: decode failed")
)

// AllowedTypes lists the accepted MIME types.
var AllowedTypes = []string{"image/png", "image/jpg", "image/jpeg"}

// File is a raw file handed over by the host, e.g. from a drop event.
type File struct {
	Name string

	// Type is the MIME type reported by the host.
	Type string

	Data []byte
}

// Image is a decoded bitmap ready to become a layer.
type Image struct {
	// Bitmap holds the pixels. It is never modified after Decode returns.
	Bitmap image.Image

	// Src is a PNG data URL of Bitmap, or empty when disabled.
	Src string

	Width  int
	Height int

	// Ratio is Width/Height.
	Ratio float64
}

// FromImage wraps an already decoded bitmap. It is mostly useful in tests
// and for hosts that decode on their own.
func FromImage(m image.Image) Image {
	b := m.Bounds()
	return Image{
		Bitmap: m,
		Width:  b.Dx(),
		Height: b.Dy(),
		Ratio:  ratio(b.Dx(), b.Dy()),
	}
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithMaxDimension scales images down so that neither side exceeds n
// pixels. Zero disables scaling.
func WithMaxDimension(n int) Option {
	return func(d *Decoder) {
		d.maxDimension = max(0, n)
	}
}

// WithDataURL controls whether Decode fills Image.Src. It is on by default.
func WithDataURL(enabled bool) Option {
	return func(d *Decoder) {
		d.dataURL = enabled
	}
}

// Decoder decodes files into Images.
// A Decoder is safe for concurrent use once created.
type Decoder struct {
	maxDimension int
	dataURL      bool
}

// NewDecoder creates a decoder with the given options.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{dataURL: true}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var defaultDecoder = NewDecoder()

// Decode decodes f with the default decoder.
func Decode(ctx context.Context, f File) (Image, error) {
	return defaultDecoder.Decode(ctx, f)
}

// Decode checks the file type, decodes the pixels and builds the Image.
func (d *Decoder) Decode(ctx context.Context, f File) (Image, error) {
	if err := ctx.Err(); err != nil {
		return Image{}, err
	}

	typ := normalizeType(f.Type)
	if !slices.Contains(AllowedTypes, typ) {
		return Image{}, fmt.Errorf("%w: %q, must be one of: %s",
			ErrInvalidFileType, f.Type, strings.Join(AllowedTypes, " "))
	}

	var (
		src image.Image
		err error
	)
	r := bytes.NewReader(f.Data)
	if typ == "image/png" {
		src, err = png.Decode(r)
	} else {
		src, err = jpeg.Decode(r)
	}
	if err != nil {
		return Image{}, fmt.Errorf("%w: %s: %v", ErrDecodeFailed, f.Name, err)
	}
	if src.Bounds().Empty() {
		return Image{}, fmt.Errorf("%w: %s: empty image", ErrDecodeFailed, f.Name)
	}

	img := FromImage(d.toRGBA(src))

	if d.dataURL {
		if err := ctx.Err(); err != nil {
			return Image{}, err
		}
		img.Src, err = DataURL(img.Bitmap)
		if err != nil {
			return Image{}, fmt.Errorf("%w: %s: %v", ErrDecodeFailed, f.Name, err)
		}
	}
	return img, nil
}

// toRGBA copies src into a zero-origin RGBA bitmap, scaling it down when it
// exceeds the maximum dimension.
func (d *Decoder) toRGBA(src image.Image) *image.RGBA {
	sb := src.Bounds()
	w, h := fitWithin(sb.Dx(), sb.Dy(), d.maxDimension)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == sb.Dx() && h == sb.Dy() {
		draw.Draw(dst, dst.Bounds(), src, sb.Min, draw.Src)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Src, nil)
	return dst
}

// fitWithin returns the largest size with the same aspect ratio whose
// sides do not exceed limit. A zero limit returns the size unchanged.
func fitWithin(w, h, limit int) (int, int) {
	if limit <= 0 || (w <= limit && h <= limit) {
		return w, h
	}
	if w >= h {
		return limit, max(1, h*limit/w)
	}
	return max(1, w*limit/h), limit
}

// DataURL encodes m as a base64 PNG data URL.
func DataURL(m image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, m); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// TypeByExtension guesses the MIME type from a file name. Unknown
// extensions return an empty string.
func TypeByExtension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	}
	return normalizeType(mime.TypeByExtension(ext))
}

// normalizeType lower-cases a MIME type and drops any parameters.
func normalizeType(t string) string {
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	return strings.ToLower(strings.TrimSpace(t))
}

func ratio(w, h int) float64 {
	if h == 0 {
		return 0
	}
	return float64(w) / float64(h)
}

// Package filter implements the per-layer image filters used by the
// software rasterizer:
//   - Gaussian blur (separable, transparent outside the image)
//   - 4x5 color matrices (hue rotation, saturation, sepia, contrast, invert)
//
// Filters operate in place on premultiplied *image.RGBA buffers. Color
// matrices are applied to straight-alpha values in unit space, matching the
// SVG feColorMatrix and feComponentTransfer definitions with
// color-interpolation-filters="sRGB".
package filter

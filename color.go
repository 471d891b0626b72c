package ggedit

import "image/color"

// DefaultColor is the stroke color of a new session.
const DefaultColor = "#000000"

// ParseColor parses a CSS hex color.
// Supports formats: "#RGB", "#RGBA", "#RRGGBB", "#RRGGBBAA" (the '#' is optional).
// It reports false for anything else.
func ParseColor(s string) (color.NRGBA, bool) {
	if s != "" && s[0] == '#' {
		s = s[1:]
	}

	var r, g, b uint8
	a := uint8(255)
	ok := true

	switch len(s) {
	case 3, 4:
		r = hexNibble(s[0], &ok) * 17
		g = hexNibble(s[1], &ok) * 17
		b = hexNibble(s[2], &ok) * 17
		if len(s) == 4 {
			a = hexNibble(s[3], &ok) * 17
		}
	case 6, 8:
		r = hexByte(s[0:2], &ok)
		g = hexByte(s[2:4], &ok)
		b = hexByte(s[4:6], &ok)
		if len(s) == 8 {
			a = hexByte(s[6:8], &ok)
		}
	default:
		return color.NRGBA{}, false
	}
	if !ok {
		return color.NRGBA{}, false
	}
	return color.NRGBA{R: r, G: g, B: b, A: a}, true
}

// MustParseColor is like ParseColor but falls back to opaque black.
func MustParseColor(s string) color.NRGBA {
	c, ok := ParseColor(s)
	if !ok {
		return color.NRGBA{A: 255}
	}
	return c
}

func hexByte(s string, ok *bool) uint8 {
	return hexNibble(s[0], ok)<<4 | hexNibble(s[1], ok)
}

func hexNibble(c byte, ok *bool) uint8 {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	*ok = false
	return 0
}

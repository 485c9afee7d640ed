// Package color provides the normalized RGB color model used by the renderer.
package color

import (
	"log/slog"
	"strconv"
)

// contrastDelta is how far each channel is shifted when deriving an
// auto-contrast color from a base color.
const contrastDelta = 0.1

// Color is an RGB color with each component normalized to [0, 1].
type Color struct {
	R float64
	G float64
	B float64
}

// FromHex splits a 24-bit integer into its R/G/B bytes and normalizes
// each to [0, 1].
func FromHex(hex int64) Color {
	return Color{
		R: float64((hex>>16)&0xFF) / 255.0,
		G: float64((hex>>8)&0xFF) / 255.0,
		B: float64(hex&0xFF) / 255.0,
	}
}

// Parse converts a color string of the form "#rrggbb" into a Color.
//
// Parsing is deliberately tolerant: the longest leading run of hex digits
// after the marker is used, and trailing garbage beyond one character only
// produces a warning. Malformed strings therefore still yield a best-effort
// color instead of an error.
func Parse(s string, logger *slog.Logger) Color {
	if logger == nil {
		logger = slog.Default()
	}

	// Skip the single marker character ("#" by convention).
	body := s
	if len(body) > 0 {
		body = body[1:]
	}

	digits := 0
	for digits < len(body) && isHexDigit(body[digits]) {
		digits++
	}

	val, err := strconv.ParseInt(body[:digits], 16, 64)
	if err != nil {
		val = 0
	}
	if len(body)-digits > 1 {
		logger.Warn("invalid color string", "color", s)
	}

	return FromHex(val)
}

// AutoContrast derives a visually distinct color from bg by shifting every
// channel away from the background's luminance: light backgrounds are
// darkened, dark backgrounds are brightened.
func AutoContrast(bg Color) Color {
	darken := (bg.R+bg.G+bg.B)/3 > 0.5

	delta := contrastDelta
	if darken {
		delta = -contrastDelta
	}

	return Color{
		R: applyDelta(bg.R, delta),
		G: applyDelta(bg.G, delta),
		B: applyDelta(bg.B, delta),
	}
}

func applyDelta(base, delta float64) float64 {
	base += delta
	if base > 1 {
		base = 1
	}
	if base < 0 {
		base = 0
	}
	return base
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

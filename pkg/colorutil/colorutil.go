// Package colorutil provides shared color utilities for the mosaic workspace.
package colorutil

import (
	"fmt"
	"image/color"
	"strings"
)

// Common tile colors used throughout the application.
var (
	Black       = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	SaddleBrown = color.RGBA{R: 139, G: 69, B: 19, A: 255} // default tile frame
	Red         = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Green       = color.RGBA{R: 0, G: 255, B: 0, A: 255}
)

// ParseHex parses a "#RRGGBB" or "RRGGBB" string into an opaque color.
func ParseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// FormatHex renders a color as "#RRGGBB", discarding alpha.
func FormatHex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02X%02X%02X", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// DistanceSq returns the squared RGB distance between two colors.
func DistanceSq(a, b color.Color) float64 {
	ar, ag, ab, _ := a.RGBA()
	br, bg, bb, _ := b.RGBA()
	dr := float64(ar>>8) - float64(br>>8)
	dg := float64(ag>>8) - float64(bg>>8)
	db := float64(ab>>8) - float64(bb>>8)
	return dr*dr + dg*dg + db*db
}

// Nearest returns the palette color closest to target by RGB distance.
// Returns target itself if the palette is empty.
func Nearest(target color.Color, palette []color.RGBA) color.RGBA {
	if len(palette) == 0 {
		r, g, b, a := target.RGBA()
		return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
	}
	best := palette[0]
	bestDist := DistanceSq(target, best)
	for _, c := range palette[1:] {
		if d := DistanceSq(target, c); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}

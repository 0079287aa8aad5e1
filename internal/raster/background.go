// Package raster provides the background-surface collaborator: the engine
// samples colors from it but never loads, decodes, or renders images itself.
package raster

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"gonum.org/v1/gonum/stat"

	"tessera/pkg/geometry"
)

// NormalizedMaxDimension is the size the longer background edge is scaled to
// when a backdrop is installed, so tile coordinates stay in a predictable
// range regardless of the source resolution.
const NormalizedMaxDimension = 1000

// Background is the surface tiles are drawn over.
type Background interface {
	// Size returns the pixel dimensions of the surface.
	Size() (width, height int)
	// ColorAt returns the color at integer pixel coordinates. ok is false
	// outside the surface.
	ColorAt(x, y int) (color.RGBA, bool)
}

// ImageBackground wraps a decoded image, rescaled so its longer edge equals
// NormalizedMaxDimension.
type ImageBackground struct {
	img *image.RGBA
}

// NewImageBackground normalizes and wraps a decoded image.
func NewImageBackground(src image.Image) *ImageBackground {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	maxDim := w
	if h > maxDim {
		maxDim = h
	}
	scale := 1.0
	if maxDim > 0 {
		scale = float64(NormalizedMaxDimension) / float64(maxDim)
	}

	dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return &ImageBackground{img: dst}
}

// Size returns the normalized pixel dimensions.
func (ib *ImageBackground) Size() (int, int) {
	b := ib.img.Bounds()
	return b.Dx(), b.Dy()
}

// ColorAt returns the pixel color at (x, y).
func (ib *ImageBackground) ColorAt(x, y int) (color.RGBA, bool) {
	if !(image.Point{X: x, Y: y}.In(ib.img.Bounds())) {
		return color.RGBA{}, false
	}
	return ib.img.RGBAAt(x, y), true
}

// FlatBackground is a flat-color surface of fixed dimensions, used to swap
// out a photographic backdrop while keeping the workspace extents.
type FlatBackground struct {
	W, H  int
	Color color.RGBA
}

// NewFlatBackground creates a flat surface of the given dimensions.
func NewFlatBackground(width, height int, c color.RGBA) *FlatBackground {
	return &FlatBackground{W: width, H: height, Color: c}
}

// Size returns the surface dimensions.
func (fb *FlatBackground) Size() (int, int) {
	return fb.W, fb.H
}

// ColorAt returns the flat color inside the surface.
func (fb *FlatBackground) ColorAt(x, y int) (color.RGBA, bool) {
	if x < 0 || y < 0 || x >= fb.W || y >= fb.H {
		return color.RGBA{}, false
	}
	return fb.Color, true
}

// AverageColor samples every surface pixel under the rect (clipped to the
// surface) and returns the mean color. ok is false when the rect misses the
// surface entirely.
func AverageColor(bg Background, area geometry.Rect) (color.RGBA, bool) {
	w, h := bg.Size()

	x0 := clampInt(int(area.X), 0, w)
	y0 := clampInt(int(area.Y), 0, h)
	x1 := clampInt(int(math.Ceil(area.X+area.Width)), 0, w)
	y1 := clampInt(int(math.Ceil(area.Y+area.Height)), 0, h)
	if x0 >= x1 || y0 >= y1 {
		return color.RGBA{}, false
	}

	n := (x1 - x0) * (y1 - y0)
	reds := make([]float64, 0, n)
	greens := make([]float64, 0, n)
	blues := make([]float64, 0, n)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c, ok := bg.ColorAt(x, y)
			if !ok {
				continue
			}
			reds = append(reds, float64(c.R))
			greens = append(greens, float64(c.G))
			blues = append(blues, float64(c.B))
		}
	}
	if len(reds) == 0 {
		return color.RGBA{}, false
	}

	return color.RGBA{
		R: uint8(stat.Mean(reds, nil)),
		G: uint8(stat.Mean(greens, nil)),
		B: uint8(stat.Mean(blues, nil)),
		A: 255,
	}, true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Package tile defines the mosaic tile entity shared by placement, overlap
// resolution, and persistence.
package tile

import (
	"image/color"

	"tessera/pkg/colorutil"
	"tessera/pkg/geometry"
)

// Kind identifies the shape of a tile.
type Kind int

const (
	// KindRectangle is an axis-defined rectangle before rotation.
	KindRectangle Kind = iota
	// KindTriangle is a right triangle with equal legs.
	KindTriangle
)

func (k Kind) String() string {
	switch k {
	case KindRectangle:
		return "Rectangle"
	case KindTriangle:
		return "Triangle"
	default:
		return "Unknown"
	}
}

// KindFromString parses the persisted shape kind name. Unknown names map to
// KindRectangle, matching the importer's lenient behavior.
func KindFromString(s string) Kind {
	if s == "Triangle" {
		return KindTriangle
	}
	return KindRectangle
}

// Tile is a single placed mosaic element. Position is the top-left anchor of
// the unrotated shape; rotation is in degrees about the shape's centroid
// (the center of the unrotated bounding box for both kinds).
type Tile struct {
	Kind     Kind
	X, Y     float64
	Width    float64
	Height   float64 // equals Width for triangles
	Rotation float64

	Serial uint64 // unique, strictly increasing, assigned by the workspace

	FrameColor color.RGBA
	FillColor  color.RGBA
	Filled     bool
}

// NewRectangle creates an unrotated rectangle tile with the default frame color.
func NewRectangle(x, y, width, height float64) *Tile {
	return &Tile{
		Kind:       KindRectangle,
		X:          x,
		Y:          y,
		Width:      width,
		Height:     height,
		FrameColor: colorutil.SaddleBrown,
	}
}

// NewTriangle creates an unrotated right-triangle tile with leg length size.
func NewTriangle(x, y, size float64) *Tile {
	return &Tile{
		Kind:       KindTriangle,
		X:          x,
		Y:          y,
		Width:      size,
		Height:     size,
		FrameColor: colorutil.SaddleBrown,
	}
}

// Center returns the rotation pivot: the center of the unrotated bounding box.
func (t *Tile) Center() geometry.Point2D {
	return geometry.Point2D{X: t.X + t.Width/2, Y: t.Y + t.Height/2}
}

// MoveTo repositions the tile so its pivot lands on the given point.
func (t *Tile) MoveTo(center geometry.Point2D) {
	t.X = center.X - t.Width/2
	t.Y = center.Y - t.Height/2
}

// Outline returns the rotated corner polygon of the tile in workspace
// coordinates. Rectangles yield 4 corners, triangles 3.
func (t *Tile) Outline() []geometry.Point2D {
	var corners []geometry.Point2D
	switch t.Kind {
	case KindTriangle:
		corners = []geometry.Point2D{
			{X: t.X, Y: t.Y},
			{X: t.X + t.Width, Y: t.Y},
			{X: t.X, Y: t.Y + t.Height},
		}
	default:
		corners = []geometry.Point2D{
			{X: t.X, Y: t.Y},
			{X: t.X + t.Width, Y: t.Y},
			{X: t.X + t.Width, Y: t.Y + t.Height},
			{X: t.X, Y: t.Y + t.Height},
		}
	}
	if t.Rotation == 0 {
		return corners
	}
	return geometry.RotationAbout(t.Center(), t.Rotation).ApplyAll(corners)
}

// Bounds returns the axis-aligned bounding box of the rotated outline.
func (t *Tile) Bounds() geometry.Rect {
	return geometry.BoundingBox(t.Outline())
}

// Contains reports whether the point falls inside the rotated tile.
func (t *Tile) Contains(p geometry.Point2D) bool {
	return geometry.PointInPolygon(p, t.Outline())
}

// Overlaps reports whether two tiles share any area.
func (t *Tile) Overlaps(other *Tile) bool {
	if t == other {
		return false
	}
	if !t.Bounds().Intersects(other.Bounds()) {
		return false
	}
	return geometry.PolygonsOverlap(t.Outline(), other.Outline())
}

// Fill sets the fill color and marks the tile filled.
func (t *Tile) Fill(c color.RGBA) {
	t.FillColor = c
	t.Filled = true
}

// ClearFill reverts the tile to its unfilled state.
func (t *Tile) ClearFill() {
	t.FillColor = color.RGBA{}
	t.Filled = false
}

// Package placer walks sampled paths and instantiates oriented tiles along
// them in one or more lanes.
package placer

import (
	"math"

	"tessera/internal/path"
	"tessera/internal/tile"
	"tessera/pkg/geometry"
)

// Placer converts finished strokes into tile sets. One Placer serves one
// gesture: tiles created during the gesture accumulate so the optional
// collision probe can see them.
type Placer struct {
	opts Options

	// existing is the tile set present before the gesture; only consulted
	// when collision avoidance is on.
	existing []*tile.Tile
	placed   []*tile.Tile
}

// New creates a placer for a single gesture. existing may be nil when
// collision avoidance is disabled.
func New(opts Options, existing []*tile.Tile) *Placer {
	return &Placer{opts: opts, existing: existing}
}

// AlongPath smooths the raw stroke and places tiles according to mode.
// Strokes with fewer than 2 points yield no tiles. Tiles are returned in
// creation order: lane order first, then point order within a lane.
func (p *Placer) AlongPath(rawPoints []geometry.Point2D, mode Mode) []*tile.Tile {
	if len(rawPoints) < 2 {
		return nil
	}
	smoothed := path.Smooth(rawPoints)

	switch mode {
	case ModeHalf:
		p.placeLane(smoothed, p.opts.TileSize, p.opts.TileSize/2)
	case ModeParallel:
		p.placeParallel(smoothed)
	case ModeEdge:
		p.placeEdge(smoothed)
	default:
		p.placeLane(smoothed, p.opts.TileSize, p.opts.TileSize)
	}
	return p.placed
}

// placeLane walks one polyline and drops a tile of the given dimensions at
// every spacing interval, centered on the walk position and rotated to the
// local tangent. Centers sit at odd half-multiples of the spacing so the row
// stays clear of the stroke's endpoints.
func (p *Placer) placeLane(points []geometry.Point2D, width, height float64) {
	spacing := p.opts.spacing()
	window := p.opts.TileSize * 1.5

	for _, s := range path.Walk(points, spacing, spacing/2) {
		angle := path.AngleAt(points, s.Segment, s.Ratio, window)
		angle = path.ClampAngle(angle, p.opts.AngleLimit)

		x := s.Point.X - width/2
		y := s.Point.Y - height/2
		if p.opts.AvoidCollisions {
			x, y = p.findClearPosition(x, y, width, height, angle)
		}

		t := tile.NewRectangle(x, y, width, height)
		t.Rotation = angle
		p.placed = append(p.placed, t)
	}
}

// placeParallel places full-tile lanes on both sides of the stroke. The
// stroke itself stays empty in this mode.
func (p *Placer) placeParallel(smoothed []geometry.Point2D) {
	resampled := path.Resample(smoothed, p.opts.spacing())
	if len(resampled) < 2 {
		return
	}

	for lane := 1; lane <= p.opts.ParallelCount; lane++ {
		distance := p.opts.laneDistance(lane)
		for _, side := range []float64{1, -1} {
			lanePath := path.OffsetLane(resampled, side*distance)
			if len(lanePath) >= 2 {
				p.placeLane(lanePath, p.opts.TileSize, p.opts.TileSize)
			}
		}
	}
}

// placeEdge places the half-tile spine along the stroke and full-tile lanes
// at cumulative offsets on both sides.
func (p *Placer) placeEdge(smoothed []geometry.Point2D) {
	resampled := path.Resample(smoothed, p.opts.spacing())
	if len(resampled) < 2 {
		return
	}

	p.placeLane(resampled, p.opts.TileSize, p.opts.TileSize/2)

	for _, distance := range p.opts.edgeLaneDistances() {
		for _, side := range []float64{1, -1} {
			lanePath := path.OffsetLane(resampled, side*distance)
			if len(lanePath) >= 2 {
				p.placeLane(lanePath, p.opts.TileSize, p.opts.TileSize)
			}
		}
	}
}

// Ring places a 45-degree center tile surrounded by concentric rings of
// tangent tiles. Ring radii step by the rotated tile diagonal so neighboring
// rings cannot touch; the second ring is pulled inward the way the
// interactive tool compresses it.
func (p *Placer) Ring(center geometry.Point2D) []*tile.Tile {
	size := p.opts.TileSize

	centerTile := tile.NewRectangle(center.X-size/2, center.Y-size/2, size, size)
	centerTile.Rotation = 45
	p.placed = append(p.placed, centerTile)

	diagonal := size * math.Sqrt2
	gap := size * 0.02
	step := diagonal + gap

	for ring := 1; ring <= p.opts.RingCount; ring++ {
		radius := p.ringRadius(ring, step)

		circumference := 2 * math.Pi * radius
		count := int(circumference / step)
		if count < 4 {
			count = 4
		}

		for i := 0; i < count; i++ {
			angle := 2 * math.Pi * float64(i) / float64(count)
			x := center.X + radius*math.Cos(angle) - size/2
			y := center.Y + radius*math.Sin(angle) - size/2

			t := tile.NewRectangle(x, y, size, size)
			t.Rotation = angle*180/math.Pi + 90 // tangent to the ring
			p.placed = append(p.placed, t)
		}
	}
	return p.placed
}

// ringRadius returns the center distance of a ring. The second ring is
// compressed toward the first but never closer than one tile diagonal.
func (p *Placer) ringRadius(ring int, step float64) float64 {
	radius := float64(ring) * step
	switch {
	case ring == 2:
		compressed := radius * 0.75
		minSafe := 2 * step
		return math.Max(compressed, minSafe)
	case ring == 3:
		second := p.ringRadius(2, step)
		return math.Max(radius, second+step)
	default:
		return radius
	}
}

// findClearPosition probes for a collision-free spot near (x, y): first the
// original position, then up to 10 escalating steps of a tenth of a tile
// along the tangent (both ways) and the perpendicular (both ways). When
// every candidate collides the original position is returned.
func (p *Placer) findClearPosition(x, y, width, height, angleDegrees float64) (float64, float64) {
	if !p.collidesAt(x, y, width, height, angleDegrees) {
		return x, y
	}

	radians := angleDegrees * math.Pi / 180
	dir := geometry.Point2D{X: math.Cos(radians), Y: math.Sin(radians)}
	perp := dir.Perp()

	step := p.opts.TileSize * 0.1
	for attempt := 1; attempt <= 10; attempt++ {
		offset := step * float64(attempt)
		for _, d := range []geometry.Point2D{
			dir.Scale(offset),
			dir.Scale(-offset),
			perp.Scale(offset),
			perp.Scale(-offset),
		} {
			if !p.collidesAt(x+d.X, y+d.Y, width, height, angleDegrees) {
				return x + d.X, y + d.Y
			}
		}
	}
	return x, y
}

// collidesAt tests a hypothetical tile against the probe's candidate set:
// tiles placed earlier in this gesture and, unless the gesture is excluded
// from its own collisions, the pre-existing tiles.
func (p *Placer) collidesAt(x, y, width, height, angleDegrees float64) bool {
	probe := tile.NewRectangle(x, y, width, height)
	probe.Rotation = angleDegrees

	for _, t := range p.existing {
		if probe.Overlaps(t) {
			return true
		}
	}
	if p.opts.IgnorePlacedThisGesture {
		return false
	}
	for _, t := range p.placed {
		if probe.Overlaps(t) {
			return true
		}
	}
	return false
}

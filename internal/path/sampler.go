// Package path turns raw drag points into smoothed, evenly spaced polylines
// and estimates local tangent direction along them.
package path

import (
	"gonum.org/v1/gonum/floats"

	"tessera/pkg/geometry"
)

// Smooth replaces each interior point with the arithmetic mean of itself and
// its two neighbors. Endpoints pass through unchanged. Paths with fewer than
// 3 points are returned as-is.
func Smooth(points []geometry.Point2D) []geometry.Point2D {
	if len(points) < 3 {
		return points
	}

	smoothed := make([]geometry.Point2D, 0, len(points))
	smoothed = append(smoothed, points[0])
	for i := 1; i < len(points)-1; i++ {
		prev, curr, next := points[i-1], points[i], points[i+1]
		smoothed = append(smoothed, geometry.Point2D{
			X: (prev.X + curr.X + next.X) / 3,
			Y: (prev.Y + curr.Y + next.Y) / 3,
		})
	}
	smoothed = append(smoothed, points[len(points)-1])
	return smoothed
}

// SegmentLengths returns the length of each consecutive segment.
func SegmentLengths(points []geometry.Point2D) []float64 {
	if len(points) < 2 {
		return nil
	}
	lengths := make([]float64, len(points)-1)
	for i := range lengths {
		lengths[i] = points[i].Distance(points[i+1])
	}
	return lengths
}

// Length returns the total arc length of the path.
func Length(points []geometry.Point2D) float64 {
	return floats.Sum(SegmentLengths(points))
}

// Sample is a position on a path together with the segment it falls on and
// the interpolation ratio within that segment.
type Sample struct {
	Point   geometry.Point2D
	Segment int
	Ratio   float64
}

// Walk emits samples along the path at arc distances phase, phase+spacing,
// phase+2*spacing, ... Zero-length segments are skipped. Paths with fewer
// than 2 points yield no samples.
func Walk(points []geometry.Point2D, spacing, phase float64) []Sample {
	if len(points) < 2 || spacing <= 0 {
		return nil
	}

	lengths := SegmentLengths(points)
	cumulative := make([]float64, len(lengths))
	floats.CumSum(cumulative, lengths)

	var samples []Sample
	target := phase
	walked := 0.0
	for i, segLen := range lengths {
		for target <= walked+segLen {
			if segLen > 0 {
				ratio := (target - walked) / segLen
				p1, p2 := points[i], points[i+1]
				samples = append(samples, Sample{
					Point: geometry.Point2D{
						X: p1.X + ratio*(p2.X-p1.X),
						Y: p1.Y + ratio*(p2.Y-p1.Y),
					},
					Segment: i,
					Ratio:   ratio,
				})
			}
			target += spacing
		}
		walked = cumulative[i]
	}
	return samples
}

// Resample rebuilds the path with consistent point spacing: the first point
// is always kept, then one point every targetSpacing units of arc length.
// The final raw point is appended only if it sits farther than half the
// spacing from the last emitted point. Paths with fewer than 2 points are
// returned unchanged.
func Resample(points []geometry.Point2D, targetSpacing float64) []geometry.Point2D {
	if len(points) < 2 || targetSpacing <= 0 {
		return points
	}

	resampled := []geometry.Point2D{points[0]}
	for _, s := range Walk(points, targetSpacing, targetSpacing) {
		resampled = append(resampled, s.Point)
	}

	last := points[len(points)-1]
	if last.Distance(resampled[len(resampled)-1]) > targetSpacing*0.5 {
		resampled = append(resampled, last)
	}
	return resampled
}

// OffsetLane shifts every point of the path along its local normal by the
// signed distance, producing a parallel lane. The tangent at interior points
// is the average of the incoming and outgoing segment directions; endpoints
// use their single adjacent segment. Points with no usable direction
// (repeated points) are dropped from the lane.
func OffsetLane(points []geometry.Point2D, distance float64) []geometry.Point2D {
	if len(points) < 2 {
		return nil
	}

	lane := make([]geometry.Point2D, 0, len(points))
	for i, curr := range points {
		var dir geometry.Point2D
		switch {
		case i == 0:
			dir = points[i+1].Sub(curr)
		case i == len(points)-1:
			dir = curr.Sub(points[i-1])
		default:
			in := curr.Sub(points[i-1])
			out := points[i+1].Sub(curr)
			dir = in.Add(out).Scale(0.5)
		}

		if dir.Length() == 0 {
			continue
		}
		normal := dir.Normalize().Perp()
		lane = append(lane, curr.Add(normal.Scale(distance)))
	}
	return lane
}

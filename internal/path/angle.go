package path

import (
	"math"

	"tessera/pkg/geometry"
)

// backShare is the fraction of the reference window a point must clear to
// anchor the direction estimate.
const backShare = 0.8

// AngleAt estimates the local tangent angle, in degrees, at the position
// segment+ratio along the path. It anchors the direction on the first path
// points at least backShare*window away behind and ahead of the position;
// when only one anchor exists the direction runs from or toward it, and when
// neither exists the raw segment endpoints decide. window is typically
// 1.5 x tile size.
func AngleAt(points []geometry.Point2D, segment int, ratio, window float64) float64 {
	if len(points) < 2 || segment < 0 || segment >= len(points)-1 {
		return 0
	}

	p1, p2 := points[segment], points[segment+1]
	current := geometry.Point2D{
		X: p1.X + ratio*(p2.X-p1.X),
		Y: p1.Y + ratio*(p2.Y-p1.Y),
	}
	reach := window * backShare

	var back, forward *geometry.Point2D
	for i := segment; i >= 0; i-- {
		candidate := points[i]
		if i == segment && ratio > 0.5 {
			candidate = current
		}
		if candidate.Distance(current) >= reach {
			back = &candidate
			break
		}
	}
	for i := segment; i < len(points); i++ {
		candidate := points[i]
		if i == segment {
			if ratio < 0.5 {
				candidate = current
			} else if i+1 < len(points) {
				candidate = points[i+1]
			}
		}
		if candidate.Distance(current) >= reach {
			forward = &candidate
			break
		}
	}

	var dir geometry.Point2D
	switch {
	case back != nil && forward != nil:
		dir = forward.Sub(*back)
	case forward != nil:
		dir = forward.Sub(current)
	case back != nil:
		dir = current.Sub(*back)
	default:
		dir = p2.Sub(p1)
	}

	if dir.X == 0 && dir.Y == 0 {
		return 0
	}
	return dir.Angle()
}

// ClampAngle bounds an angle to +/-limit degrees. A non-positive limit
// disables clamping. Angles are first normalized to (-180, 180].
func ClampAngle(degrees, limit float64) float64 {
	if limit <= 0 {
		return degrees
	}
	for degrees > 180 {
		degrees -= 360
	}
	for degrees <= -180 {
		degrees += 360
	}
	return math.Max(-limit, math.Min(limit, degrees))
}

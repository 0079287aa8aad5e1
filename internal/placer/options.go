package placer

// Mode selects the placement strategy for a finished stroke.
type Mode int

const (
	// ModeSingle places one row of full tiles along the stroke.
	ModeSingle Mode = iota
	// ModeHalf places half-height tiles with the long axis along the stroke.
	ModeHalf
	// ModeParallel places full tiles on symmetric offset lanes, not on the
	// stroke itself.
	ModeParallel
	// ModeEdge places a half-tile spine plus full tiles on cumulative side
	// lanes, forming a bordered line.
	ModeEdge
)

func (m Mode) String() string {
	switch m {
	case ModeHalf:
		return "half"
	case ModeParallel:
		return "parallel"
	case ModeEdge:
		return "edge"
	default:
		return "single"
	}
}

// MinSpacingMultiplier is the anti-overlap floor applied to the configured
// tile spacing: tiles are never packed tighter than 1.1 tile sizes apart.
const MinSpacingMultiplier = 1.1

// fallbackLaneMultiplier spaces lanes beyond the configured multiplier set.
const fallbackLaneMultiplier = 1.5

// Options configures tile placement along a path.
type Options struct {
	TileSize float64

	// SpacingMultiplier sets the arc-length gap between tile centers as a
	// multiple of TileSize; Normalize raises values below
	// MinSpacingMultiplier.
	SpacingMultiplier float64

	// AngleLimit clamps tile rotation to +/-AngleLimit degrees. Zero or
	// negative leaves angles unclamped.
	AngleLimit float64

	// ParallelMultiplier scales TileSize into the base lane offset.
	ParallelMultiplier float64
	// ParallelCount is the number of lanes placed on each side.
	ParallelCount int
	// LaneMultipliers adjust lanes 2..N+1; lanes past the slice fall back
	// to an escalating distance.
	LaneMultipliers []float64

	// EdgeMultiplier scales TileSize into the base edge-lane offset.
	EdgeMultiplier float64
	// EdgeCount is the number of full-tile side lanes per side in edge mode.
	EdgeCount int
	// EdgeLaneMultipliers set the cumulative gap added by each side lane.
	EdgeLaneMultipliers []float64

	// RingCount is the number of concentric rings placed around a ring
	// gesture's center tile.
	RingCount int

	// AvoidCollisions enables the probing strategy that nudges a tile off
	// an occupied spot before accepting its position.
	AvoidCollisions bool
	// IgnorePlacedThisGesture restricts collision probing to tiles that
	// existed before the gesture, so a dense stroke does not block itself.
	IgnorePlacedThisGesture bool
}

// DefaultOptions mirrors the tuning the interactive tool ships with.
func DefaultOptions() Options {
	return Options{
		TileSize:            10,
		SpacingMultiplier:   1.16,
		ParallelMultiplier:  0.6,
		ParallelCount:       1,
		LaneMultipliers:     []float64{1.5, 1.7, 1.8, 1.85},
		EdgeMultiplier:      0.6,
		EdgeCount:           2,
		EdgeLaneMultipliers: []float64{1.5, 1.8, 2.0, 2.0, 2.0},
		RingCount:           7,
	}
}

// Normalize clamps user-supplied settings into their working ranges: the
// spacing multiplier is floored at the anti-overlap minimum and lane counts
// are kept within the ranges the interactive tool accepts. Placement itself
// honors the options it is given; callers wiring raw user input should
// normalize first.
func (o Options) Normalize() Options {
	if o.TileSize <= 0 {
		o.TileSize = 10
	}
	if o.SpacingMultiplier < MinSpacingMultiplier {
		o.SpacingMultiplier = MinSpacingMultiplier
	}
	if o.ParallelMultiplier < 0.5 {
		o.ParallelMultiplier = 0.5
	}
	if o.ParallelCount < 1 {
		o.ParallelCount = 1
	} else if o.ParallelCount > 10 {
		o.ParallelCount = 10
	}
	if o.EdgeCount < 1 {
		o.EdgeCount = 1
	} else if o.EdgeCount > 10 {
		o.EdgeCount = 10
	}
	if o.RingCount < 1 {
		o.RingCount = 1
	}
	return o
}

// spacing returns the configured arc-length distance between tile centers.
func (o Options) spacing() float64 {
	return o.TileSize * o.SpacingMultiplier
}

// laneDistance returns the perpendicular offset of parallel lane index
// (1-based). The first lane sits at the base distance; later lanes scale by
// their configured multiplier, and lanes beyond the configured set fall back
// to an escalating distance.
func (o Options) laneDistance(lane int) float64 {
	base := o.TileSize * o.ParallelMultiplier
	switch {
	case lane <= 1:
		return base
	case lane-2 < len(o.LaneMultipliers):
		return base * float64(lane) * o.LaneMultipliers[lane-2]
	default:
		skip := float64(lane - 1 - len(o.LaneMultipliers))
		return base * (6.0 + skip*fallbackLaneMultiplier)
	}
}

// edgeLaneDistances returns the cumulative offsets of the edge side lanes,
// innermost first. Each lane adds its configured gap to the previous lane's
// distance so successive lanes cannot overlap.
func (o Options) edgeLaneDistances() []float64 {
	base := o.TileSize * o.EdgeMultiplier
	distances := make([]float64, 0, o.EdgeCount)
	prev := 0.0
	for lane := 1; lane <= o.EdgeCount; lane++ {
		mult := fallbackLaneMultiplier
		if lane-1 < len(o.EdgeLaneMultipliers) {
			mult = o.EdgeLaneMultipliers[lane-1]
		}
		prev += base * mult
		distances = append(distances, prev)
	}
	return distances
}

package geometry

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func pointsAlmostEqual(a, b Point2D) bool {
	return almostEqual(a.X, b.X) && almostEqual(a.Y, b.Y)
}

func TestPoint2DDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Point2D
		want float64
	}{
		{"same point", Point2D{X: 3, Y: 4}, Point2D{X: 3, Y: 4}, 0},
		{"3-4-5 triangle", Point2D{}, Point2D{X: 3, Y: 4}, 5},
		{"negative coords", Point2D{X: -1, Y: -1}, Point2D{X: 2, Y: 3}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Distance(tt.b); !almostEqual(got, tt.want) {
				t.Errorf("Distance() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPoint2DNormalize(t *testing.T) {
	v := Point2D{X: 3, Y: 4}.Normalize()
	if !almostEqual(v.Length(), 1) {
		t.Errorf("normalized length = %v, want 1", v.Length())
	}
	if !pointsAlmostEqual(v, Point2D{X: 0.6, Y: 0.8}) {
		t.Errorf("Normalize() = %v", v)
	}

	zero := Point2D{}.Normalize()
	if zero != (Point2D{}) {
		t.Errorf("zero vector normalized to %v", zero)
	}
}

func TestPoint2DPerp(t *testing.T) {
	v := Point2D{X: 1, Y: 0}.Perp()
	if !pointsAlmostEqual(v, Point2D{X: 0, Y: 1}) {
		t.Errorf("Perp() = %v, want (0,1)", v)
	}
}

func TestPoint2DAngle(t *testing.T) {
	tests := []struct {
		v    Point2D
		want float64
	}{
		{Point2D{X: 1, Y: 0}, 0},
		{Point2D{X: 0, Y: 1}, 90},
		{Point2D{X: -1, Y: 0}, 180},
		{Point2D{X: 1, Y: -1}, -45},
	}
	for _, tt := range tests {
		if got := tt.v.Angle(); !almostEqual(got, tt.want) {
			t.Errorf("Angle(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 20)
	tests := []struct {
		name string
		p    Point2D
		want bool
	}{
		{"center", Point2D{X: 20, Y: 20}, true},
		{"corner", Point2D{X: 10, Y: 10}, true},
		{"outside", Point2D{X: 31, Y: 20}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestRectIntersects(t *testing.T) {
	base := NewRect(0, 0, 10, 10)
	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"overlapping", NewRect(5, 5, 10, 10), true},
		{"contained", NewRect(2, 2, 4, 4), true},
		{"disjoint", NewRect(20, 20, 5, 5), false},
		{"edge touching", NewRect(10, 0, 5, 5), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Intersects(tt.other); got != tt.want {
				t.Errorf("Intersects() = %v, want %v", got, tt.want)
			}
			if got := tt.other.Intersects(base); got != tt.want {
				t.Errorf("Intersects() not symmetric")
			}
		})
	}
}

func TestRectExpand(t *testing.T) {
	r := NewRect(10, 10, 20, 20).Expand(5)
	want := NewRect(5, 5, 30, 30)
	if r != want {
		t.Errorf("Expand() = %v, want %v", r, want)
	}
}

func TestRotationAbout(t *testing.T) {
	tests := []struct {
		name    string
		pivot   Point2D
		degrees float64
		in      Point2D
		want    Point2D
	}{
		{"90 about origin", Point2D{}, 90, Point2D{X: 10, Y: 0}, Point2D{X: 0, Y: 10}},
		{"pivot fixed", Point2D{X: 5, Y: 5}, 137, Point2D{X: 5, Y: 5}, Point2D{X: 5, Y: 5}},
		{"180 about pivot", Point2D{X: 5, Y: 0}, 180, Point2D{X: 10, Y: 0}, Point2D{X: 0, Y: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RotationAbout(tt.pivot, tt.degrees).Apply(tt.in)
			if !pointsAlmostEqual(got, tt.want) {
				t.Errorf("RotationAbout(%v, %v).Apply(%v) = %v, want %v",
					tt.pivot, tt.degrees, tt.in, got, tt.want)
			}
		})
	}
}

func TestRotationAboutRoundTrip(t *testing.T) {
	pivot := Point2D{X: 3, Y: -7}
	p := Point2D{X: 42, Y: 17}
	back := RotationAbout(pivot, -33).Apply(RotationAbout(pivot, 33).Apply(p))
	if !pointsAlmostEqual(back, p) {
		t.Errorf("rotate then unrotate = %v, want %v", back, p)
	}
}

func TestBoundingBox(t *testing.T) {
	points := []Point2D{{X: 3, Y: -1}, {X: -2, Y: 4}, {X: 0, Y: 0}}
	got := BoundingBox(points)
	want := Rect{X: -2, Y: -1, Width: 5, Height: 5}
	if got != want {
		t.Errorf("BoundingBox() = %v, want %v", got, want)
	}

	if BoundingBox(nil) != (Rect{}) {
		t.Error("BoundingBox(nil) should be the zero rect")
	}
}

func TestCentroid(t *testing.T) {
	points := []Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	got := Centroid(points)
	if !pointsAlmostEqual(got, Point2D{X: 5, Y: 5}) {
		t.Errorf("Centroid() = %v, want (5,5)", got)
	}
}

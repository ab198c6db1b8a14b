package common

import "testing"

func TestOverlap(t *testing.T) {
	a := Geometry{X: 0, Y: 0, Width: 100, Height: 100}
	b := Geometry{X: 50, Y: 50, Width: 100, Height: 100}
	c := Geometry{X: 200, Y: 200, Width: 50, Height: 50}

	if !a.Overlap(b) {
		t.Errorf("expected overlapping rectangles to report Overlap")
	}
	if a.Overlap(c) {
		t.Errorf("expected disjoint rectangles to report no overlap")
	}
}

func TestIsInsideRect(t *testing.T) {
	g := Geometry{X: 10, Y: 10, Width: 100, Height: 50}

	cases := []struct {
		p    Point
		want bool
	}{
		{Point{X: 10, Y: 10}, true},   // inclusive top-left
		{Point{X: 109, Y: 59}, true},  // inclusive of interior near bottom-right
		{Point{X: 110, Y: 30}, false}, // exclusive right edge
		{Point{X: 30, Y: 60}, false},  // exclusive bottom edge
		{Point{X: 0, Y: 0}, false},
	}
	for _, c := range cases {
		if got := IsInsideRect(c.p, g); got != c.want {
			t.Errorf("IsInsideRect(%+v, %+v) = %v, want %v", c.p, g, got, c.want)
		}
	}
}

func TestOverlapsXY(t *testing.T) {
	left := Geometry{X: 0, Y: 0, Width: 100, Height: 100}
	rightSameRow := Geometry{X: 100, Y: 20, Width: 100, Height: 50}
	below := Geometry{X: 0, Y: 100, Width: 100, Height: 100}

	if !OverlapsY(left, rightSameRow) {
		t.Errorf("expected vertical overlap between monitors in the same row")
	}
	if OverlapsY(left, below) {
		t.Errorf("expected no vertical overlap between stacked monitors")
	}
	if !OverlapsX(left, below) {
		t.Errorf("expected horizontal overlap between stacked monitors sharing X range")
	}
}

func TestGeometryEqualAndCenter(t *testing.T) {
	g := CreateGeometry(10, 20, 100, 50)
	if !g.Equal(Geometry{X: 10, Y: 20, Width: 100, Height: 50}) {
		t.Errorf("expected identical geometries to compare Equal")
	}
	if got := g.Center(); got != (Point{X: 60, Y: 45}) {
		t.Errorf("Center() = %+v, want {60 45}", got)
	}
}

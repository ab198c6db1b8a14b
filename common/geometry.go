package common

// Geometry describes a rectangle in root-window coordinates.
type Geometry struct {
	X      int // Left edge
	Y      int // Top edge
	Width  int // Pixel width
	Height int // Pixel height
}

// Point is a single root-window coordinate pair.
type Point struct {
	X int
	Y int
}

func CreateGeometry(x, y, w, h int) Geometry {
	return Geometry{X: x, Y: y, Width: w, Height: h}
}

func (g Geometry) Pieces() (x, y, w, h int) {
	return g.X, g.Y, g.Width, g.Height
}

func (g Geometry) Center() Point {
	return Point{X: g.X + g.Width/2, Y: g.Y + g.Height/2}
}

func (g Geometry) Empty() bool {
	return g.Width <= 0 || g.Height <= 0
}

func (g Geometry) Equal(o Geometry) bool {
	return g.X == o.X && g.Y == o.Y && g.Width == o.Width && g.Height == o.Height
}

// Overlap reports whether g and o share any area.
func (g Geometry) Overlap(o Geometry) bool {
	return g.X < o.X+o.Width && o.X < g.X+g.Width && g.Y < o.Y+o.Height && o.Y < g.Y+g.Height
}

func IsInsideRect(p Point, g Geometry) bool {
	return p.X >= g.X && p.X < g.X+g.Width && p.Y >= g.Y && p.Y < g.Y+g.Height
}

// OverlapsY reports whether two rectangles overlap along the vertical axis,
// used to pick monitor-traversal candidates for east/west movement.
func OverlapsY(a, b Geometry) bool {
	return b.Y < a.Y+a.Height && b.Y+b.Height > a.Y
}

// OverlapsX reports whether two rectangles overlap along the horizontal axis,
// used to pick monitor-traversal candidates for north/south movement.
func OverlapsX(a, b Geometry) bool {
	return b.X < a.X+a.Width && b.X+b.Width > a.X
}

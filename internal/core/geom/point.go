package geom

import "math"

// Point is a position on the board in global (world) coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LocalPoint is a position in local (screen) coordinates. Only the viewport
// converts between the two spaces.
type LocalPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Add(v Vector) Point {
	return Point{X: p.X + v.Direction.X, Y: p.Y + v.Direction.Y}
}

// Subtract returns the vector pointing from other to p, anchored at other.
func (p Point) Subtract(other Point) Vector {
	return Vector{Origin: other, Direction: Point{X: p.X - other.X, Y: p.Y - other.Y}}
}

// Distance computes the Euclidean distance between two points.
func Distance(a, b Point) float64 { return math.Hypot(b.X-a.X, b.Y-a.Y) }

func (p LocalPoint) Subtract(other LocalPoint) LocalPoint {
	return LocalPoint{X: p.X - other.X, Y: p.Y - other.Y}
}

func (p LocalPoint) Add(other LocalPoint) LocalPoint {
	return LocalPoint{X: p.X + other.X, Y: p.Y + other.Y}
}

// Round rounds half up, towards positive infinity, so that -0.5 becomes 0.
// Grid and pan arithmetic rely on this to stay symmetric with the client.
func Round(x float64) float64 { return math.Floor(x + 0.5) }

package geom

// Segment is a finite line between two global points.
type Segment struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

func (s Segment) Length() float64 { return Distance(s.Start, s.End) }

// Midpoint returns the point halfway between start and end.
func (s Segment) Midpoint() Point {
	return Point{X: (s.Start.X + s.End.X) / 2, Y: (s.Start.Y + s.End.Y) / 2}
}

// IntersectSegments returns the crossing point of two segments. Endpoints are
// inclusive; parallel and collinear segments report no intersection.
func IntersectSegments(a, b Segment) (Point, bool) {
	rx, ry := a.End.X-a.Start.X, a.End.Y-a.Start.Y
	sx, sy := b.End.X-b.Start.X, b.End.Y-b.Start.Y

	denom := rx*sy - ry*sx
	if denom == 0 {
		return Point{}, false
	}

	qx, qy := b.Start.X-a.Start.X, b.Start.Y-a.Start.Y
	t := (qx*sy - qy*sx) / denom
	u := (qx*ry - qy*rx) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Point{}, false
	}
	return Point{X: a.Start.X + t*rx, Y: a.Start.Y + t*ry}, true
}

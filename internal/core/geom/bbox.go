package geom

import "math"

// BoundingBox is an axis-aligned rectangle anchored at its top-left corner.
// Negative dimensions are accepted; the results are meaningless but safe.
type BoundingBox struct {
	Ref Point   `json:"ref"`
	W   float64 `json:"w"`
	H   float64 `json:"h"`
}

func NewBoundingBox(x, y, w, h float64) BoundingBox {
	return BoundingBox{Ref: Point{X: x, Y: y}, W: w, H: h}
}

func (b BoundingBox) Left() float64   { return b.Ref.X }
func (b BoundingBox) Right() float64  { return b.Ref.X + b.W }
func (b BoundingBox) Top() float64    { return b.Ref.Y }
func (b BoundingBox) Bottom() float64 { return b.Ref.Y + b.H }

func (b BoundingBox) Center() Point {
	return Point{X: b.Ref.X + b.W/2, Y: b.Ref.Y + b.H/2}
}

// Offset returns a copy of the box translated by the vector's direction.
func (b BoundingBox) Offset(v Vector) BoundingBox {
	b.Ref = b.Ref.Add(v)
	return b
}

// IntersectsWith reports whether two boxes overlap. Touching edges count.
func (b BoundingBox) IntersectsWith(other BoundingBox) bool {
	return b.Left() <= other.Right() && b.Right() >= other.Left() &&
		b.Top() <= other.Bottom() && b.Bottom() >= other.Top()
}

// Contains reports whether p lies inside the box or on its border.
func (b BoundingBox) Contains(p Point) bool {
	return p.X >= b.Left() && p.X <= b.Right() && p.Y >= b.Top() && p.Y <= b.Bottom()
}

// Edges returns the box border as segments in top, right, bottom, left order.
func (b BoundingBox) Edges() [4]Segment {
	tl := b.Ref
	tr := Point{X: b.Right(), Y: b.Top()}
	br := Point{X: b.Right(), Y: b.Bottom()}
	bl := Point{X: b.Left(), Y: b.Bottom()}
	return [4]Segment{
		{Start: tl, End: tr},
		{Start: tr, End: br},
		{Start: bl, End: br},
		{Start: tl, End: bl},
	}
}

// IntersectWithLine tests the segment against the box border and returns the
// crossing closest to the segment start. Ties keep the earlier edge in
// top, right, bottom, left order.
func (b BoundingBox) IntersectWithLine(line Segment) (Point, bool) {
	var (
		best  Point
		bestD = math.Inf(1)
		found bool
	)
	for _, edge := range b.Edges() {
		p, ok := IntersectSegments(edge, line)
		if !ok {
			continue
		}
		if d := Distance(line.Start, p); d < bestD {
			best, bestD, found = p, d, true
		}
	}
	return best, found
}

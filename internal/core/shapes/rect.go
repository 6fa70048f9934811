package shapes

import (
	"math"

	"github.com/zeusync/tabletop/internal/core/geom"
)

// Composite operations understood by the renderer.
const (
	CompositeSourceOver     = "source-over"
	CompositeDestinationOut = "destination-out"
)

const (
	Transparent     = "rgba(0, 0, 0, 0)"
	DefaultBorder   = Transparent
	DefaultRectFill = "#000"
)

// Resize handles, checked in this order.
var Corners = []string{"nw", "ne", "se", "sw"}

type Rect struct {
	base
	W, H               float64
	Fill               string
	Border             string
	CompositeOperation string
}

var _ Shape = (*Rect)(nil)

func NewRect(ref geom.Point, w, h float64, fill, border string) *Rect {
	if fill == "" {
		fill = DefaultRectFill
	}
	if border == "" {
		border = DefaultBorder
	}
	return &Rect{
		base:               newBase(ref),
		W:                  w,
		H:                  h,
		Fill:               fill,
		Border:             border,
		CompositeOperation: CompositeSourceOver,
	}
}

func (r *Rect) Kind() Kind { return KindRect }

func (r *Rect) BoundingBox() geom.BoundingBox {
	return geom.BoundingBox{Ref: r.ref, W: r.W, H: r.H}
}

func (r *Rect) Contains(p geom.Point) bool {
	return r.BoundingBox().Contains(p)
}

func (r *Rect) Center() geom.Point { return r.BoundingBox().Center() }

// SetCenter moves the rect so that its center lands on p.
func (r *Rect) SetCenter(p geom.Point) {
	r.ref = geom.Point{X: p.X - r.W/2, Y: p.Y - r.H/2}
}

// cornerPoint returns the position of the named resize handle.
func (r *Rect) cornerPoint(corner string) (geom.Point, bool) {
	switch corner {
	case "nw":
		return r.ref, true
	case "ne":
		return geom.Point{X: r.ref.X + r.W, Y: r.ref.Y}, true
	case "se":
		return geom.Point{X: r.ref.X + r.W, Y: r.ref.Y + r.H}, true
	case "sw":
		return geom.Point{X: r.ref.X, Y: r.ref.Y + r.H}, true
	}
	return geom.Point{}, false
}

// InCorner reports whether p is within tolerance of the named handle.
func (r *Rect) InCorner(p geom.Point, corner string, tolerance float64) bool {
	c, ok := r.cornerPoint(corner)
	if !ok {
		return false
	}
	return math.Abs(p.X-c.X) <= tolerance && math.Abs(p.Y-c.Y) <= tolerance
}

// Corner returns the resize handle under p, or "" when there is none.
func (r *Rect) Corner(p geom.Point, tolerance float64) string {
	for _, c := range Corners {
		if r.InCorner(p, c, tolerance) {
			return c
		}
	}
	return ""
}

// Normalize flips negative dimensions into the reference point so that the
// rect keeps covering the same area with non-negative width and height.
func (r *Rect) Normalize() {
	if r.W < 0 {
		r.ref.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.ref.Y += r.H
		r.H = -r.H
	}
}

// SpanPoints sets the rect to the box spanned by two corners.
func (r *Rect) SpanPoints(a, b geom.Point) {
	r.W = math.Abs(b.X - a.X)
	r.H = math.Abs(b.Y - a.Y)
	r.ref = geom.Point{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)}
}

func (r *Rect) Snapshot() Snapshot {
	s := r.snapshot(KindRect)
	s.W = r.W
	s.H = r.H
	s.FillColour = r.Fill
	s.StrokeColour = r.Border
	s.CompositeOperation = r.CompositeOperation
	return s
}

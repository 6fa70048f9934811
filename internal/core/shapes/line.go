package shapes

import (
	"math"

	"github.com/zeusync/tabletop/internal/core/geom"
)

type Line struct {
	base
	End   geom.Point
	Width float64
}

var _ Shape = (*Line)(nil)

func NewLine(start, end geom.Point) *Line {
	return &Line{base: newBase(start), End: end, Width: 1}
}

func (l *Line) Kind() Kind { return KindLine }

func (l *Line) Segment() geom.Segment {
	return geom.Segment{Start: l.ref, End: l.End}
}

func (l *Line) BoundingBox() geom.BoundingBox {
	return geom.NewBoundingBox(
		math.Min(l.ref.X, l.End.X),
		math.Min(l.ref.Y, l.End.Y),
		math.Abs(l.End.X-l.ref.X),
		math.Abs(l.End.Y-l.ref.Y),
	)
}

// Contains is always false; lines cannot be picked with the pointer.
func (l *Line) Contains(geom.Point) bool { return false }

func (l *Line) Snapshot() Snapshot {
	s := l.snapshot(KindLine)
	s.X2 = l.End.X
	s.Y2 = l.End.Y
	s.LineWidth = l.Width
	return s
}

package shapes

import "github.com/zeusync/tabletop/internal/core/geom"

// textExtent is the fixed box used for text hit and collision tests.
const textExtent = 5

type Text struct {
	base
	Text  string
	Font  string
	Angle float64
}

var _ Shape = (*Text)(nil)

func NewText(ref geom.Point, text, font string) *Text {
	return &Text{base: newBase(ref), Text: text, Font: font}
}

func (t *Text) Kind() Kind { return KindText }

func (t *Text) BoundingBox() geom.BoundingBox {
	return geom.BoundingBox{Ref: t.ref, W: textExtent, H: textExtent}
}

func (t *Text) Contains(geom.Point) bool { return false }

func (t *Text) Snapshot() Snapshot {
	s := t.snapshot(KindText)
	s.Text = t.Text
	s.Font = t.Font
	s.Angle = t.Angle
	return s
}

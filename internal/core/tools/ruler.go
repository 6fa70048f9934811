package tools

import (
	"math"
	"strconv"

	"github.com/zeusync/tabletop/internal/core/board"
	"github.com/zeusync/tabletop/internal/core/events"
	"github.com/zeusync/tabletop/internal/core/geom"
	"github.com/zeusync/tabletop/internal/core/shapes"
)

const rulerFont = "bold 20px serif"

// Ruler measures distances in board units. The measurement lives on the
// draw layer only while the mouse is held.
type Ruler struct {
	noContextMenu
	env Env

	active bool
	start  geom.Point
	line   *shapes.Line
	label  *shapes.Text
}

func NewRuler(env Env) *Ruler { return &Ruler{env: env.withDefaults()} }

func (t *Ruler) Name() string { return NameRuler }

func (t *Ruler) OnMouseDown(p Pointer) {
	layer, ok := t.env.layer(board.LayerDraw)
	if !ok {
		return
	}
	t.active = true
	t.start = t.env.Board.Viewport.L2G(p.Pos)
	t.line = shapes.NewLine(t.start, t.start)
	t.label = shapes.NewText(t.start, "", rulerFont)
	t.line.AddOwner(t.env.User.Name)
	t.label.AddOwner(t.env.User.Name)
	layer.AddShape(t.line, true, true)
	layer.AddShape(t.label, true, true)
}

func (t *Ruler) OnMouseMove(p Pointer) {
	if !t.active {
		return
	}
	layer, ok := t.env.layer(board.LayerDraw)
	if !ok {
		return
	}
	end := t.env.Board.Viewport.L2G(p.Pos)
	t.line.End = end
	t.env.publish(events.ShapeMove, events.ShapeMoved{Shape: t.line.Snapshot(), Temporary: true})

	m := Measure(t.start, end, t.env.Board.UnitSize, t.env.Board.GridSize)
	t.label.SetRefPoint(m.Midpoint)
	t.label.Text = m.Label
	t.label.Angle = m.Angle
	t.env.publish(events.ShapeMove, events.ShapeMoved{Shape: t.label.Snapshot(), Temporary: true})
	layer.Invalidate(true)
}

func (t *Ruler) OnMouseUp(Pointer) {
	if !t.active {
		return
	}
	t.active = false
	layer, ok := t.env.layer(board.LayerDraw)
	if !ok {
		return
	}
	layer.RemoveShape(t.line, true, true)
	layer.RemoveShape(t.label, true, true)
	layer.Invalidate(true)
}

// Measurement describes a ruler label.
type Measurement struct {
	Label    string
	Angle    float64
	Midpoint geom.Point
}

// Measure converts the distance between start and end into board units,
// rounded to a whole number. The angle keeps the label readable, never
// upside down.
func Measure(start, end geom.Point, unitSize, gridSize float64) Measurement {
	seg := geom.Segment{Start: start, End: end}
	dx, dy := end.X-start.X, end.Y-start.Y

	var units float64
	if gridSize > 0 {
		units = geom.Round(seg.Length() * unitSize / gridSize)
	}
	return Measurement{
		Label:    strconv.FormatFloat(units, 'f', -1, 64) + " ft",
		Angle:    math.Atan2(sign(dx)*sign(dy)*math.Abs(dy), math.Abs(dx)),
		Midpoint: seg.Midpoint(),
	}
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

package tools

import (
	"fmt"

	"github.com/zeusync/tabletop/internal/core/board"
	"github.com/zeusync/tabletop/internal/core/events"
	"github.com/zeusync/tabletop/internal/core/geom"
	"github.com/zeusync/tabletop/internal/core/shapes"
)

// Draw spans a new rect between mouse down and mouse up. Every drawn rect
// blocks light; rects drawn on the fog of war layer also obstruct movement.
type Draw struct {
	noContextMenu
	env Env

	Fill   string
	Border string

	active bool
	start  geom.Point
	rect   *shapes.Rect
}

func NewDraw(env Env) *Draw {
	return &Draw{env: env.withDefaults(), Fill: shapes.DefaultRectFill, Border: shapes.DefaultBorder}
}

func (t *Draw) Name() string { return NameDraw }

func (t *Draw) Configure(opts Options) error {
	if opts.Reveal != nil || opts.XCount != nil || opts.YCount != nil {
		return fmt.Errorf("%w: draw accepts fill and border only", ErrInvalidOption)
	}
	if opts.Fill != nil {
		t.Fill = *opts.Fill
	}
	if opts.Border != nil {
		t.Border = *opts.Border
	}
	return nil
}

func (t *Draw) OnMouseDown(p Pointer) {
	layer, ok := t.env.activeLayer()
	if !ok {
		return
	}
	t.active = true
	t.start = t.env.Board.Viewport.L2G(p.Pos)
	t.rect = shapes.NewRect(t.start, 0, 0, t.Fill, t.Border)
	t.rect.AddOwner(t.env.User.Name)

	if layer.Name == board.LayerFOW {
		t.rect.SetVisionObstruction(true)
		t.rect.SetMovementObstruction(true)
	}
	t.env.Board.AddVisionBlocker(t.rect.ID())
	if t.rect.MovementObstruction() {
		t.env.Board.AddMovementBlocker(t.rect.ID())
	}
	layer.AddShape(t.rect, true, false)
}

func (t *Draw) OnMouseMove(p Pointer) {
	if !t.active {
		return
	}
	layer, ok := t.env.activeLayer()
	if !ok {
		return
	}
	t.rect.SpanPoints(t.start, t.env.Board.Viewport.L2G(p.Pos))
	t.env.publish(events.ShapeMove, events.ShapeMoved{Shape: t.rect.Snapshot()})
	layer.Invalidate(false)
}

func (t *Draw) OnMouseUp(Pointer) { t.active = false }

package tools

import (
	"fmt"

	"github.com/zeusync/tabletop/internal/core/board"
	"github.com/zeusync/tabletop/internal/core/events"
	"github.com/zeusync/tabletop/internal/core/geom"
	"github.com/zeusync/tabletop/internal/core/shapes"
)

// FOW paints fog on the fog of war layer, or erases it in reveal mode.
type FOW struct {
	noContextMenu
	env Env

	Reveal bool

	active bool
	start  geom.Point
	rect   *shapes.Rect
}

func NewFOW(env Env) *FOW { return &FOW{env: env.withDefaults()} }

func (t *FOW) Name() string { return NameFOW }

func (t *FOW) Configure(opts Options) error {
	if opts.Fill != nil || opts.Border != nil || opts.XCount != nil || opts.YCount != nil {
		return fmt.Errorf("%w: fow accepts reveal only", ErrInvalidOption)
	}
	if opts.Reveal != nil {
		t.Reveal = *opts.Reveal
	}
	return nil
}

func (t *FOW) OnMouseDown(p Pointer) {
	layer, ok := t.env.layer(board.LayerFOW)
	if !ok {
		return
	}
	t.active = true
	t.start = t.env.Board.Viewport.L2G(p.Pos)
	t.rect = shapes.NewRect(t.start, 0, 0, t.env.Board.FOWColour, "")
	t.rect.AddOwner(t.env.User.Name)
	if t.Reveal {
		t.rect.CompositeOperation = shapes.CompositeDestinationOut
	} else {
		t.rect.CompositeOperation = shapes.CompositeSourceOver
	}
	layer.AddShape(t.rect, true, false)
}

func (t *FOW) OnMouseMove(p Pointer) {
	if !t.active {
		return
	}
	layer, ok := t.env.layer(board.LayerFOW)
	if !ok {
		return
	}
	t.rect.SpanPoints(t.start, t.env.Board.Viewport.L2G(p.Pos))
	t.env.publish(events.ShapeMove, events.ShapeMoved{Shape: t.rect.Snapshot()})
	layer.Invalidate(false)
}

func (t *FOW) OnMouseUp(Pointer) { t.active = false }

package tools

import (
	"fmt"

	"github.com/zeusync/tabletop/internal/core/events"
	"github.com/zeusync/tabletop/internal/core/geom"
	"github.com/zeusync/tabletop/internal/core/shapes"
)

const defaultMapCells = 3

// Map rescales the selected map image so that the rect drawn with the tool
// spans XCount by YCount grid cells.
type Map struct {
	noContextMenu
	env Env

	XCount int
	YCount int

	active bool
	start  geom.Point
	rect   *shapes.Rect
}

func NewMap(env Env) *Map {
	return &Map{env: env.withDefaults(), XCount: defaultMapCells, YCount: defaultMapCells}
}

func (t *Map) Name() string { return NameMap }

func (t *Map) Configure(opts Options) error {
	if opts.Fill != nil || opts.Border != nil || opts.Reveal != nil {
		return fmt.Errorf("%w: map accepts cell counts only", ErrInvalidOption)
	}
	if opts.XCount != nil {
		if *opts.XCount <= 0 {
			return fmt.Errorf("%w: xCount must be positive", ErrInvalidOption)
		}
		t.XCount = *opts.XCount
	}
	if opts.YCount != nil {
		if *opts.YCount <= 0 {
			return fmt.Errorf("%w: yCount must be positive", ErrInvalidOption)
		}
		t.YCount = *opts.YCount
	}
	return nil
}

func (t *Map) OnMouseDown(p Pointer) {
	layer, ok := t.env.activeLayer()
	if !ok {
		return
	}
	t.active = true
	t.start = t.env.Board.Viewport.L2G(p.Pos)
	t.rect = shapes.NewRect(t.start, 0, 0, shapes.Transparent, "black")
	layer.AddShape(t.rect, false, false)
}

func (t *Map) OnMouseMove(p Pointer) {
	if !t.active {
		return
	}
	layer, ok := t.env.activeLayer()
	if !ok {
		return
	}
	t.rect.SpanPoints(t.start, t.env.Board.Viewport.L2G(p.Pos))
	layer.Invalidate(false)
}

func (t *Map) OnMouseUp(Pointer) {
	if !t.active {
		return
	}
	t.active = false
	layer, ok := t.env.activeLayer()
	if !ok {
		return
	}
	defer layer.RemoveShape(t.rect, false, false)

	selection := layer.Selection()
	if len(selection) != 1 {
		return
	}
	target, ok := selection[0].(*shapes.Rect)
	if !ok || t.rect.W == 0 || t.rect.H == 0 {
		return
	}
	gs := t.env.Board.GridSize
	target.W *= float64(t.XCount) * gs / t.rect.W
	target.H *= float64(t.YCount) * gs / t.rect.H
	t.env.publish(events.ShapeMove, events.ShapeMoved{Shape: target.Snapshot()})
	layer.Invalidate(false)
}

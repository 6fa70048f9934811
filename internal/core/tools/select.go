package tools

import (
	"slices"

	"github.com/zeusync/tabletop/internal/core/board"
	"github.com/zeusync/tabletop/internal/core/events"
	"github.com/zeusync/tabletop/internal/core/geom"
	"github.com/zeusync/tabletop/internal/core/shapes"
)

// SelectMode is the state of the select tool between mouse down and up.
type SelectMode int

const (
	ModeNoop SelectMode = iota
	ModeResize
	ModeDrag
	ModeGroupSelect
)

// cornerTolerance is the resize handle size in local pixels.
const cornerTolerance = 3

// Select picks, drags and resizes shapes on the active layer. Dragging on
// the tokens layer is constrained by the board's movement blockers.
type Select struct {
	env Env

	mode      SelectMode
	resizeDir string
	dragOff   geom.LocalPoint
	moved     bool
	cursor    string

	selectionStart  geom.Point
	selectionHelper *shapes.Rect
}

func NewSelect(env Env) *Select {
	env = env.withDefaults()
	helper := shapes.NewRect(geom.Point{}, 0, 0, shapes.Transparent, "#82c8a0")
	helper.AddOwner(env.User.Name)
	return &Select{env: env, cursor: "default", selectionHelper: helper}
}

func (t *Select) Name() string { return NameSelect }

func (t *Select) Mode() SelectMode { return t.mode }

// Cursor is the pointer style matching what is under the mouse.
func (t *Select) Cursor() string { return t.cursor }

func (t *Select) OnMouseDown(p Pointer) {
	layer, ok := t.env.activeLayer()
	if !ok {
		return
	}
	vp := t.env.Board.Viewport
	g := vp.L2G(p.Pos)

	stack := append(layer.Shapes(), layer.Selection()...)
	for i := len(stack) - 1; i >= 0; i-- {
		shape := stack[i]
		if corner := t.corner(shape, g); corner != "" {
			if !shape.OwnedBy(t.env.User.Name, t.env.User.IsDM) {
				continue
			}
			layer.SetSelection(shape)
			t.mode = ModeResize
			t.resizeDir = corner
			layer.Invalidate(true)
			return
		}
		if shape.Contains(g) {
			if !shape.OwnedBy(t.env.User.Name, t.env.User.IsDM) {
				continue
			}
			if !layer.IsSelected(shape) {
				layer.SetSelection(shape)
			}
			t.mode = ModeDrag
			t.moved = false
			t.dragOff = p.Pos.Subtract(vp.G2L(shape.RefPoint()))
			layer.Invalidate(true)
			return
		}
	}

	t.mode = ModeGroupSelect
	t.selectionStart = g
	t.selectionHelper.SpanPoints(g, g)
	layer.SetSelection(t.selectionHelper)
	layer.Invalidate(true)
}

func (t *Select) OnMouseMove(p Pointer) {
	layer, ok := t.env.activeLayer()
	if !ok {
		return
	}
	vp := t.env.Board.Viewport
	g := vp.L2G(p.Pos)

	if t.mode == ModeGroupSelect {
		t.selectionHelper.SpanPoints(t.selectionStart, g)
		layer.Invalidate(true)
		return
	}

	selection := layer.Selection()
	if len(selection) == 0 {
		t.cursor = "default"
		return
	}

	switch t.mode {
	case ModeDrag:
		t.drag(layer, selection, p)
	case ModeResize:
		t.resize(layer, selection, p)
	default:
		t.hover(selection, g)
	}
}

func (t *Select) drag(layer *board.Layer, selection []shapes.Shape, p Pointer) {
	vp := t.env.Board.Viewport
	anchor := vp.G2L(selection[len(selection)-1].RefPoint())
	delta := vp.L2GVector(p.Pos.Subtract(anchor.Add(t.dragOff)))

	if layer.Name == board.LayerTokens {
		delta = t.constrain(delta, selection)
	}

	for _, sel := range selection {
		sel.SetRefPoint(sel.RefPoint().Add(delta))
		if sel != shapes.Shape(t.selectionHelper) {
			t.env.publish(events.ShapeMove, events.ShapeMoved{Shape: sel.Snapshot(), Temporary: true})
		}
	}
	if !delta.IsZero() {
		t.moved = true
	}
	layer.Invalidate(false)
}

// constrain clips delta against every movement blocker that is not itself
// part of the selection.
func (t *Select) constrain(delta geom.Vector, selection []shapes.Shape) geom.Vector {
	boxes := make([]geom.BoundingBox, 0, len(selection))
	selected := make([]string, 0, len(selection))
	for _, sel := range selection {
		if sel == shapes.Shape(t.selectionHelper) {
			continue
		}
		boxes = append(boxes, sel.BoundingBox())
		selected = append(selected, sel.ID())
	}
	blockers := slices.DeleteFunc(t.env.Board.MovementBlockers(), func(id string) bool {
		return slices.Contains(selected, id)
	})
	return t.env.Resolver.ResolveSelection(delta, boxes, blockers, t.env.Board.Registry()).Delta
}

func (t *Select) resize(layer *board.Layer, selection []shapes.Shape, p Pointer) {
	vp := t.env.Board.Viewport
	z := vp.Zoom
	if z <= 0 {
		z = 1
	}
	mouse := p.Pos
	for _, sel := range selection {
		r, ok := sel.(*shapes.Rect)
		if !ok {
			continue
		}
		ref := r.RefPoint()
		local := vp.G2L(ref)
		w, h := r.W*z, r.H*z
		switch t.resizeDir {
		case "nw":
			w, h = local.X+w-mouse.X, local.Y+h-mouse.Y
			ref = vp.L2G(mouse)
		case "ne":
			w, h = mouse.X-local.X, local.Y+h-mouse.Y
			ref.Y = vp.L2GY(mouse.Y)
		case "se":
			w, h = mouse.X-local.X, mouse.Y-local.Y
		case "sw":
			w, h = local.X+w-mouse.X, mouse.Y-local.Y
			ref.X = vp.L2GX(mouse.X)
		}
		r.SetRefPoint(ref)
		r.W, r.H = w/z, h/z
		t.env.publish(events.ShapeMove, events.ShapeMoved{Shape: r.Snapshot(), Temporary: true})
		layer.Invalidate(false)
	}
}

func (t *Select) hover(selection []shapes.Shape, g geom.Point) {
	t.cursor = "default"
	for _, sel := range selection {
		if corner := t.corner(sel, g); corner != "" {
			t.cursor = corner + "-resize"
			return
		}
	}
}

func (t *Select) OnMouseUp(p Pointer) {
	defer func() { t.mode = ModeNoop }()

	layer, ok := t.env.activeLayer()
	if !ok {
		return
	}

	if t.mode == ModeGroupSelect {
		t.finishGroupSelect(layer)
		return
	}

	snap := t.env.Board.UseGrid && !p.Alt
	for _, sel := range layer.Selection() {
		r, ok := sel.(*shapes.Rect)
		if !ok {
			continue
		}
		switch t.mode {
		case ModeDrag:
			if !t.moved {
				continue
			}
			if snap {
				t.env.Board.SnapToGrid(r)
			}
			if r != t.selectionHelper {
				t.env.publish(events.ShapeMove, events.ShapeMoved{Shape: r.Snapshot()})
			}
			layer.Invalidate(false)
		case ModeResize:
			r.Normalize()
			if snap {
				t.env.Board.SnapResize(r)
			}
			t.env.publish(events.ShapeMove, events.ShapeMoved{Shape: r.Snapshot()})
			layer.Invalidate(false)
		}
	}
}

// finishGroupSelect selects every owned shape touching the rubber band. The
// band stays selected on top so the group can be dragged by it.
func (t *Select) finishGroupSelect(layer *board.Layer) {
	t.selectionHelper.Normalize()
	band := t.selectionHelper.BoundingBox()

	layer.SetSelection()
	for _, shape := range layer.Shapes() {
		if shape == shapes.Shape(t.selectionHelper) {
			continue
		}
		if !shape.OwnedBy(t.env.User.Name, t.env.User.IsDM) {
			continue
		}
		if band.IntersectsWith(shape.BoundingBox()) {
			layer.AddToSelection(shape)
		}
	}
	if len(layer.Selection()) > 0 {
		layer.AddToSelection(t.selectionHelper)
	}
	layer.Invalidate(true)
}

// OnContextMenu opens the menu of the topmost shape under the pointer.
func (t *Select) OnContextMenu(p Pointer) {
	layer, ok := t.env.activeLayer()
	if !ok {
		return
	}
	g := t.env.Board.Viewport.L2G(p.Pos)
	stack := layer.Shapes()
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].Contains(g) {
			t.env.publish(events.ShapeContextMenu, events.ContextMenu{UUID: stack[i].ID(), Position: p.Pos})
			return
		}
	}
}

func (t *Select) corner(s shapes.Shape, g geom.Point) string {
	r, ok := s.(*shapes.Rect)
	if !ok {
		return ""
	}
	return r.Corner(g, t.env.Board.Viewport.L2GZ(cornerTolerance))
}

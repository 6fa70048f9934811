package tools

import (
	"github.com/zeusync/tabletop/internal/core/events"
	"github.com/zeusync/tabletop/internal/core/geom"
)

// Pan moves the viewport. The final position is stored as a client option
// for the current location.
type Pan struct {
	noContextMenu
	env Env

	active   bool
	panStart geom.LocalPoint
}

func NewPan(env Env) *Pan { return &Pan{env: env.withDefaults()} }

func (t *Pan) Name() string { return NamePan }

func (t *Pan) OnMouseDown(p Pointer) {
	t.panStart = p.Pos
	t.active = true
}

func (t *Pan) OnMouseMove(p Pointer) {
	if !t.active {
		return
	}
	vp := &t.env.Board.Viewport
	distance := vp.L2GVector(p.Pos.Subtract(t.panStart))
	vp.PanX += geom.Round(distance.X())
	vp.PanY += geom.Round(distance.Y())
	t.panStart = p.Pos
	t.env.Board.InvalidateAll()
}

func (t *Pan) OnMouseUp(Pointer) {
	if !t.active {
		return
	}
	t.active = false
	vp := t.env.Board.Viewport
	t.env.publish(events.ClientLocationOptions, events.LocationOptions{
		Key:  t.env.Board.LocationKey(),
		PanX: vp.PanX,
		PanY: vp.PanY,
	})
}

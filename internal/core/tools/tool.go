// Package tools implements the interaction tools of a board: selecting and
// dragging shapes, panning, drawing, measuring, fog of war and map scaling.
// Tools consume pointer events in local coordinates and mutate the board of
// the session they belong to.
package tools

import (
	"github.com/zeusync/tabletop/internal/core/board"
	"github.com/zeusync/tabletop/internal/core/events"
	"github.com/zeusync/tabletop/internal/core/geom"
	"github.com/zeusync/tabletop/internal/core/movement"
	"github.com/zeusync/tabletop/internal/core/observability/log"
)

// Tool names.
const (
	NameSelect = "select"
	NamePan    = "pan"
	NameDraw   = "draw"
	NameRuler  = "ruler"
	NameFOW    = "fow"
	NameMap    = "map"
)

// Pointer is one pointer event. Alt disables grid snapping.
type Pointer struct {
	Pos geom.LocalPoint
	Alt bool
}

type Tool interface {
	Name() string
	OnMouseDown(p Pointer)
	OnMouseMove(p Pointer)
	OnMouseUp(p Pointer)
	OnContextMenu(p Pointer)
}

// Configurable tools accept detail options.
type Configurable interface {
	Configure(opts Options) error
}

// Options holds detail settings. Nil fields are left unchanged.
type Options struct {
	Fill   *string `json:"fill,omitempty"`
	Border *string `json:"border,omitempty"`
	Reveal *bool   `json:"reveal,omitempty"`
	XCount *int    `json:"xCount,omitempty"`
	YCount *int    `json:"yCount,omitempty"`
}

// User is the participant driving a toolset.
type User struct {
	Name string
	IsDM bool
}

// Env is what every tool of one participant shares.
type Env struct {
	Board     *board.Board
	User      User
	Publisher events.Publisher
	Resolver  *movement.Resolver
	Logger    log.Log
}

func (e Env) withDefaults() Env {
	if e.Logger == nil {
		e.Logger = log.NewNop()
	}
	if e.Publisher == nil {
		e.Publisher = events.Discard{}
	}
	if e.Resolver == nil {
		e.Resolver = movement.NewResolver(e.Logger)
	}
	return e
}

func (e Env) publish(eventType string, data any) {
	if err := e.Publisher.Publish(eventType, data); err != nil {
		e.Logger.Warn("publish failed", log.String("event", eventType), log.Error(err))
	}
}

// activeLayer returns the active layer or logs and reports false.
func (e Env) activeLayer() (*board.Layer, bool) {
	l, ok := e.Board.ActiveLayer()
	if !ok {
		e.Logger.Warn("no active layer")
	}
	return l, ok
}

func (e Env) layer(name string) (*board.Layer, bool) {
	l, ok := e.Board.Layer(name)
	if !ok {
		e.Logger.Warn("layer missing", log.String("layer", name))
	}
	return l, ok
}

// noContextMenu is embedded by tools without a context menu.
type noContextMenu struct{}

func (noContextMenu) OnContextMenu(Pointer) {}

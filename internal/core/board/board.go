package board

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/zeusync/tabletop/internal/core/events"
	"github.com/zeusync/tabletop/internal/core/geom"
	"github.com/zeusync/tabletop/internal/core/observability/log"
	"github.com/zeusync/tabletop/internal/core/shapes"
)

var ErrUnknownLayer = errors.New("unknown layer")

// Settings configures a new board.
type Settings struct {
	Layers      []string
	ActiveLayer string
	GridSize    float64
	UnitSize    float64
	UseGrid     bool
	FOWColour   string
	Zoom        float64

	RoomName     string
	RoomCreator  string
	LocationName string
}

func DefaultSettings() Settings {
	return Settings{
		Layers:       []string{LayerMap, LayerGrid, LayerTokens, LayerDraw, LayerFOW},
		ActiveLayer:  LayerTokens,
		GridSize:     50,
		UnitSize:     5,
		UseGrid:      true,
		FOWColour:    "rgba(0, 0, 0, 1)",
		Zoom:         1,
		LocationName: "start",
	}
}

// Board is the layer manager of one location: layers, the shape registry,
// blocker lists, grid settings and the viewport. It is not safe for
// concurrent use; the owning session serialises access.
type Board struct {
	layers []*Layer
	active int

	registry         *Registry
	movementBlockers []string
	visionBlockers   []string

	GridSize  float64
	UnitSize  float64
	UseGrid   bool
	FOWColour string
	Viewport  Viewport

	RoomName     string
	RoomCreator  string
	LocationName string

	publisher events.Publisher
	logger    log.Log
}

// New builds a board. A nil publisher drops notifications.
func New(settings Settings, publisher events.Publisher, logger log.Log) (*Board, error) {
	if len(settings.Layers) == 0 {
		settings.Layers = DefaultSettings().Layers
	}
	if publisher == nil {
		publisher = events.Discard{}
	}
	if logger == nil {
		logger = log.NewNop()
	}

	b := &Board{
		registry:     NewRegistry(),
		GridSize:     settings.GridSize,
		UnitSize:     settings.UnitSize,
		UseGrid:      settings.UseGrid,
		FOWColour:    settings.FOWColour,
		Viewport:     Viewport{Zoom: settings.Zoom},
		RoomName:     settings.RoomName,
		RoomCreator:  settings.RoomCreator,
		LocationName: settings.LocationName,
		publisher:    publisher,
		logger:       logger.With(log.String("component", "board")),
	}
	for _, name := range settings.Layers {
		if _, exists := b.Layer(name); exists {
			return nil, fmt.Errorf("duplicate layer %q", name)
		}
		b.layers = append(b.layers, &Layer{Name: name, board: b})
	}

	b.active = len(b.layers) - 1
	if settings.ActiveLayer != "" {
		if err := b.SetActiveLayer(settings.ActiveLayer); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (b *Board) Layers() []*Layer { return slices.Clone(b.layers) }

func (b *Board) Layer(name string) (*Layer, bool) {
	for _, l := range b.layers {
		if l.Name == name {
			return l, true
		}
	}
	return nil, false
}

// ActiveLayer returns the layer tools operate on.
func (b *Board) ActiveLayer() (*Layer, bool) {
	if b.active < 0 || b.active >= len(b.layers) {
		return nil, false
	}
	return b.layers[b.active], true
}

func (b *Board) SetActiveLayer(name string) error {
	for i, l := range b.layers {
		if l.Name == name {
			b.active = i
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownLayer, name)
}

func (b *Board) Registry() *Registry { return b.registry }

func (b *Board) Lookup(id string) (shapes.Shape, bool) { return b.registry.Get(id) }

// MovementBlockers returns the ordered ids of shapes that block movement.
func (b *Board) MovementBlockers() []string { return slices.Clone(b.movementBlockers) }

func (b *Board) VisionBlockers() []string { return slices.Clone(b.visionBlockers) }

func (b *Board) AddMovementBlocker(id string) {
	if !slices.Contains(b.movementBlockers, id) {
		b.movementBlockers = append(b.movementBlockers, id)
	}
}

func (b *Board) AddVisionBlocker(id string) {
	if !slices.Contains(b.visionBlockers, id) {
		b.visionBlockers = append(b.visionBlockers, id)
	}
}

func (b *Board) forgetBlocker(id string) {
	b.movementBlockers = slices.DeleteFunc(b.movementBlockers, func(x string) bool { return x == id })
	b.visionBlockers = slices.DeleteFunc(b.visionBlockers, func(x string) bool { return x == id })
}

// LocationKey identifies the current location in client options.
func (b *Board) LocationKey() string {
	return b.RoomName + "/" + b.RoomCreator + "/" + b.LocationName
}

// SnapToGrid centers r on the grid. Rects spanning an even number of cells
// snap their center to a grid line, odd ones to a cell center.
func (b *Board) SnapToGrid(r *shapes.Rect) {
	gs := b.GridSize
	if gs <= 0 {
		return
	}
	c := r.Center()
	ref := r.RefPoint()
	ref.X = snapAxis(c.X, r.W, gs)
	ref.Y = snapAxis(c.Y, r.H, gs)
	r.SetRefPoint(ref)
}

func snapAxis(center, size, gs float64) float64 {
	if math.Mod(size/gs, 2) == 0 {
		return geom.Round(center/gs)*gs - size/2
	}
	return (geom.Round((center+gs/2)/gs)-0.5)*gs - size/2
}

// SnapResize aligns a resized rect to the grid; each side spans at least
// one cell.
func (b *Board) SnapResize(r *shapes.Rect) {
	gs := b.GridSize
	if gs <= 0 {
		return
	}
	ref := r.RefPoint()
	r.SetRefPoint(geom.Point{X: geom.Round(ref.X/gs) * gs, Y: geom.Round(ref.Y/gs) * gs})
	r.W = math.Max(geom.Round(r.W/gs)*gs, gs)
	r.H = math.Max(geom.Round(r.H/gs)*gs, gs)
}

func (b *Board) publish(eventType string, data any) {
	if err := b.publisher.Publish(eventType, data); err != nil {
		b.logger.Warn("publish failed", log.String("event", eventType), log.Error(err))
	}
}

// Publish forwards a notification to the board's publisher.
func (b *Board) Publish(eventType string, data any) { b.publish(eventType, data) }

// InvalidateAll marks every layer for a full redraw.
func (b *Board) InvalidateAll() {
	for _, l := range b.layers {
		l.Invalidate(true)
	}
}
